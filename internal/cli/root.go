package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/rallykit/version"
)

const stopTimeout = 10 * time.Second

// Execute runs rallyctl with the process arguments.
func Execute(ctx context.Context) error {
	root, stop := NewRootCmd()
	err := root.ExecuteContext(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return errors.Join(err, stop(stopCtx))
}

// NewRootCmd builds the command tree. The returned function releases the
// client and telemetry after the command has run.
func NewRootCmd() (*cobra.Command, func(context.Context) error) {
	a := &app{}

	root := &cobra.Command{
		Use:           appName + " <command> [args]",
		Short:         "Command line client for the Rally WSAPI",
		Long:          longDescription,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.start(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.opts.configFile, "config", "", "config file (default: ./rallyctl.yml, ~/.config/rallyctl/config.yml)")
	pf.StringVar(&a.opts.envFile, "env-file", "", "env file to load before reading RALLY_* variables")
	pf.StringVar(&a.opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&a.opts.otelEndpoint, "otel-endpoint", "", "OTLP HTTP endpoint for traces and metrics")

	root.AddCommand(
		newGetCmd(a),
		newQueryCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
	)
	return root, a.stop
}

const longDescription = `rallyctl reads and writes Rally objects through the WSAPI.

Credentials come from the rally section of the config file or from the
RALLY_SERVER, RALLY_USERNAME, RALLY_PASSWORD and RALLY_APIKEY variables.
Results are printed as JSON.`
