package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/rallykit/component"
	"github.com/kbukum/rallykit/config"
	"github.com/kbukum/rallykit/logger"
	"github.com/kbukum/rallykit/observability"
	"github.com/kbukum/rallykit/restapi"
)

// options are the global flags.
type options struct {
	configFile   string
	envFile      string
	logLevel     string
	otelEndpoint string
}

// app owns the state a command runs with: config, logger, telemetry and
// the started client component.
type app struct {
	opts options

	cfg      *Config
	log      *logger.Logger
	registry *component.Registry
	client   *restapi.Client
	shutdown func(context.Context) error
}

// start loads configuration, sets up logging and telemetry and starts the
// client.
func (a *app) start(ctx context.Context) error {
	cfg := &Config{}
	if err := config.LoadConfig(appName, cfg,
		config.WithConfigFile(a.opts.configFile),
		config.WithEnvFile(a.opts.envFile),
	); err != nil {
		return err
	}
	if a.opts.logLevel != "" {
		cfg.Logging.Level = a.opts.logLevel
	}
	if a.opts.otelEndpoint != "" {
		cfg.Telemetry.Endpoint = a.opts.otelEndpoint
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	a.cfg = cfg

	logger.Init(cfg.Logging)
	a.log = logger.GetGlobalLogger()

	shutdown, err := observability.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	a.shutdown = shutdown

	clientOpts := []restapi.Option{restapi.WithLogger(logger.WithComponent("restapi"))}
	if cfg.Telemetry.Endpoint != "" {
		metrics, err := observability.NewMetrics(observability.Meter(appName))
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		clientOpts = append(clientOpts, restapi.WithMetrics(metrics))
	}

	rc := restapi.NewComponent(cfg.Rally, clientOpts...)
	a.registry = component.NewRegistry(a.log)
	if err := a.registry.Register(rc); err != nil {
		return err
	}
	if err := a.registry.StartAll(ctx); err != nil {
		return err
	}
	a.client = rc.Client()
	return nil
}

// stop releases everything start acquired. It is safe to call when start
// did not run or failed part way.
func (a *app) stop(ctx context.Context) error {
	var errs []error
	if a.registry != nil {
		errs = append(errs, a.registry.StopAll(ctx))
	}
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(ctx))
	}
	return errors.Join(errs...)
}
