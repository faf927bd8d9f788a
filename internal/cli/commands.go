package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	apperrors "github.com/kbukum/rallykit/errors"
	"github.com/kbukum/rallykit/restapi"
)

func newGetCmd(a *app) *cobra.Command {
	var (
		fetch []string
		scope scopeFlags
	)
	cmd := &cobra.Command{
		Use:   "get <ref>",
		Short: "Read one object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.client.Get(cmd.Context(), restapi.Operation{
				Ref:   args[0],
				Fetch: fetch,
				Scope: scope.scope(),
			}, nil)
			if err != nil {
				return err
			}
			res, err := f.Await(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringSliceVar(&fetch, "fetch", nil, "fields to return, comma separated")
	scope.register(cmd.Flags())
	return cmd
}

func newQueryCmd(a *app) *cobra.Command {
	var (
		op    restapi.QueryOperation
		where string
		scope scopeFlags
	)
	cmd := &cobra.Command{
		Use:   "query <type>",
		Short: "Read one page of objects of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op.Type = args[0]
			op.Scope = scope.scope()
			if where != "" {
				op.Where = where
			}
			f, err := a.client.Query(cmd.Context(), op, nil)
			if err != nil {
				return err
			}
			res, err := f.Await(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	fs := cmd.Flags()
	fs.StringSliceVar(&op.Fetch, "fetch", nil, "fields to return, comma separated")
	fs.StringVar(&where, "where", "", `where clause, e.g. '(State = "Open")'`)
	fs.StringVar(&op.Order, "order", "", "sort order, e.g. 'Rank desc'")
	fs.IntVar(&op.Start, "start", 0, "1-based start index")
	fs.IntVar(&op.PageSize, "pagesize", 0, "page size")
	scope.register(fs)
	return cmd
}

func newCreateCmd(a *app) *cobra.Command {
	var (
		data  string
		fetch []string
		scope scopeFlags
	)
	cmd := &cobra.Command{
		Use:   "create <type>",
		Short: "Create an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseData(data)
			if err != nil {
				return err
			}
			f, err := a.client.Create(cmd.Context(), restapi.Operation{
				Type:  args[0],
				Data:  fields,
				Fetch: fetch,
				Scope: scope.scope(),
			}, nil)
			if err != nil {
				return err
			}
			payload, err := f.Await(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), payload)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", `fields as a JSON object, or @file`)
	cmd.Flags().StringSliceVar(&fetch, "fetch", nil, "fields to return, comma separated")
	scope.register(cmd.Flags())
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		data  string
		fetch []string
		scope scopeFlags
	)
	cmd := &cobra.Command{
		Use:   "update <ref>",
		Short: "Update fields of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseData(data)
			if err != nil {
				return err
			}
			f, err := a.client.Update(cmd.Context(), restapi.Operation{
				Ref:   args[0],
				Data:  fields,
				Fetch: fetch,
				Scope: scope.scope(),
			}, nil)
			if err != nil {
				return err
			}
			payload, err := f.Await(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), payload)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", `fields as a JSON object, or @file`)
	cmd.Flags().StringSliceVar(&fetch, "fetch", nil, "fields to return, comma separated")
	scope.register(cmd.Flags())
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var scope scopeFlags
	cmd := &cobra.Command{
		Use:   "delete <ref>",
		Short: "Delete an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.client.Delete(cmd.Context(), restapi.Operation{
				Ref:   args[0],
				Scope: scope.scope(),
			}, nil)
			if err != nil {
				return err
			}
			payload, err := f.Await(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), payload)
		},
	}
	scope.register(cmd.Flags())
	return cmd
}

// PrintError writes err to w as an error response object.
func PrintError(w io.Writer, err error) {
	_ = printJSON(w, apperrors.ResponseFor(err))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
