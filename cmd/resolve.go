package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/infrastructure/sqlite"
	"github.com/zjrosen/attrsel/internal/presentation"
	"github.com/zjrosen/attrsel/internal/selector"
)

var (
	resolveSet    string
	resolveFormat string
	resolveSQL    bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <type> [selector]",
	Short: "Resolve a selector against a type",
	Long: `Resolve a selector against the registry of a type and print the selected
descriptors in order.

Without a selector the default set is printed: the properties shown when
nothing was asked for. --set registered prints every registered property.

Examples:
  attrsel resolve Order
  attrsel resolve Order "*, customer.*, ~internalNote"
  attrsel resolve Order "lines[].sku" --format json
  attrsel resolve orders "number, customers.name" --db shop.db --sql`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := presentation.ParseFormat(resolveFormat)
		if err != nil {
			return err
		}

		env, err := openEnvironment(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer func() { _ = env.Close() }()

		text := ""
		if len(args) == 2 {
			text = args[1]
		}
		return runResolve(cmd.Context(), cmd.OutOrStdout(), env, resolveRequest{
			Type:     args[0],
			Selector: text,
			Set:      resolveSet,
			Format:   format,
			SQL:      resolveSQL,
		})
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveSet, "set", "default", "set printed without a selector: default or registered")
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "table", "output format: table or json")
	resolveCmd.Flags().BoolVar(&resolveSQL, "sql", false, "print the SELECT projecting the result (SQLite types only)")
	rootCmd.AddCommand(resolveCmd)
}

type resolveRequest struct {
	Type     string
	Selector string
	Set      string
	Format   presentation.Format
	SQL      bool
}

func runResolve(ctx context.Context, w io.Writer, env *environment, req resolveRequest) error {
	reg, err := env.registry(ctx, req.Type)
	if err != nil {
		return err
	}

	var ds []*descriptor.Descriptor
	if req.Selector == "" {
		switch req.Set {
		case "", "default":
			ds = reg.Properties()
		case "registered":
			ds = reg.RegisteredDescriptors()
		default:
			return fmt.Errorf("--set must be default or registered, got %q", req.Set)
		}
	} else {
		sel, err := selector.Parse(req.Selector)
		if err != nil {
			return err
		}
		if ds, err = reg.SelectContext(ctx, sel); err != nil {
			return err
		}
	}

	if req.SQL {
		return writeProjection(ctx, w, env, req.Type, ds)
	}
	return presentation.NewFormatter(w).FormatSelection(
		presentation.NewSelection(reg.Type(), req.Selector, ds), req.Format,
	)
}

func writeProjection(ctx context.Context, w io.Writer, env *environment, table string, ds []*descriptor.Descriptor) error {
	ok, err := env.isTable(ctx, table)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("--sql needs a table of the --db database, %q is not one", table)
	}

	p := sqlite.NewProjection(table)
	if err := p.Add(ds...); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, p.SQL())
	return err
}
