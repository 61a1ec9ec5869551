package cmd

import (
	"context"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/attrsel/internal/descriptor"
	"github.com/zjrosen/attrsel/internal/presentation"
	"github.com/zjrosen/attrsel/internal/selector"
)

var diffColor string

var diffCmd = &cobra.Command{
	Use:   "diff <type> <selector-a> <selector-b>",
	Short: "Compare the descriptors two selectors resolve to",
	Long: `Resolve two selectors against the same type and print the difference of
the resulting name lists. Lines starting with "-" are only selected by the
first selector, lines starting with "+" only by the second.

Example:
  attrsel diff Order "*" "**, ~lines"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer func() { _ = env.Close() }()

		color := diffColor == "always" ||
			(diffColor == "auto" && termenv.NewOutput(os.Stdout).ColorProfile() != termenv.Ascii)
		return runDiff(cmd.Context(), cmd.OutOrStdout(), env, args[0], args[1], args[2], color)
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffColor, "color", "auto", "colorize output: auto, always or never")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(ctx context.Context, w io.Writer, env *environment, typeName, a, b string, color bool) error {
	reg, err := env.registry(ctx, typeName)
	if err != nil {
		return err
	}

	names := make([][]string, 2)
	for i, text := range []string{a, b} {
		sel, err := selector.Parse(text)
		if err != nil {
			return err
		}
		ds, err := reg.SelectContext(ctx, sel)
		if err != nil {
			return err
		}
		names[i] = descriptorNames(ds)
	}

	return presentation.NewFormatter(w).FormatDiff(presentation.DiffSelections(names[0], names[1]), color)
}

func descriptorNames(ds []*descriptor.Descriptor) []string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name()
	}
	return names
}
