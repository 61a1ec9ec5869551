package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/attrsel/internal/selector"
)

var explainCmd = &cobra.Command{
	Use:   "explain <selector>",
	Short: "Show how a selector is parsed",
	Long: `Parse a selector and list its entries in evaluation order with their kind,
scope and whether they include or exclude. No type is needed.

Example:
  attrsel explain "*, ~internal*, customer.**, lines[].sku"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color := termenv.NewOutput(os.Stdout).ColorProfile() != termenv.Ascii
		return runExplain(cmd.OutOrStdout(), args[0], color)
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(w io.Writer, text string, color bool) error {
	if color {
		if _, err := fmt.Fprintln(w, selector.Highlight(text)); err != nil {
			return err
		}
	}

	sel, err := selector.Parse(text)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "canonical: %s\n", sel.String()); err != nil {
		return err
	}
	if sel.KeepsConfigured() {
		if _, err := fmt.Fprintln(w, "anchored: combines with the configured selection instead of replacing it"); err != nil {
			return err
		}
	}
	for i, term := range sel.Terms() {
		action := "include"
		if !term.Include {
			action = "exclude"
		}
		line := fmt.Sprintf("%2d. %-7s %-17s %s", i+1, action, term.Kind, term.Expr)
		if term.Scope != "" {
			line += fmt.Sprintf(" (in %s)", term.Scope)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
