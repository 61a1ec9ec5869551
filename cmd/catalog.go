package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/attrsel/internal/catalog"
	"github.com/zjrosen/attrsel/internal/infrastructure/sqlite"
	"github.com/zjrosen/attrsel/internal/presentation"
	"github.com/zjrosen/attrsel/internal/templates"
)

var (
	catalogListFormat string
	catalogShowStyle  string
	catalogShowWidth  int
	catalogShowRaw    bool
	catalogInitForce  bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and import the type catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known types",
	Long: `List the types of the catalog and, with --db, the tables of the database.

Examples:
  attrsel catalog list
  attrsel catalog list --format json | jq '.[].name'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := presentation.ParseFormat(catalogListFormat)
		if err != nil {
			return err
		}
		env, err := openEnvironment(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer func() { _ = env.Close() }()

		return runCatalogList(cmd.Context(), cmd.OutOrStdout(), env, format)
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <type>",
	Short: "Document a catalog type",
	Long: `Render the properties of a catalog type as markdown.

--style picks a glamour style ("dark", "light", "notty"); by default the
terminal background decides. --raw prints the markdown source.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnvironment(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer func() { _ = env.Close() }()

		style := catalogShowStyle
		if style == "" && termenv.NewOutput(os.Stdout).ColorProfile() == termenv.Ascii {
			style = "notty"
		}
		return runCatalogShow(cmd.OutOrStdout(), env.source.Catalog(), args[0], catalogShowRaw, catalogShowWidth, style)
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the YAML catalog into the SQLite catalog store",
	Long: `Load the YAML catalog directory, validate it and save it to the catalog
store (--store or database.catalog_store). Types that did not change are
left untouched; types no longer in the YAML catalog are removed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.Database.CatalogStore == "" {
			return fmt.Errorf("no catalog store configured: pass --store or set database.catalog_store")
		}
		return runCatalogImport(cmd.Context(), cmd.OutOrStdout(), cfg.Catalog.Dir, cfg.Database.CatalogStore)
	},
}

var catalogInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter catalog into the catalog directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCatalogInit(cmd.OutOrStdout(), templates.CatalogFS(), cfg.Catalog.Dir, catalogInitForce)
	},
}

func init() {
	catalogInitCmd.Flags().BoolVar(&catalogInitForce, "force", false, "overwrite existing files")
	catalogListCmd.Flags().StringVarP(&catalogListFormat, "format", "f", "table", "output format: table or json")
	catalogShowCmd.Flags().StringVar(&catalogShowStyle, "style", "", "glamour style")
	catalogShowCmd.Flags().IntVar(&catalogShowWidth, "width", 100, "wrap width")
	catalogShowCmd.Flags().BoolVar(&catalogShowRaw, "raw", false, "print markdown without rendering")

	catalogCmd.AddCommand(catalogInitCmd, catalogListCmd, catalogShowCmd, catalogImportCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(ctx context.Context, w io.Writer, env *environment, format presentation.Format) error {
	types, err := env.types.ListTypes(ctx)
	if err != nil {
		return err
	}
	f := presentation.NewFormatter(w)
	if format == presentation.FormatJSONOutput {
		if types == nil {
			types = []presentation.TypeDTO{}
		}
		return f.FormatJSON(types)
	}
	return f.FormatTypes(types)
}

func runCatalogShow(w io.Writer, c *catalog.Catalog, name string, raw bool, width int, style string) error {
	td, ok := c.Type(name)
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownType, name)
	}

	md := presentation.TypeMarkdown(td)
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}

	r, err := presentation.NewMarkdownRenderer(width, style)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func runCatalogImport(ctx context.Context, w io.Writer, dir, storePath string) error {
	c, err := catalog.Load(os.DirFS(dir))
	if err != nil {
		return fmt.Errorf("loading catalog %s: %w", dir, err)
	}

	db, err := sqlite.NewDB(storePath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	written, err := db.CatalogStore().Save(ctx, c)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "imported %d types into %s (%d changed)\n", len(c.Types()), storePath, written)
	return err
}

// runCatalogInit copies the YAML files of src into dir. Existing files are
// kept unless force is set.
func runCatalogInit(w io.Writer, src fs.FS, dir string, force bool) error {
	names, err := fs.Glob(src, "*.yaml")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}

	for _, name := range names {
		dst := filepath.Join(dir, name)
		if fileExists(dst) && !force {
			if _, err := fmt.Fprintf(w, "skipped %s (exists)\n", dst); err != nil {
				return err
			}
			continue
		}
		data, err := fs.ReadFile(src, name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", dst, err)
		}
		if _, err := fmt.Fprintf(w, "wrote %s\n", dst); err != nil {
			return err
		}
	}
	return nil
}
