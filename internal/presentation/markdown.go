package presentation

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/attrsel/internal/catalog"
)

// noMarginStyle is a JSON style that removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// MarkdownRenderer renders catalog documentation for the terminal.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer wrapping at width. An empty style
// detects the terminal background; otherwise style names a glamour
// standard style such as "notty" or "dark".
func NewMarkdownRenderer(width int, style string) (*MarkdownRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle(), glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)))
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &MarkdownRenderer{renderer: r}, nil
}

// Render transforms markdown to styled terminal output.
func (r *MarkdownRenderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// TypeMarkdown documents a catalog type as markdown.
func TypeMarkdown(td catalog.TypeDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", td.Name)
	if td.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", td.Description)
	}
	if len(td.DefaultOrder) > 0 {
		fmt.Fprintf(&b, "Default order: `%s`\n\n", strings.Join(td.DefaultOrder, ", "))
	}

	b.WriteString("| Property | Type | Access | Description |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, p := range td.Properties {
		typ := p.Type
		if typ == "" {
			typ = "-"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n", p.Name, escapeCell(typ), access(p), escapeCell(p.Description))
	}
	if td.Source != "" {
		fmt.Fprintf(&b, "\n_Defined in %s_\n", td.Source)
	}
	return b.String()
}

func access(p catalog.PropertyDef) string {
	var parts []string
	if p.Hidden {
		parts = append(parts, "hidden")
	}
	if p.Readable != nil && !*p.Readable {
		parts = append(parts, "write-only")
	}
	if p.Writable != nil && !*p.Writable {
		parts = append(parts, "read-only")
	}
	if len(parts) == 0 {
		return "read-write"
	}
	return strings.Join(parts, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
