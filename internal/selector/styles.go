package selector

import "github.com/charmbracelet/lipgloss"

// Token highlight styles for selector syntax highlighting.
var (
	// FieldStyle for attribute names and prefixes
	FieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0B6E99", Dark: "#54C7EC"})

	// WildcardStyle for * and **
	WildcardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#B35900", Dark: "#FFB86C"}).
			Bold(true)

	// ExcludeStyle for the ~ marker
	ExcludeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6E6E"}).
			Bold(true)

	// KeywordStyle for :readable and :writable
	KeywordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#7D3C98", Dark: "#BD93F9"}).
			Bold(true)

	// PunctStyle for dots, indexers and commas
	PunctStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#8A8A8A"})

	// IllegalStyle marks characters outside the grammar
	IllegalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
			Background(lipgloss.Color("#C0392B"))

	// DefaultStyle for unrecognized tokens
	DefaultStyle = lipgloss.NewStyle()
)
