package presentation

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp classifies a line of a selection diff.
type DiffOp string

const (
	DiffSame    DiffOp = " "
	DiffRemoved DiffOp = "-"
	DiffAdded   DiffOp = "+"
)

// DiffLine is one descriptor name of a selection diff.
type DiffLine struct {
	Op   DiffOp `json:"op"`
	Name string `json:"name"`
}

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// DiffSelections compares two ordered selections by descriptor name.
// Reordered names show up as a removal and an addition.
func DiffSelections(a, b []string) []DiffLine {
	dmp := diffmatchpatch.New()

	// One name per line so the diff works on whole names.
	charsA, charsB, names := dmp.DiffLinesToChars(joinLines(a), joinLines(b))
	diffs := dmp.DiffMain(charsA, charsB, false)
	diffs = dmp.DiffCharsToLines(diffs, names)

	var lines []DiffLine
	for _, d := range diffs {
		op := DiffSame
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = DiffRemoved
		case diffmatchpatch.DiffInsert:
			op = DiffAdded
		}
		for _, name := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			if name == "" {
				continue
			}
			lines = append(lines, DiffLine{Op: op, Name: name})
		}
	}
	return lines
}

func joinLines(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.Join(names, "\n") + "\n"
}

// FormatDiff writes diff lines prefixed with their op, colored when color
// is set.
func (f *Formatter) FormatDiff(lines []DiffLine, color bool) error {
	var b strings.Builder
	for _, l := range lines {
		text := string(l.Op) + " " + l.Name
		if color {
			switch l.Op {
			case DiffAdded:
				text = addedStyle.Render(text)
			case DiffRemoved:
				text = removedStyle.Render(text)
			}
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(f.writer, b.String())
	return err
}
