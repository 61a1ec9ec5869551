package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Format names an output format of the CLI.
type Format string

const (
	FormatJSONOutput  Format = "json"
	FormatTableOutput Format = "table"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSONOutput:
		return FormatJSONOutput, nil
	case FormatTableOutput, "":
		return FormatTableOutput, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or table)", s)
	}
}

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatJSON writes v as indented JSON.
func (f *Formatter) FormatJSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatSelection writes a selection in the given format.
func (f *Formatter) FormatSelection(sel SelectionDTO, format Format) error {
	if format == FormatJSONOutput {
		return f.FormatJSON(sel)
	}
	return f.FormatTable(sel.Descriptors)
}

// FormatTable writes descriptors as an aligned table. Column widths are
// measured in terminal cells so wide display names line up.
func (f *Formatter) FormatTable(ds []DescriptorDTO) error {
	rows := [][]string{{"NAME", "TYPE", "ORDER", "FLAGS", "DISPLAY NAME"}}
	for _, d := range ds {
		rows = append(rows, []string{d.Name, d.Type, fmt.Sprint(d.Order), flags(d), d.DisplayName})
	}
	return f.writeRows(rows)
}

// FormatTypes writes a type listing as an aligned table.
func (f *Formatter) FormatTypes(types []TypeDTO) error {
	rows := [][]string{{"TYPE", "PROPERTIES", "SOURCE", "DESCRIPTION"}}
	for _, t := range types {
		rows = append(rows, []string{t.Name, fmt.Sprint(t.Properties), t.Source, t.Description})
	}
	return f.writeRows(rows)
}

// FlagDTO is one row of the feature flag listing.
type FlagDTO struct {
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	Default     bool   `json:"default"`
	Description string `json:"description"`
}

// FormatFlags writes the feature flags as an aligned table.
func (f *Formatter) FormatFlags(list []FlagDTO) error {
	rows := [][]string{{"FLAG", "ENABLED", "DEFAULT", "DESCRIPTION"}}
	for _, fl := range list {
		rows = append(rows, []string{fl.Name, fmt.Sprint(fl.Enabled), fmt.Sprint(fl.Default), fl.Description})
	}
	return f.writeRows(rows)
}

func (f *Formatter) writeRows(rows [][]string) error {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(f.writer, b.String())
	return err
}

// flags renders h (hidden), r (readable), w (writable) and n (nested).
func flags(d DescriptorDTO) string {
	b := []byte("----")
	if d.Hidden {
		b[0] = 'h'
	}
	if d.Readable {
		b[1] = 'r'
	}
	if d.Writable {
		b[2] = 'w'
	}
	if d.Nested {
		b[3] = 'n'
	} else if d.Member {
		b[3] = 'm'
	}
	return string(b)
}
