// Package display provides output formatting for the tetanus CLI.
//
// Catalog listings honour --output (table or JSON); command outcomes are
// printed as the console would print them.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/concave-dev/tetanus/cmd/tetanus/config"
	"github.com/concave-dev/tetanus/internal/command"
	"github.com/concave-dev/tetanus/internal/logging"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// CatalogEntry is the JSON form of one catalog command.
type CatalogEntry struct {
	Name                  string   `json:"name"`
	Usage                 string   `json:"usage"`
	Help                  string   `json:"help"`
	ContextParams         []string `json:"contextParams"`
	UserParams            []string `json:"userParams"`
	OptionalParams        []string `json:"optionalParams"`
	Interactive           bool     `json:"interactive"`
	OptionallyInteractive bool     `json:"optionallyInteractive"`
}

// NewCatalogEntry converts a descriptor for display.
func NewCatalogEntry(d command.Descriptor) CatalogEntry {
	return CatalogEntry{
		Name:                  d.Name,
		Usage:                 d.Usage(),
		Help:                  d.Help,
		ContextParams:         nonNil(d.ContextParams),
		UserParams:            nonNil(d.UserParams),
		OptionalParams:        nonNil(d.OptionalParams),
		Interactive:           d.Interactive,
		OptionallyInteractive: d.OptionallyInteractive,
	}
}

// DisplayCatalog prints the command catalog in the configured output format.
func DisplayCatalog(w io.Writer, commands []command.Command) {
	entries := make([]CatalogEntry, 0, len(commands))
	for _, c := range commands {
		entries = append(entries, NewCatalogEntry(c.Descriptor()))
	}

	if config.Global.Output == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(entries); err != nil {
			logging.Error("Failed to encode JSON: %v", err)
			fmt.Fprintln(w, "Error encoding JSON output")
		}
		return
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("USAGE", "DIALOG", "CONTEXT").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	for _, e := range entries {
		t.Row(e.Usage, dialogMode(e), strings.Join(e.ContextParams, ","))
	}
	fmt.Fprintln(w, t.Render())
}

// DisplayOutcome prints a command outcome.
func DisplayOutcome(w io.Writer, out command.Outcome) {
	if text := out.Render(); text != "" {
		fmt.Fprintln(w, text)
	}
}

func dialogMode(e CatalogEntry) string {
	switch {
	case e.Interactive:
		return "always"
	case e.OptionallyInteractive:
		return "optional"
	default:
		return "-"
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
