package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/concave-dev/tetanus/internal/logging"
)

type printKind int

const (
	kindInit printKind = iota
	kindCommandPrompt
	kindResult
	kindDialog
	kindDialogPrompt
	kindNotice
)

type printItem struct {
	kind printKind
	text string
}

const (
	commandPrompt = "tetanus> "
	dialogPrompt  = "> "
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#60F281"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4473"))
	noticeStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#42E7FF"))
)

// style picks the colour of operator text: red for anything mentioning an
// error, green for command results, unstyled for dialog text.
func style(kind printKind, text string) string {
	if strings.Contains(strings.ToLower(text), "error") {
		return errorStyle.Render(text)
	}
	if kind == kindResult {
		return successStyle.Render(text)
	}
	return text
}

// print writes items until the output channel is closed.
func (c *Console) print(w io.Writer) error {
	for item := range c.output {
		var err error
		switch item.kind {
		case kindInit:
			logging.Debug("Console output started")
		case kindCommandPrompt:
			_, err = fmt.Fprint(w, promptStyle.Render(commandPrompt))
		case kindDialogPrompt:
			_, err = fmt.Fprint(w, promptStyle.Render(dialogPrompt))
		case kindNotice:
			_, err = fmt.Fprintln(w, noticeStyle.Render(item.text))
		default:
			if item.text == "" {
				continue
			}
			_, err = fmt.Fprintln(w, style(item.kind, item.text))
		}
		if err != nil {
			logging.Error("Failed to write console output: %v", err)
		}
	}
	return nil
}
