package command

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/concave-dev/tetanus/internal/project"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	activeStyle = cellStyle.Foreground(lipgloss.Color("#60F281"))
)

// projectTable renders the project set. A numbered table adds the 1-based
// menu index the operator answers with when selecting a project.
func projectTable(projects []project.Project, numbered bool) string {
	headers := []string{"NAME", "STAGE", "BOX", "ACTIVE"}
	if numbered {
		headers = append([]string{"#"}, headers...)
	}

	rows := make([][]string, 0, len(projects))
	for i, p := range projects {
		box := p.BoxName
		if box == "" {
			box = "-"
		}
		active := ""
		if p.Active {
			active = "*"
		}
		row := []string{p.Name, p.Stage.String(), box, active}
		if numbered {
			row = append([]string{strconv.Itoa(i + 1)}, row...)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(projects) && projects[row].Active {
				return activeStyle
			}
			return cellStyle
		})
	return t.Render()
}
