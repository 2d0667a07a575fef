package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type SummaryRow struct {
	Label string
	Value string
}

// RenderSummary draws a two-column table under a bold title. It is the
// end-of-run report printed after the progress view exits.
func RenderSummary(title string, rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := dimStyle.Render(strings.Repeat("-", labelWidth+valueWidth+3))
	lines := []string{titleStyle.Render(title), hline}

	for _, row := range rows {
		label := fmt.Sprintf("%-*s", labelWidth, row.Label)
		value := fmt.Sprintf("%-*s", valueWidth, row.Value)
		lines = append(lines, labelStyle.Render(label)+" | "+valueStyle.Render(value))
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

var valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
