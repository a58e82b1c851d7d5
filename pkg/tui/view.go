package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mouradhm/migrations-dashboard/pkg/models"
	"github.com/mouradhm/migrations-dashboard/pkg/table"
)

const summaryBarWidth = 30

var (
	titleStyle   = lipgloss.NewStyle().Foreground(table.ColorForeground).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(table.ColorComment)
	rangeStyle   = lipgloss.NewStyle().Foreground(table.ColorCyan).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(table.ColorRed)
	messageStyle = lipgloss.NewStyle().Foreground(table.ColorOrange)
	appStyle     = lipgloss.NewStyle().Padding(1, 2)
)

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleStyle.Render("Latest SingleStore Migrations"),
		"   ",
		labelStyle.Render("range: "),
		rangeStyle.Render(string(m.rng)),
	))
	b.WriteString("\n\n")
	b.WriteString(renderSummary(m.snapshot.Stats))
	b.WriteString("\n\n")
	b.WriteString(m.table.Render(m.cursor))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("page %s · %d of %d migrations",
		m.table.PaginatorView(), len(m.table.Rows()), len(m.snapshot.Rows))))
	b.WriteString("\n")

	if row, ok := m.selectedRow(); ok && row.HasErrors {
		b.WriteString("\n")
		b.WriteString(renderErrors(row))
	}

	if m.filtering || m.table.Filter() != "" {
		b.WriteString("\n")
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(messageStyle.Render(m.message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return appStyle.Render(b.String())
}

// renderSummary draws totals and a success/failure bar
func renderSummary(stats models.AggregateStats) string {
	green := stats.SuccessPercentage * summaryBarWidth / 100
	red := stats.FailurePercentage * summaryBarWidth / 100

	if green+red > summaryBarWidth {
		red = summaryBarWidth - green
	}

	bar := lipgloss.NewStyle().Foreground(table.ColorGreen).Render(strings.Repeat("█", green)) +
		lipgloss.NewStyle().Foreground(table.ColorRed).Render(strings.Repeat("█", red)) +
		labelStyle.Render(strings.Repeat("░", summaryBarWidth-green-red))

	return fmt.Sprintf("%s %d   %s %d%%   %s %d%%\n%s",
		labelStyle.Render("migrations"), stats.TotalMigrations,
		labelStyle.Render("success"), stats.SuccessPercentage,
		labelStyle.Render("failure"), stats.FailurePercentage,
		bar,
	)
}

func renderErrors(row models.DisplayRow) string {
	lines := make([]string, 0, len(row.Errors)+1)
	lines = append(lines, labelStyle.Render(fmt.Sprintf("errors in %s:", row.Name)))

	for _, msg := range row.Errors {
		if msg == "" {
			msg = "(no message)"
		}

		lines = append(lines, errorStyle.Render("  • "+msg))
	}

	return strings.Join(lines, "\n")
}
