package table

import (
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/mouradhm/migrations-dashboard/pkg/models"
)

// Dracula theme colors.
const (
	ColorForeground = lipgloss.Color("#F8F8F2")
	ColorGreen      = lipgloss.Color("#50FA7B")
	ColorRed        = lipgloss.Color("#FF5555")
	ColorOrange     = lipgloss.Color("#FFB86C")
	ColorPurple     = lipgloss.Color("#BD93F9")
	ColorComment    = lipgloss.Color("#6272A4")
	ColorCyan       = lipgloss.Color("#8BE9FD")
)

// IndicatorKind is the meaning of a status icon
type IndicatorKind int

const (
	IndicatorNone IndicatorKind = iota
	IndicatorSuccess
	IndicatorFailure
	IndicatorPending
)

// Indicator is the icon and color shown next to a status
type Indicator struct {
	Kind  IndicatorKind
	Icon  string
	Color lipgloss.Color
}

// IndicatorFor maps a status to its indicator. Unknown statuses get no icon.
func IndicatorFor(status models.Status) Indicator {
	switch status {
	case models.StatusCompleted:
		return Indicator{Kind: IndicatorSuccess, Icon: "✔", Color: ColorGreen}
	case models.StatusError:
		return Indicator{Kind: IndicatorFailure, Icon: "✖", Color: ColorRed}
	case models.StatusProcessing:
		return Indicator{Kind: IndicatorPending, Icon: "◷", Color: ColorOrange}
	default:
		return Indicator{Kind: IndicatorNone}
	}
}

// RenderCell returns the display text of a cell. Status cells are prefixed with their icon.
func RenderCell(col Column, row models.DisplayRow) string {
	if col != ColumnStatus {
		return CellText(col, row)
	}

	ind := IndicatorFor(row.Status)
	if ind.Icon == "" {
		return string(row.Status)
	}

	return ind.Icon + " " + string(row.Status)
}

// CellStyle returns the style of a cell
func CellStyle(col Column, row models.DisplayRow) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(ColorForeground).Bold(true).Padding(0, 1)

	switch col {
	case ColumnStatus:
		if ind := IndicatorFor(row.Status); ind.Kind != IndicatorNone {
			style = style.Foreground(ind.Color)
		}
	case ColumnTables:
		style = style.Foreground(ColorPurple)
	}

	return style
}

// HeaderText returns a column title with an arrow for the sorted column
func HeaderText(col Column, sortColumn Column, dir SortDirection) string {
	if col != sortColumn {
		return string(col)
	}

	switch dir {
	case SortAsc:
		return string(col) + " ▲"
	case SortDesc:
		return string(col) + " ▼"
	default:
		return string(col)
	}
}

// Render draws the current page. selected is the highlighted row index on the page, or -1.
func (t *Table) Render(selected int) string {
	page := t.Page()
	sortColumn, dir := t.SortState()

	headers := make([]string, 0, len(Columns))
	for _, col := range Columns {
		headers = append(headers, HeaderText(col, sortColumn, dir))
	}

	cells := make([][]string, 0, len(page))
	for _, row := range page {
		line := make([]string, 0, len(Columns))
		for _, col := range Columns {
			line = append(line, RenderCell(col, row))
		}

		cells = append(cells, line)
	}

	headerStyle := lipgloss.NewStyle().Foreground(ColorComment).Bold(true).Padding(0, 1)

	grid := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorPurple)).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow || row < 0 || row >= len(page) {
				return headerStyle
			}

			style := CellStyle(Columns[col], page[row])
			if row == selected {
				style = style.Reverse(true)
			}

			return style
		})

	return grid.Render()
}
