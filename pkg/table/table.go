// Package table keeps the filter, sort and pagination state of the migrations grid.
package table

import (
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"

	"github.com/mouradhm/migrations-dashboard/pkg/models"
)

// PageSize is the number of rows shown per page
const PageSize = 11

// Column identifies a grid column
type Column string

const (
	ColumnName   Column = "NAME"
	ColumnStatus Column = "STATUS"
	ColumnTables Column = "TABLES"
	ColumnDate   Column = "DATE"
)

// Columns lists the grid columns in display order
var Columns = []Column{ColumnName, ColumnStatus, ColumnTables, ColumnDate}

// SortDirection is the sort applied to the sorted column
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

// Table holds the full row set and derives the visible page from the current filter, sort and page
type Table struct {
	rows    []models.DisplayRow
	visible []models.DisplayRow

	filter     string
	sortColumn Column
	sortDir    SortDirection

	pager paginator.Model
}

// New returns an empty table
func New() *Table {
	pager := paginator.New()
	pager.Type = paginator.Arabic
	pager.PerPage = PageSize

	t := &Table{
		rows:  []models.DisplayRow{},
		pager: pager,
	}
	t.rebuild()

	return t
}

// SetRows replaces the full row set, keeping filter and sort. The page is clamped to the new page count.
func (t *Table) SetRows(rows []models.DisplayRow) {
	t.rows = rows
	t.rebuild()
}

// SetFilter sets the global filter and returns to the first page
func (t *Table) SetFilter(filter string) {
	t.filter = filter
	t.pager.Page = 0
	t.rebuild()
}

// Filter returns the global filter
func (t *Table) Filter() string {
	return t.filter
}

// ToggleSort cycles col through ascending, descending and unsorted. Any other sorted column is cleared.
func (t *Table) ToggleSort(col Column) {
	if t.sortColumn != col {
		t.sortColumn = col
		t.sortDir = SortAsc
	} else {
		switch t.sortDir {
		case SortNone:
			t.sortDir = SortAsc
		case SortAsc:
			t.sortDir = SortDesc
		case SortDesc:
			t.sortDir = SortNone
			t.sortColumn = ""
		}
	}

	t.rebuild()
}

// SortState returns the sorted column and its direction
func (t *Table) SortState() (Column, SortDirection) {
	return t.sortColumn, t.sortDir
}

// NextPage moves forward one page if there is one
func (t *Table) NextPage() {
	t.pager.NextPage()
}

// PrevPage moves back one page if there is one
func (t *Table) PrevPage() {
	t.pager.PrevPage()
}

// PageIndex returns the zero-based current page
func (t *Table) PageIndex() int {
	return t.pager.Page
}

// PageCount returns the number of pages, at least one
func (t *Table) PageCount() int {
	return t.pager.TotalPages
}

// Page returns the rows on the current page
func (t *Table) Page() []models.DisplayRow {
	start, end := t.pager.GetSliceBounds(len(t.visible))
	return t.visible[start:end]
}

// Rows returns every row matching the filter, in sort order
func (t *Table) Rows() []models.DisplayRow {
	return t.visible
}

// PaginatorView renders the page indicator
func (t *Table) PaginatorView() string {
	return t.pager.View()
}

func (t *Table) rebuild() {
	visible := make([]models.DisplayRow, 0, len(t.rows))

	needle := strings.ToLower(strings.TrimSpace(t.filter))
	for i := range t.rows {
		if needle == "" || matches(t.rows[i], needle) {
			visible = append(visible, t.rows[i])
		}
	}

	if t.sortDir != SortNone {
		less := lessFor(t.sortColumn)
		desc := t.sortDir == SortDesc

		sort.SliceStable(visible, func(i, j int) bool {
			if desc {
				return less(visible[j], visible[i])
			}

			return less(visible[i], visible[j])
		})
	}

	t.visible = visible

	if len(visible) == 0 {
		t.pager.TotalPages = 1
	} else {
		t.pager.SetTotalPages(len(visible))
	}

	if t.pager.Page >= t.pager.TotalPages {
		t.pager.Page = t.pager.TotalPages - 1
	}
}

func matches(row models.DisplayRow, needle string) bool {
	for _, col := range Columns {
		if strings.Contains(strings.ToLower(CellText(col, row)), needle) {
			return true
		}
	}

	return false
}

func lessFor(col Column) func(a, b models.DisplayRow) bool {
	switch col {
	case ColumnTables:
		return func(a, b models.DisplayRow) bool { return a.Quantity < b.Quantity }
	case ColumnDate:
		return func(a, b models.DisplayRow) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case ColumnStatus:
		return func(a, b models.DisplayRow) bool { return a.Status < b.Status }
	default:
		return func(a, b models.DisplayRow) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	}
}

// CellText returns the plain text of a cell, used for filtering and rendering
func CellText(col Column, row models.DisplayRow) string {
	switch col {
	case ColumnName:
		return row.Name
	case ColumnStatus:
		return string(row.Status)
	case ColumnTables:
		return strconv.Itoa(row.Quantity)
	case ColumnDate:
		return row.Date
	default:
		return ""
	}
}
