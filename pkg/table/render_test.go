package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mouradhm/migrations-dashboard/pkg/models"
)

func TestIndicatorFor(t *testing.T) {
	tests := []struct {
		status models.Status
		kind   IndicatorKind
		icon   string
	}{
		{models.StatusCompleted, IndicatorSuccess, "✔"},
		{models.StatusError, IndicatorFailure, "✖"},
		{models.StatusProcessing, IndicatorPending, "◷"},
		{models.Status(""), IndicatorNone, ""},
		{models.Status("CANCELLED"), IndicatorNone, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			ind := IndicatorFor(tt.status)

			assert.Equal(t, tt.kind, ind.Kind)
			assert.Equal(t, tt.icon, ind.Icon)
		})
	}
}

func TestIndicatorColors(t *testing.T) {
	assert.Equal(t, ColorGreen, IndicatorFor(models.StatusCompleted).Color)
	assert.Equal(t, ColorRed, IndicatorFor(models.StatusError).Color)
	assert.Equal(t, ColorOrange, IndicatorFor(models.StatusProcessing).Color)
}

func TestRenderCell(t *testing.T) {
	row := models.DisplayRow{
		Name:     "shopdb",
		Quantity: 2,
		Status:   models.StatusError,
		Date:     "Jan 2, 2024, 10:00",
	}

	assert.Equal(t, "shopdb", RenderCell(ColumnName, row))
	assert.Equal(t, "✖ ERROR", RenderCell(ColumnStatus, row))
	assert.Equal(t, "2", RenderCell(ColumnTables, row))
	assert.Equal(t, "Jan 2, 2024, 10:00", RenderCell(ColumnDate, row))

	row.Status = "UNKNOWN"
	assert.Equal(t, "UNKNOWN", RenderCell(ColumnStatus, row))
}

func TestHeaderText(t *testing.T) {
	assert.Equal(t, "NAME", HeaderText(ColumnName, "", SortNone))
	assert.Equal(t, "NAME ▲", HeaderText(ColumnName, ColumnName, SortAsc))
	assert.Equal(t, "NAME ▼", HeaderText(ColumnName, ColumnName, SortDesc))
	assert.Equal(t, "DATE", HeaderText(ColumnDate, ColumnName, SortAsc))
}

func TestRenderIncludesPageRows(t *testing.T) {
	tbl := New()
	tbl.SetRows([]models.DisplayRow{
		{Name: "shopdb", Quantity: 2, Status: models.StatusError, Date: "Jan 2, 2024, 10:00"},
		{Name: "billing", Quantity: 4, Status: models.StatusCompleted, Date: "Jan 3, 2024, 09:15"},
	})
	tbl.ToggleSort(ColumnName)

	out := tbl.Render(0)

	assert.Contains(t, out, "NAME ▲")
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "shopdb")
	assert.Contains(t, out, "billing")
	assert.Contains(t, out, "Jan 3, 2024, 09:15")
}

func TestRenderEmptyTable(t *testing.T) {
	out := New().Render(-1)

	assert.Contains(t, out, "TABLES")
}
