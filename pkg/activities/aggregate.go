package activities

import (
	"math"

	"github.com/mouradhm/migrations-dashboard/pkg/models"
)

// Aggregate computes totals and success/failure percentages over the full set of rows.
// Each percentage is rounded on its own, so the two may not add up to exactly 100.
func Aggregate(rows []models.DisplayRow) models.AggregateStats {
	total := len(rows)

	failures := 0
	for i := range rows {
		if rows[i].HasErrors {
			failures++
		}
	}

	return models.AggregateStats{
		TotalMigrations:   total,
		SuccessPercentage: percentage(total-failures, total),
		FailurePercentage: percentage(failures, total),
	}
}

// percentage returns round(count*100 / max(total, 1))
func percentage(count, total int) int {
	if total < 1 {
		total = 1
	}

	return int(math.Round(float64(count*100) / float64(total)))
}
