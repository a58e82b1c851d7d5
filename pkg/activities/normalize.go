package activities

import (
	"time"

	"github.com/mouradhm/migrations-dashboard/pkg/models"
)

const (
	// DateLayout renders timestamps as e.g. "Jan 2, 2024, 10:00"
	DateLayout = "Jan 2, 2006, 15:04"

	// InvalidDate is shown when createdAt cannot be parsed
	InvalidDate = "Invalid Date"
)

// Normalizer maps raw activity records to display rows
type Normalizer struct {
	// Location is the time zone dates are rendered in; nil means time.Local
	Location *time.Location
}

// NewNormalizer creates a Normalizer rendering dates in loc
func NewNormalizer(loc *time.Location) *Normalizer {
	return &Normalizer{Location: loc}
}

// NormalizeRecords maps every record to a DisplayRow, preserving order
func (n *Normalizer) NormalizeRecords(records []models.ActivityRecord) []models.DisplayRow {
	rows := make([]models.DisplayRow, 0, len(records))
	for i := range records {
		rows = append(rows, n.NormalizeRecord(records[i]))
	}

	return rows
}

// NormalizeRecord maps one record to a DisplayRow. Missing payload fields default to empty values.
func (n *Normalizer) NormalizeRecord(record models.ActivityRecord) models.DisplayRow {
	var (
		name        string
		collections []models.MigratedCollection
	)

	if record.Payload != nil {
		name = record.Payload.MongoDBName
		collections = record.Payload.MigratedCollections
	}

	errs := make([]string, 0)
	for _, c := range collections {
		if !c.Success {
			errs = append(errs, c.Error)
		}
	}

	status := models.StatusCompleted
	if len(errs) > 0 {
		status = models.StatusError
	}

	row := models.DisplayRow{
		Name:      name,
		Quantity:  len(collections),
		Errors:    errs,
		HasErrors: len(errs) > 0,
		Status:    status,
		Date:      InvalidDate,
	}

	if createdAt, err := parseTimestamp(record.CreatedAt); err == nil {
		row.CreatedAt = createdAt.UTC()
		row.Date = createdAt.In(n.location()).Format(DateLayout)
	}

	return row
}

func (n *Normalizer) location() *time.Location {
	if n == nil || n.Location == nil {
		return time.Local
	}

	return n.Location
}

// parseTimestamp accepts RFC 3339 timestamps, zone-less date-times (read as local time)
// and bare dates (read as UTC midnight)
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}

	if t, localErr := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); localErr == nil {
		return t, nil
	}

	if t, dateErr := time.Parse(time.DateOnly, s); dateErr == nil {
		return t, nil
	}

	return time.Time{}, err
}

// DenormalizeRow rebuilds an activity record that normalizes back to row.
// Successful collections are emitted before failed ones.
func DenormalizeRow(row models.DisplayRow) models.ActivityRecord {
	successes := row.Quantity - len(row.Errors)
	if successes < 0 {
		successes = 0
	}

	collections := make([]models.MigratedCollection, 0, successes+len(row.Errors))
	for i := 0; i < successes; i++ {
		collections = append(collections, models.MigratedCollection{Success: true})
	}

	for _, msg := range row.Errors {
		collections = append(collections, models.MigratedCollection{Success: false, Error: msg})
	}

	record := models.ActivityRecord{
		Payload: &models.ActivityPayload{
			MongoDBName:         row.Name,
			MigratedCollections: collections,
		},
	}

	if !row.CreatedAt.IsZero() {
		record.CreatedAt = row.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	return record
}
