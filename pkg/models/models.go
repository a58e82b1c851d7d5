package models

import "time"

// MigratedCollection contains the outcome of a single collection migration as reported by the backend
type MigratedCollection struct {
	CollectionName string `json:"collectionName,omitempty" bson:"collectionName,omitempty"`
	DocumentsCount int    `json:"documentsCount,omitempty" bson:"documentsCount,omitempty"`
	Success        bool   `json:"success" bson:"success"`
	Error          string `json:"error,omitempty" bson:"error,omitempty"`
}

// ActivityPayload contains the details of one migration run
type ActivityPayload struct {
	MongoDBName         string               `json:"mongoDbName,omitempty" bson:"mongoDbName,omitempty"`
	MigratedCollections []MigratedCollection `json:"migratedCollections,omitempty" bson:"migratedCollections,omitempty"`
}

// ActivityRecord is one migration-run entry reported by the activity API
type ActivityRecord struct {
	ID        string           `json:"id,omitempty" bson:"_id,omitempty"`
	CreatedAt string           `json:"createdAt" bson:"createdAt"`
	Payload   *ActivityPayload `json:"payload,omitempty" bson:"payload,omitempty"`
}

// ActivitiesResponse is the body of GET /api/activities
type ActivitiesResponse struct {
	Activities []ActivityRecord `json:"activities"`
}

// Status is the display state of a migration row
type Status string

const (
	StatusCompleted  Status = "COMPLETED"
	StatusError      Status = "ERROR"
	StatusProcessing Status = "PROCESSING"
)

// DisplayRow is the flat, UI-ready projection of one activity record
type DisplayRow struct {
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Errors    []string  `json:"errors"`
	HasErrors bool      `json:"hasErrors"`
	Status    Status    `json:"status"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"-"`
}

// AggregateStats contains the totals derived from a full set of rows
type AggregateStats struct {
	TotalMigrations   int `json:"totalMigrations"`
	SuccessPercentage int `json:"successPercentage"`
	FailurePercentage int `json:"failurePercentage"`
}
