package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouradhm/migrations-dashboard/pkg/models"
)

func TestStoreStartsEmpty(t *testing.T) {
	snap := NewStore().Snapshot()

	assert.NotNil(t, snap.Rows)
	assert.Empty(t, snap.Rows)
	assert.Equal(t, models.AggregateStats{}, snap.Stats)
	assert.Equal(t, uint64(0), snap.Version)
}

func TestStoreReplaceNotifiesSubscribers(t *testing.T) {
	store := NewStore()

	var got []Snapshot
	store.Subscribe(func(s Snapshot) { got = append(got, s) })

	rows := []models.DisplayRow{{Name: "shopdb", Status: models.StatusCompleted}}
	stats := models.AggregateStats{TotalMigrations: 1, SuccessPercentage: 100}

	store.Replace(rows, stats)
	store.Replace([]models.DisplayRow{}, models.AggregateStats{})

	require.Len(t, got, 2)
	assert.Equal(t, rows, got[0].Rows)
	assert.Equal(t, stats, got[0].Stats)
	assert.Equal(t, uint64(1), got[0].Version)
	assert.Empty(t, got[1].Rows)
	assert.Equal(t, uint64(2), got[1].Version)
	assert.Equal(t, got[1], store.Snapshot())
}
