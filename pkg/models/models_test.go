package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	for _, s := range []string{"daily", "monthly", "yearly"} {
		r, err := ParseRange(s)
		require.NoError(t, err)
		assert.Equal(t, Range(s), r)
	}

	_, err := ParseRange("weekly")
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestRangeNextWraps(t *testing.T) {
	assert.Equal(t, RangeMonthly, RangeDaily.Next())
	assert.Equal(t, RangeYearly, RangeMonthly.Next())
	assert.Equal(t, RangeDaily, RangeYearly.Next())
	assert.Equal(t, DefaultRange, Range("bogus").Next())
}

func TestDurationUnmarshal(t *testing.T) {
	var cfg struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"a":"15s","b":1000000000}`), &cfg))

	assert.Equal(t, Duration(15*time.Second), cfg.A)
	assert.Equal(t, Duration(time.Second), cfg.B)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"fast"}`), &cfg))
	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &cfg))
}

func TestDurationMarshal(t *testing.T) {
	b, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)

	assert.Equal(t, `"1m30s"`, string(b))
}

func TestActivityRecordDecodesOptionalFields(t *testing.T) {
	var rec ActivityRecord
	require.NoError(t, json.Unmarshal([]byte(`{"createdAt":"2024-01-02T10:00:00Z"}`), &rec))

	assert.Nil(t, rec.Payload)

	require.NoError(t, json.Unmarshal([]byte(`{"payload":{"mongoDbName":"shopdb"}}`), &rec))
	require.NotNil(t, rec.Payload)
	assert.Empty(t, rec.Payload.MigratedCollections)
}
