package migrate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prateekjain24/pmkit/internal/model"
)

var migrationTime = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func TestLoadRiceHistory_LegacyEntry(t *testing.T) {
	// Legacy scales: reach is a raw user count, impact 0.25-3, effort in
	// person-months.
	raw := []byte(`[{"id":"s1","reach":5000,"impact":1,"confidence":80,"effort":1,"score":0}]`)

	history := LoadRiceHistory(raw, migrationTime)
	assert.Equal(t, RiceVersion, history.Version)
	require.Len(t, history.Scores, 1)

	s := history.Scores[0]
	assert.Equal(t, 6.0, s.Reach)  // 5000 users -> 6
	assert.Equal(t, 5.0, s.Impact) // legacy 1 -> 5
	assert.Equal(t, 3.0, s.Effort) // 1 person-month -> 3
	assert.Equal(t, 80.0, s.Confidence)

	// Score recomputed from the migrated values: 6*5*0.8/3 = 8.
	assert.Equal(t, 8.0, s.Score)
	require.NotNil(t, s.MigratedAt)
	assert.Equal(t, migrationTime, *s.MigratedAt)
}

func TestLoadRiceHistory_CurrentEntriesUntouched(t *testing.T) {
	raw := []byte(`{"version":2,"scores":[{"id":"s1","reach":7,"impact":8,"confidence":90,"effort":2,"score":25.2}]}`)

	history := LoadRiceHistory(raw, migrationTime)
	require.Len(t, history.Scores, 1)
	assert.Equal(t, 25.2, history.Scores[0].Score)
	assert.Nil(t, history.Scores[0].MigratedAt)
}

// Migrating twice is byte-identical to migrating once.
func TestLoadRiceHistory_Idempotent(t *testing.T) {
	raw := []byte(`[{"id":"s1","reach":30000,"impact":2,"confidence":70,"effort":6,"score":0},
		{"id":"s2","reach":5,"impact":0.25,"confidence":50,"effort":0.25,"score":0}]`)

	first := LoadRiceHistory(raw, migrationTime)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	second := LoadRiceHistory(firstJSON, migrationTime.Add(24*time.Hour))
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON)
}

func TestLoadRiceHistory_MalformedDegradesToEmpty(t *testing.T) {
	for _, raw := range [][]byte{
		nil,
		[]byte(`"oops"`),
		[]byte(`{"version":-3,"scores":[]}`),
		[]byte(`{"unrelated":true}`),
	} {
		history := LoadRiceHistory(raw, migrationTime)
		assert.Equal(t, RiceVersion, history.Version, "raw %q", raw)
		assert.Empty(t, history.Scores, "raw %q", raw)
	}
}

func TestMapReach_Breakpoints(t *testing.T) {
	for _, tc := range []struct {
		raw  float64
		want float64
	}{
		{1, 1},
		{10, 1},
		{11, 2},
		{50, 2},
		{1000, 4},
		{5000, 6},
		{50000, 9},
		{50001, 10},
		{2_000_000, 10},
	} {
		assert.Equal(t, tc.want, mapReach(tc.raw), "reach %v", tc.raw)
	}
}

func TestMapImpact_AnchorsAndInterpolation(t *testing.T) {
	// Documented anchors.
	for _, tc := range []struct{ old, want float64 }{
		{0.25, 2}, {0.5, 3}, {1, 5}, {2, 7}, {3, 9},
	} {
		assert.Equal(t, tc.want, mapImpact(tc.old), "impact %v", tc.old)
	}

	// Interpolated intermediates.
	assert.Equal(t, 6.0, mapImpact(1.5)) // halfway 5..7
	assert.Equal(t, 8.0, mapImpact(2.5)) // halfway 7..9

	// Out-of-range clamps.
	assert.Equal(t, 1.0, mapImpact(0.1))
	assert.Equal(t, 9.0, mapImpact(4))
}

func TestMapEffort_Breakpoints(t *testing.T) {
	for _, tc := range []struct{ pm, want float64 }{
		{0.25, 1},
		{0.5, 2},
		{1, 3},
		{2, 4},
		{6, 6},
		{24, 9},
		{25, 10},
	} {
		assert.Equal(t, tc.want, mapEffort(tc.pm), "effort %v", tc.pm)
	}
}

func TestNeedsRiceMigration(t *testing.T) {
	current := model.RiceScore{Reach: 5, Impact: 7, Effort: 3}
	assert.False(t, needsRiceMigration(current))

	assert.True(t, needsRiceMigration(model.RiceScore{Reach: 5000, Impact: 7, Effort: 3}))
	assert.True(t, needsRiceMigration(model.RiceScore{Reach: 5, Impact: 0.5, Effort: 3}))
	assert.True(t, needsRiceMigration(model.RiceScore{Reach: 5, Impact: 7, Effort: 0.25}))
	assert.True(t, needsRiceMigration(model.RiceScore{Reach: 5, Impact: 7.5, Effort: 3}))
}
