package migrate

import (
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/prateekjain24/pmkit/internal/model"
	"github.com/prateekjain24/pmkit/internal/rice"
)

// RiceVersion is the current RICE score schema version: reach, impact, and
// effort are 1-10 integers. Version 1 stored raw reach counts, a 0.25-3
// continuous impact scale, and effort in person-months.
const RiceVersion = 2

// reachBreakpoints maps raw user counts onto the 1-10 scale. Upper bounds are
// inclusive; anything above the last bound maps to 10.
var reachBreakpoints = []struct {
	upTo  float64
	scale float64
}{
	{10, 1},
	{50, 2},
	{250, 3},
	{1000, 4},
	{2500, 5},
	{5000, 6},
	{10000, 7},
	{25000, 8},
	{50000, 9},
}

// effortBreakpoints maps person-months onto the 1-10 scale.
var effortBreakpoints = []struct {
	upTo  float64
	scale float64
}{
	{0.25, 1},
	{0.5, 2},
	{1, 3},
	{2, 4},
	{3, 5},
	{6, 6},
	{9, 7},
	{12, 8},
	{24, 9},
}

// impactAnchors are the documented legacy-to-current impact mappings;
// intermediate values interpolate linearly between neighbors.
var impactAnchors = []struct{ old, new float64 }{
	{0.25, 2},
	{0.5, 3},
	{1, 5},
	{2, 7},
	{3, 9},
}

// riceMigrations maps the version being migrated FROM to its transform, same
// dispatch shape as the layout table.
var riceMigrations = map[int]func([]model.RiceScore, time.Time) []model.RiceScore{
	1: migrateRiceV1,
}

// LoadRiceHistory decodes a persisted RICE blob (bare array or versioned
// envelope) and migrates it to the current schema. Like all migrations it
// never fails; unrecognized shapes become an empty current-version history.
func LoadRiceHistory(raw []byte, now time.Time) model.RiceHistory {
	history, version := decodeRiceHistory(raw)
	for v := version; v < RiceVersion; v++ {
		step, ok := riceMigrations[v]
		if !ok {
			zap.L().Warn("migrate: no RICE migration registered, passing through",
				zap.Int("from_version", v),
			)
			continue
		}
		history.Scores = step(history.Scores, now)
	}
	history.Version = RiceVersion
	return history
}

func decodeRiceHistory(raw []byte) (model.RiceHistory, int) {
	empty := model.RiceHistory{Version: RiceVersion, Scores: []model.RiceScore{}}
	if len(raw) == 0 {
		return empty, RiceVersion
	}

	// Bare array predates the envelope and sits at schema version 1.
	var scores []model.RiceScore
	if err := json.Unmarshal(raw, &scores); err == nil {
		return model.RiceHistory{Version: 1, Scores: scores}, 1
	}

	var history model.RiceHistory
	if err := json.Unmarshal(raw, &history); err != nil || history.Scores == nil {
		return empty, RiceVersion
	}
	if history.Version < 1 || history.Version > RiceVersion {
		return empty, RiceVersion
	}
	return history, history.Version
}

// migrateRiceV1 rewrites legacy-scale entries onto the 1-10 integer scales
// and recomputes their scores. Entries already on the current scale pass
// through untouched, which makes the step idempotent.
func migrateRiceV1(scores []model.RiceScore, now time.Time) []model.RiceScore {
	out := make([]model.RiceScore, 0, len(scores))
	for _, s := range scores {
		if !needsRiceMigration(s) {
			out = append(out, s)
			continue
		}

		s.Reach = mapReach(s.Reach)
		s.Impact = mapImpact(s.Impact)
		s.Effort = mapEffort(s.Effort)
		// Confidence was already 0-100 in version 1.

		score, err := rice.Calculate(s.Reach, s.Impact, s.Confidence, s.Effort)
		if err != nil {
			// A legacy entry so corrupted it cannot be rescored is dropped
			// rather than aborting the batch.
			zap.L().Warn("migrate: dropping unmigratable RICE entry",
				zap.String("id", s.ID),
				zap.Error(err),
			)
			continue
		}
		s.Score = score
		migratedAt := now
		s.MigratedAt = &migratedAt
		out = append(out, s)
	}
	return out
}

// needsRiceMigration detects legacy entries: current-schema reach, impact,
// and effort are all integers in [1,10].
func needsRiceMigration(s model.RiceScore) bool {
	for _, v := range []float64{s.Reach, s.Impact, s.Effort} {
		if v != math.Trunc(v) || v < 1 || v > 10 {
			return true
		}
	}
	return false
}

func mapReach(raw float64) float64 {
	for _, bp := range reachBreakpoints {
		if raw <= bp.upTo {
			return bp.scale
		}
	}
	return 10
}

func mapEffort(personMonths float64) float64 {
	for _, bp := range effortBreakpoints {
		if personMonths <= bp.upTo {
			return bp.scale
		}
	}
	return 10
}

// mapImpact interpolates between the legacy anchor points, clamped to [1,10]
// outside them.
func mapImpact(old float64) float64 {
	if old <= impactAnchors[0].old {
		if old < impactAnchors[0].old {
			return 1
		}
		return impactAnchors[0].new
	}
	last := impactAnchors[len(impactAnchors)-1]
	if old >= last.old {
		return last.new
	}
	for i := 1; i < len(impactAnchors); i++ {
		lo, hi := impactAnchors[i-1], impactAnchors[i]
		if old <= hi.old {
			frac := (old - lo.old) / (hi.old - lo.old)
			return math.Round(lo.new + frac*(hi.new-lo.new))
		}
	}
	return last.new
}
