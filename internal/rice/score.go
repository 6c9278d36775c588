// Package rice implements the RICE (Reach, Impact, Confidence, Effort)
// prioritization engine: the score formula, priority bands, rule-based
// insights, pairwise comparison, and aggregate statistics.
package rice

import (
	"math"

	"github.com/rotisserie/eris"
)

// Validation failures returned by Calculate. Callers match with eris.Is.
var (
	ErrInvalidInput         = eris.New("rice: reach, impact, and confidence must be non-negative and effort positive")
	ErrConfidenceOutOfRange = eris.New("rice: confidence cannot exceed 100")
)

// Calculate computes the RICE score: reach x impact x (confidence/100) / effort,
// rounded to one decimal. Zero reach, impact, or confidence is a legal input
// and yields a zero score.
func Calculate(reach, impact, confidence, effort float64) (float64, error) {
	if reach < 0 || impact < 0 || confidence < 0 || effort <= 0 {
		return 0, ErrInvalidInput
	}
	if confidence > 100 {
		return 0, ErrConfidenceOutOfRange
	}

	score := (reach * impact * (confidence / 100)) / effort
	return round1(score), nil
}

// round1 rounds to one decimal, half away from zero on the scaled integer.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
