package market

import "github.com/prateekjain24/pmkit/internal/model"

// Confidence scores input quality on a 0-100 scale. This is a heuristic over
// how well-specified the inputs are, not a statistical confidence level.
// The baseline of 70 reflects a fully-specified but unverified estimate.
func Confidence(params model.MarketParams, segments []model.MarketSegment) float64 {
	score := 70.0

	switch params.GeoScope {
	case model.GeoCountry:
		score += 10
	case model.GeoRegional:
		score += 5
	}

	switch params.Maturity {
	case model.MaturityMature:
		score += 10
	case model.MaturityGrowing:
		score += 5
	case model.MaturityDeclining:
		score -= 10
	}

	// Bottom-up only: more segments means finer-grained input data.
	if n := len(segments); n > 5 {
		score += 10
	} else if n > 3 {
		score += 5
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ValidateMarketSizes reports invariant violations in an existing TAM/SAM/SOM
// triple. Unlike the constructors it never fails; it is meant for post-hoc
// sanity checks over persisted or hand-edited figures.
func ValidateMarketSizes(tam, sam, som float64) []string {
	var violations []string
	if tam <= 0 {
		violations = append(violations, "tam must be positive")
	}
	if sam > tam {
		violations = append(violations, "sam exceeds tam")
	}
	if som > sam {
		violations = append(violations, "som exceeds sam")
	}
	if som < 0 {
		violations = append(violations, "som is negative")
	}
	return violations
}
