package rice

import (
	"fmt"

	"github.com/prateekjain24/pmkit/internal/model"
)

// Insights generates rule-based advisory text for a scored entry. The list is
// ordered (reach, impact, confidence, effort, then cross-cutting advisories)
// and additive: new rules append, they never replace existing ones.
func Insights(reach, impact, confidence, effort, score float64) []string {
	var out []string

	if reach <= 3 {
		out = append(out, "Limited reach: this affects a small share of users")
	} else if reach >= 8 {
		out = append(out, "Excellent reach: this touches most of your user base")
	}

	if impact <= 3 {
		out = append(out, "Low impact per user; consider bundling with related work")
	} else if impact >= 7 {
		out = append(out, "High impact: meaningful improvement for each user reached")
	}

	if confidence < 50 {
		out = append(out, "Low confidence: validate assumptions before committing")
	} else if confidence >= 80 {
		out = append(out, "High confidence backed by solid evidence")
	}

	if effort >= 7 {
		out = append(out, "High effort: consider splitting into smaller deliverables")
	} else if effort <= 3 {
		out = append(out, "Quick win: low effort relative to typical work")
	}

	if score < couldDoFloor && effort >= 7 {
		out = append(out, "Low score with high effort: strong candidate to drop or rescope")
	}
	if score >= mustDoFloor && effort <= 3 {
		out = append(out, "High score with low effort: prioritize this immediately")
	}

	return out
}

// Comparison is the outcome of comparing two scored entries.
type Comparison struct {
	Winner     model.RiceScore `json:"winner"`
	Loser      model.RiceScore `json:"loser"`
	Difference float64         `json:"difference"`
	Verdict    string          `json:"verdict"`
	Note       string          `json:"note,omitempty"`
}

// Compare picks the higher-scoring entry and grades how decisive the gap is.
// A band note is added when the two entries land in different priority bands.
func Compare(a, b model.RiceScore) Comparison {
	winner, loser := a, b
	if b.Score > a.Score {
		winner, loser = b, a
	}

	diff := winner.Score - loser.Score
	var verdict string
	switch {
	case diff < 5:
		verdict = "very close"
	case diff < 20:
		verdict = "moderately better"
	default:
		verdict = "significantly better"
	}

	c := Comparison{Winner: winner, Loser: loser, Difference: diff, Verdict: verdict}

	wBand, lBand := Categorize(winner.Score), Categorize(loser.Score)
	if wBand.Label != lBand.Label {
		c.Note = fmt.Sprintf("%q falls in %s while %q falls in %s", winner.Name, wBand.Label, loser.Name, lBand.Label)
	}
	return c
}
