package rice

import "github.com/prateekjain24/pmkit/internal/model"

// AverageScore returns the mean score over a history, rounded to one decimal.
// An empty list averages to zero.
func AverageScore(scores []model.RiceScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s.Score
	}
	return round1(sum / float64(len(scores)))
}

// Distribution counts how many entries fall into each priority band,
// keyed by band label. Bands with no entries are present with a zero count
// so callers can render a stable four-row summary.
func Distribution(scores []model.RiceScore) map[string]int {
	dist := map[string]int{
		mustDo.Label:   0,
		shouldDo.Label: 0,
		couldDo.Label:  0,
		wontDo.Label:   0,
	}
	for _, s := range scores {
		dist[Categorize(s.Score).Label]++
	}
	return dist
}
