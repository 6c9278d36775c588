package market

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/prateekjain24/pmkit/internal/model"
)

// maturityMultiplier scales sizing by market lifecycle stage.
func maturityMultiplier(m model.Maturity) float64 {
	switch m {
	case model.MaturityEmerging:
		return 1.3
	case model.MaturityGrowing:
		return 1.1
	case model.MaturityDeclining:
		return 0.9
	default: // mature or unset
		return 1.0
	}
}

// BottomUp aggregates per-segment user and pricing data into TAM/SAM/SOM.
// TAM is growth-adjusted; SAM is penetration-weighted but NOT growth-adjusted
// (penetration already prices in what is reachable today); SOM applies the
// target share diluted across competitors plus ourselves.
func BottomUp(segments []model.MarketSegment, params model.MarketParams, competitorCount int, marketShareTarget float64) (*model.TamCalculation, error) {
	if len(segments) == 0 {
		return nil, eris.New("market: at least one segment is required")
	}
	if competitorCount < 0 {
		return nil, eris.New("market: competitor count must be non-negative")
	}
	if marketShareTarget < 0 || marketShareTarget > 100 {
		return nil, eris.Errorf("market: market share target %.1f outside [0,100]", marketShareTarget)
	}
	for i, s := range segments {
		if s.Users < 0 || s.AvgPrice < 0 {
			return nil, eris.Errorf("market: segment %d has negative users or price", i)
		}
		if s.PenetrationRate < 0 || s.PenetrationRate > 100 {
			return nil, eris.Errorf("market: segment %d penetration %.1f outside [0,100]", i, s.PenetrationRate)
		}
	}

	var tam, sam float64
	for _, s := range segments {
		base := s.Users * s.AvgPrice
		tam += base * (1 + s.GrowthRate/100)
		sam += base * s.PenetrationRate / 100
	}
	som := sam * marketShareTarget / 100 / float64(competitorCount+1)

	mult := maturityMultiplier(params.Maturity)
	div := periodDivisor(params.TimePeriod)
	tam = tam * mult / div
	sam = sam * mult / div
	som = som * mult / div

	calc := &model.TamCalculation{
		TAM:        tam,
		SAM:        sam,
		SOM:        som,
		Method:     model.MethodBottomUp,
		Confidence: Confidence(params, segments),
		Assumptions: []string{
			fmt.Sprintf("TAM aggregated over %d segments with per-segment growth applied", len(segments)),
			"SAM weighted by per-segment penetration without growth adjustment",
			fmt.Sprintf("SOM assumes %.1f%% share diluted across %d competitors", marketShareTarget, competitorCount),
			fmt.Sprintf("Market maturity multiplier %.1fx applied", mult),
		},
		Segments:  segments,
		Params:    params,
		CreatedAt: time.Now().UTC(),
	}
	return calc, nil
}

// SegmentValue returns the addressable value of one segment:
// users x avgPrice x penetration/100.
func SegmentValue(s model.MarketSegment) float64 {
	return s.Users * s.AvgPrice * s.PenetrationRate / 100
}
