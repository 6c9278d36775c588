package model

import "time"

// TimePeriod normalizes market figures to a reporting period.
type TimePeriod string

const (
	PeriodAnnual    TimePeriod = "annual"
	PeriodQuarterly TimePeriod = "quarterly"
	PeriodMonthly   TimePeriod = "monthly"
)

// Maturity describes the lifecycle stage of the target market.
type Maturity string

const (
	MaturityEmerging  Maturity = "emerging"
	MaturityGrowing   Maturity = "growing"
	MaturityMature    Maturity = "mature"
	MaturityDeclining Maturity = "declining"
)

// GeoScope describes the geographic reach of the market estimate.
type GeoScope string

const (
	GeoGlobal   GeoScope = "global"
	GeoCountry  GeoScope = "country"
	GeoRegional GeoScope = "regional"
	GeoLocal    GeoScope = "local"
)

// MarketMethod identifies which sizing approach produced a TamCalculation.
type MarketMethod string

const (
	MethodTopDown  MarketMethod = "top_down"
	MethodBottomUp MarketMethod = "bottom_up"
)

// MarketParams holds the shared qualitative inputs for a market sizing run.
type MarketParams struct {
	TimePeriod TimePeriod `json:"time_period" yaml:"time_period"`
	Maturity   Maturity   `json:"maturity" yaml:"maturity"`
	GeoScope   GeoScope   `json:"geo_scope" yaml:"geo_scope"`
	Currency   string     `json:"currency" yaml:"currency"`
}

// MarketSegment is one customer segment in a bottom-up market sizing.
type MarketSegment struct {
	Name            string  `json:"name" yaml:"name"`
	Users           float64 `json:"users" yaml:"users"`
	AvgPrice        float64 `json:"avg_price" yaml:"avg_price"`
	GrowthRate      float64 `json:"growth_rate" yaml:"growth_rate"`           // annual %
	PenetrationRate float64 `json:"penetration_rate" yaml:"penetration_rate"` // 0-100 %
}

// TamCalculation is the result of a TAM/SAM/SOM market sizing. The invariant
// tam >= sam >= som >= 0 holds for every value produced by the engine.
type TamCalculation struct {
	TAM         float64         `json:"tam" yaml:"tam"`
	SAM         float64         `json:"sam" yaml:"sam"`
	SOM         float64         `json:"som" yaml:"som"`
	Method      MarketMethod    `json:"method" yaml:"method"`
	Confidence  float64         `json:"confidence" yaml:"confidence"` // 0-100 input-quality score
	Assumptions []string        `json:"assumptions" yaml:"assumptions"`
	Segments    []MarketSegment `json:"segments,omitempty" yaml:"segments,omitempty"` // bottom-up only
	Params      MarketParams    `json:"params" yaml:"params"`
	CreatedAt   time.Time       `json:"created_at" yaml:"created_at"`
}
