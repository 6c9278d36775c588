package model

// TestDirection selects a one- or two-tailed hypothesis test.
type TestDirection string

const (
	OneTailed TestDirection = "one_tailed"
	TwoTailed TestDirection = "two_tailed"
)

// EffectType says whether an effect size is relative to the baseline rate or
// an absolute difference in percentage points.
type EffectType string

const (
	EffectRelative EffectType = "relative"
	EffectAbsolute EffectType = "absolute"
)

// SampleSizeInput holds the design parameters for a frequentist sample-size
// calculation. All rates and levels are percentages.
type SampleSizeInput struct {
	BaselineRate float64       `json:"baseline_rate"` // control conversion rate, 0-100
	Effect       float64       `json:"effect"`        // minimum effect to detect
	EffectType   EffectType    `json:"effect_type"`
	Power        float64       `json:"power"`      // e.g. 80
	Confidence   float64       `json:"confidence"` // e.g. 95
	Direction    TestDirection `json:"direction"`
	Treatments   int           `json:"treatments"`            // non-control arms, >= 1
	Correction   bool          `json:"correction"`            // Bonferroni across treatments
	DailyTraffic int           `json:"daily_traffic"`         // 0 skips duration estimate
	Allocations  []float64     `json:"allocations,omitempty"` // % per arm incl. control
}

// SampleSizeResult is the output of a sample-size calculation. Duration fields
// are zero when no daily traffic was supplied.
type SampleSizeResult struct {
	PerVariation    int      `json:"per_variation"`
	Total           int      `json:"total"`
	VariantRate     float64  `json:"variant_rate"` // derived treatment rate, %
	Alpha           float64  `json:"alpha"`        // after any correction
	ZAlpha          float64  `json:"z_alpha"`
	ZBeta           float64  `json:"z_beta"`
	DurationDays    int      `json:"duration_days,omitempty"`
	DurationLowDays int      `json:"duration_low_days,omitempty"`
	DurationHiDays  int      `json:"duration_hi_days,omitempty"`
	Notes           []string `json:"notes,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
}

// MDEResult is the output of a minimum-detectable-effect calculation.
type MDEResult struct {
	AbsoluteMDE float64 `json:"absolute_mde"` // percentage points
	RelativeMDE float64 `json:"relative_mde"` // % of baseline
	VariantRate float64 `json:"variant_rate"` // baseline + absolute MDE, %
}

// Variation is one arm of a completed A/B test.
type Variation struct {
	Name        string `json:"name" yaml:"name"`
	Visitors    int    `json:"visitors" yaml:"visitors"`
	Conversions int    `json:"conversions" yaml:"conversions"`
	Control     bool   `json:"control" yaml:"control"`
}

// TestConfig describes a completed test: exactly one control plus at least
// one treatment arm.
type TestConfig struct {
	Name       string        `json:"name,omitempty"`
	Variations []Variation   `json:"variations"`
	Confidence float64       `json:"confidence"` // significance level, %
	Direction  TestDirection `json:"direction"`
}

// TestResult is the per-treatment outcome of a significance evaluation.
type TestResult struct {
	Variation    string     `json:"variation"`
	ControlRate  float64    `json:"control_rate"` // %
	VariantRate  float64    `json:"variant_rate"` // %
	Uplift       float64    `json:"uplift"`       // relative %
	PValue       float64    `json:"p_value"`
	Significant  bool       `json:"significant"`
	Power        float64    `json:"power"`       // observed power, 0-1
	EffectSize   float64    `json:"effect_size"` // absolute difference, pp
	ConfInterval [2]float64 `json:"conf_interval"` // CI on the difference, pp
	Warnings     []string   `json:"warnings,omitempty"`
}
