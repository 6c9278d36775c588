package model

import "time"

// LineItem is one cost or benefit entry in an ROI calculation. Recurring
// items contribute Amount every month in [StartMonth, StartMonth+Months);
// one-time items contribute Amount in StartMonth only. Probability risk-weights
// benefit items (0-100, nil means 100).
type LineItem struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Category    string   `json:"category" yaml:"category"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Amount      float64  `json:"amount" yaml:"amount"`
	StartMonth  int      `json:"start_month" yaml:"start_month"`
	Months      int      `json:"months" yaml:"months"`
	Recurring   bool     `json:"recurring" yaml:"recurring"`
	Probability *float64 `json:"probability,omitempty" yaml:"probability,omitempty"`
}

// RoiCalculation holds the inputs for an ROI projection.
type RoiCalculation struct {
	Name         string     `json:"name,omitempty" yaml:"name,omitempty"`
	InitialCost  float64    `json:"initial_cost" yaml:"initial_cost"`
	Costs        []LineItem `json:"costs" yaml:"costs"`
	Benefits     []LineItem `json:"benefits" yaml:"benefits"`
	TimeHorizon  int        `json:"time_horizon" yaml:"time_horizon"`   // months
	DiscountRate float64    `json:"discount_rate" yaml:"discount_rate"` // annual %
	Currency     string     `json:"currency" yaml:"currency"`
	CreatedAt    time.Time  `json:"created_at" yaml:"created_at"`
}

// MonthlyProjection is one month of the cash-flow timeline. CumulativeCashFlow
// is the running sum of NetCashFlow only; the initial cost is tracked
// separately so the undiscounted cumulative series stays drift-free.
type MonthlyProjection struct {
	Month                int     `json:"month" yaml:"month"`
	Costs                float64 `json:"costs" yaml:"costs"`
	Benefits             float64 `json:"benefits" yaml:"benefits"`
	NetCashFlow          float64 `json:"net_cash_flow" yaml:"net_cash_flow"`
	CumulativeCashFlow   float64 `json:"cumulative_cash_flow" yaml:"cumulative_cash_flow"`
	DiscountedCashFlow   float64 `json:"discounted_cash_flow" yaml:"discounted_cash_flow"`
	CumulativeDiscounted float64 `json:"cumulative_discounted" yaml:"cumulative_discounted"`
}

// RoiMetrics holds the derived financial metrics for an ROI calculation.
// IRR and PaybackMonths are meaningful only when their flags say so.
type RoiMetrics struct {
	SimpleROI      float64  `json:"simple_roi" yaml:"simple_roi"` // %
	NPV            float64  `json:"npv" yaml:"npv"`
	IRR            float64  `json:"irr" yaml:"irr"` // annualized %
	IRRDefined     bool     `json:"irr_defined" yaml:"irr_defined"`
	PaybackMonths  float64  `json:"payback_months" yaml:"payback_months"`
	PaybackReached bool     `json:"payback_reached" yaml:"payback_reached"`
	BreakEvenMonth int      `json:"break_even_month" yaml:"break_even_month"` // 0 when never reached
	TotalCosts     float64  `json:"total_costs" yaml:"total_costs"`           // includes initial cost
	TotalBenefits  float64  `json:"total_benefits" yaml:"total_benefits"`     // risk-adjusted
	Warnings       []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// RoiResult bundles the metrics with the month-by-month projection.
type RoiResult struct {
	Metrics    RoiMetrics          `json:"metrics" yaml:"metrics"`
	Projection []MonthlyProjection `json:"projection" yaml:"projection"`
}
