package analysis

import "time"

// Status classifies a project's day-over-day cost trend.
type Status string

const (
	StatusNominal Status = "NOMINAL"
	StatusWarning Status = "WARNING"
)

// CostRecord is one aggregated cost value for a single time window.
// Currency is whatever the billing rows report; no conversion is done.
type CostRecord struct {
	Cost     float64   `json:"cost"`
	Currency string    `json:"currency"`
	Date     time.Time `json:"date"`
}

// ServiceCost is one ranked line of a per-project service breakdown.
type ServiceCost struct {
	Service  string  `json:"service"`
	Cost     float64 `json:"cost"`
	Currency string  `json:"currency"`
}

// ProjectReport holds the two-day cost comparison for one project.
// TopServices is populated only when Status is StatusWarning.
type ProjectReport struct {
	ProjectID   string        `json:"projectId"`
	OneDayAgo   CostRecord    `json:"oneDayAgo"`
	TwoDaysAgo  CostRecord    `json:"twoDaysAgo"`
	Status      Status        `json:"status"`
	TopServices []ServiceCost `json:"topServices,omitempty"`
}

// ProjectedCost is the naive linear month-end extrapolation.
type ProjectedCost struct {
	Cost     float64 `json:"cost"`
	Currency string  `json:"currency"`
}

// Summary aggregates account-wide spend for the run.
type Summary struct {
	PastDay       CostRecord    `json:"pastDay"`
	PastMonth     CostRecord    `json:"pastMonth"`
	ProjectedCost ProjectedCost `json:"projectedCost"`
}

// Report is the result of one analysis run. It is transient: built once,
// handed to a formatter, never persisted.
type Report struct {
	Breakdown []ProjectReport `json:"breakdown"`
	Summary   Summary         `json:"summary"`
}
