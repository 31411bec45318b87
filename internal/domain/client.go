// Package domain contains the data structures shared across the application.
package domain

import "time"

// ClientRecord is a normalized customer record used as input for RFM scoring.
// Records come from the HubSpot integrator or from the sample dataset; the
// scoring engine never mutates them.
type ClientRecord struct {
	ID               string     `json:"client_id"`
	Name             string     `json:"client_name"`
	TotalRevenue     float64    `json:"total_revenue"`
	TransactionCount int        `json:"transaction_count"`
	LastPurchaseDate *time.Time `json:"last_purchase_date"`
	Industry         string     `json:"industry,omitempty"`
	EmployeeBand     string     `json:"employee_count,omitempty"`
	RevenueBand      string     `json:"company_revenue,omitempty"`
	Region           string     `json:"state_region,omitempty"`
}

// ScoredClient pairs a client record with its computed RFM scores and segment.
type ScoredClient struct {
	ClientRecord
	DaysSinceLast int      `json:"days_since_last"`
	Score         RFMScore `json:"rfm_score"`
	RFMTotal      int      `json:"rfm_total"`
	RFMCode       string   `json:"rfm_code"`
	Segment       Segment  `json:"segment"`
}
