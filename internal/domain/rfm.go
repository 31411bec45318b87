package domain

import "fmt"

// RFMScore holds the three 1-5 scores of the RFM model.
type RFMScore struct {
	Recency   int `json:"r_score"`
	Frequency int `json:"f_score"`
	Monetary  int `json:"m_score"`
}

// Total returns the sum of the three scores, in the 3-15 range.
func (s RFMScore) Total() int {
	return s.Recency + s.Frequency + s.Monetary
}

// Code returns the compact "RFM" form, e.g. "545".
func (s RFMScore) Code() string {
	return fmt.Sprintf("%d%d%d", s.Recency, s.Frequency, s.Monetary)
}

// SegmentStats aggregates count and revenue share of one segment across a
// scored client set.
type SegmentStats struct {
	Count      int     `json:"count"`
	Revenue    float64 `json:"revenue"`
	Pct        float64 `json:"pct"`
	PctRevenue float64 `json:"pct_revenue"`
}

// RFMAnalysis is the full result of an RFM run over a client set.
type RFMAnalysis struct {
	RunID               string                   `json:"run_id"`
	AnalysisDate        string                   `json:"analysis_date"`
	TotalClients        int                      `json:"total_clients"`
	Preset              string                   `json:"industry_preset"`
	Clients             []ScoredClient           `json:"clients"`
	TopPerformers       []ScoredClient           `json:"top_performers"`
	SegmentDistribution map[Segment]SegmentStats `json:"segment_distribution"`
	Patterns            *ICPPattern              `json:"icp_patterns,omitempty"`
	PatternsNote        string                   `json:"icp_patterns_note,omitempty"`
	Summary             RFMSummary               `json:"summary"`
}

// RFMSummary carries the headline numbers of an analysis.
type RFMSummary struct {
	TotalRevenue  float64 `json:"total_revenue"`
	AvgRFMScore   float64 `json:"avg_rfm_score"`
	ChampionCount int     `json:"champion_count"`
	AtRiskCount   int     `json:"at_risk_count"`
}
