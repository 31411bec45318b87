package domain

// StageVelocity is the average dwell time of deals in one stage.
type StageVelocity struct {
	StageID    string  `json:"stage"`
	StageLabel string  `json:"stage_label"`
	AvgDays    float64 `json:"avg_days"`
	SampleSize int     `json:"sample_size"`
	Bottleneck bool    `json:"bottleneck"`
}

// ConversionRate is the stage-to-stage conversion for one adjacent pair.
// HasData is false when no deal ever reached the earlier stage, so a zero
// rate is never reported for an empty denominator.
type ConversionRate struct {
	FromStage string  `json:"from_stage"`
	ToStage   string  `json:"to_stage"`
	Label     string  `json:"label"`
	Entered   int     `json:"entered"`
	Converted int     `json:"converted"`
	Rate      float64 `json:"rate"`
	HasData   bool    `json:"has_data"`
}

// AtRiskDeal is an open deal flagged by one or more risk heuristics.
type AtRiskDeal struct {
	DealID         string   `json:"id"`
	Name           string   `json:"name"`
	StageLabel     string   `json:"stage"`
	Amount         float64  `json:"amount"`
	DaysInPipeline int      `json:"days_in_pipeline"`
	Reasons        []string `json:"risk_reasons"`
}

// ExitCheck is one cell of the per-deal exit-criteria matrix.
type ExitCheck struct {
	DealID    string `json:"deal_id"`
	StageID   string `json:"stage"`
	Criterion string `json:"criterion"`
	Passed    bool   `json:"passed"`
}

// StageCount is the count/value share of one stage in the distribution.
type StageCount struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// PipelineHealthResult is the composite outcome of a pipeline analysis.
type PipelineHealthResult struct {
	RunID             string                `json:"run_id"`
	HealthScore       int                   `json:"health_score"`
	HealthLabel       string                `json:"health_label"`
	TotalDeals        int                   `json:"total_deals"`
	OpenDeals         int                   `json:"open_deals"`
	TotalValue        float64               `json:"total_value"`
	Velocity          []StageVelocity       `json:"velocity"`
	BottleneckStages  []string              `json:"bottleneck_stages"`
	OverallCycleDays  float64               `json:"overall_cycle_days"`
	Conversions       []ConversionRate      `json:"conversion_rates"`
	AtRisk            []AtRiskDeal          `json:"at_risk_deals"`
	ExitChecks        []ExitCheck           `json:"exit_checks,omitempty"`
	StageDistribution map[string]StageCount `json:"stage_distribution"`
}
