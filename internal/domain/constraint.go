package domain

// ConstraintKey is one of the four scaling constraints that can dominate a
// revenue operation.
type ConstraintKey string

const (
	ConstraintLeadGeneration ConstraintKey = "lead_generation"
	ConstraintConversion     ConstraintKey = "conversion"
	ConstraintDelivery       ConstraintKey = "delivery"
	ConstraintProfitability  ConstraintKey = "profitability"
)

// ConstraintInfo describes one constraint and its levers.
type ConstraintInfo struct {
	Label        string   `json:"label"`
	Description  string   `json:"description"`
	Symptoms     []string `json:"symptoms"`
	EngineFocus  string   `json:"engine_focus"`
	Levers       []string `json:"levers"`
	PrimaryLever string   `json:"primary_lever"`
}

// ConstraintScore ranks one constraint by severity (0-100).
type ConstraintScore struct {
	Key          ConstraintKey `json:"constraint"`
	Label        string        `json:"label"`
	Severity     float64       `json:"severity_score"`
	Description  string        `json:"description"`
	EngineFocus  string        `json:"engine_focus"`
	PrimaryLever string        `json:"primary_lever"`
}

// FormulaStage is one conversion-rate component of the revenue formula with
// its gap to benchmark.
type FormulaStage struct {
	Label       string  `json:"label"`
	Transition  string  `json:"transition"`
	CurrentRate float64 `json:"current_rate"`
	Benchmark   float64 `json:"benchmark"`
	Gap         float64 `json:"gap"`
	GapPct      float64 `json:"gap_pct"`
	Status      string  `json:"status"`
}

// RevenueFormula is the multiplicative pipeline model breakdown.
type RevenueFormula struct {
	Formula      string         `json:"formula"`
	TrafficCount int            `json:"traffic_count"`
	Stages       []FormulaStage `json:"conversion_rates"`
	ACVCurrent   float64        `json:"acv_current"`
	ACVBenchmark float64        `json:"acv_benchmark"`
	ACVGap       float64        `json:"acv_gap"`
	WeakestLink  *FormulaStage  `json:"weakest_link,omitempty"`
	Note         string         `json:"compound_improvement_note"`
}

// ConstraintPipelineSummary carries the headline pipeline numbers backing a
// constraint analysis.
type ConstraintPipelineSummary struct {
	TotalDeals       int      `json:"total_deals"`
	TotalValue       float64  `json:"total_value"`
	AvgDealValue     float64  `json:"avg_deal_value"`
	AtRiskCount      int      `json:"at_risk_count"`
	AtRiskPct        float64  `json:"at_risk_pct"`
	CycleDays        float64  `json:"cycle_days"`
	BottleneckStages []string `json:"bottleneck_stages,omitempty"`
	CoverageRatio    *float64 `json:"coverage_ratio,omitempty"`
}

// DominantConstraint is the winning constraint with its full description.
type DominantConstraint struct {
	Key          ConstraintKey `json:"constraint"`
	Label        string        `json:"label"`
	Severity     float64       `json:"severity_score"`
	Description  string        `json:"description"`
	Symptoms     []string      `json:"symptoms"`
	EngineFocus  string        `json:"engine_focus"`
	Levers       []string      `json:"levers"`
	PrimaryLever string        `json:"primary_lever"`
}

// ConstraintReport is the full outcome of a dominant-constraint analysis.
type ConstraintReport struct {
	RunID            string                    `json:"run_id"`
	Dominant         *DominantConstraint       `json:"dominant_constraint,omitempty"`
	Ranking          []ConstraintScore         `json:"constraint_ranking,omitempty"`
	Formula          *RevenueFormula           `json:"revenue_formula,omitempty"`
	Pipeline         ConstraintPipelineSummary `json:"pipeline_summary"`
	RecommendedFocus string                    `json:"recommended_focus,omitempty"`
	Analysis         string                    `json:"analysis,omitempty"`
	AnalysisDate     string                    `json:"analysis_date"`
}
