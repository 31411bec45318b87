package domain

// ProspectProfile holds the attributes of a single prospect across the three
// qualification dimensions. Every field is independently optional: an absent
// field contributes zero points to its dimension instead of failing the run.
// Pointer and empty-string/empty-slice values mark absence so a real zero is
// never confused with "not provided".
type ProspectProfile struct {
	CompanyName string `json:"company_name,omitempty"`
	CRMID       string `json:"crm_id,omitempty"`

	// Firmographic
	Industry      string   `json:"industry,omitempty"`
	AnnualRevenue *float64 `json:"annual_revenue,omitempty"`
	EmployeeCount *int     `json:"employee_count,omitempty"`
	Geography     string   `json:"geography,omitempty"`

	// Behavioral
	TechStack         []string `json:"tech_stack,omitempty"`
	GrowthSignals     []string `json:"growth_signals,omitempty"`
	ContentEngagement string   `json:"content_engagement,omitempty"`
	PurchaseHistory   string   `json:"purchase_history,omitempty"`

	// Strategic
	DecisionMakerAccess string `json:"decision_maker_access,omitempty"`
	BudgetAuthority     string `json:"budget_authority,omitempty"`
	StrategicAlignment  string `json:"strategic_alignment,omitempty"`
}

// TierLabel is one of the four qualification outcomes.
type TierLabel string

const (
	TierIdeal    TierLabel = "Ideal"
	TierStrong   TierLabel = "Strong"
	TierModerate TierLabel = "Moderate"
	TierPoor     TierLabel = "Poor"
)

// Tier describes one qualification tier.
type Tier struct {
	Number             int       `json:"number"`
	Label              TierLabel `json:"label"`
	Color              string    `json:"color"`
	CRMValue           string    `json:"crm_value"`
	MinScore           float64   `json:"min_score"`
	EngagementStrategy string    `json:"engagement_strategy"`
}

// CriterionScore is the outcome of a single sub-criterion.
type CriterionScore struct {
	Score     float64 `json:"score"`
	Max       float64 `json:"max"`
	Rationale string  `json:"rationale"`
}

// DimensionScore aggregates the sub-criteria of one qualification dimension.
type DimensionScore struct {
	Score   float64                   `json:"score"`
	Max     float64                   `json:"max"`
	Details map[string]CriterionScore `json:"details"`
}

// ExclusionCheck records whether a hard exclusion fired, and why.
type ExclusionCheck struct {
	Excluded bool   `json:"excluded"`
	Rule     string `json:"rule,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// QualificationResult is the full outcome of scoring one prospect.
// TotalScore always carries the accumulated points, even when an exclusion
// forced the tier to Poor, so the would-be score stays visible for diagnosis.
type QualificationResult struct {
	TotalScore         float64        `json:"total_score"`
	Tier               Tier           `json:"tier"`
	Firmographic       DimensionScore `json:"firmographic"`
	Behavioral         DimensionScore `json:"behavioral"`
	Strategic          DimensionScore `json:"strategic"`
	MissingFields      []string       `json:"missing_fields"`
	Exclusion          ExclusionCheck `json:"exclusion_check"`
	RecommendedAction  string         `json:"recommended_action"`
	EngagementStrategy string         `json:"engagement_strategy"`
}
