package domain

// Segment is one of the 11 RFM segment labels.
type Segment string

const (
	SegmentChampions          Segment = "Champions"
	SegmentLoyalCustomers     Segment = "Loyal Customers"
	SegmentPotentialLoyalists Segment = "Potential Loyalists"
	SegmentNewCustomers       Segment = "New Customers"
	SegmentPromising          Segment = "Promising"
	SegmentNeedAttention      Segment = "Need Attention"
	SegmentAboutToSleep       Segment = "About to Sleep"
	SegmentAtRisk             Segment = "At Risk"
	SegmentCantLoseThem       Segment = "Can't Lose Them"
	SegmentHibernating        Segment = "Hibernating"
	SegmentLost               Segment = "Lost"
)

// AllSegments lists every segment in display order.
func AllSegments() []Segment {
	return []Segment{
		SegmentChampions,
		SegmentLoyalCustomers,
		SegmentPotentialLoyalists,
		SegmentNewCustomers,
		SegmentPromising,
		SegmentNeedAttention,
		SegmentAboutToSleep,
		SegmentAtRisk,
		SegmentCantLoseThem,
		SegmentHibernating,
		SegmentLost,
	}
}

// SegmentInfo describes a segment and the follow-up it calls for.
type SegmentInfo struct {
	Description string `json:"description"`
	Action      string `json:"action"`
}

// ValueShare is the share of one categorical value among top performers,
// compared against its share in the whole client base.
type ValueShare struct {
	Value  string  `json:"value"`
	Count  int     `json:"count"`
	PctTop float64 `json:"pct_top"`
	PctAll float64 `json:"pct_all"`
	Lift   float64 `json:"lift"`
}

// AttributePattern is the full distribution of one categorical attribute over
// the top-performer set. TopValue is the plurality value, ties broken by
// first-seen order in the filtered set.
type AttributePattern struct {
	TopValue     string       `json:"top_value"`
	Distribution []ValueShare `json:"distribution"`
	Primary      []ValueShare `json:"primary"`
	Secondary    []ValueShare `json:"secondary"`
	Negative     []ValueShare `json:"negative"`
}

// NumericSummary is the min/median/max spread of one numeric attribute.
type NumericSummary struct {
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// ICPPattern is the ideal-customer pattern extracted from top-segment clients.
type ICPPattern struct {
	SampleSize       int                 `json:"sample_size"`
	Industry         AttributePattern    `json:"industry"`
	EmployeeBand     AttributePattern    `json:"employee_count"`
	RevenueBand      AttributePattern    `json:"company_revenue"`
	Region           AttributePattern    `json:"region"`
	Revenue          NumericSummary      `json:"revenue"`
	TransactionCount NumericSummary      `json:"transaction_count"`
	TierCriteria     TierRecommendations `json:"tier_recommendations"`
}

// TierRecommendations translates extracted patterns into prospecting tiers.
type TierRecommendations struct {
	Tier1Industries []string     `json:"tier_1_industries"`
	Tier1Sizes      []string     `json:"tier_1_sizes"`
	Tier1Revenue    []string     `json:"tier_1_revenue"`
	AntiPatterns    []ValueShare `json:"anti_patterns"`
}
