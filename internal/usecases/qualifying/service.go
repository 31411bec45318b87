package qualifying

import (
	"fmt"
	"math"
	"strings"

	"github.com/artefactventures/artefact-mcp/internal/domain"
)

// Dimension maxima of the 14.5-point model.
const (
	firmographicMax = 5.0
	behavioralMax   = 5.0
	strategicMax    = 4.5
)

// Qualifier scores prospect profiles against one scoring configuration.
// Qualify is pure: same profile and config, same result.
type Qualifier struct {
	cfg ScoringConfig
}

func NewQualifier(cfg ScoringConfig) *Qualifier {
	return &Qualifier{cfg: cfg}
}

// Qualify scores a single prospect. Missing fields never fail the run: each
// absent sub-criterion contributes zero and is listed in MissingFields. Hard
// exclusions force the Poor tier but leave the accumulated score visible.
func (q *Qualifier) Qualify(profile domain.ProspectProfile) domain.QualificationResult {
	var missing []string

	firmographic := q.scoreFirmographic(profile, &missing)
	behavioral := q.scoreBehavioral(profile, &missing)
	strategic := q.scoreStrategic(profile, &missing)

	total := round1(firmographic.Score + behavioral.Score + strategic.Score)
	exclusion := q.checkExclusions(profile)

	result := domain.QualificationResult{
		TotalScore:    total,
		Firmographic:  firmographic,
		Behavioral:    behavioral,
		Strategic:     strategic,
		MissingFields: missing,
		Exclusion:     exclusion,
	}

	if exclusion.Excluded {
		tiers := Tiers()
		result.Tier = tiers[len(tiers)-1]
		result.RecommendedAction = fmt.Sprintf("EXCLUDED: %s. Do not pursue.", exclusion.Reason)
		result.EngagementStrategy = "None: excluded from ICP."
		return result
	}

	tier := ClassifyTier(total)
	result.Tier = tier
	result.RecommendedAction = recommendedAction(tier)
	result.EngagementStrategy = tier.EngagementStrategy
	return result
}

// --- Firmographic (5 points max) ---

func (q *Qualifier) scoreFirmographic(p domain.ProspectProfile, missing *[]string) domain.DimensionScore {
	details := map[string]domain.CriterionScore{
		"industry":       q.scoreIndustry(p.Industry, missing),
		"revenue_range":  q.scoreRevenueRange(p.AnnualRevenue, missing),
		"employee_count": q.scoreEmployeeCount(p.EmployeeCount, missing),
		"geography":      q.scoreGeography(p.Geography, missing),
	}
	return dimension(details, firmographicMax)
}

func (q *Qualifier) scoreIndustry(industry string, missing *[]string) domain.CriterionScore {
	const max = 2.0
	if industry == "" {
		*missing = append(*missing, "industry")
		return domain.CriterionScore{Max: max, Rationale: "No industry provided"}
	}
	normalized := strings.ToLower(strings.TrimSpace(industry))
	switch {
	case matchesAny(normalized, q.cfg.PrimaryIndustries):
		return domain.CriterionScore{Score: 2.0, Max: max, Rationale: "Primary target industry: " + industry}
	case matchesAny(normalized, q.cfg.AdjacentIndustries):
		return domain.CriterionScore{Score: 1.0, Max: max, Rationale: "Adjacent industry: " + industry}
	case matchesAny(normalized, q.cfg.TangentialIndustries):
		return domain.CriterionScore{Score: 0.5, Max: max, Rationale: "Tangential industry: " + industry}
	}
	return domain.CriterionScore{Max: max, Rationale: "Outside target industries: " + industry}
}

func (q *Qualifier) scoreRevenueRange(revenue *float64, missing *[]string) domain.CriterionScore {
	const max = 1.5
	if revenue == nil {
		*missing = append(*missing, "revenue_range")
		return domain.CriterionScore{Max: max, Rationale: "No revenue data"}
	}
	r := *revenue

	sweetMin, sweetMax := 1_600_000.0, 70_000_000.0
	acceptMin, acceptMax := 1_000_000.0, 100_000_000.0
	stretchMin, stretchMax := 500_000.0, 200_000_000.0
	if q.cfg.RevenueRange != nil {
		sweetMin, sweetMax = q.cfg.RevenueRange[0], q.cfg.RevenueRange[1]
		margin := (sweetMax - sweetMin) * 0.25
		acceptMin, acceptMax = sweetMin-margin, sweetMax+margin
		stretchMin, stretchMax = sweetMin-margin*2, sweetMax+margin*2
	}

	switch {
	case r >= sweetMin && r <= sweetMax:
		return domain.CriterionScore{Score: 1.5, Max: max, Rationale: fmt.Sprintf("Sweet spot: $%.0f", r)}
	case r >= acceptMin && r <= acceptMax:
		return domain.CriterionScore{Score: 1.0, Max: max, Rationale: fmt.Sprintf("Acceptable range: $%.0f", r)}
	case r >= stretchMin && r <= stretchMax:
		return domain.CriterionScore{Score: 0.5, Max: max, Rationale: fmt.Sprintf("Stretch range: $%.0f", r)}
	}
	return domain.CriterionScore{Max: max, Rationale: fmt.Sprintf("Outside viable range: $%.0f", r)}
}

func (q *Qualifier) scoreEmployeeCount(count *int, missing *[]string) domain.CriterionScore {
	const max = 1.0
	if count == nil {
		*missing = append(*missing, "employee_count")
		return domain.CriterionScore{Max: max, Rationale: "No employee data"}
	}
	n := *count

	idealMin, idealMax := 10, 200
	borderMin, borderMax := 5, 500
	if q.cfg.EmployeeRange != nil {
		idealMin, idealMax = q.cfg.EmployeeRange[0], q.cfg.EmployeeRange[1]
		borderMin = idealMin / 2
		if borderMin < 1 {
			borderMin = 1
		}
		borderMax = idealMax + (idealMax-idealMin)/2
	}

	switch {
	case n >= idealMin && n <= idealMax:
		return domain.CriterionScore{Score: 1.0, Max: max, Rationale: fmt.Sprintf("Ideal range: %d", n)}
	case n >= borderMin && n <= borderMax:
		return domain.CriterionScore{Score: 0.5, Max: max, Rationale: fmt.Sprintf("Borderline: %d", n)}
	}
	return domain.CriterionScore{Max: max, Rationale: fmt.Sprintf("Outside range: %d", n)}
}

func (q *Qualifier) scoreGeography(geography string, missing *[]string) domain.CriterionScore {
	const max = 0.5
	if geography == "" {
		*missing = append(*missing, "geography")
		return domain.CriterionScore{Max: max, Rationale: "No geography provided"}
	}
	normalized := strings.ToLower(strings.TrimSpace(geography))
	switch {
	case matchesAny(normalized, q.cfg.PrimaryGeography):
		return domain.CriterionScore{Score: 0.5, Max: max, Rationale: "Primary market: " + geography}
	case matchesAny(normalized, q.cfg.SecondaryGeography):
		return domain.CriterionScore{Score: 0.25, Max: max, Rationale: "Secondary market: " + geography}
	}
	return domain.CriterionScore{Max: max, Rationale: "Outside market: " + geography}
}

// --- Behavioral (5 points max) ---

func (q *Qualifier) scoreBehavioral(p domain.ProspectProfile, missing *[]string) domain.DimensionScore {
	details := map[string]domain.CriterionScore{
		"tech_stack":         q.scoreTechStack(p.TechStack, missing),
		"growth_signals":     q.scoreGrowthSignals(p.GrowthSignals, missing),
		"content_engagement": scoreEnum(p.ContentEngagement, "content_engagement", 1.0, contentEngagementLevels, missing),
		"purchase_frequency": scoreEnum(p.PurchaseHistory, "purchase_frequency", 0.5, purchaseHistoryLevels, missing),
	}
	return dimension(details, behavioralMax)
}

func (q *Qualifier) scoreTechStack(stack []string, missing *[]string) domain.CriterionScore {
	const max = 2.0
	if len(stack) == 0 {
		*missing = append(*missing, "tech_stack")
		return domain.CriterionScore{Max: max, Rationale: "No tech stack data"}
	}

	lower := make([]string, len(stack))
	for i, t := range stack {
		lower[i] = strings.ToLower(strings.TrimSpace(t))
	}

	hasHubspot := containsSubstring(lower, "hubspot")
	hasCRM := hasHubspot || containsAny(lower, "salesforce", "crm", "pipedrive")
	hasMarketingAutomation := containsAny(lower,
		"marketing automation", "mailchimp", "marketo", "pardot", "activecampaign", "hubspot")
	hasAnalytics := containsAny(lower,
		"google analytics", "ga4", "analytics", "mixpanel", "amplitude")

	matches := 0
	for _, present := range []bool{hasHubspot, hasCRM, hasMarketingAutomation, hasAnalytics} {
		if present {
			matches++
		}
	}

	joined := strings.Join(stack, ", ")
	switch {
	case hasHubspot && matches >= 3:
		return domain.CriterionScore{Score: 2.0, Max: max, Rationale: "Full core stack: " + joined}
	case hasHubspot && matches >= 2:
		return domain.CriterionScore{Score: 1.5, Max: max, Rationale: "Most of required stack: " + joined}
	case hasCRM:
		return domain.CriterionScore{Score: 1.0, Max: max, Rationale: "Partial stack (CRM present): " + joined}
	case matches >= 1:
		return domain.CriterionScore{Score: 0.5, Max: max, Rationale: "Minimal stack: " + joined}
	}
	return domain.CriterionScore{Max: max, Rationale: "No relevant tech stack"}
}

func (q *Qualifier) scoreGrowthSignals(signals []string, missing *[]string) domain.CriterionScore {
	const max = 1.5
	if len(signals) == 0 {
		*missing = append(*missing, "growth_signals")
		return domain.CriterionScore{Max: max, Rationale: "No growth signals"}
	}
	joined := strings.Join(signals, ", ")
	switch {
	case len(signals) >= 3:
		return domain.CriterionScore{Score: 1.5, Max: max, Rationale: "Multiple strong signals: " + joined}
	case len(signals) == 2:
		return domain.CriterionScore{Score: 1.0, Max: max, Rationale: "Some signals: " + joined}
	}
	return domain.CriterionScore{Score: 0.5, Max: max, Rationale: "Weak signal: " + signals[0]}
}

// --- Strategic (4.5 points max) ---

func (q *Qualifier) scoreStrategic(p domain.ProspectProfile, missing *[]string) domain.DimensionScore {
	details := map[string]domain.CriterionScore{
		"decision_maker_access": scoreEnum(p.DecisionMakerAccess, "decision_maker_access", 2.0, decisionAccessLevels, missing),
		"budget_authority":      scoreEnum(p.BudgetAuthority, "budget_authority", 1.5, budgetAuthorityLevels, missing),
		"strategic_alignment":   scoreEnum(p.StrategicAlignment, "strategic_alignment", 1.0, strategicAlignmentLevels, missing),
	}
	return dimension(details, strategicMax)
}

// enumLevel maps one accepted field value to its points and rationale.
type enumLevel struct {
	score     float64
	rationale string
}

var contentEngagementLevels = map[string]enumLevel{
	"active":     {1.0, "Active engager"},
	"occasional": {0.5, "Occasional interaction"},
	"none":       {0, "No engagement"},
}

var purchaseHistoryLevels = map[string]enumLevel{
	"regular":    {0.5, "Regular buyer of services"},
	"occasional": {0.25, "Occasional service buyer"},
	"never":      {0, "No purchase history"},
}

var decisionAccessLevels = map[string]enumLevel{
	"c_suite":  {2.0, "Direct C-suite/VP access"},
	"director": {1.5, "Senior director with budget influence"},
	"manager":  {1.0, "Manager-level with path to decision maker"},
	"indirect": {0.5, "Indirect access, champion only"},
	"none":     {0, "No decision-maker access"},
}

var budgetAuthorityLevels = map[string]enumLevel{
	"dedicated": {1.5, "Dedicated budget for consulting/optimization"},
	"shared":    {1.0, "Shared budget available"},
	"possible":  {0.5, "Budget possible but needs approval"},
	"none":      {0, "No budget"},
}

var strategicAlignmentLevels = map[string]enumLevel{
	"strong":     {1.0, "Strong: growth conviction, values the methodology"},
	"partial":    {0.5, "Partial: interested but skeptical"},
	"misaligned": {0, "Misaligned: looking for quick fixes"},
}

// scoreEnum resolves one enumerated field. An empty value is a missing field;
// an unrecognized value scores zero but still counts as provided.
func scoreEnum(value, name string, max float64, levels map[string]enumLevel, missing *[]string) domain.CriterionScore {
	if value == "" {
		*missing = append(*missing, name)
		return domain.CriterionScore{Max: max, Rationale: "Not provided"}
	}
	level, ok := levels[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return domain.CriterionScore{Max: max, Rationale: "Unknown value: " + value}
	}
	return domain.CriterionScore{Score: level.score, Max: max, Rationale: level.rationale}
}

// --- Exclusions ---

func (q *Qualifier) checkExclusions(p domain.ProspectProfile) domain.ExclusionCheck {
	industry := strings.ToLower(strings.TrimSpace(p.Industry))
	if industry != "" {
		for _, excluded := range q.cfg.ExcludedIndustries {
			exc := strings.ToLower(excluded)
			if strings.Contains(industry, exc) || strings.Contains(exc, industry) {
				return domain.ExclusionCheck{
					Excluded: true,
					Rule:     "excluded_industry",
					Reason:   fmt.Sprintf("Industry %q is in the exclusion list", p.Industry),
				}
			}
		}
	}
	if q.cfg.MinimumRevenue > 0 && p.AnnualRevenue != nil && *p.AnnualRevenue < q.cfg.MinimumRevenue {
		return domain.ExclusionCheck{
			Excluded: true,
			Rule:     "minimum_revenue",
			Reason: fmt.Sprintf("Annual revenue $%.0f below minimum $%.0f",
				*p.AnnualRevenue, q.cfg.MinimumRevenue),
		}
	}
	return domain.ExclusionCheck{}
}

func recommendedAction(tier domain.Tier) string {
	switch tier.Number {
	case 1:
		return "Pursue aggressively: assign senior team, create custom proposal."
	case 2:
		return "Active pursuit: standard proposal with customization. Worth investing."
	case 3:
		return "Selective engagement: pursue only if inbound or strategic reason."
	default:
		return "Deprioritize: automated nurture only. Consider partner referral."
	}
}

// matchesAny matches a normalized value against a candidate list, in either
// containment direction, so "b2b technology" matches "technology".
func matchesAny(value string, candidates []string) bool {
	for _, candidate := range candidates {
		c := strings.ToLower(candidate)
		if strings.Contains(value, c) || strings.Contains(c, value) {
			return true
		}
	}
	return false
}

func containsSubstring(values []string, substr string) bool {
	for _, v := range values {
		if strings.Contains(v, substr) {
			return true
		}
	}
	return false
}

func containsAny(values []string, targets ...string) bool {
	for _, v := range values {
		for _, t := range targets {
			if v == t {
				return true
			}
		}
	}
	return false
}

func dimension(details map[string]domain.CriterionScore, max float64) domain.DimensionScore {
	var total float64
	for _, d := range details {
		total += d.Score
	}
	return domain.DimensionScore{
		Score:   round1(total),
		Max:     max,
		Details: details,
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
