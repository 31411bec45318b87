package qualifying

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artefactventures/artefact-mcp/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func perfectProfile() domain.ProspectProfile {
	return domain.ProspectProfile{
		CompanyName:         "Northwind Manufacturing",
		Industry:            "Manufacturing",
		AnnualRevenue:       floatPtr(12_000_000),
		EmployeeCount:       intPtr(85),
		Geography:           "Montreal",
		TechStack:           []string{"HubSpot", "Salesforce", "Google Analytics"},
		GrowthSignals:       []string{"hiring", "new funding", "expansion"},
		ContentEngagement:   "active",
		PurchaseHistory:     "regular",
		DecisionMakerAccess: "c_suite",
		BudgetAuthority:     "dedicated",
		StrategicAlignment:  "strong",
	}
}

func TestQualifyPerfectProfile(t *testing.T) {
	q := NewQualifier(DefaultScoringConfig())

	result := q.Qualify(perfectProfile())

	assert.Equal(t, 14.5, result.TotalScore)
	assert.Equal(t, domain.TierIdeal, result.Tier.Label)
	assert.Equal(t, 5.0, result.Firmographic.Score)
	assert.Equal(t, 5.0, result.Behavioral.Score)
	assert.Equal(t, 4.5, result.Strategic.Score)
	assert.Empty(t, result.MissingFields)
	assert.False(t, result.Exclusion.Excluded)
}

func TestQualifyScoreBounds(t *testing.T) {
	q := NewQualifier(DefaultScoringConfig())

	profiles := []domain.ProspectProfile{
		{},
		perfectProfile(),
		{Industry: "Retail", AnnualRevenue: floatPtr(0)},
		{Industry: "Telecommunications", EmployeeCount: intPtr(100000)},
		{TechStack: []string{"excel"}, GrowthSignals: []string{"hiring"}},
	}

	for _, profile := range profiles {
		result := q.Qualify(profile)
		assert.GreaterOrEqual(t, result.TotalScore, 0.0)
		assert.LessOrEqual(t, result.TotalScore, 14.5)
	}
}

// A hard exclusion always forces the Poor tier, whatever the points say, but
// the accumulated score stays visible.
func TestQualifyExclusionForcesPoor(t *testing.T) {
	q := NewQualifier(DefaultScoringConfig())

	profile := perfectProfile()
	profile.Industry = "Retail"

	result := q.Qualify(profile)

	assert.True(t, result.Exclusion.Excluded)
	assert.Equal(t, "excluded_industry", result.Exclusion.Rule)
	assert.Equal(t, domain.TierPoor, result.Tier.Label)
	assert.Contains(t, result.RecommendedAction, "EXCLUDED")
	// Retail drops the industry points but the rest still accumulates.
	assert.Greater(t, result.TotalScore, 10.0)
}

func TestQualifyMinimumRevenueExclusion(t *testing.T) {
	cfg, err := Merge(DefaultScoringConfig(), &ScoringOverride{MinimumRevenue: floatPtr(1_000_000)})
	require.NoError(t, err)
	q := NewQualifier(cfg)

	profile := perfectProfile()
	profile.AnnualRevenue = floatPtr(400_000)

	result := q.Qualify(profile)
	assert.True(t, result.Exclusion.Excluded)
	assert.Equal(t, "minimum_revenue", result.Exclusion.Rule)
	assert.Equal(t, domain.TierPoor, result.Tier.Label)
}

// Missing fields degrade to zero, never to an error: a prospect with only
// firmographic data caps at 5 points and lists every skipped sub-criterion.
func TestQualifyMissingBehavioralAndStrategic(t *testing.T) {
	q := NewQualifier(DefaultScoringConfig())

	result := q.Qualify(domain.ProspectProfile{
		Industry:      "SaaS",
		AnnualRevenue: floatPtr(20_000_000),
		EmployeeCount: intPtr(50),
		Geography:     "Toronto",
	})

	assert.Equal(t, 5.0, result.Firmographic.Score)
	assert.Equal(t, 0.0, result.Behavioral.Score)
	assert.Equal(t, 0.0, result.Strategic.Score)
	assert.Equal(t, 5.0, result.TotalScore)

	expectedMissing := []string{
		"tech_stack", "growth_signals", "content_engagement", "purchase_frequency",
		"decision_maker_access", "budget_authority", "strategic_alignment",
	}
	assert.ElementsMatch(t, expectedMissing, result.MissingFields)

	// Even a perfect firmographic dimension cannot reach past Moderate.
	assert.GreaterOrEqual(t, result.Tier.Number, 3)
}

func TestQualifyUnknownEnumValueScoresZeroButCountsAsProvided(t *testing.T) {
	q := NewQualifier(DefaultScoringConfig())

	result := q.Qualify(domain.ProspectProfile{
		Industry:            "SaaS",
		ContentEngagement:   "enthusiastic",
		DecisionMakerAccess: "board",
	})

	assert.NotContains(t, result.MissingFields, "content_engagement")
	assert.NotContains(t, result.MissingFields, "decision_maker_access")
	assert.Equal(t, 0.0, result.Behavioral.Details["content_engagement"].Score)
	assert.Equal(t, 0.0, result.Strategic.Details["decision_maker_access"].Score)
}

func TestClassifyTierBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.TierLabel
	}{
		{14.5, domain.TierIdeal},
		{11.5, domain.TierIdeal},
		{11.4, domain.TierStrong},
		{8.5, domain.TierStrong},
		{8.4, domain.TierModerate},
		{5.5, domain.TierModerate},
		{5.4, domain.TierPoor},
		{0, domain.TierPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyTier(tt.score).Label, "score %.1f", tt.score)
	}
}

func TestMergeScoringConfigLaws(t *testing.T) {
	base := DefaultScoringConfig()

	merged, err := Merge(base, nil)
	require.NoError(t, err)
	assert.Equal(t, base, merged)

	merged, err = Merge(base, &ScoringOverride{})
	require.NoError(t, err)
	assert.Equal(t, base, merged)

	override := &ScoringOverride{
		PrimaryIndustries: []string{"robotics"},
		RevenueRange:      []float64{2_000_000, 20_000_000},
		EmployeeRange:     []int{20, 100},
	}
	merged, err = Merge(base, override)
	require.NoError(t, err)
	assert.Equal(t, []string{"robotics"}, merged.PrimaryIndustries)
	assert.Equal(t, [2]float64{2_000_000, 20_000_000}, *merged.RevenueRange)
	assert.Equal(t, [2]int{20, 100}, *merged.EmployeeRange)
	// Untouched fields keep base values.
	assert.Equal(t, base.ExcludedIndustries, merged.ExcludedIndustries)
}

func TestMergeScoringConfigRejectsMalformedRanges(t *testing.T) {
	base := DefaultScoringConfig()

	_, err := Merge(base, &ScoringOverride{RevenueRange: []float64{5}})
	assert.Error(t, err)

	_, err = Merge(base, &ScoringOverride{EmployeeRange: []int{200, 100}})
	assert.Error(t, err)
}

func TestQualifyCustomRanges(t *testing.T) {
	cfg, err := Merge(DefaultScoringConfig(), &ScoringOverride{
		RevenueRange:  []float64{1_000_000, 5_000_000},
		EmployeeRange: []int{5, 50},
	})
	require.NoError(t, err)
	q := NewQualifier(cfg)

	result := q.Qualify(domain.ProspectProfile{
		Industry:      "SaaS",
		AnnualRevenue: floatPtr(3_000_000),
		EmployeeCount: intPtr(30),
	})

	assert.Equal(t, 1.5, result.Firmographic.Details["revenue_range"].Score)
	assert.Equal(t, 1.0, result.Firmographic.Details["employee_count"].Score)
}
