// Package qualifying scores prospects against a weighted ideal-customer
// profile: three dimensions worth 14.5 points, hard exclusions and four
// outcome tiers.
package qualifying

import (
	"fmt"

	"github.com/artefactventures/artefact-mcp/internal/domain"
)

// ScoringConfig parameterizes the qualifier. The zero ranges (nil pointers)
// select the built-in revenue and employee bands.
type ScoringConfig struct {
	PrimaryIndustries    []string    `json:"primary_industries" yaml:"primary_industries"`
	AdjacentIndustries   []string    `json:"adjacent_industries" yaml:"adjacent_industries"`
	TangentialIndustries []string    `json:"tangential_industries" yaml:"tangential_industries"`
	ExcludedIndustries   []string    `json:"excluded_industries" yaml:"excluded_industries"`
	RevenueRange         *[2]float64 `json:"revenue_range,omitempty" yaml:"revenue_range"`
	MinimumRevenue       float64     `json:"minimum_revenue,omitempty" yaml:"minimum_revenue"`
	EmployeeRange        *[2]int     `json:"employee_range,omitempty" yaml:"employee_range"`
	PrimaryGeography     []string    `json:"primary_geography" yaml:"primary_geography"`
	SecondaryGeography   []string    `json:"secondary_geography" yaml:"secondary_geography"`
}

// DefaultScoringConfig returns the stock profile of a B2B revenue-operations
// consultancy serving Canadian mid-market companies.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		PrimaryIndustries: []string{
			"technology", "saas", "software", "b2b technology",
			"manufacturing", "industrial",
			"professional services",
		},
		AdjacentIndustries: []string{
			"healthcare", "health tech", "fintech", "financial services",
			"construction", "engineering", "logistics", "distribution",
			"education", "edtech",
		},
		TangentialIndustries: []string{
			"real estate", "media", "telecommunications", "energy",
			"agriculture", "food", "hospitality",
		},
		ExcludedIndustries: []string{
			"agencies", "agency",
			"consulting", "consulting firm",
			"b2c", "retail",
			"non-profit", "nonprofit",
			"staffing", "events", "events services",
			"vc", "pe", "venture capital", "private equity",
		},
		PrimaryGeography: []string{
			"quebec", "ontario", "bc", "british columbia", "alberta",
			"nova scotia", "canada", "montreal", "toronto", "vancouver",
		},
		SecondaryGeography: []string{
			"us", "usa", "united states", "new york", "boston", "california",
		},
	}
}

// ScoringOverride is a partial scoring configuration. Absent fields keep the
// base values, so overlaying is order-independent per field.
type ScoringOverride struct {
	PrimaryIndustries    []string    `json:"primary_industries,omitempty" yaml:"primary_industries"`
	AdjacentIndustries   []string    `json:"adjacent_industries,omitempty" yaml:"adjacent_industries"`
	TangentialIndustries []string    `json:"tangential_industries,omitempty" yaml:"tangential_industries"`
	ExcludedIndustries   []string    `json:"excluded_industries,omitempty" yaml:"excluded_industries"`
	RevenueRange         []float64   `json:"revenue_range,omitempty" yaml:"revenue_range"`
	MinimumRevenue       *float64    `json:"minimum_revenue,omitempty" yaml:"minimum_revenue"`
	EmployeeRange        []int       `json:"employee_range,omitempty" yaml:"employee_range"`
	PrimaryGeography     []string    `json:"primary_geography,omitempty" yaml:"primary_geography"`
	SecondaryGeography   []string    `json:"secondary_geography,omitempty" yaml:"secondary_geography"`
}

// Merge overlays an override onto a base configuration. Range overrides must
// come as [min, max] pairs; anything else is a configuration-shape error.
func Merge(base ScoringConfig, override *ScoringOverride) (ScoringConfig, error) {
	merged := base
	if override == nil {
		return merged, nil
	}
	if override.PrimaryIndustries != nil {
		merged.PrimaryIndustries = override.PrimaryIndustries
	}
	if override.AdjacentIndustries != nil {
		merged.AdjacentIndustries = override.AdjacentIndustries
	}
	if override.TangentialIndustries != nil {
		merged.TangentialIndustries = override.TangentialIndustries
	}
	if override.ExcludedIndustries != nil {
		merged.ExcludedIndustries = override.ExcludedIndustries
	}
	if override.RevenueRange != nil {
		if len(override.RevenueRange) != 2 || override.RevenueRange[0] >= override.RevenueRange[1] {
			return ScoringConfig{}, fmt.Errorf("scoring config: revenue_range must be [min, max]")
		}
		merged.RevenueRange = &[2]float64{override.RevenueRange[0], override.RevenueRange[1]}
	}
	if override.MinimumRevenue != nil {
		if *override.MinimumRevenue < 0 {
			return ScoringConfig{}, fmt.Errorf("scoring config: minimum_revenue must not be negative")
		}
		merged.MinimumRevenue = *override.MinimumRevenue
	}
	if override.EmployeeRange != nil {
		if len(override.EmployeeRange) != 2 || override.EmployeeRange[0] >= override.EmployeeRange[1] {
			return ScoringConfig{}, fmt.Errorf("scoring config: employee_range must be [min, max]")
		}
		merged.EmployeeRange = &[2]int{override.EmployeeRange[0], override.EmployeeRange[1]}
	}
	if override.PrimaryGeography != nil {
		merged.PrimaryGeography = override.PrimaryGeography
	}
	if override.SecondaryGeography != nil {
		merged.SecondaryGeography = override.SecondaryGeography
	}
	return merged, nil
}

// Tiers lists the four qualification tiers, best first. Lower boundaries are
// inclusive.
func Tiers() []domain.Tier {
	return []domain.Tier{
		{
			Number:   1,
			Label:    domain.TierIdeal,
			Color:    "green",
			CRMValue: "tier_1_ideal",
			MinScore: 11.5,
			EngagementStrategy: "Highest priority. Same-day response SLA. " +
				"Senior team, custom proposals, full value pricing. " +
				"Dedicated account plan with expansion roadmap.",
		},
		{
			Number:   2,
			Label:    domain.TierStrong,
			Color:    "blue",
			CRMValue: "tier_2_strong",
			MinScore: 8.5,
			EngagementStrategy: "High priority, active pursuit. 24h response SLA. " +
				"Standard team, templated proposals with customization. " +
				"Standard pricing, selective discounting for strategic wins.",
		},
		{
			Number:   3,
			Label:    domain.TierModerate,
			Color:    "yellow",
			CRMValue: "tier_3_moderate",
			MinScore: 5.5,
			EngagementStrategy: "Selective: pursue only if inbound or strategic reason. " +
				"48h response SLA, no proactive outreach. " +
				"Junior team or automated workflows. Standard pricing only.",
		},
		{
			Number:   4,
			Label:    domain.TierPoor,
			Color:    "red",
			CRMValue: "tier_4_poor",
			MinScore: 0,
			EngagementStrategy: "Deprioritize, nurture only. No SLA. Fully automated. " +
				"General newsletter only. Consider partner referral.",
		},
	}
}

// ClassifyTier resolves a total score to its tier.
func ClassifyTier(score float64) domain.Tier {
	tiers := Tiers()
	for _, tier := range tiers {
		if score >= tier.MinScore {
			return tier
		}
	}
	return tiers[len(tiers)-1]
}
