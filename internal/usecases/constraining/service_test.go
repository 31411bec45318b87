package constraining

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artefactventures/artefact-mcp/internal/domain"
	"github.com/artefactventures/artefact-mcp/internal/usecases/pipelining"
)

var testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func dealAt(id, stage string, amount float64, createdDaysAgo, modifiedDaysAgo, inStageDays int) domain.Deal {
	return domain.Deal{
		ID:             id,
		Name:           "Deal " + id,
		Amount:         amount,
		StageID:        stage,
		CreateDate:     timePtr(testNow.AddDate(0, 0, -createdDaysAgo)),
		LastModified:   timePtr(testNow.AddDate(0, 0, -modifiedDaysAgo)),
		StageEnteredAt: timePtr(testNow.AddDate(0, 0, -inStageDays)),
		CloseDate:      timePtr(testNow.AddDate(0, 0, 30)),
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	analyzer, err := pipelining.NewAnalyzer(pipelining.DefaultAnalyzerConfig())
	require.NoError(t, err)
	return NewService(analyzer, DefaultBenchmarks())
}

func severityOf(ranking []domain.ConstraintScore, key domain.ConstraintKey) float64 {
	for _, score := range ranking {
		if score.Key == key {
			return score.Severity
		}
	}
	return -1
}

func TestIdentifyNoDeals(t *testing.T) {
	svc := newTestService(t)

	report := svc.Identify(nil, nil, 0, testNow)

	assert.NotEmpty(t, report.RunID)
	assert.Nil(t, report.Dominant)
	assert.Contains(t, report.Analysis, "Insufficient data")
}

// A thin pipeline with nothing in the early stages must point at lead
// generation, not conversion.
func TestLeadGenerationDominant(t *testing.T) {
	svc := newTestService(t)

	deals := []domain.Deal{
		dealAt("A", "contractsent", 50000, 5, 1, 5),
		dealAt("B", "contractsent", 50000, 6, 1, 5),
		dealAt("C", "contractsent", 50000, 7, 1, 5),
	}

	report := svc.Identify(deals, nil, 50000, testNow)

	require.NotNil(t, report.Dominant)
	assert.Equal(t, domain.ConstraintLeadGeneration, report.Dominant.Key)
	assert.Equal(t, 100.0, report.Dominant.Severity)
	assert.Contains(t, report.RecommendedFocus, "Lead Generation")

	require.Len(t, report.Ranking, 4)
	assert.Equal(t, domain.ConstraintLeadGeneration, report.Ranking[0].Key)
	assert.Equal(t, 0.0, severityOf(report.Ranking, domain.ConstraintConversion))

	// Every deal reached every stage, so the formula has no weak link.
	require.NotNil(t, report.Formula)
	require.Len(t, report.Formula.Stages, 4)
	for _, stage := range report.Formula.Stages {
		assert.Equal(t, "above", stage.Status)
	}
	assert.Nil(t, report.Formula.WeakestLink)

	assert.Equal(t, 3, report.Pipeline.TotalDeals)
	assert.Equal(t, 50000.0, report.Pipeline.AvgDealValue)
	require.NotNil(t, report.Pipeline.CoverageRatio)
	assert.Equal(t, 3.0, *report.Pipeline.CoverageRatio)
}

// A crowded, stagnant top of funnel must rank conversion first and name the
// worst transition as the weakest link.
func TestConversionDominant(t *testing.T) {
	svc := newTestService(t)

	var deals []domain.Deal
	for i := 0; i < 13; i++ {
		deal := dealAt(fmt.Sprintf("EARLY%02d", i), "appointmentscheduled", 5000, 50, 45, 45)
		deal.CloseDate = nil
		deals = append(deals, deal)
	}
	for i := 0; i < 2; i++ {
		deal := dealAt(fmt.Sprintf("MID%d", i), "qualifiedtobuy", 5000, 50, 45, 45)
		deal.CloseDate = nil
		deals = append(deals, deal)
	}

	report := svc.Identify(deals, nil, 0, testNow)

	require.NotNil(t, report.Dominant)
	assert.Equal(t, domain.ConstraintConversion, report.Dominant.Key)
	assert.Equal(t, 100.0, report.Dominant.Severity)

	assert.InDelta(t, 42.11, severityOf(report.Ranking, domain.ConstraintProfitability), 0.01)
	assert.Equal(t, 0.0, severityOf(report.Ranking, domain.ConstraintLeadGeneration))
	assert.Equal(t, 0.0, severityOf(report.Ranking, domain.ConstraintDelivery))

	// Only the first two transitions have a cohort; the dead second one is
	// the weakest link with the full 50-point gap.
	require.NotNil(t, report.Formula)
	require.Len(t, report.Formula.Stages, 2)
	require.NotNil(t, report.Formula.WeakestLink)
	assert.Equal(t, "CR2", report.Formula.WeakestLink.Label)
	assert.Equal(t, 50.0, report.Formula.WeakestLink.Gap)

	assert.Equal(t, 100.0, report.Pipeline.AtRiskPct)
	assert.Equal(t, []string{"appointmentscheduled"}, report.Pipeline.BottleneckStages)
	assert.Equal(t, 90.0, report.Pipeline.CycleDays)
	assert.Nil(t, report.Pipeline.CoverageRatio)
}

func TestSmallDealsRaiseProfitability(t *testing.T) {
	svc := newTestService(t)

	// A healthy mid-pipeline of tiny deals: profitability should outrank
	// conversion even though rates look fine.
	var deals []domain.Deal
	for i := 0; i < 16; i++ {
		deals = append(deals, dealAt(fmt.Sprintf("TINY%02d", i), "decisionmakerboughtin", 4000, 10, 1, 5))
	}

	report := svc.Identify(deals, nil, 0, testNow)

	require.NotNil(t, report.Dominant)
	assert.Equal(t, domain.ConstraintProfitability, report.Dominant.Key)
	assert.Equal(t, "Price", report.Dominant.PrimaryLever)
}

func TestCatalogueComplete(t *testing.T) {
	catalogue := Catalogue()
	require.Len(t, catalogue, 4)
	for key, info := range catalogue {
		assert.NotEmpty(t, info.Label, string(key))
		assert.NotEmpty(t, info.Symptoms, string(key))
		assert.NotEmpty(t, info.PrimaryLever, string(key))
	}
}
