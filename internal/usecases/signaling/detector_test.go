package signaling

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

func newTestDetector(t *testing.T, cfg pipelining.AnalyzerConfig) *Detector {
	t.Helper()
	analyzer, err := pipelining.NewAnalyzer(cfg)
	require.NoError(t, err)
	return NewDetector(analyzer, DefaultConfig())
}

func signalsOfType(report domain.SignalReport, want domain.SignalType) []domain.Signal {
	var out []domain.Signal
	for _, sig := range report.Signals {
		if sig.Type == want {
			out = append(out, sig)
		}
	}
	return out
}

func TestDetectEmptyPipeline(t *testing.T) {
	detector := newTestDetector(t, pipelining.DefaultAnalyzerConfig())

	report := detector.Detect(nil, nil, testNow)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 0, report.DealsScanned)
	assert.Equal(t, 0, report.Summary.TotalSignals)
	assert.Nil(t, report.Summary.Strongest)
	assert.Len(t, report.Taxonomy, 6)
}

func TestVelocityAnomalySignal(t *testing.T) {
	// Quiet the at-risk heuristics so velocity is the only pipeline finding.
	cfg := pipelining.DefaultAnalyzerConfig()
	cfg.StagnationDays = 3650
	cfg.MaxOpenAgeDays = 3650
	cfg.DefaultStageDwellDays = 3650
	detector := newTestDetector(t, cfg)

	var deals []domain.Deal
	for i := 0; i < 5; i++ {
		deals = append(deals, dealAt(fmt.Sprintf("V%d", i), "qualifiedtobuy", 10000, 100, 1, 90))
	}

	report := detector.Detect(deals, nil, testNow)

	velocity := signalsOfType(report, domain.SignalVelocityAnomaly)
	require.Len(t, velocity, 1)
	// 90 days against a 30-day benchmark: strength = 90 / (30 * 4).
	assert.Equal(t, 0.75, velocity[0].Strength)
	assert.Equal(t, 5, velocity[0].Evidence["deals_affected"])
	assert.Contains(t, report.Summary.Critical, velocity[0])

	// Nothing advanced past qualifiedtobuy, so the severe drop-off leads.
	require.NotNil(t, report.Summary.Strongest)
	assert.Equal(t, domain.SignalConversionDropOff, report.Summary.Strongest.Type)
	assert.Equal(t, 1.0, report.Summary.Strongest.Strength)
}

func TestDataQualitySignals(t *testing.T) {
	detector := newTestDetector(t, pipelining.DefaultAnalyzerConfig())

	var deals []domain.Deal
	for i := 0; i < 10; i++ {
		deal := dealAt(fmt.Sprintf("DQ%d", i), "qualifiedtobuy", 10000, 20, 1, 5)
		deal.CloseDate = nil
		if i < 5 {
			deal.Amount = 0
		}
		deals = append(deals, deal)
	}

	report := detector.Detect(deals, nil, testNow)

	quality := signalsOfType(report, domain.SignalDataQuality)
	require.Len(t, quality, 2)
	// close_date is missing everywhere, so the completeness signal maxes out.
	assert.Equal(t, 1.0, quality[0].Strength)
	assert.Contains(t, quality[0].RecommendedAction, "close_date")
	assert.Equal(t, 0.5, quality[1].Strength)
	assert.Equal(t, 5, quality[1].Evidence["deals_with_zero_amount"])
}

func TestStagnationClusterSignal(t *testing.T) {
	detector := newTestDetector(t, pipelining.DefaultAnalyzerConfig())

	var deals []domain.Deal
	for i := 0; i < 4; i++ {
		deals = append(deals, dealAt(fmt.Sprintf("ST%d", i), "qualifiedtobuy", 15000, 70, 60, 60))
	}

	report := detector.Detect(deals, nil, testNow)

	winLoss := signalsOfType(report, domain.SignalWinLossPattern)
	require.Len(t, winLoss, 2)

	var strengths []float64
	for _, sig := range winLoss {
		strengths = append(strengths, sig.Strength)
	}
	// 100% at risk caps the systemic signal; 4 of 4 clustered gives 0.8.
	assert.Contains(t, strengths, 1.0)
	assert.Contains(t, strengths, 0.8)
	assert.GreaterOrEqual(t, len(report.Summary.Critical), 2)
}

func TestEarlyStageConcentrationSignal(t *testing.T) {
	detector := newTestDetector(t, pipelining.DefaultAnalyzerConfig())

	deals := []domain.Deal{
		dealAt("E1", "appointmentscheduled", 40000, 10, 1, 5),
		dealAt("E2", "appointmentscheduled", 40000, 12, 1, 6),
		dealAt("L1", "contractsent", 10000, 20, 1, 5),
	}

	report := detector.Detect(deals, nil, testNow)

	attribution := signalsOfType(report, domain.SignalAttributionShift)
	require.Len(t, attribution, 1)
	assert.Equal(t, 0.7, attribution[0].Strength)
	assert.Equal(t, 88.89, attribution[0].Evidence["early_stage_pct"])
}

func TestTaxonomyCoversEveryType(t *testing.T) {
	taxonomy := Taxonomy()
	for _, signalType := range []domain.SignalType{
		domain.SignalWinLossPattern,
		domain.SignalConversionDropOff,
		domain.SignalVelocityAnomaly,
		domain.SignalSPICEDFrequency,
		domain.SignalAttributionShift,
		domain.SignalDataQuality,
	} {
		info, ok := taxonomy[signalType]
		require.True(t, ok, string(signalType))
		assert.NotEmpty(t, info.Label)
		assert.NotEmpty(t, info.RecommendedActions)
	}
}
