package rfmscoring

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artefactventures/artefact-mcp/internal/domain"
	"github.com/artefactventures/artefact-mcp/internal/usecases/segmenting"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestScorerMonotonicity(t *testing.T) {
	for name := range Presets() {
		preset, err := PresetByName(name)
		require.NoError(t, err)
		scorer, err := NewScorer(preset)
		require.NoError(t, err)

		t.Run(name, func(t *testing.T) {
			prev := scorer.ScoreRecency(0)
			for days := 1; days <= 1200; days++ {
				score := scorer.ScoreRecency(days)
				assert.LessOrEqual(t, score, prev, "recency score rose with staler data at %d days", days)
				prev = score
			}

			prev = scorer.ScoreFrequency(0)
			for count := 1; count <= 50; count++ {
				score := scorer.ScoreFrequency(count)
				assert.GreaterOrEqual(t, score, prev, "frequency score fell with more transactions at %d", count)
				prev = score
			}
		})
	}
}

func TestMergeIdentityLaw(t *testing.T) {
	base, err := PresetByName(PresetDefault)
	require.NoError(t, err)

	merged, err := Merge(base, nil)
	require.NoError(t, err)
	assert.Equal(t, base, merged)

	merged, err = Merge(base, &PresetOverride{})
	require.NoError(t, err)
	assert.Equal(t, base, merged)
}

func TestMergeOverrideLaw(t *testing.T) {
	base, err := PresetByName(PresetDefault)
	require.NoError(t, err)

	override := &PresetOverride{
		Recency:   &TableOverride{Boundaries: []float64{15, 45, 120, 300}, Scores: []int{5, 4, 3, 2, 1}},
		Frequency: &TableOverride{Boundaries: []float64{20, 10, 5, 2}, Scores: []int{5, 4, 3, 2, 1}},
		Monetary:  &MonetaryOverride{Percentiles: []float64{90, 70, 50, 30}, Basis: string(BasisPurchasers)},
	}

	merged, err := Merge(base, override)
	require.NoError(t, err)
	assert.Equal(t, override.Recency.Boundaries, merged.Recency.Boundaries)
	assert.Equal(t, override.Frequency.Boundaries, merged.Frequency.Boundaries)
	assert.Equal(t, override.Monetary.Percentiles, merged.Monetary.Percentiles)
	assert.Equal(t, BasisPurchasers, merged.Monetary.Basis)
}

func TestMergeRejectsMalformedOverride(t *testing.T) {
	base, err := PresetByName(PresetDefault)
	require.NoError(t, err)

	_, err = Merge(base, &PresetOverride{
		Recency: &TableOverride{Boundaries: []float64{30}, Scores: []int{5, 4, 3}},
	})
	assert.Error(t, err)
}

func TestPresetByName(t *testing.T) {
	preset, err := PresetByName("")
	require.NoError(t, err)
	assert.Equal(t, PresetDefault, preset.Name)

	_, err = PresetByName("retail_banking")
	assert.Error(t, err)
}

func TestScoreBatchMissingLastPurchase(t *testing.T) {
	preset, err := PresetByName(PresetDefault)
	require.NoError(t, err)
	scorer, err := NewScorer(preset)
	require.NoError(t, err)

	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	scored := scorer.ScoreBatch([]domain.ClientRecord{
		{ID: "C1", TotalRevenue: 1000, TransactionCount: 2},
	}, now)

	require.Len(t, scored, 1)
	assert.Equal(t, -1, scored[0].DaysSinceLast)
	assert.Equal(t, 1, scored[0].Score.Recency)
}

// Fifty-record batch on the saas preset: a client 10 days fresh, with 12
// transactions and revenue in the top decile must land a perfect 555 and
// classify as Champions.
func TestAnalyzeSaaSChampionScenario(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	records := make([]domain.ClientRecord, 0, 50)
	for i := 0; i < 49; i++ {
		records = append(records, domain.ClientRecord{
			ID:               fmt.Sprintf("C%03d", i),
			Name:             fmt.Sprintf("Client %03d", i),
			TotalRevenue:     float64(1000 + i*100),
			TransactionCount: 1 + i%3,
			LastPurchaseDate: timePtr(now.AddDate(0, 0, -(100 + i))),
		})
	}
	records = append(records, domain.ClientRecord{
		ID:               "STAR",
		Name:             "Star Client",
		TotalRevenue:     250000,
		TransactionCount: 12,
		LastPurchaseDate: timePtr(now.AddDate(0, 0, -10)),
	})

	classifier := segmenting.NewClassifier(11)
	service := NewService(classifier, segmenting.NewExtractor(classifier, 3))

	analysis, err := service.Analyze(records, PresetSaaS, nil, now)
	require.NoError(t, err)
	require.Equal(t, 50, analysis.TotalClients)

	var star *domain.ScoredClient
	for i := range analysis.Clients {
		if analysis.Clients[i].ID == "STAR" {
			star = &analysis.Clients[i]
		}
	}
	require.NotNil(t, star)
	assert.Equal(t, 5, star.Score.Recency)
	assert.Equal(t, 5, star.Score.Frequency)
	assert.Equal(t, 5, star.Score.Monetary)
	assert.Equal(t, "555", star.RFMCode)
	assert.Equal(t, domain.SegmentChampions, star.Segment)
}

func TestAnalyzeAggregates(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	records := []domain.ClientRecord{
		{ID: "A", TotalRevenue: 60000, TransactionCount: 12, LastPurchaseDate: timePtr(now.AddDate(0, 0, -5))},
		{ID: "B", TotalRevenue: 30000, TransactionCount: 6, LastPurchaseDate: timePtr(now.AddDate(0, 0, -40))},
		{ID: "C", TotalRevenue: 500, TransactionCount: 1, LastPurchaseDate: timePtr(now.AddDate(0, 0, -400))},
	}

	classifier := segmenting.NewClassifier(11)
	service := NewService(classifier, segmenting.NewExtractor(classifier, 3))

	analysis, err := service.Analyze(records, PresetDefault, nil, now)
	require.NoError(t, err)

	assert.Equal(t, "2026-02-10", analysis.AnalysisDate)
	assert.NotEmpty(t, analysis.RunID)
	assert.Equal(t, 90500.0, analysis.Summary.TotalRevenue)

	var counted int
	for _, stats := range analysis.SegmentDistribution {
		counted += stats.Count
	}
	assert.Equal(t, len(records), counted)

	// Three clients can never satisfy a pattern sample of three top
	// performers here, one of them is Lost territory.
	if analysis.Patterns == nil {
		assert.NotEmpty(t, analysis.PatternsNote)
	}
}
