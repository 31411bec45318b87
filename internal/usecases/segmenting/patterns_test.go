package segmenting

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artefactventures/artefact-mcp/internal/domain"
)

func scoredClient(id, industry, region string, total int, segment domain.Segment, revenue float64, txs int) domain.ScoredClient {
	return domain.ScoredClient{
		ClientRecord: domain.ClientRecord{
			ID:               id,
			Industry:         industry,
			Region:           region,
			EmployeeBand:     "10-50",
			RevenueBand:      "$1M-$10M",
			TotalRevenue:     revenue,
			TransactionCount: txs,
		},
		RFMTotal: total,
		Segment:  segment,
	}
}

func TestExtractInsufficientData(t *testing.T) {
	classifier := NewClassifier(11)
	extractor := NewExtractor(classifier, 3)

	// Nobody in the top segments and nobody above the total threshold.
	var clients []domain.ScoredClient
	for i := 0; i < 20; i++ {
		clients = append(clients, scoredClient(
			fmt.Sprintf("C%d", i), "Retail", "Ontario", 6, domain.SegmentHibernating, 1000, 1,
		))
	}

	pattern, err := extractor.Extract(clients)
	assert.Nil(t, pattern)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestExtractPatterns(t *testing.T) {
	classifier := NewClassifier(11)
	extractor := NewExtractor(classifier, 3)

	var clients []domain.ScoredClient
	// Top performers: four manufacturers and one logistics company.
	for i := 0; i < 4; i++ {
		clients = append(clients, scoredClient(
			fmt.Sprintf("T%d", i), "Manufacturing", "Quebec", 14, domain.SegmentChampions, float64(50000+i*10000), 8,
		))
	}
	clients = append(clients, scoredClient("T4", "Logistics", "Ontario", 12, domain.SegmentLoyalCustomers, 40000, 6))
	// The rest of the base skews retail, which never reaches the top.
	for i := 0; i < 15; i++ {
		clients = append(clients, scoredClient(
			fmt.Sprintf("B%d", i), "Retail", "Ontario", 5, domain.SegmentAboutToSleep, 2000, 1,
		))
	}

	pattern, err := extractor.Extract(clients)
	require.NoError(t, err)
	require.NotNil(t, pattern)

	assert.Equal(t, 5, pattern.SampleSize)
	assert.Equal(t, "Manufacturing", pattern.Industry.TopValue)

	// Manufacturing: 80% of top vs 20% of base, lift 4.0.
	require.NotEmpty(t, pattern.Industry.Primary)
	assert.Equal(t, "Manufacturing", pattern.Industry.Primary[0].Value)
	assert.InDelta(t, 4.0, pattern.Industry.Primary[0].Lift, 0.01)

	// Retail never shows up among top performers.
	require.NotEmpty(t, pattern.Industry.Negative)
	assert.Equal(t, "Retail", pattern.Industry.Negative[0].Value)
	assert.Equal(t, 0.0, pattern.Industry.Negative[0].Lift)

	assert.Equal(t, 40000.0, pattern.Revenue.Min)
	assert.Equal(t, 80000.0, pattern.Revenue.Max)
	assert.Equal(t, 60000.0, pattern.Revenue.Median)

	assert.Contains(t, pattern.TierCriteria.Tier1Industries, "Manufacturing")
	var antiValues []string
	for _, share := range pattern.TierCriteria.AntiPatterns {
		antiValues = append(antiValues, share.Value)
	}
	assert.Contains(t, antiValues, "Retail")
}

func TestExtractPluralityTieBreak(t *testing.T) {
	classifier := NewClassifier(11)
	extractor := NewExtractor(classifier, 2)

	clients := []domain.ScoredClient{
		scoredClient("A", "SaaS", "Quebec", 13, domain.SegmentChampions, 10000, 5),
		scoredClient("B", "Fintech", "Quebec", 13, domain.SegmentChampions, 12000, 5),
		scoredClient("C", "SaaS", "Quebec", 12, domain.SegmentLoyalCustomers, 9000, 4),
		scoredClient("D", "Fintech", "Ontario", 12, domain.SegmentLoyalCustomers, 8000, 4),
	}

	pattern, err := extractor.Extract(clients)
	require.NoError(t, err)

	// Two-way tie on count; first-seen value wins.
	assert.Equal(t, "SaaS", pattern.Industry.TopValue)
}

func TestExtractMedianEvenSample(t *testing.T) {
	classifier := NewClassifier(11)
	extractor := NewExtractor(classifier, 2)

	clients := []domain.ScoredClient{
		scoredClient("A", "SaaS", "Quebec", 13, domain.SegmentChampions, 10000, 2),
		scoredClient("B", "SaaS", "Quebec", 13, domain.SegmentChampions, 20000, 4),
	}

	pattern, err := extractor.Extract(clients)
	require.NoError(t, err)
	assert.Equal(t, 15000.0, pattern.Revenue.Median)
	assert.Equal(t, 3.0, pattern.TransactionCount.Median)
}
