package segmenting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artefactventures/artefact-mcp/internal/domain"
)

// Every one of the 125 possible score triples must resolve to exactly one of
// the 11 segments without error.
func TestClassifyExhaustive(t *testing.T) {
	classifier := NewClassifier(11)

	known := make(map[domain.Segment]bool)
	for _, s := range domain.AllSegments() {
		known[s] = true
	}

	for r := 1; r <= 5; r++ {
		for f := 1; f <= 5; f++ {
			for m := 1; m <= 5; m++ {
				score := domain.RFMScore{Recency: r, Frequency: f, Monetary: m}
				segment, err := classifier.Classify(score)
				require.NoError(t, err, "score %s", score.Code())
				assert.True(t, known[segment], "score %s produced unknown segment %q", score.Code(), segment)
			}
		}
	}
}

func TestClassifyKnownTriples(t *testing.T) {
	classifier := NewClassifier(11)

	tests := []struct {
		code    string
		score   domain.RFMScore
		segment domain.Segment
	}{
		{"555", domain.RFMScore{Recency: 5, Frequency: 5, Monetary: 5}, domain.SegmentChampions},
		{"445", domain.RFMScore{Recency: 4, Frequency: 4, Monetary: 5}, domain.SegmentChampions},
		{"155", domain.RFMScore{Recency: 1, Frequency: 5, Monetary: 5}, domain.SegmentCantLoseThem},
		{"244", domain.RFMScore{Recency: 2, Frequency: 4, Monetary: 4}, domain.SegmentCantLoseThem},
		{"233", domain.RFMScore{Recency: 2, Frequency: 3, Monetary: 3}, domain.SegmentAtRisk},
		{"345", domain.RFMScore{Recency: 3, Frequency: 4, Monetary: 5}, domain.SegmentLoyalCustomers},
		{"513", domain.RFMScore{Recency: 5, Frequency: 1, Monetary: 3}, domain.SegmentNewCustomers},
		{"412", domain.RFMScore{Recency: 4, Frequency: 1, Monetary: 2}, domain.SegmentPromising},
		{"423", domain.RFMScore{Recency: 4, Frequency: 2, Monetary: 3}, domain.SegmentPotentialLoyalists},
		{"322", domain.RFMScore{Recency: 3, Frequency: 2, Monetary: 2}, domain.SegmentNeedAttention},
		{"212", domain.RFMScore{Recency: 2, Frequency: 1, Monetary: 2}, domain.SegmentAboutToSleep},
		{"111", domain.RFMScore{Recency: 1, Frequency: 1, Monetary: 1}, domain.SegmentLost},
		{"121", domain.RFMScore{Recency: 1, Frequency: 2, Monetary: 1}, domain.SegmentHibernating},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			segment, err := classifier.Classify(tt.score)
			require.NoError(t, err)
			assert.Equal(t, tt.segment, segment)
		})
	}
}

func TestClassifyRejectsOutOfRange(t *testing.T) {
	classifier := NewClassifier(11)

	_, err := classifier.Classify(domain.RFMScore{Recency: 0, Frequency: 3, Monetary: 3})
	assert.Error(t, err)

	_, err = classifier.Classify(domain.RFMScore{Recency: 5, Frequency: 6, Monetary: 3})
	assert.Error(t, err)
}

func TestIsTopPerformer(t *testing.T) {
	classifier := NewClassifier(11)

	tests := []struct {
		name   string
		client domain.ScoredClient
		want   bool
	}{
		{
			name:   "champion always counts",
			client: domain.ScoredClient{Segment: domain.SegmentChampions, RFMTotal: 13},
			want:   true,
		},
		{
			name:   "loyal always counts",
			client: domain.ScoredClient{Segment: domain.SegmentLoyalCustomers, RFMTotal: 11},
			want:   true,
		},
		{
			name:   "high total outside top segments counts",
			client: domain.ScoredClient{Segment: domain.SegmentPotentialLoyalists, RFMTotal: 12},
			want:   true,
		},
		{
			name:   "low total outside top segments does not",
			client: domain.ScoredClient{Segment: domain.SegmentNeedAttention, RFMTotal: 8},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.IsTopPerformer(tt.client))
		})
	}
}

func TestSegmentCatalogueCoversAllSegments(t *testing.T) {
	classifier := NewClassifier(11)
	for _, segment := range domain.AllSegments() {
		info, ok := classifier.Info(segment)
		require.True(t, ok, "segment %q has no catalogue entry", segment)
		assert.NotEmpty(t, info.Description)
		assert.NotEmpty(t, info.Action)
	}
}
