package rfmscoring

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/artefactventures/artefact-mcp/internal/domain"
	"github.com/artefactventures/artefact-mcp/pkg/utils"
)

//go:generate mockgen -source=./service.go -destination=./mocks/service.go -package=mocks

// SegmentClassifier assigns a segment label to an RFM score triple.
type SegmentClassifier interface {
	Classify(score domain.RFMScore) (domain.Segment, error)
	IsTopPerformer(client domain.ScoredClient) bool
}

// PatternExtractor derives ICP patterns from a scored client set.
type PatternExtractor interface {
	Extract(all []domain.ScoredClient) (*domain.ICPPattern, error)
}

// Scorer turns raw client records into 1-5 RFM scores using one preset.
// Scoring is deterministic: the reference time is a parameter, never the
// wall clock.
type Scorer struct {
	preset Preset
}

// NewScorer validates the preset and returns a scorer bound to it.
func NewScorer(preset Preset) (*Scorer, error) {
	if err := preset.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{preset: preset}, nil
}

// Preset returns the preset the scorer was built with.
func (s *Scorer) Preset() Preset {
	return s.preset
}

// ScoreRecency maps days since last purchase onto a 1-5 score.
func (s *Scorer) ScoreRecency(daysSince int) int {
	_, score := s.preset.Recency.Band(float64(daysSince))
	return score
}

// ScoreFrequency maps a transaction count onto a 1-5 score.
func (s *Scorer) ScoreFrequency(count int) int {
	_, score := s.preset.Frequency.Band(float64(count))
	return score
}

// monetaryTable resolves the monetary bands for one batch. With the
// percentile method the boundaries come from the batch's own revenue
// distribution, so the table must be rebuilt per batch.
func (s *Scorer) monetaryTable(records []domain.ClientRecord) ThresholdTable {
	cfg := s.preset.Monetary
	if cfg.Method == MonetaryFixed {
		return cfg.Fixed
	}
	revenues := make([]float64, 0, len(records))
	for _, r := range records {
		if cfg.Basis == BasisPurchasers && r.TransactionCount < 1 {
			continue
		}
		revenues = append(revenues, r.TotalRevenue)
	}
	boundaries := make([]float64, len(cfg.Percentiles))
	for i, p := range cfg.Percentiles {
		boundaries[i] = Percentile(revenues, p)
	}
	return ThresholdTable{
		Mode:       BandAtLeast,
		Boundaries: boundaries,
		Scores:     cfg.Scores,
	}
}

// ScoreBatch scores every record against the preset and the batch's own
// revenue distribution. Records with an unknown last purchase date get the
// worst recency band and a negative DaysSinceLast. Segments are left empty;
// classification is a separate concern.
func (s *Scorer) ScoreBatch(records []domain.ClientRecord, now time.Time) []domain.ScoredClient {
	monetary := s.monetaryTable(records)
	scored := make([]domain.ScoredClient, 0, len(records))
	for _, record := range records {
		client := domain.ScoredClient{ClientRecord: record}
		if record.LastPurchaseDate != nil {
			client.DaysSinceLast = int(now.Sub(*record.LastPurchaseDate).Hours() / 24)
			client.Score.Recency = s.ScoreRecency(client.DaysSinceLast)
		} else {
			client.DaysSinceLast = -1
			client.Score.Recency = s.preset.Recency.WorstScore()
		}
		client.Score.Frequency = s.ScoreFrequency(record.TransactionCount)
		_, client.Score.Monetary = monetary.Band(record.TotalRevenue)
		client.RFMTotal = client.Score.Total()
		client.RFMCode = client.Score.Code()
		scored = append(scored, client)
	}
	return scored
}

// Service runs a complete RFM analysis: scoring, segment classification,
// distribution aggregation and ICP pattern extraction.
type Service struct {
	classifier SegmentClassifier
	extractor  PatternExtractor
}

func NewService(classifier SegmentClassifier, extractor PatternExtractor) *Service {
	return &Service{classifier: classifier, extractor: extractor}
}

// Analyze scores the given records with the named preset, optionally adjusted
// by a threshold override, and aggregates the result. The reference time now
// anchors every recency computation.
func (s *Service) Analyze(
	records []domain.ClientRecord,
	presetName string,
	override *PresetOverride,
	now time.Time,
) (domain.RFMAnalysis, error) {
	base, err := PresetByName(presetName)
	if err != nil {
		return domain.RFMAnalysis{}, err
	}
	preset, err := Merge(base, override)
	if err != nil {
		return domain.RFMAnalysis{}, err
	}
	return s.AnalyzePreset(records, preset, now)
}

// AnalyzePreset runs the analysis against an already-resolved preset. Callers
// that resolve presets elsewhere (methodology files can define custom names)
// enter here.
func (s *Service) AnalyzePreset(
	records []domain.ClientRecord,
	preset Preset,
	now time.Time,
) (domain.RFMAnalysis, error) {
	scorer, err := NewScorer(preset)
	if err != nil {
		return domain.RFMAnalysis{}, err
	}

	scored := scorer.ScoreBatch(records, now)
	for i := range scored {
		segment, err := s.classifier.Classify(scored[i].Score)
		if err != nil {
			return domain.RFMAnalysis{}, errors.Wrapf(err, "classifying client %s", scored[i].ID)
		}
		scored[i].Segment = segment
	}

	analysis := domain.RFMAnalysis{
		RunID:               utils.NewRunID(),
		AnalysisDate:        now.Format("2006-01-02"),
		TotalClients:        len(scored),
		Preset:              preset.Name,
		Clients:             scored,
		SegmentDistribution: segmentDistribution(scored),
		Summary:             summarize(scored),
	}

	for _, client := range scored {
		if s.classifier.IsTopPerformer(client) {
			analysis.TopPerformers = append(analysis.TopPerformers, client)
		}
	}

	patterns, err := s.extractor.Extract(scored)
	switch {
	case err != nil:
		// Thin top-performer sets are expected on small books of business;
		// the analysis is still useful without patterns.
		analysis.PatternsNote = err.Error()
	default:
		analysis.Patterns = patterns
	}
	return analysis, nil
}

func segmentDistribution(scored []domain.ScoredClient) map[domain.Segment]domain.SegmentStats {
	dist := make(map[domain.Segment]domain.SegmentStats)
	var totalRevenue float64
	for _, c := range scored {
		totalRevenue += c.TotalRevenue
	}
	for _, c := range scored {
		stats := dist[c.Segment]
		stats.Count++
		stats.Revenue = utils.RoundWithTwoDecimalPlace(stats.Revenue + c.TotalRevenue)
		dist[c.Segment] = stats
	}
	for segment, stats := range dist {
		if len(scored) > 0 {
			stats.Pct = utils.RoundWithTwoDecimalPlace(float64(stats.Count) / float64(len(scored)) * 100)
		}
		if totalRevenue > 0 {
			stats.PctRevenue = utils.RoundWithTwoDecimalPlace(stats.Revenue / totalRevenue * 100)
		}
		dist[segment] = stats
	}
	return dist
}

func summarize(scored []domain.ScoredClient) domain.RFMSummary {
	var summary domain.RFMSummary
	if len(scored) == 0 {
		return summary
	}
	var totalScore int
	for _, c := range scored {
		summary.TotalRevenue += c.TotalRevenue
		totalScore += c.RFMTotal
		switch c.Segment {
		case domain.SegmentChampions:
			summary.ChampionCount++
		case domain.SegmentAtRisk, domain.SegmentCantLoseThem:
			summary.AtRiskCount++
		}
	}
	summary.TotalRevenue = utils.RoundWithTwoDecimalPlace(summary.TotalRevenue)
	summary.AvgRFMScore = math.Round(float64(totalScore)/float64(len(scored))*100) / 100
	return summary
}
