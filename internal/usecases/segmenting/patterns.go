package segmenting

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/artefactventures/artefact-mcp/internal/domain"
	"github.com/artefactventures/artefact-mcp/pkg/utils"
)

// ErrInsufficientData signals that the top-performer set is too small for
// pattern extraction to say anything meaningful.
var ErrInsufficientData = errors.New("not enough top performers for pattern extraction")

// Lift boundaries separating primary, secondary and negative patterns. A
// value whose share among top performers is at least twice its share in the
// whole base is a primary pattern; below half, a negative one.
const (
	primaryLift   = 2.0
	secondaryLift = 1.5
	negativeLift  = 0.5
)

// Extractor derives ICP patterns from the clients the classifier marks as
// top performers.
type Extractor struct {
	classifier *Classifier
	minSample  int
}

func NewExtractor(classifier *Classifier, minSample int) *Extractor {
	return &Extractor{classifier: classifier, minSample: minSample}
}

// Extract filters the scored set down to top performers and summarizes their
// firmographic attributes. Returns ErrInsufficientData when fewer than the
// minimum sample qualify.
func (e *Extractor) Extract(all []domain.ScoredClient) (*domain.ICPPattern, error) {
	var top []domain.ScoredClient
	for _, client := range all {
		if e.classifier.IsTopPerformer(client) {
			top = append(top, client)
		}
	}
	if len(top) < e.minSample {
		return nil, errors.Wrapf(ErrInsufficientData,
			"%d top performers, need at least %d", len(top), e.minSample)
	}

	pattern := &domain.ICPPattern{
		SampleSize:   len(top),
		Industry:     attributePattern(top, all, func(c domain.ScoredClient) string { return c.Industry }),
		EmployeeBand: attributePattern(top, all, func(c domain.ScoredClient) string { return c.EmployeeBand }),
		RevenueBand:  attributePattern(top, all, func(c domain.ScoredClient) string { return c.RevenueBand }),
		Region:       attributePattern(top, all, func(c domain.ScoredClient) string { return c.Region }),
		Revenue: numericSummary(top, func(c domain.ScoredClient) float64 {
			return c.TotalRevenue
		}),
		TransactionCount: numericSummary(top, func(c domain.ScoredClient) float64 {
			return float64(c.TransactionCount)
		}),
	}
	pattern.TierCriteria = tierRecommendations(pattern)
	return pattern, nil
}

// attributePattern computes the value distribution of one categorical
// attribute among top performers and its lift against the whole base.
// Empty attribute values are skipped, not counted as a category.
func attributePattern(top, all []domain.ScoredClient, get func(domain.ScoredClient) string) domain.AttributePattern {
	topCounts, topOrder, topN := countValues(top, get)
	allCounts, allOrder, allN := countValues(all, get)

	shares := make([]domain.ValueShare, 0, len(topOrder))
	for _, value := range topOrder {
		share := domain.ValueShare{
			Value:  value,
			Count:  topCounts[value],
			PctTop: pct(topCounts[value], topN),
			PctAll: pct(allCounts[value], allN),
		}
		if share.PctAll > 0 {
			share.Lift = utils.RoundWithTwoDecimalPlace(share.PctTop / share.PctAll)
		}
		shares = append(shares, share)
	}
	// Plurality wins; SliceStable keeps first-seen order among equal counts.
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Count > shares[j].Count
	})

	pattern := domain.AttributePattern{Distribution: shares}
	if len(shares) > 0 {
		pattern.TopValue = shares[0].Value
	}
	for _, share := range shares {
		switch {
		case share.Lift >= primaryLift:
			pattern.Primary = append(pattern.Primary, share)
		case share.Lift >= secondaryLift:
			pattern.Secondary = append(pattern.Secondary, share)
		}
	}

	// Negative patterns come from the full base: values that barely appear
	// among top performers, including ones that never do.
	for _, value := range allOrder {
		if allCounts[value] < 2 {
			continue
		}
		pctAll := pct(allCounts[value], allN)
		pctTop := pct(topCounts[value], topN)
		lift := 0.0
		if pctAll > 0 {
			lift = utils.RoundWithTwoDecimalPlace(pctTop / pctAll)
		}
		if lift < negativeLift {
			pattern.Negative = append(pattern.Negative, domain.ValueShare{
				Value:  value,
				Count:  topCounts[value],
				PctTop: pctTop,
				PctAll: pctAll,
				Lift:   lift,
			})
		}
	}
	return pattern
}

func countValues(clients []domain.ScoredClient, get func(domain.ScoredClient) string) (map[string]int, []string, int) {
	counts := make(map[string]int)
	var order []string
	total := 0
	for _, c := range clients {
		value := get(c)
		if value == "" {
			continue
		}
		if _, seen := counts[value]; !seen {
			order = append(order, value)
		}
		counts[value]++
		total++
	}
	return counts, order, total
}

func pct(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return utils.RoundWithTwoDecimalPlace(float64(count) / float64(total) * 100)
}

func numericSummary(clients []domain.ScoredClient, get func(domain.ScoredClient) float64) domain.NumericSummary {
	if len(clients) == 0 {
		return domain.NumericSummary{}
	}
	values := make([]float64, len(clients))
	for i, c := range clients {
		values[i] = get(c)
	}
	sort.Float64s(values)

	n := len(values)
	median := values[n/2]
	if n%2 == 0 {
		median = (values[n/2-1] + values[n/2]) / 2
	}
	return domain.NumericSummary{
		Min:    values[0],
		Median: utils.RoundWithTwoDecimalPlace(median),
		Max:    values[n-1],
	}
}

// tierRecommendations turns the extracted patterns into concrete prospecting
// guidance: which values to chase first and which to avoid.
func tierRecommendations(p *domain.ICPPattern) domain.TierRecommendations {
	rec := domain.TierRecommendations{
		Tier1Industries: topValues(p.Industry, 3),
		Tier1Sizes:      topValues(p.EmployeeBand, 3),
		Tier1Revenue:    topValues(p.RevenueBand, 3),
	}
	for _, attr := range []domain.AttributePattern{p.Industry, p.EmployeeBand, p.Region} {
		rec.AntiPatterns = append(rec.AntiPatterns, attr.Negative...)
	}
	return rec
}

// topValues prefers primary-lift values and falls back to the plurality value
// when nothing clears the lift bar.
func topValues(attr domain.AttributePattern, limit int) []string {
	var out []string
	for _, share := range attr.Primary {
		if len(out) == limit {
			break
		}
		out = append(out, share.Value)
	}
	if len(out) == 0 && attr.TopValue != "" {
		out = append(out, attr.TopValue)
	}
	return out
}
