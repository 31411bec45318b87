// Package segmenting maps RFM scores to named customer segments and extracts
// ideal-customer patterns from the top-performing ones.
package segmenting

import (
	"fmt"

	"github.com/artefactventures/artefact-mcp/internal/domain"
)

// band is an inclusive score range.
type band struct {
	min, max int
}

func (b band) contains(v int) bool {
	return v >= b.min && v <= b.max
}

var (
	anyScore = band{1, 5}
	anyTotal = band{3, 15}
)

// segmentRule matches one segment on recency, frequency and total ranges.
// Monetary only participates through the total, which is how the model keeps
// high spenders visible without drowning the recency signal.
type segmentRule struct {
	Segment domain.Segment
	R       band
	F       band
	Total   band
}

// segmentRules is evaluated top to bottom, first match wins. The trailing
// three rules are catch-alls so every score triple resolves to a segment.
var segmentRules = []segmentRule{
	{domain.SegmentChampions, band{4, 5}, band{4, 5}, band{13, 15}},
	{domain.SegmentCantLoseThem, band{1, 2}, band{4, 5}, band{10, 15}},
	{domain.SegmentAtRisk, band{1, 2}, band{3, 5}, band{8, 15}},
	{domain.SegmentLoyalCustomers, band{3, 5}, band{3, 5}, band{11, 15}},
	{domain.SegmentNewCustomers, band{5, 5}, band{1, 1}, band{8, 15}},
	{domain.SegmentPromising, band{4, 4}, band{1, 1}, band{7, 15}},
	{domain.SegmentPotentialLoyalists, band{4, 5}, band{2, 3}, band{9, 15}},
	{domain.SegmentNeedAttention, band{3, 3}, band{2, 3}, band{7, 10}},
	{domain.SegmentAboutToSleep, band{2, 3}, band{1, 2}, band{5, 8}},
	{domain.SegmentLost, band{1, 1}, band{1, 1}, band{3, 4}},
	{domain.SegmentHibernating, band{1, 2}, band{1, 2}, band{3, 6}},
	{domain.SegmentPotentialLoyalists, band{4, 5}, anyScore, anyTotal},
	{domain.SegmentAtRisk, anyScore, band{3, 5}, anyTotal},
	{domain.SegmentNeedAttention, anyScore, anyScore, anyTotal},
}

// segmentCatalogue describes each segment and the follow-up action it calls
// for, keyed by label.
var segmentCatalogue = map[domain.Segment]domain.SegmentInfo{
	domain.SegmentChampions: {
		Description: "Best clients: recent, frequent, high-value",
		Action:      "Reward, ask for referrals and case studies",
	},
	domain.SegmentLoyalCustomers: {
		Description: "Consistent repeat business",
		Action:      "Upsell adjacent services, keep engagement steady",
	},
	domain.SegmentPotentialLoyalists: {
		Description: "Recent buyers showing repeat potential",
		Action:      "Nurture with onboarding and quick wins",
	},
	domain.SegmentNewCustomers: {
		Description: "First purchase within the latest period",
		Action:      "Deliver an excellent first experience",
	},
	domain.SegmentPromising: {
		Description: "Recent first purchase, value still unproven",
		Action:      "Build the relationship before it cools",
	},
	domain.SegmentNeedAttention: {
		Description: "Middling on every dimension",
		Action:      "Reactivate with targeted outreach",
	},
	domain.SegmentAboutToSleep: {
		Description: "Engagement visibly fading",
		Action:      "Win back now, before they go dormant",
	},
	domain.SegmentAtRisk: {
		Description: "Valuable clients who have gone quiet",
		Action:      "Reach out personally, surface blockers",
	},
	domain.SegmentCantLoseThem: {
		Description: "High-value clients on the edge of churn",
		Action:      "Executive-level recovery conversation",
	},
	domain.SegmentHibernating: {
		Description: "Long inactive, low historical value",
		Action:      "Low-cost reactivation campaigns only",
	},
	domain.SegmentLost: {
		Description: "Churned, minimal value",
		Action:      "Do not invest beyond automated touches",
	},
}

// Classifier assigns segments to RFM score triples using the rule table.
type Classifier struct {
	topPerformerMinTotal int
}

// NewClassifier builds a classifier. minTotal is the RFM total from which a
// client outside the top segments still counts as a top performer.
func NewClassifier(minTotal int) *Classifier {
	return &Classifier{topPerformerMinTotal: minTotal}
}

// Classify resolves a score triple to its segment. An error here means the
// inputs were outside 1..5, which is an internal-consistency failure of the
// caller, never a property of the data.
func (c *Classifier) Classify(score domain.RFMScore) (domain.Segment, error) {
	if !anyScore.contains(score.Recency) ||
		!anyScore.contains(score.Frequency) ||
		!anyScore.contains(score.Monetary) {
		return "", fmt.Errorf("rfm score out of range: %s", score.Code())
	}
	total := score.Total()
	for _, rule := range segmentRules {
		if rule.R.contains(score.Recency) &&
			rule.F.contains(score.Frequency) &&
			rule.Total.contains(total) {
			return rule.Segment, nil
		}
	}
	return "", fmt.Errorf("no segment rule matched score %s", score.Code())
}

// Info returns the description and recommended action for a segment.
func (c *Classifier) Info(segment domain.Segment) (domain.SegmentInfo, bool) {
	info, ok := segmentCatalogue[segment]
	return info, ok
}

// IsTopPerformer reports whether a scored client belongs to the top-performer
// set used for pattern extraction.
func (c *Classifier) IsTopPerformer(client domain.ScoredClient) bool {
	if client.Segment == domain.SegmentChampions || client.Segment == domain.SegmentLoyalCustomers {
		return true
	}
	return client.RFMTotal >= c.topPerformerMinTotal
}
