// Package constraining determines which of the four scaling constraints
// (lead generation, conversion, delivery, profitability) dominates a revenue
// operation, using the multiplicative revenue formula
// Traffic x CR1 x ... x CRn x ACV x (1/Churn).
package constraining

import (
	"fmt"
	"sort"
	"time"

	"github.com/artefactventures/artefact-mcp/internal/domain"
	"github.com/artefactventures/artefact-mcp/internal/usecases/pipelining"
	"github.com/artefactventures/artefact-mcp/pkg/utils"
)

// Catalogue describes the four constraints.
func Catalogue() map[domain.ConstraintKey]domain.ConstraintInfo {
	return map[domain.ConstraintKey]domain.ConstraintInfo{
		domain.ConstraintLeadGeneration: {
			Label:       "Lead Generation",
			Description: "Not enough prospects entering the pipeline",
			Symptoms: []string{
				"Pipeline below 3x coverage of quota",
				"Sales team has idle capacity",
				"Marketing channels producing fewer leads",
				"No referral or partner engine",
			},
			EngineFocus:  "Growth Engine (early stages)",
			Levers:       []string{"VM1 (Visitors)", "CR1 (Visit -> Lead)"},
			PrimaryLever: "Traffic",
		},
		domain.ConstraintConversion: {
			Label:       "Conversion",
			Description: "Prospects enter but don't buy",
			Symptoms: []string{
				"Win rate below 20%",
				"Deals stall at specific pipeline stages",
				"Long sales cycles vs. industry norms",
				"Frequent 'not now' or 'too expensive' responses",
			},
			EngineFocus:  "Growth Engine (late stages)",
			Levers:       []string{"CR2-CR5 (Lead -> Won)"},
			PrimaryLever: "Conversion",
		},
		domain.ConstraintDelivery: {
			Label:       "Delivery",
			Description: "Can't fulfill at scale, quality drops with growth",
			Symptoms: []string{
				"Turning away business due to capacity",
				"Client satisfaction declining with growth",
				"Delivery timelines slipping",
				"Key-person dependency",
			},
			EngineFocus:  "Fulfillment Engine",
			Levers:       []string{"NRR (Retention Formula)"},
			PrimaryLever: "Churn (inverse)",
		},
		domain.ConstraintProfitability: {
			Label:       "Profitability",
			Description: "Revenue grows but profit doesn't",
			Symptoms: []string{
				"Gross margin below 50%",
				"Revenue requires proportional team growth",
				"Discounting to close deals",
				"Overhead growing faster than revenue",
			},
			EngineFocus:  "All engines (efficiency focus)",
			Levers:       []string{"ACV", "NRR"},
			PrimaryLever: "Price",
		},
	}
}

// Benchmarks are the reference values constraint scoring compares against.
type Benchmarks struct {
	AvgConversionRatePct  float64 `json:"avg_conversion_rate_pct" yaml:"avg_conversion_rate_pct"`
	AvgDealValue          float64 `json:"avg_deal_value" yaml:"avg_deal_value"`
	CycleDays             float64 `json:"cycle_days" yaml:"cycle_days"`
	AtRiskThresholdPct    float64 `json:"at_risk_threshold_pct" yaml:"at_risk_threshold_pct"`
	EarlyConcentrationPct float64 `json:"early_stage_concentration_pct" yaml:"early_stage_concentration_pct"`
	PipelineCoverageRatio float64 `json:"pipeline_coverage_ratio" yaml:"pipeline_coverage_ratio"`
}

// DefaultBenchmarks returns B2B-service reference values.
func DefaultBenchmarks() Benchmarks {
	return Benchmarks{
		AvgConversionRatePct:  50,
		AvgDealValue:          30000,
		CycleDays:             90,
		AtRiskThresholdPct:    30,
		EarlyConcentrationPct: 60,
		PipelineCoverageRatio: 3,
	}
}

// Service runs the dominant-constraint analysis on top of the pipeline
// analyzer's metrics.
type Service struct {
	analyzer   *pipelining.Analyzer
	benchmarks Benchmarks
}

func NewService(analyzer *pipelining.Analyzer, benchmarks Benchmarks) *Service {
	return &Service{analyzer: analyzer, benchmarks: benchmarks}
}

// Identify scores all four constraints and reports the dominant one. quota,
// when positive, adds a pipeline coverage ratio to the summary.
func (s *Service) Identify(
	deals []domain.Deal,
	stages []domain.PipelineStage,
	quota float64,
	now time.Time,
) domain.ConstraintReport {
	if len(stages) == 0 {
		stages = pipelining.DefaultStages()
	}

	report := domain.ConstraintReport{
		RunID:        utils.NewRunID(),
		AnalysisDate: now.Format("2006-01-02"),
	}
	if len(deals) == 0 {
		report.Analysis = "Insufficient data: no deals found in pipeline."
		return report
	}

	velocity := s.analyzer.Velocity(deals, stages, now)
	conversions := s.analyzer.Conversions(deals, stages, pipelining.Window{})
	atRisk := s.analyzer.AtRisk(openDeals(deals), stages, nil, now)

	var cycleDays float64
	var bottlenecks []string
	for _, v := range velocity {
		cycleDays += v.AvgDays
		if v.Bottleneck {
			bottlenecks = append(bottlenecks, v.StageID)
		}
	}
	cycleDays = utils.RoundWithTwoDecimalPlace(cycleDays)

	var totalValue float64
	for _, deal := range deals {
		totalValue += deal.Amount
	}
	avgDealValue := totalValue / float64(len(deals))

	scores := s.scoreConstraints(deals, stages, conversions, atRisk, cycleDays, avgDealValue)

	catalogue := Catalogue()
	var ranking []domain.ConstraintScore
	for key, severity := range scores {
		info := catalogue[key]
		ranking = append(ranking, domain.ConstraintScore{
			Key:          key,
			Label:        info.Label,
			Severity:     severity,
			Description:  info.Description,
			EngineFocus:  info.EngineFocus,
			PrimaryLever: info.PrimaryLever,
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Severity != ranking[j].Severity {
			return ranking[i].Severity > ranking[j].Severity
		}
		return ranking[i].Key < ranking[j].Key
	})
	report.Ranking = ranking

	dominant := ranking[0]
	info := catalogue[dominant.Key]
	report.Dominant = &domain.DominantConstraint{
		Key:          dominant.Key,
		Label:        info.Label,
		Severity:     dominant.Severity,
		Description:  info.Description,
		Symptoms:     info.Symptoms,
		EngineFocus:  info.EngineFocus,
		Levers:       info.Levers,
		PrimaryLever: info.PrimaryLever,
	}

	formula := s.revenueFormula(len(deals), conversions, avgDealValue)
	report.Formula = &formula

	report.Pipeline = domain.ConstraintPipelineSummary{
		TotalDeals:       len(deals),
		TotalValue:       utils.RoundWithTwoDecimalPlace(totalValue),
		AvgDealValue:     utils.RoundWithTwoDecimalPlace(avgDealValue),
		AtRiskCount:      len(atRisk),
		AtRiskPct:        utils.RoundWithTwoDecimalPlace(float64(len(atRisk)) / float64(len(deals)) * 100),
		CycleDays:        cycleDays,
		BottleneckStages: bottlenecks,
	}
	if quota > 0 {
		ratio := utils.RoundWithTwoDecimalPlace(totalValue / quota)
		report.Pipeline.CoverageRatio = &ratio
	}

	report.RecommendedFocus = fmt.Sprintf(
		"Your dominant constraint is %s. Focus on the %s, specifically the %s lever.",
		info.Label, info.EngineFocus, info.PrimaryLever,
	)
	return report
}

// scoreConstraints accumulates severity evidence per constraint, then
// normalizes so the worst constraint reads 100.
func (s *Service) scoreConstraints(
	deals []domain.Deal,
	stages []domain.PipelineStage,
	conversions []domain.ConversionRate,
	atRisk []domain.AtRiskDeal,
	cycleDays float64,
	avgDealValue float64,
) map[domain.ConstraintKey]float64 {
	total := len(deals)
	scores := map[domain.ConstraintKey]float64{
		domain.ConstraintLeadGeneration: 0,
		domain.ConstraintConversion:     0,
		domain.ConstraintDelivery:       0,
		domain.ConstraintProfitability:  0,
	}

	// Lead generation: thin or drying pipeline.
	switch {
	case total < 5:
		scores[domain.ConstraintLeadGeneration] += 40
	case total < 10:
		scores[domain.ConstraintLeadGeneration] += 20
	case total < 15:
		scores[domain.ConstraintLeadGeneration] += 10
	}

	earlyIDs := map[string]bool{}
	for i, stage := range stages {
		if i < 2 {
			earlyIDs[stage.ID] = true
		}
	}
	var earlyCount, lateCount int
	var lateValue, totalValue float64
	for _, deal := range deals {
		totalValue += deal.Amount
		if earlyIDs[deal.StageID] {
			earlyCount++
		} else {
			lateCount++
			lateValue += deal.Amount
		}
	}
	if earlyCount == 0 && lateCount > 0 {
		scores[domain.ConstraintLeadGeneration] += 30
	} else if total < 8 {
		scores[domain.ConstraintLeadGeneration] += 15
	}

	// Conversion: low rates, risk, slow cycle, early clustering.
	var rates []float64
	for _, c := range conversions {
		if c.HasData {
			rates = append(rates, c.Rate)
		}
	}
	if len(rates) > 0 {
		var sum float64
		minRate := rates[0]
		for _, r := range rates {
			sum += r
			if r < minRate {
				minRate = r
			}
		}
		avgRate := sum / float64(len(rates))
		switch {
		case avgRate < 25:
			scores[domain.ConstraintConversion] += 40
		case avgRate < 40:
			scores[domain.ConstraintConversion] += 25
		case avgRate < s.benchmarks.AvgConversionRatePct:
			scores[domain.ConstraintConversion] += 10
		}
		switch {
		case minRate < 20:
			scores[domain.ConstraintConversion] += 20
		case minRate < 30:
			scores[domain.ConstraintConversion] += 10
		}
	}

	atRiskPct := float64(len(atRisk)) / float64(total) * 100
	switch {
	case atRiskPct > s.benchmarks.AtRiskThresholdPct:
		scores[domain.ConstraintConversion] += 20
	case atRiskPct > 20:
		scores[domain.ConstraintConversion] += 10
	}

	switch {
	case cycleDays > s.benchmarks.CycleDays*2:
		scores[domain.ConstraintConversion] += 20
	case cycleDays > s.benchmarks.CycleDays:
		scores[domain.ConstraintConversion] += 10
	}

	if float64(earlyCount)/float64(total)*100 > s.benchmarks.EarlyConcentrationPct {
		scores[domain.ConstraintConversion] += 15
	}

	// Delivery: a wall of late-stage value about to land on the team.
	if lateCount > 3 && lateValue > totalValue*0.5 {
		scores[domain.ConstraintDelivery] += 15
	}

	// Profitability: small deals relative to benchmark.
	switch {
	case avgDealValue < s.benchmarks.AvgDealValue*0.5:
		scores[domain.ConstraintProfitability] += 25
	case avgDealValue < s.benchmarks.AvgDealValue:
		scores[domain.ConstraintProfitability] += 10
	}
	smallDeals := 0
	for _, deal := range deals {
		if deal.Amount < s.benchmarks.AvgDealValue*0.3 {
			smallDeals++
		}
	}
	if float64(smallDeals)/float64(total) > 0.5 {
		scores[domain.ConstraintProfitability] += 15
	}

	// Normalize so the dominant constraint reads 100.
	var max float64
	for _, score := range scores {
		if score > max {
			max = score
		}
	}
	if max > 0 {
		for key := range scores {
			scores[key] = utils.RoundWithTwoDecimalPlace(minf(100, scores[key]/max*100))
		}
	}
	return scores
}

func (s *Service) revenueFormula(total int, conversions []domain.ConversionRate, avgDealValue float64) domain.RevenueFormula {
	formula := domain.RevenueFormula{
		Formula:      "Revenue = Traffic x CR1 x CR2 x ... x CRn x ACV x (1/Churn)",
		TrafficCount: total,
		ACVCurrent:   utils.RoundWithTwoDecimalPlace(avgDealValue),
		ACVBenchmark: s.benchmarks.AvgDealValue,
		ACVGap:       utils.RoundWithTwoDecimalPlace(s.benchmarks.AvgDealValue - avgDealValue),
		Note: "The formula is multiplicative: a 10% improvement at the weakest link " +
			"often yields more revenue than doubling traffic. Focus improvement efforts " +
			"on the conversion rate with the biggest gap to benchmark.",
	}

	benchmark := s.benchmarks.AvgConversionRatePct
	for i, c := range conversions {
		if !c.HasData {
			continue
		}
		gap := benchmark - c.Rate
		stage := domain.FormulaStage{
			Label:       fmt.Sprintf("CR%d", i+1),
			Transition:  c.Label,
			CurrentRate: c.Rate,
			Benchmark:   benchmark,
			Gap:         utils.RoundWithTwoDecimalPlace(gap),
			GapPct:      utils.RoundWithTwoDecimalPlace(gap / benchmark * 100),
			Status:      "below",
		}
		if c.Rate >= benchmark {
			stage.Status = "above"
		}
		formula.Stages = append(formula.Stages, stage)
	}

	for i := range formula.Stages {
		stage := &formula.Stages[i]
		if stage.Status != "below" {
			continue
		}
		if formula.WeakestLink == nil || stage.Gap > formula.WeakestLink.Gap {
			formula.WeakestLink = stage
		}
	}
	return formula
}

func openDeals(deals []domain.Deal) []domain.Deal {
	var open []domain.Deal
	for _, deal := range deals {
		if !pipelining.IsClosedStage(deal) {
			open = append(open, deal)
		}
	}
	return open
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
