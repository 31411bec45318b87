package pipelining

import (
	"fmt"
	"sort"
	"time"

	"github.com/artefactventures/artefact-mcp/internal/domain"
	"github.com/artefactventures/artefact-mcp/pkg/utils"
)

// Analyzer computes pipeline health from normalized deals. It holds only
// configuration; every method is a pure function of its arguments plus the
// injected reference time.
type Analyzer struct {
	cfg AnalyzerConfig
}

func NewAnalyzer(cfg AnalyzerConfig) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{cfg: cfg}, nil
}

// Analyze runs the full pipeline health analysis. An empty deal set yields
// the zero-score Critical result rather than an error. Stages may be nil,
// in which case the stock pipeline order applies.
func (a *Analyzer) Analyze(
	deals []domain.Deal,
	stages []domain.PipelineStage,
	criteria domain.ExitCriteria,
	window Window,
	now time.Time,
) domain.PipelineHealthResult {
	if len(stages) == 0 {
		stages = DefaultStages()
	}

	result := domain.PipelineHealthResult{
		RunID:             utils.NewRunID(),
		TotalDeals:        len(deals),
		HealthLabel:       "Critical",
		StageDistribution: map[string]domain.StageCount{},
	}
	if len(deals) == 0 {
		return result
	}

	var open []domain.Deal
	for _, deal := range deals {
		result.TotalValue += deal.Amount
		if !IsClosedStage(deal) {
			open = append(open, deal)
		}
	}
	result.TotalValue = utils.RoundWithTwoDecimalPlace(result.TotalValue)
	result.OpenDeals = len(open)

	result.Velocity = a.Velocity(deals, stages, now)
	for _, v := range result.Velocity {
		if v.Bottleneck {
			result.BottleneckStages = append(result.BottleneckStages, v.StageID)
		}
		result.OverallCycleDays += v.AvgDays
	}
	result.OverallCycleDays = utils.RoundWithTwoDecimalPlace(result.OverallCycleDays)

	result.Conversions = a.Conversions(deals, stages, window)
	result.AtRisk = a.AtRisk(open, stages, criteria, now)
	result.ExitChecks = a.CheckExitCriteria(open, criteria)

	for _, deal := range deals {
		label := deal.StageLabel
		if label == "" {
			label = stageLabel(stages, deal.StageID)
		}
		count := result.StageDistribution[label]
		count.Count++
		count.Value = utils.RoundWithTwoDecimalPlace(count.Value + deal.Amount)
		result.StageDistribution[label] = count
	}

	result.HealthScore = a.HealthScore(result)
	result.HealthLabel = a.healthLabel(result.HealthScore)
	return result
}

// Velocity computes per-stage average dwell and flags bottlenecks. Dwell runs
// from the stage entry date (deal creation when entry is unknown) to the
// close date for closed deals, or to now for open ones. Only the slowest
// stage(s) above the dwell benchmark are flagged, and never on fewer than the
// minimum sample.
func (a *Analyzer) Velocity(deals []domain.Deal, stages []domain.PipelineStage, now time.Time) []domain.StageVelocity {
	dwell := make(map[string][]float64)
	for _, deal := range deals {
		entry := deal.StageEnteredAt
		if entry == nil {
			entry = deal.CreateDate
		}
		if entry == nil {
			continue
		}
		exit := now
		if IsClosedStage(deal) {
			switch {
			case deal.CloseDate != nil:
				exit = *deal.CloseDate
			case deal.LastModified != nil:
				exit = *deal.LastModified
			}
		}
		days := exit.Sub(*entry).Hours() / 24
		if days < 0 {
			days = 0
		}
		dwell[deal.StageID] = append(dwell[deal.StageID], days)
	}

	var velocity []domain.StageVelocity
	for _, stage := range stages {
		samples, ok := dwell[stage.ID]
		if !ok {
			continue
		}
		var sum float64
		for _, d := range samples {
			sum += d
		}
		velocity = append(velocity, domain.StageVelocity{
			StageID:    stage.ID,
			StageLabel: stage.Label,
			AvgDays:    utils.RoundWithTwoDecimalPlace(sum / float64(len(samples))),
			SampleSize: len(samples),
		})
	}

	maxAvg := 0.0
	for _, v := range velocity {
		if v.SampleSize >= a.cfg.MinBottleneckSample && v.AvgDays > maxAvg {
			maxAvg = v.AvgDays
		}
	}
	if maxAvg > a.cfg.DwellBenchmarkDays {
		for i := range velocity {
			if velocity[i].SampleSize >= a.cfg.MinBottleneckSample && velocity[i].AvgDays == maxAvg {
				velocity[i].Bottleneck = true
			}
		}
	}
	return velocity
}

// Conversions computes adjacent-pair conversion rates over the given cohort.
// A closed-won deal counts as having reached every stage; an open or lost
// deal counts up to its current stage. Pairs nobody ever entered report
// HasData=false instead of a fake zero rate.
func (a *Analyzer) Conversions(deals []domain.Deal, stages []domain.PipelineStage, window Window) []domain.ConversionRate {
	index := stageIndex(stages)

	reached := make([]int, len(stages))
	for _, deal := range deals {
		if !window.isZero() && !window.contains(deal.CreateDate) {
			continue
		}
		limit := -1
		if IsClosedStage(deal) && IsWonDeal(deal) {
			limit = len(stages) - 1
		} else if i, ok := index[deal.StageID]; ok {
			limit = i
		}
		for i := 0; i <= limit; i++ {
			reached[i]++
		}
	}

	conversions := make([]domain.ConversionRate, 0, len(stages)-1)
	for i := 0; i+1 < len(stages); i++ {
		rate := domain.ConversionRate{
			FromStage: stages[i].ID,
			ToStage:   stages[i+1].ID,
			Label:     fmt.Sprintf("%s -> %s", stages[i].Label, stages[i+1].Label),
			Entered:   reached[i],
			Converted: reached[i+1],
		}
		if rate.Entered > 0 {
			rate.HasData = true
			rate.Rate = utils.RoundWithTwoDecimalPlace(float64(rate.Converted) / float64(rate.Entered) * 100)
		}
		conversions = append(conversions, rate)
	}
	return conversions
}

// AtRisk flags open deals and records every reason that fired. Deals with
// more reasons sort first.
func (a *Analyzer) AtRisk(open []domain.Deal, stages []domain.PipelineStage, criteria domain.ExitCriteria, now time.Time) []domain.AtRiskDeal {
	var atRisk []domain.AtRiskDeal
	for _, deal := range open {
		if deal.CreateDate == nil {
			continue
		}
		age := utils.DaysBetween(*deal.CreateDate, now)

		lastActivity := deal.CreateDate
		if deal.LastModified != nil {
			lastActivity = deal.LastModified
		}
		stagnant := utils.DaysBetween(*lastActivity, now)

		var reasons []string
		if stagnant > a.cfg.StagnationDays {
			reasons = append(reasons, fmt.Sprintf("No activity for %d days", stagnant))
		}
		if deal.CloseDate != nil && now.After(*deal.CloseDate) {
			reasons = append(reasons, "Past expected close date")
		}
		if age > a.cfg.MaxOpenAgeDays {
			reasons = append(reasons, fmt.Sprintf("Open for %d days", age))
		}
		if deal.StageEnteredAt != nil {
			inStage := utils.DaysBetween(*deal.StageEnteredAt, now)
			if threshold := a.cfg.stageDwellThreshold(deal.StageID); inStage > threshold {
				reasons = append(reasons, fmt.Sprintf("In stage for %d days (threshold %d)", inStage, threshold))
			}
		}
		for _, criterion := range criteria[deal.StageID] {
			if !meetsCriterion(deal, criterion, now, a.cfg.StagnationDays) {
				reasons = append(reasons, fmt.Sprintf("Exit criterion unmet: %s", criterion.Name))
			}
		}

		if len(reasons) == 0 {
			continue
		}
		label := deal.StageLabel
		if label == "" {
			label = stageLabel(stages, deal.StageID)
		}
		atRisk = append(atRisk, domain.AtRiskDeal{
			DealID:         deal.ID,
			Name:           deal.Name,
			StageLabel:     label,
			Amount:         deal.Amount,
			DaysInPipeline: age,
			Reasons:        reasons,
		})
	}
	sort.SliceStable(atRisk, func(i, j int) bool {
		return len(atRisk[i].Reasons) > len(atRisk[j].Reasons)
	})
	return atRisk
}

// CheckExitCriteria builds the full per-deal criteria matrix for open deals.
// Returns nil when no criteria are configured.
func (a *Analyzer) CheckExitCriteria(open []domain.Deal, criteria domain.ExitCriteria) []domain.ExitCheck {
	if len(criteria) == 0 {
		return nil
	}
	var checks []domain.ExitCheck
	for _, deal := range open {
		for _, criterion := range criteria[deal.StageID] {
			checks = append(checks, domain.ExitCheck{
				DealID:    deal.ID,
				StageID:   deal.StageID,
				Criterion: criterion.Name,
				Passed:    meetsCriterion(deal, criterion, time.Time{}, a.cfg.StagnationDays),
			})
		}
	}
	return checks
}

func meetsCriterion(deal domain.Deal, criterion domain.ExitCriterion, now time.Time, stagnationDays int) bool {
	switch criterion.Field {
	case domain.CriterionAmountSet:
		return deal.Amount > 0
	case domain.CriterionCloseDateSet:
		return deal.CloseDate != nil
	case domain.CriterionStageEntryKnown:
		return deal.StageEnteredAt != nil
	case domain.CriterionRecentActivity:
		if deal.LastModified == nil {
			return false
		}
		if now.IsZero() {
			return true
		}
		return utils.DaysBetween(*deal.LastModified, now) <= stagnationDays
	}
	return false
}

// HealthScore applies the weighted penalty formula and clamps to [0, 100].
func (a *Analyzer) HealthScore(result domain.PipelineHealthResult) int {
	if result.TotalDeals == 0 {
		return 0
	}
	w := a.cfg.Weights
	score := 100.0

	score -= w.BottleneckPenalty * float64(len(result.BottleneckStages))

	for _, c := range result.Conversions {
		if c.HasData && c.Rate < w.ConversionBenchmarkPct {
			score -= w.LowConversionPenalty
		}
	}

	if result.OpenDeals > 0 {
		share := float64(len(result.AtRisk)) / float64(result.OpenDeals)
		score -= w.AtRiskMaxPenalty * share
	}

	if result.OverallCycleDays > w.LongCycleDays {
		score -= w.LongCyclePenalty
	}
	if result.TotalDeals < w.MinDealVolume {
		score -= w.LowVolumePenalty
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score + 0.5)
}

func (a *Analyzer) healthLabel(score int) string {
	switch {
	case score >= a.cfg.Weights.HealthyMin:
		return "Healthy"
	case score >= a.cfg.Weights.WarningMin:
		return "Warning"
	default:
		return "Critical"
	}
}
