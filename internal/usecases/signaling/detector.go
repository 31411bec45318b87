// Package signaling scans pipeline data for evidence-backed revenue signals:
// no insight without a signal, no signal without evidence.
package signaling

import (
	"fmt"
	"sort"
	"time"

	"github.com/artefactventures/artefact-mcp/internal/domain"
	"github.com/artefactventures/artefact-mcp/internal/usecases/pipelining"
	"github.com/artefactventures/artefact-mcp/pkg/utils"
)

// Taxonomy lists the six signal types and their usual follow-ups.
func Taxonomy() map[domain.SignalType]domain.SignalInfo {
	return map[domain.SignalType]domain.SignalInfo{
		domain.SignalWinLossPattern: {
			Label:       "Win/Loss Pattern",
			Description: "Shifts in win rates, loss reasons, or deal outcomes by segment/persona/channel",
			RecommendedActions: []string{
				"ICP refinement", "Persona update", "Qualification rule change",
			},
		},
		domain.SignalConversionDropOff: {
			Label:       "Conversion Drop-Off",
			Description: "Stage-to-stage conversion rates below benchmark or declining",
			RecommendedActions: []string{
				"Pipeline stage exit criteria update", "SLA adjustment", "Process investigation",
			},
		},
		domain.SignalVelocityAnomaly: {
			Label:       "Velocity Anomaly",
			Description: "Time-in-stage significantly above or below benchmark",
			RecommendedActions: []string{
				"Stage SLA change", "Process bottleneck investigation", "Resource reallocation",
			},
		},
		domain.SignalSPICEDFrequency: {
			Label:       "SPICED Frequency",
			Description: "Recurring pain points, impacts, or critical events across deals",
			RecommendedActions: []string{
				"Messaging update", "Positioning refinement", "Content strategy adjustment",
			},
		},
		domain.SignalAttributionShift: {
			Label:       "Attribution Shift",
			Description: "Channel performance changes or pipeline source trend shifts",
			RecommendedActions: []string{
				"Channel strategy change", "Campaign targeting update", "Budget reallocation",
			},
		},
		domain.SignalDataQuality: {
			Label:       "Data Quality",
			Description: "Missing fields, incomplete records, data gaps in CRM",
			RecommendedActions: []string{
				"CRM field enforcement", "Data hygiene campaign", "CRM automation rules",
			},
		},
	}
}

// Config holds the detection benchmarks.
type Config struct {
	VelocityBenchmarkDays  float64 `json:"velocity_benchmark_days" yaml:"velocity_benchmark_days"`
	ConversionBenchmarkPct float64 `json:"conversion_benchmark_pct" yaml:"conversion_benchmark_pct"`
	DataCompletenessPct    float64 `json:"data_completeness_pct" yaml:"data_completeness_pct"`
	CriticalStrength       float64 `json:"critical_strength" yaml:"critical_strength"`
}

func DefaultConfig() Config {
	return Config{
		VelocityBenchmarkDays:  30,
		ConversionBenchmarkPct: 50,
		DataCompletenessPct:    70,
		CriticalStrength:       0.7,
	}
}

// Detector runs the signal scan on top of the pipeline analyzer's metrics.
type Detector struct {
	analyzer *pipelining.Analyzer
	cfg      Config
}

func NewDetector(analyzer *pipelining.Analyzer, cfg Config) *Detector {
	return &Detector{analyzer: analyzer, cfg: cfg}
}

// Detect scans the deals for every signal type and returns the findings
// sorted strongest first.
func (d *Detector) Detect(deals []domain.Deal, stages []domain.PipelineStage, now time.Time) domain.SignalReport {
	if len(stages) == 0 {
		stages = pipelining.DefaultStages()
	}

	report := domain.SignalReport{
		RunID:        utils.NewRunID(),
		ScanDate:     now.Format("2006-01-02"),
		DealsScanned: len(deals),
		Taxonomy:     Taxonomy(),
		Summary: domain.SignalSummary{
			TypeCounts: map[domain.SignalType]int{},
			Critical:   []domain.Signal{},
		},
	}
	if len(deals) == 0 {
		return report
	}

	velocity := d.analyzer.Velocity(deals, stages, now)
	conversions := d.analyzer.Conversions(deals, stages, pipelining.Window{})
	atRisk := d.analyzer.AtRisk(openDeals(deals), stages, nil, now)

	var signals []domain.Signal
	signals = append(signals, d.velocityAnomalies(velocity, deals)...)
	signals = append(signals, d.conversionDropOffs(conversions)...)
	signals = append(signals, d.dataQualityIssues(deals)...)
	signals = append(signals, d.winLossPatterns(deals, atRisk)...)
	signals = append(signals, d.pipelineConcentration(deals, stages)...)

	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Strength > signals[j].Strength
	})

	report.Signals = signals
	report.Summary.TotalSignals = len(signals)
	for _, sig := range signals {
		if report.Summary.TypeCounts[sig.Type] == 0 {
			report.Summary.TypesDetected = append(report.Summary.TypesDetected, sig.Type)
		}
		report.Summary.TypeCounts[sig.Type]++
		if sig.Strength >= d.cfg.CriticalStrength {
			report.Summary.Critical = append(report.Summary.Critical, sig)
		}
	}
	if len(signals) > 0 {
		report.Summary.Strongest = &signals[0]
	}
	return report
}

func (d *Detector) signal(t domain.SignalType, name string, strength float64, evidence map[string]any, action string) domain.Signal {
	return domain.Signal{
		Type:              t,
		TypeLabel:         Taxonomy()[t].Label,
		Name:              name,
		Strength:          utils.RoundWithTwoDecimalPlace(strength),
		Evidence:          evidence,
		RecommendedAction: action,
	}
}

func (d *Detector) velocityAnomalies(velocity []domain.StageVelocity, deals []domain.Deal) []domain.Signal {
	benchmark := d.cfg.VelocityBenchmarkDays
	var signals []domain.Signal
	for _, stage := range velocity {
		ratio := stage.AvgDays / benchmark
		switch {
		case stage.AvgDays > benchmark*2:
			signals = append(signals, d.signal(
				domain.SignalVelocityAnomaly,
				fmt.Sprintf("%s stage velocity critically slow", stage.StageLabel),
				minf(1.0, stage.AvgDays/(benchmark*4)),
				map[string]any{
					"stage":              stage.StageLabel,
					"avg_days_in_stage":  stage.AvgDays,
					"benchmark_days":     benchmark,
					"ratio_to_benchmark": utils.RoundWithTwoDecimalPlace(ratio),
					"deals_affected":     stage.SampleSize,
				},
				fmt.Sprintf(
					"Investigate bottleneck in %s. Deals spend %.0f days here vs. %.0f-day benchmark (%.1fx slower). Review stage exit criteria and process efficiency.",
					stage.StageLabel, stage.AvgDays, benchmark, ratio,
				),
			))
		case stage.AvgDays > benchmark*1.5:
			signals = append(signals, d.signal(
				domain.SignalVelocityAnomaly,
				fmt.Sprintf("%s stage velocity above benchmark", stage.StageLabel),
				minf(0.7, stage.AvgDays/(benchmark*3)),
				map[string]any{
					"stage":              stage.StageLabel,
					"avg_days_in_stage":  stage.AvgDays,
					"benchmark_days":     benchmark,
					"ratio_to_benchmark": utils.RoundWithTwoDecimalPlace(ratio),
				},
				fmt.Sprintf(
					"Monitor %s: %.0f days vs. %.0f-day benchmark. Consider adjusting stage SLA or reviewing process.",
					stage.StageLabel, stage.AvgDays, benchmark,
				),
			))
		}
	}
	return signals
}

func (d *Detector) conversionDropOffs(conversions []domain.ConversionRate) []domain.Signal {
	benchmark := d.cfg.ConversionBenchmarkPct
	var signals []domain.Signal
	for _, c := range conversions {
		if !c.HasData {
			continue
		}
		switch {
		case c.Rate < benchmark*0.5:
			signals = append(signals, d.signal(
				domain.SignalConversionDropOff,
				fmt.Sprintf("Severe drop-off: %s", c.Label),
				minf(1.0, (benchmark-c.Rate)/benchmark),
				map[string]any{
					"transition":      c.Label,
					"conversion_rate": c.Rate,
					"benchmark_rate":  benchmark,
					"deals_at_stage":  c.Entered,
					"deals_advancing": c.Converted,
					"deals_stuck":     c.Entered - c.Converted,
				},
				fmt.Sprintf(
					"Critical conversion gap: only %.1f%% of deals advance through %s (benchmark: %.0f%%). Review exit criteria for this transition and check for missing qualification steps.",
					c.Rate, c.Label, benchmark,
				),
			))
		case c.Rate < benchmark:
			signals = append(signals, d.signal(
				domain.SignalConversionDropOff,
				fmt.Sprintf("Below-benchmark conversion: %s", c.Label),
				minf(0.6, (benchmark-c.Rate)/benchmark),
				map[string]any{
					"transition":      c.Label,
					"conversion_rate": c.Rate,
					"benchmark_rate":  benchmark,
					"deals_at_stage":  c.Entered,
					"deals_advancing": c.Converted,
				},
				fmt.Sprintf(
					"Conversion through %s is %.1f%% (below %.0f%% benchmark). Investigate qualification criteria and deal progression blockers.",
					c.Label, c.Rate, benchmark,
				),
			))
		}
	}
	return signals
}

// requiredDealField checks presence of one CRM field used for completeness
// scoring.
var requiredDealFields = []struct {
	name    string
	present func(domain.Deal) bool
}{
	{"name", func(d domain.Deal) bool { return d.Name != "" }},
	{"amount", func(d domain.Deal) bool { return d.Amount != 0 }},
	{"stage", func(d domain.Deal) bool { return d.StageID != "" }},
	{"create_date", func(d domain.Deal) bool { return d.CreateDate != nil }},
	{"close_date", func(d domain.Deal) bool { return d.CloseDate != nil }},
}

func (d *Detector) dataQualityIssues(deals []domain.Deal) []domain.Signal {
	total := len(deals)
	threshold := d.cfg.DataCompletenessPct

	type fieldGap struct {
		Field          string  `json:"field"`
		CompletionRate float64 `json:"completion_rate"`
		MissingCount   int     `json:"missing_count"`
	}
	var gaps []fieldGap
	for _, field := range requiredDealFields {
		complete := 0
		for _, deal := range deals {
			if field.present(deal) {
				complete++
			}
		}
		rate := float64(complete) / float64(total) * 100
		if rate < threshold {
			gaps = append(gaps, fieldGap{
				Field:          field.name,
				CompletionRate: utils.RoundWithTwoDecimalPlace(rate),
				MissingCount:   total - complete,
			})
		}
	}

	var signals []domain.Signal
	if len(gaps) > 0 {
		worst := gaps[0]
		for _, gap := range gaps[1:] {
			if gap.CompletionRate < worst.CompletionRate {
				worst = gap
			}
		}
		signals = append(signals, d.signal(
			domain.SignalDataQuality,
			"CRM data completeness below threshold",
			minf(1.0, 1-worst.CompletionRate/100),
			map[string]any{
				"total_deals":       total,
				"threshold_pct":     threshold,
				"incomplete_fields": gaps,
			},
			fmt.Sprintf(
				"Data quality issue: %d field(s) below %.0f%% completion. Worst: %q at %.1f%%. Enforce required fields in the CRM pipeline settings.",
				len(gaps), threshold, worst.Field, worst.CompletionRate,
			),
		))
	}

	zeroAmount := 0
	for _, deal := range deals {
		if deal.Amount == 0 {
			zeroAmount++
		}
	}
	if share := float64(zeroAmount) / float64(total); share > 0.2 {
		signals = append(signals, d.signal(
			domain.SignalDataQuality,
			"High proportion of deals missing amount",
			minf(0.8, share),
			map[string]any{
				"deals_with_zero_amount": zeroAmount,
				"total_deals":            total,
				"percentage":             utils.RoundWithTwoDecimalPlace(share * 100),
			},
			fmt.Sprintf(
				"%d/%d deals (%.0f%%) have no amount set. Pipeline value is unreliable. Require deal amount at creation.",
				zeroAmount, total, share*100,
			),
		))
	}
	return signals
}

func (d *Detector) winLossPatterns(deals []domain.Deal, atRisk []domain.AtRiskDeal) []domain.Signal {
	total := len(deals)
	atRiskPct := float64(len(atRisk)) / float64(total) * 100

	var signals []domain.Signal
	switch {
	case atRiskPct > 40:
		top := atRisk
		if len(top) > 3 {
			top = top[:3]
		}
		signals = append(signals, d.signal(
			domain.SignalWinLossPattern,
			"High proportion of at-risk deals in pipeline",
			minf(1.0, atRiskPct/60),
			map[string]any{
				"at_risk_count":      len(atRisk),
				"total_deals":        total,
				"at_risk_percentage": utils.RoundWithTwoDecimalPlace(atRiskPct),
				"top_at_risk":        top,
			},
			fmt.Sprintf(
				"%.0f%% of pipeline deals are at risk (%d/%d). This signals systemic pipeline quality issues. Review qualification criteria: deals may be entering the pipeline prematurely.",
				atRiskPct, len(atRisk), total,
			),
		))
	case atRiskPct > 20:
		signals = append(signals, d.signal(
			domain.SignalWinLossPattern,
			"Elevated at-risk deal proportion",
			minf(0.6, atRiskPct/50),
			map[string]any{
				"at_risk_count":      len(atRisk),
				"total_deals":        total,
				"at_risk_percentage": utils.RoundWithTwoDecimalPlace(atRiskPct),
			},
			fmt.Sprintf(
				"%.0f%% of deals are at risk. Monitor closely and investigate common stagnation patterns.",
				atRiskPct,
			),
		))
	}

	// Stagnation clustering: many at-risk deals stuck at the same stage.
	clusters := map[string]int{}
	order := []string{}
	for _, deal := range atRisk {
		if _, seen := clusters[deal.StageLabel]; !seen {
			order = append(order, deal.StageLabel)
		}
		clusters[deal.StageLabel]++
	}
	for _, stage := range order {
		count := clusters[stage]
		if count >= 2 && float64(count)/float64(len(atRisk)) > 0.4 {
			signals = append(signals, d.signal(
				domain.SignalWinLossPattern,
				fmt.Sprintf("Stagnation cluster in %s", stage),
				minf(0.8, float64(count)/5),
				map[string]any{
					"stage":              stage,
					"stagnant_deals":     count,
					"total_at_risk":      len(atRisk),
					"cluster_percentage": utils.RoundWithTwoDecimalPlace(float64(count) / float64(len(atRisk)) * 100),
				},
				fmt.Sprintf(
					"%d at-risk deals clustered in the %q stage. This suggests a systematic process failure there. Review exit criteria and required activities for this stage.",
					count, stage,
				),
			))
		}
	}
	return signals
}

func (d *Detector) pipelineConcentration(deals []domain.Deal, stages []domain.PipelineStage) []domain.Signal {
	if len(deals) < 3 || len(stages) < 2 {
		return nil
	}

	earlyStages := map[string]bool{stages[0].ID: true, stages[1].ID: true}
	var earlyValue, totalValue float64
	for _, deal := range deals {
		totalValue += deal.Amount
		if earlyStages[deal.StageID] {
			earlyValue += deal.Amount
		}
	}
	if totalValue == 0 {
		return nil
	}
	share := earlyValue / totalValue
	if share <= 0.6 {
		return nil
	}

	return []domain.Signal{d.signal(
		domain.SignalAttributionShift,
		"Pipeline value concentrated in early stages",
		minf(0.7, share),
		map[string]any{
			"early_stage_value":    utils.RoundWithTwoDecimalPlace(earlyValue),
			"total_pipeline_value": utils.RoundWithTwoDecimalPlace(totalValue),
			"early_stage_pct":      utils.RoundWithTwoDecimalPlace(share * 100),
		},
		fmt.Sprintf(
			"%.0f%% of pipeline value sits in early stages. Deals enter but don't advance. Focus on conversion optimization in early-to-mid pipeline transitions.",
			share*100,
		),
	)}
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
