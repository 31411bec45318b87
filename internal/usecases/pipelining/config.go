// Package pipelining analyzes deal pipelines: stage velocity, conversion
// rates, at-risk detection and a composite health score. All computations are
// pure over the supplied deals and reference time.
package pipelining

import (
	"fmt"
	"time"
)

// HealthWeights parameterizes the health score formula. The score starts at
// 100 and subtracts each penalty; the result is clamped to [0, 100].
type HealthWeights struct {
	// BottleneckPenalty is subtracted once per flagged bottleneck stage.
	BottleneckPenalty float64 `json:"bottleneck_penalty" yaml:"bottleneck_penalty"`
	// LowConversionPenalty is subtracted once per adjacent stage pair whose
	// conversion rate falls below ConversionBenchmarkPct.
	LowConversionPenalty   float64 `json:"low_conversion_penalty" yaml:"low_conversion_penalty"`
	ConversionBenchmarkPct float64 `json:"conversion_benchmark_pct" yaml:"conversion_benchmark_pct"`
	// AtRiskMaxPenalty is scaled by the at-risk share of open deals: all deals
	// at risk costs the full penalty, half of them costs half.
	AtRiskMaxPenalty float64 `json:"at_risk_max_penalty" yaml:"at_risk_max_penalty"`
	// LongCyclePenalty applies when the overall cycle exceeds LongCycleDays.
	LongCyclePenalty float64 `json:"long_cycle_penalty" yaml:"long_cycle_penalty"`
	LongCycleDays    float64 `json:"long_cycle_days" yaml:"long_cycle_days"`
	// LowVolumePenalty applies when fewer than MinDealVolume deals exist.
	LowVolumePenalty float64 `json:"low_volume_penalty" yaml:"low_volume_penalty"`
	MinDealVolume    int     `json:"min_deal_volume" yaml:"min_deal_volume"`

	HealthyMin int `json:"healthy_min" yaml:"healthy_min"`
	WarningMin int `json:"warning_min" yaml:"warning_min"`
}

// DefaultHealthWeights returns the documented default formula.
func DefaultHealthWeights() HealthWeights {
	return HealthWeights{
		BottleneckPenalty:      15,
		LowConversionPenalty:   10,
		ConversionBenchmarkPct: 50,
		AtRiskMaxPenalty:       40,
		LongCyclePenalty:       25,
		LongCycleDays:          180,
		LowVolumePenalty:       15,
		MinDealVolume:          3,
		HealthyMin:             70,
		WarningMin:             40,
	}
}

// Validate rejects weight sets that could not produce a meaningful score.
func (w HealthWeights) Validate() error {
	for name, v := range map[string]float64{
		"bottleneck_penalty":     w.BottleneckPenalty,
		"low_conversion_penalty": w.LowConversionPenalty,
		"at_risk_max_penalty":    w.AtRiskMaxPenalty,
		"long_cycle_penalty":     w.LongCyclePenalty,
		"low_volume_penalty":     w.LowVolumePenalty,
	} {
		if v < 0 {
			return fmt.Errorf("health weights: %s must not be negative", name)
		}
	}
	if w.ConversionBenchmarkPct < 0 || w.ConversionBenchmarkPct > 100 {
		return fmt.Errorf("health weights: conversion_benchmark_pct outside 0..100")
	}
	if w.WarningMin > w.HealthyMin {
		return fmt.Errorf("health weights: warning_min above healthy_min")
	}
	return nil
}

// AnalyzerConfig bundles risk thresholds and the health weights.
type AnalyzerConfig struct {
	// StageDwellDays sets the per-stage at-risk dwell threshold, keyed by
	// stage id. Stages not listed use DefaultStageDwellDays.
	StageDwellDays        map[string]int `json:"stage_dwell_days,omitempty" yaml:"stage_dwell_days"`
	DefaultStageDwellDays int            `json:"default_stage_dwell_days" yaml:"default_stage_dwell_days"`
	// StagnationDays flags a deal with no activity for this long.
	StagnationDays int `json:"stagnation_days" yaml:"stagnation_days"`
	// MaxOpenAgeDays flags a deal open for this long.
	MaxOpenAgeDays int `json:"max_open_age_days" yaml:"max_open_age_days"`
	// MinBottleneckSample keeps thin stages from being flagged: a stage with
	// fewer observed deals is never a bottleneck, whatever its average dwell.
	MinBottleneckSample int `json:"min_bottleneck_sample" yaml:"min_bottleneck_sample"`
	// DwellBenchmarkDays is the average dwell a stage must exceed, on top of
	// being the slowest, before it counts as a bottleneck.
	DwellBenchmarkDays float64       `json:"dwell_benchmark_days" yaml:"dwell_benchmark_days"`
	Weights            HealthWeights `json:"weights" yaml:"weights"`
}

// DefaultAnalyzerConfig returns the stock thresholds.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		DefaultStageDwellDays: 30,
		StagnationDays:        30,
		MaxOpenAgeDays:        180,
		MinBottleneckSample:   3,
		DwellBenchmarkDays:    30,
		Weights:               DefaultHealthWeights(),
	}
}

// Validate rejects threshold sets that would misfire on any pipeline.
func (c AnalyzerConfig) Validate() error {
	if c.DefaultStageDwellDays <= 0 {
		return fmt.Errorf("analyzer config: default_stage_dwell_days must be positive")
	}
	if c.StagnationDays <= 0 {
		return fmt.Errorf("analyzer config: stagnation_days must be positive")
	}
	if c.MaxOpenAgeDays <= 0 {
		return fmt.Errorf("analyzer config: max_open_age_days must be positive")
	}
	if c.MinBottleneckSample < 1 {
		return fmt.Errorf("analyzer config: min_bottleneck_sample must be at least 1")
	}
	if c.DwellBenchmarkDays < 0 {
		return fmt.Errorf("analyzer config: dwell_benchmark_days must not be negative")
	}
	return c.Weights.Validate()
}

func (c AnalyzerConfig) stageDwellThreshold(stageID string) int {
	if days, ok := c.StageDwellDays[stageID]; ok {
		return days
	}
	return c.DefaultStageDwellDays
}

// Window restricts conversion analysis to a creation-date cohort. Zero
// boundaries are unbounded.
type Window struct {
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

func (w Window) contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

func (w Window) isZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}
