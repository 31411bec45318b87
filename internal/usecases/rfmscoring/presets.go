package rfmscoring

import (
	"fmt"

	"github.com/pkg/errors"
)

// MonetaryMethod selects how monetary boundaries are derived.
type MonetaryMethod string

const (
	// MonetaryPercentile derives boundaries from the revenue distribution of
	// the scored batch itself.
	MonetaryPercentile MonetaryMethod = "percentile"
	// MonetaryFixed uses absolute revenue boundaries from the preset.
	MonetaryFixed MonetaryMethod = "fixed"
)

// MonetaryBasis selects which records feed the percentile distribution.
type MonetaryBasis string

const (
	// BasisAllRecords ranks revenue against every record in the batch.
	BasisAllRecords MonetaryBasis = "all"
	// BasisPurchasers ranks revenue against records with at least one
	// transaction, so never-purchased prospects do not dilute the bands.
	BasisPurchasers MonetaryBasis = "purchasers"
)

// MonetaryConfig describes the monetary dimension of a preset. Percentiles
// are walked most favorable first, the matching score comes from Scores, and
// Scores carries one trailing fallback entry, mirroring ThresholdTable.
type MonetaryConfig struct {
	Method      MonetaryMethod `json:"method"`
	Percentiles []float64      `json:"percentiles,omitempty"`
	Scores      []int          `json:"scores,omitempty"`
	Fixed       ThresholdTable `json:"fixed,omitempty"`
	Basis       MonetaryBasis  `json:"basis"`
}

// Validate checks the monetary configuration shape.
func (m MonetaryConfig) Validate() error {
	switch m.Method {
	case MonetaryPercentile:
		if len(m.Percentiles) == 0 {
			return fmt.Errorf("monetary config: percentile method without percentiles")
		}
		if len(m.Scores) != len(m.Percentiles)+1 {
			return fmt.Errorf(
				"monetary config: %d scores for %d percentiles, want %d",
				len(m.Scores), len(m.Percentiles), len(m.Percentiles)+1,
			)
		}
		for i, p := range m.Percentiles {
			if p <= 0 || p >= 100 {
				return fmt.Errorf("monetary config: percentile %.1f outside (0, 100)", p)
			}
			if i > 0 && p >= m.Percentiles[i-1] {
				return fmt.Errorf("monetary config: percentiles must be strictly descending")
			}
		}
		for _, s := range m.Scores {
			if s < 1 || s > 5 {
				return fmt.Errorf("monetary config: score %d outside 1..5", s)
			}
		}
	case MonetaryFixed:
		if err := m.Fixed.Validate(); err != nil {
			return errors.Wrap(err, "monetary config")
		}
		if m.Fixed.Mode != BandAtLeast {
			return fmt.Errorf("monetary config: fixed table must use at_least mode")
		}
	default:
		return fmt.Errorf("monetary config: unknown method %q", m.Method)
	}
	switch m.Basis {
	case BasisAllRecords, BasisPurchasers:
	default:
		return fmt.Errorf("monetary config: unknown basis %q", m.Basis)
	}
	return nil
}

// Preset bundles the three dimension tables under a business-model name.
type Preset struct {
	Name      string         `json:"name"`
	Recency   ThresholdTable `json:"recency"`
	Frequency ThresholdTable `json:"frequency"`
	Monetary  MonetaryConfig `json:"monetary"`
}

// Validate checks every table of the preset.
func (p Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset: empty name")
	}
	if err := p.Recency.Validate(); err != nil {
		return errors.Wrapf(err, "preset %s: recency", p.Name)
	}
	if p.Recency.Mode != BandAtMost {
		return fmt.Errorf("preset %s: recency table must use at_most mode", p.Name)
	}
	if err := p.Frequency.Validate(); err != nil {
		return errors.Wrapf(err, "preset %s: frequency", p.Name)
	}
	if p.Frequency.Mode != BandAtLeast {
		return fmt.Errorf("preset %s: frequency table must use at_least mode", p.Name)
	}
	if err := p.Monetary.Validate(); err != nil {
		return errors.Wrapf(err, "preset %s", p.Name)
	}
	return nil
}

const (
	PresetDefault       = "default"
	PresetB2BService    = "b2b_service"
	PresetSaaS          = "saas"
	PresetManufacturing = "manufacturing"
)

func defaultMonetary() MonetaryConfig {
	return MonetaryConfig{
		Method:      MonetaryPercentile,
		Percentiles: []float64{80, 60, 40, 20},
		Scores:      []int{5, 4, 3, 2, 1},
		Basis:       BasisAllRecords,
	}
}

// Presets returns the built-in preset catalogue keyed by name. Recency
// boundaries are days since last purchase, frequency boundaries are
// transaction counts over the analysis period.
func Presets() map[string]Preset {
	return map[string]Preset{
		PresetDefault: {
			Name: PresetDefault,
			Recency: ThresholdTable{
				Mode:       BandAtMost,
				Boundaries: []float64{30, 90, 180, 365},
				Scores:     []int{5, 4, 3, 2, 1},
			},
			Frequency: ThresholdTable{
				Mode:       BandAtLeast,
				Boundaries: []float64{10, 5, 3, 2},
				Scores:     []int{5, 4, 3, 2, 1},
			},
			Monetary: defaultMonetary(),
		},
		PresetB2BService: {
			Name: PresetB2BService,
			Recency: ThresholdTable{
				Mode:       BandAtMost,
				Boundaries: []float64{60, 180, 365, 730},
				Scores:     []int{5, 4, 3, 2, 1},
			},
			Frequency: ThresholdTable{
				Mode:       BandAtLeast,
				Boundaries: []float64{5, 3, 2, 1},
				Scores:     []int{5, 4, 3, 2, 1},
			},
			Monetary: defaultMonetary(),
		},
		PresetSaaS: {
			Name: PresetSaaS,
			Recency: ThresholdTable{
				Mode:       BandAtMost,
				Boundaries: []float64{30, 60, 90, 180},
				Scores:     []int{5, 4, 3, 2, 1},
			},
			Frequency: ThresholdTable{
				Mode:       BandAtLeast,
				Boundaries: []float64{5, 3, 2, 1},
				Scores:     []int{5, 4, 3, 2, 1},
			},
			Monetary: defaultMonetary(),
		},
		PresetManufacturing: {
			Name: PresetManufacturing,
			Recency: ThresholdTable{
				Mode:       BandAtMost,
				Boundaries: []float64{90, 365, 730, 1095},
				Scores:     []int{5, 4, 3, 2, 1},
			},
			Frequency: ThresholdTable{
				Mode:       BandAtLeast,
				Boundaries: []float64{8, 4, 2, 1},
				Scores:     []int{5, 4, 3, 2, 1},
			},
			Monetary: defaultMonetary(),
		},
	}
}

// PresetByName resolves a preset name, defaulting to the generic preset when
// the name is empty. Unknown names are a configuration-shape error.
func PresetByName(name string) (Preset, error) {
	if name == "" {
		name = PresetDefault
	}
	p, ok := Presets()[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown RFM preset %q", name)
	}
	return p, nil
}

// TableOverride replaces boundaries and/or scores of one dimension table.
// Nil slices keep the base values.
type TableOverride struct {
	Boundaries []float64 `json:"boundaries,omitempty" yaml:"boundaries"`
	Scores     []int     `json:"scores,omitempty" yaml:"scores"`
}

// MonetaryOverride replaces parts of the monetary configuration.
type MonetaryOverride struct {
	Method      string    `json:"method,omitempty" yaml:"method"`
	Percentiles []float64 `json:"percentiles,omitempty" yaml:"percentiles"`
	Scores      []int     `json:"scores,omitempty" yaml:"scores"`
	Boundaries  []float64 `json:"boundaries,omitempty" yaml:"boundaries"`
	Basis       string    `json:"basis,omitempty" yaml:"basis"`
}

// PresetOverride is a partial preset. Absent fields keep the base preset's
// values, so merging is a field-wise overlay rather than a sequential patch:
// applying the same override twice, or merging field by field in any order,
// yields the same preset.
type PresetOverride struct {
	Recency   *TableOverride    `json:"recency,omitempty" yaml:"recency"`
	Frequency *TableOverride    `json:"frequency,omitempty" yaml:"frequency"`
	Monetary  *MonetaryOverride `json:"monetary,omitempty" yaml:"monetary"`
}

// Merge overlays an override onto a base preset and validates the result.
// A nil override returns the base unchanged.
func Merge(base Preset, override *PresetOverride) (Preset, error) {
	merged := base
	if override == nil {
		return merged, nil
	}
	merged.Recency = mergeTable(base.Recency, override.Recency)
	merged.Frequency = mergeTable(base.Frequency, override.Frequency)
	merged.Monetary = mergeMonetary(base.Monetary, override.Monetary)
	if err := merged.Validate(); err != nil {
		return Preset{}, errors.Wrap(err, "merging threshold override")
	}
	return merged, nil
}

func mergeTable(base ThresholdTable, o *TableOverride) ThresholdTable {
	if o == nil {
		return base
	}
	out := base
	if o.Boundaries != nil {
		out.Boundaries = o.Boundaries
	}
	if o.Scores != nil {
		out.Scores = o.Scores
	}
	return out
}

func mergeMonetary(base MonetaryConfig, o *MonetaryOverride) MonetaryConfig {
	if o == nil {
		return base
	}
	out := base
	if o.Method != "" {
		out.Method = MonetaryMethod(o.Method)
	}
	if o.Percentiles != nil {
		out.Percentiles = o.Percentiles
	}
	if o.Scores != nil {
		if out.Method == MonetaryFixed {
			out.Fixed.Scores = o.Scores
		} else {
			out.Scores = o.Scores
		}
	}
	if o.Boundaries != nil {
		out.Fixed = ThresholdTable{
			Mode:       BandAtLeast,
			Boundaries: o.Boundaries,
			Scores:     out.Fixed.Scores,
		}
		if out.Fixed.Scores == nil {
			out.Fixed.Scores = []int{5, 4, 3, 2, 1}
		}
	}
	if o.Basis != "" {
		out.Basis = MonetaryBasis(o.Basis)
	}
	return out
}
