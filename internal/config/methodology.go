package config

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/artefactventures/artefact-mcp/internal/usecases/qualifying"
	"github.com/artefactventures/artefact-mcp/internal/usecases/rfmscoring"
)

// MethodologyOverrides is the parsed ARTEFACT_METHODOLOGY_FILE. Overrides are
// validated at load time so a malformed file is rejected before any scoring
// runs against it.
type MethodologyOverrides struct {
	RFMPresets map[string]rfmscoring.PresetOverride `yaml:"rfm_presets"`
	ICPScoring *qualifying.ScoringOverride          `yaml:"icp_scoring"`
}

// LoadMethodology reads and validates the override file. An empty path means
// no overrides and returns nil without error.
func LoadMethodology(path string) (*MethodologyOverrides, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: read methodology file %q", path)
	}

	overrides := &MethodologyOverrides{}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(overrides); err != nil {
		return nil, errors.Wrapf(err, "config: parse methodology file %q", path)
	}

	if err := overrides.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config: invalid methodology file %q", path)
	}
	return overrides, nil
}

// Validate merges every override against its base so shape errors (boundary
// lengths, score ranges, bad ranges) surface here rather than mid-analysis.
func (m *MethodologyOverrides) Validate() error {
	for name, override := range m.RFMPresets {
		base := basePreset(name)
		override := override
		if _, err := rfmscoring.Merge(base, &override); err != nil {
			return errors.Wrapf(err, "rfm preset %q", name)
		}
	}
	if m.ICPScoring != nil {
		if _, err := qualifying.Merge(qualifying.DefaultScoringConfig(), m.ICPScoring); err != nil {
			return errors.Wrap(err, "icp scoring")
		}
	}
	return nil
}

// Preset resolves a named preset with any file override applied. Names the
// file does not define must be built-ins; anything else is a configuration
// error, never a silent fallback.
func (m *MethodologyOverrides) Preset(name string) (rfmscoring.Preset, error) {
	if m != nil {
		if override, ok := m.RFMPresets[name]; ok {
			return rfmscoring.Merge(basePreset(name), &override)
		}
	}
	return rfmscoring.PresetByName(name)
}

// ScoringConfig resolves the ICP scoring configuration with any file override
// applied.
func (m *MethodologyOverrides) ScoringConfig() (qualifying.ScoringConfig, error) {
	base := qualifying.DefaultScoringConfig()
	if m == nil || m.ICPScoring == nil {
		return base, nil
	}
	return qualifying.Merge(base, m.ICPScoring)
}

// basePreset picks what a file-defined override merges onto: the matching
// built-in, or the default preset when the file introduces a new name.
func basePreset(name string) rfmscoring.Preset {
	preset, err := rfmscoring.PresetByName(name)
	if err != nil {
		fallback, _ := rfmscoring.PresetByName("")
		fallback.Name = name
		return fallback
	}
	return preset
}
