// Package rfmscoring implements the RFM (Recency, Frequency, Monetary)
// scoring engine: threshold band tables, industry presets and the scorer
// itself. Everything here is pure; the current time is always injected.
package rfmscoring

import (
	"fmt"
	"sort"
)

// BandMode defines how a value is compared against a table boundary.
type BandMode string

const (
	// BandAtMost matches when the value is at or below the boundary. Used for
	// recency, where smaller is better.
	BandAtMost BandMode = "at_most"
	// BandAtLeast matches when the value is at or above the boundary. Used for
	// frequency and monetary, where larger is better.
	BandAtLeast BandMode = "at_least"
)

// ThresholdTable maps a continuous value onto a discrete score band.
//
// Boundaries are walked from the most favorable band to the least, first match
// wins, so a value exactly equal to a boundary always falls into the more
// favorable band. Scores must hold one more entry than Boundaries: the final
// entry is the fallback score for values beyond the last boundary.
type ThresholdTable struct {
	Mode       BandMode  `json:"mode"`
	Boundaries []float64 `json:"boundaries"`
	Scores     []int     `json:"scores"`
}

// Band returns the matched band index and its score.
func (t ThresholdTable) Band(value float64) (int, int) {
	for i, boundary := range t.Boundaries {
		switch t.Mode {
		case BandAtMost:
			if value <= boundary {
				return i, t.Scores[i]
			}
		case BandAtLeast:
			if value >= boundary {
				return i, t.Scores[i]
			}
		}
	}
	last := len(t.Scores) - 1
	return last, t.Scores[last]
}

// WorstScore returns the score of the least favorable band.
func (t ThresholdTable) WorstScore() int {
	return t.Scores[len(t.Scores)-1]
}

// Validate checks the structural invariants of the table. A failure here is a
// configuration-shape error: the table must be rejected before any scoring.
func (t ThresholdTable) Validate() error {
	if t.Mode != BandAtMost && t.Mode != BandAtLeast {
		return fmt.Errorf("threshold table: unknown band mode %q", t.Mode)
	}
	if len(t.Boundaries) == 0 {
		return fmt.Errorf("threshold table: no boundaries")
	}
	if len(t.Scores) != len(t.Boundaries)+1 {
		return fmt.Errorf(
			"threshold table: %d scores for %d boundaries, want %d",
			len(t.Scores), len(t.Boundaries), len(t.Boundaries)+1,
		)
	}
	for i := 1; i < len(t.Boundaries); i++ {
		switch t.Mode {
		case BandAtMost:
			if t.Boundaries[i] <= t.Boundaries[i-1] {
				return fmt.Errorf("threshold table: boundaries must be strictly ascending")
			}
		case BandAtLeast:
			if t.Boundaries[i] >= t.Boundaries[i-1] {
				return fmt.Errorf("threshold table: boundaries must be strictly descending")
			}
		}
	}
	for _, s := range t.Scores {
		if s < 1 || s > 5 {
			return fmt.Errorf("threshold table: score %d outside 1..5", s)
		}
	}
	return nil
}

// Percentile computes the p-th percentile of data using linear interpolation
// between closest ranks. The input slice is not modified.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	k := (p / 100.0) * float64(n-1)
	f := int(k)
	c := f + 1
	if c >= n {
		return sorted[n-1]
	}
	d := k - float64(f)
	return sorted[f] + d*(sorted[c]-sorted[f])
}
