// Package dynamics provides the smooth price drift applied while the demo
// economy runs. Drift is deterministic from a seed so runs replay exactly.
package dynamics

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// PriceDrift maps (series, step) to a multiplier near 1.0 that wanders
// smoothly over steps. Each series, one per priced good, drifts
// independently of the others.
type PriceDrift struct {
	noise     opensimplex.Noise
	amplitude float64 // max fractional deviation from 1.0
	frequency float64
}

// NewPriceDrift creates a drift source. amplitude is the largest fraction a
// price can deviate by, e.g. 0.2 for ±20%.
func NewPriceDrift(seed int64, amplitude float64) *PriceDrift {
	if amplitude < 0 {
		amplitude = 0
	}
	return &PriceDrift{
		noise:     opensimplex.NewNormalized(seed),
		amplitude: amplitude,
		frequency: 0.05,
	}
}

// Factor returns the multiplier for a series at a step. The same seed,
// series, and step always produce the same factor, bounded to
// [1-amplitude, 1+amplitude].
func (d *PriceDrift) Factor(series int, step uint64) float64 {
	n := octaveNoise(d.noise, float64(step)*d.frequency, float64(series)*17.31, 3, 1, 0.5)
	return 1 + d.amplitude*(2*n-1)
}

// octaveNoise layers multiple noise frequencies into fractal noise in [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
