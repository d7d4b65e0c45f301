// Package fractal layers octaves of coherent noise into fractal
// Brownian motion with amplitude-sum normalization.
package fractal

import (
	"fmt"

	"github.com/DestrierStudios/Rayfall/internal/noise"
)

// Options configure an Accumulator. Scale is the inverse zoom factor
// applied to input coordinates; OffsetX/OffsetY translate the sampled
// noise window.
type Options struct {
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Scale       float64
	OffsetX     float64
	OffsetY     float64
}

func (o Options) validate() error {
	if o.Octaves < 1 {
		return fmt.Errorf("octaves must be at least 1, got %d", o.Octaves)
	}
	if o.Persistence < 0 || o.Persistence > 1 {
		return fmt.Errorf("persistence must be in [0,1], got %g", o.Persistence)
	}
	if o.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %g", o.Scale)
	}
	return nil
}

// Accumulator sums octaves of a noise field at rising frequency and
// falling amplitude. Safe for concurrent use when the underlying field is.
type Accumulator struct {
	field noise.Field
	opts  Options
}

// New validates opts and builds an accumulator over field.
func New(field noise.Field, opts Options) (*Accumulator, error) {
	if field == nil {
		return nil, fmt.Errorf("noise field must not be nil")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Accumulator{field: field, opts: opts}, nil
}

// Accumulate evaluates the layered noise at (x,y). Dividing by the
// running amplitude sum keeps the result in [0,1] for every octave
// count and persistence value, so brightness does not drift when those
// parameters change.
func (a *Accumulator) Accumulate(x, y float64) float64 {
	frequency := 1.0
	amplitude := 1.0
	noiseValue := 0.0
	maxAmplitude := 0.0

	for i := 0; i < a.opts.Octaves; i++ {
		sx := x/a.opts.Scale*frequency + a.opts.OffsetX
		sy := y/a.opts.Scale*frequency + a.opts.OffsetY
		noiseValue += a.field.Sample(sx, sy) * amplitude
		maxAmplitude += amplitude

		amplitude *= a.opts.Persistence
		frequency *= a.opts.Lacunarity
	}

	if maxAmplitude <= 0 {
		return 0
	}
	return noiseValue / maxAmplitude
}
