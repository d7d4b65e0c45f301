package texture

import (
	"errors"
	"fmt"

	"github.com/DestrierStudios/Rayfall/internal/noise"
	"github.com/DestrierStudios/Rayfall/internal/ramp"
)

// ErrInvalidParameter marks a generation-parameter contract violation.
// Violations are detected before any pixel work starts and wrap this
// sentinel, so callers can test with errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")

// Params describe one synthesis run. A value is immutable once handed
// to the synthesizer; results never alias it.
type Params struct {
	// Width and Height are the output dimensions in pixels.
	Width  int
	Height int

	// Seed selects the sampled noise window. Zero means "draw a fresh
	// seed for this run"; the drawn value is reported in Result.Seed so
	// the run can be reproduced.
	Seed int64

	// NoiseScale is the inverse zoom factor. Larger values sample a
	// smaller noise window, producing broader features.
	NoiseScale float64

	// Octaves is the number of fBm layers, minimum 1.
	Octaves int

	// Persistence is the per-octave amplitude decay, in [0,1].
	Persistence float64

	// Lacunarity is the per-octave frequency growth, typically >1.
	Lacunarity float64

	// Ramp maps the normalized field to colors.
	Ramp ramp.Ramp

	// Algorithm selects the noise backend. Empty means Perlin.
	Algorithm noise.Algorithm

	// Workers caps the row-rendering goroutines. Zero or negative
	// means one per CPU.
	Workers int
}

// DefaultParams returns a 512x512 four-octave terrain configuration.
func DefaultParams() Params {
	terrain, _ := ramp.Preset("terrain")
	return Params{
		Width:       512,
		Height:      512,
		NoiseScale:  120,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
		Ramp:        terrain,
		Algorithm:   noise.Perlin,
	}
}

// Validate checks the parameter contract and reports the first failing
// field. All violations wrap ErrInvalidParameter.
func (p Params) Validate() error {
	if p.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidParameter, p.Width)
	}
	if p.Height <= 0 {
		return fmt.Errorf("%w: height must be positive, got %d", ErrInvalidParameter, p.Height)
	}
	if p.NoiseScale <= 0 {
		return fmt.Errorf("%w: noise scale must be positive, got %g", ErrInvalidParameter, p.NoiseScale)
	}
	if p.Octaves < 1 {
		return fmt.Errorf("%w: octaves must be at least 1, got %d", ErrInvalidParameter, p.Octaves)
	}
	if p.Persistence < 0 || p.Persistence > 1 {
		return fmt.Errorf("%w: persistence must be in [0,1], got %g", ErrInvalidParameter, p.Persistence)
	}
	if p.Ramp.Empty() {
		return fmt.Errorf("%w: color ramp must have at least one stop", ErrInvalidParameter)
	}
	if _, err := noise.ParseAlgorithm(string(p.Algorithm)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return nil
}
