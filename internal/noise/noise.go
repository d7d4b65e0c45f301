// Package noise provides seeded 2D coherent-noise fields. A field is
// continuous (small input deltas produce small output deltas) and
// deterministic for a given seed, with samples in [0,1].
package noise

import "fmt"

// Algorithm selects the noise backend.
type Algorithm string

const (
	// Perlin is classic gradient noise, the default backend.
	Perlin Algorithm = "perlin"
	// Simplex is OpenSimplex noise, visually smoother at low frequencies.
	Simplex Algorithm = "simplex"
)

// ParseAlgorithm normalizes a user-supplied algorithm name.
// An empty string selects the default backend.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "", "perlin":
		return Perlin, nil
	case "simplex", "opensimplex":
		return Simplex, nil
	default:
		return "", fmt.Errorf("unknown noise algorithm %q (want perlin or simplex)", s)
	}
}

func (a Algorithm) String() string {
	return string(a)
}

// Field evaluates coherent noise at arbitrary 2D coordinates.
// Sample returns a value in [0,1] and must be safe for concurrent use.
type Field interface {
	Sample(x, y float64) float64
}

// New constructs a seeded field for the given algorithm.
func New(alg Algorithm, seed int64) (Field, error) {
	parsed, err := ParseAlgorithm(string(alg))
	if err != nil {
		return nil, err
	}
	switch parsed {
	case Simplex:
		return newSimplexField(seed), nil
	default:
		return newPerlinField(seed), nil
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
