package noise

import "github.com/aquilax/go-perlin"

const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 3
)

type perlinField struct {
	p *perlin.Perlin
}

func newPerlinField(seed int64) *perlinField {
	return &perlinField{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed)}
}

// Sample remaps Noise2D output from [-1,1] to [0,1]. The library can
// drift marginally outside [-1,1] at extreme coordinates, so the result
// is clamped.
func (f *perlinField) Sample(x, y float64) float64 {
	return clamp01((f.p.Noise2D(x, y) + 1) / 2)
}
