package noise

import opensimplex "github.com/ojrac/opensimplex-go"

type simplexField struct {
	n opensimplex.Noise
}

func newSimplexField(seed int64) *simplexField {
	return &simplexField{n: opensimplex.NewNormalized(seed)}
}

func (f *simplexField) Sample(x, y float64) float64 {
	return clamp01(f.n.Eval2(x, y))
}
