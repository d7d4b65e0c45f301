package texture

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarize the value distribution of a height field. All values
// lie in [0,1] for a validly generated field.
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Median float64
	P05    float64
	P95    float64
}

// FieldStats computes distribution statistics over a height field.
func FieldStats(hf *Heightfield) (Stats, error) {
	if hf == nil || len(hf.Values) == 0 {
		return Stats{}, fmt.Errorf("height field is empty")
	}

	sorted := make([]float64, len(hf.Values))
	copy(sorted, hf.Values)
	sort.Float64s(sorted)

	return Stats{
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.StdDev(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P05:    stat.Quantile(0.05, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}, nil
}
