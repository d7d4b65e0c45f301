// Package ramp maps normalized scalars to colors through ordered
// (position, color) stops with clamped piecewise-linear interpolation.
package ramp

import (
	"fmt"
	"image/color"
)

// Stop pairs a position in [0,1] with a color.
type Stop struct {
	Pos   float64
	Color color.NRGBA
}

// Ramp is an immutable ordered sequence of color stops.
type Ramp struct {
	stops []Stop
}

// New builds a ramp from stops. At least one stop is required and
// positions must be non-decreasing. Duplicate positions are allowed
// and produce a hard edge.
func New(stops ...Stop) (Ramp, error) {
	if len(stops) == 0 {
		return Ramp{}, fmt.Errorf("color ramp needs at least one stop")
	}
	for i := 1; i < len(stops); i++ {
		if stops[i].Pos < stops[i-1].Pos {
			return Ramp{}, fmt.Errorf("color ramp stops out of order: stop %d at %g after %g",
				i, stops[i].Pos, stops[i-1].Pos)
		}
	}
	cp := make([]Stop, len(stops))
	copy(cp, stops)
	return Ramp{stops: cp}, nil
}

// Empty reports whether the ramp has no stops (the zero value).
func (r Ramp) Empty() bool {
	return len(r.stops) == 0
}

// Stops returns a copy of the stop list.
func (r Ramp) Stops() []Stop {
	cp := make([]Stop, len(r.stops))
	copy(cp, r.stops)
	return cp
}

// At evaluates the ramp at t. The input is clamped to [0,1]; values at
// or beyond the first or last stop return that stop's color unchanged,
// never extrapolated. Between two stops each of R, G, B and A is
// interpolated linearly.
func (r Ramp) At(t float64) color.NRGBA {
	if len(r.stops) == 0 {
		return color.NRGBA{}
	}

	t = clamp01(t)
	if first := r.stops[0]; t <= first.Pos {
		return first.Color
	}
	last := r.stops[len(r.stops)-1]
	if t >= last.Pos {
		return last.Color
	}

	for i := 1; i < len(r.stops); i++ {
		hi := r.stops[i]
		if t > hi.Pos {
			continue
		}
		lo := r.stops[i-1]
		span := hi.Pos - lo.Pos
		if span <= 0 {
			return hi.Color
		}
		return lerpColor(lo.Color, hi.Color, (t-lo.Pos)/span)
	}
	return last.Color
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
		A: lerpChannel(a.A, b.A, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
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
