package ramp

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Parse builds a ramp from a comma-separated stop list of the form
// "pos:#hex", e.g. "0:#0b1d3a,0.5:#4f7d4a,1:#ffffff". Positions must
// lie in [0,1] and be non-decreasing; colors are #rgb or #rrggbb hex.
func Parse(s string) (Ramp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ramp{}, fmt.Errorf("empty ramp definition")
	}

	parts := strings.Split(s, ",")
	stops := make([]Stop, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		pos, hex, ok := strings.Cut(part, ":")
		if !ok {
			return Ramp{}, fmt.Errorf("invalid ramp stop %q, want pos:#hex", part)
		}

		p, err := strconv.ParseFloat(strings.TrimSpace(pos), 64)
		if err != nil {
			return Ramp{}, fmt.Errorf("invalid ramp stop position %q: %w", pos, err)
		}
		if p < 0 || p > 1 {
			return Ramp{}, fmt.Errorf("ramp stop position %g outside [0,1]", p)
		}

		c, err := colorful.Hex(strings.TrimSpace(hex))
		if err != nil {
			return Ramp{}, fmt.Errorf("invalid ramp stop color %q: %w", hex, err)
		}
		cr, cg, cb := c.RGB255()
		stops = append(stops, Stop{Pos: p, Color: color.NRGBA{R: cr, G: cg, B: cb, A: 255}})
	}

	return New(stops...)
}

func mustParse(s string) Ramp {
	r, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("bad built-in ramp %q: %v", s, err))
	}
	return r
}
