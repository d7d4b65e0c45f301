package ramp

import "sort"

// Built-in ramps. Positions follow the usual height-map reading: low
// values are water/valley floor, high values are peaks.
var presets = map[string]Ramp{
	"grayscale": mustParse("0:#000000,1:#ffffff"),
	"terrain": mustParse("0:#0b2e59,0.38:#1f6eab,0.46:#c2b280,0.53:#5b8a3c," +
		"0.7:#3d6327,0.82:#6e6a5e,0.92:#b8b6ad,1:#f5f7f7"),
	"ocean":  mustParse("0:#03132b,0.4:#0a3d62,0.7:#1f6eab,0.9:#7fc8e8,1:#e8f7fb"),
	"desert": mustParse("0:#6b3d1f,0.3:#a3652f,0.55:#c98f4e,0.8:#e5c185,1:#f7e7c3"),
	"arctic": mustParse("0:#1c3144,0.35:#3e5c76,0.6:#9fb8c8,0.85:#dce7ee,1:#ffffff"),
	"magma":  mustParse("0:#000004,0.25:#3b0f70,0.5:#8c2981,0.75:#de4968,0.9:#fe9f6d,1:#fcfdbf"),
}

// Preset returns a built-in ramp by name.
func Preset(name string) (Ramp, bool) {
	r, ok := presets[name]
	return r, ok
}

// PresetNames returns the built-in ramp names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromSpec resolves a user-supplied ramp specification: a preset name
// if one matches, otherwise an inline stop list for Parse.
func FromSpec(spec string) (Ramp, error) {
	if r, ok := presets[spec]; ok {
		return r, nil
	}
	return Parse(spec)
}
