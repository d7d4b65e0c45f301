// Package atlas provides a SQLite-backed catalog of rendered textures
// together with the generation parameters that produced them, so any
// stored texture can be inspected or regenerated later.
package atlas

import "time"

// Metadata contains atlas-level metadata fields.
type Metadata struct {
	Name        string // Human-readable atlas identifier
	Description string // Human-readable description
	Version     string // Version string
}

// ToMap converts Metadata to a map for database insertion.
func (m Metadata) ToMap() map[string]string {
	result := make(map[string]string)

	if m.Name != "" {
		result["name"] = m.Name
	}
	if m.Description != "" {
		result["description"] = m.Description
	}
	if m.Version != "" {
		result["version"] = m.Version
	}

	return result
}

// Entry is one stored texture: the encoded PNG plus every parameter
// needed to regenerate it. Name is unique within an atlas; storing an
// entry under an existing name replaces it.
type Entry struct {
	ID          int64
	Name        string
	Seed        int64
	Width       int
	Height      int
	Scale       float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Algorithm   string
	Ramp        string // preset name or inline stop list
	PNG         []byte
	CreatedAt   time.Time
}
