package dice

import "fmt"

// Difficulty is a named check tier carrying a fixed modifier.
type Difficulty int

const (
	Simple Difficulty = iota
	Easy
	Routine
	Average
	Difficult
	VeryDifficult
	Formidable
)

// Modifier returns the tier's roll modifier.
func (d Difficulty) Modifier() int {
	switch d {
	case Simple:
		return 6
	case Easy:
		return 4
	case Routine:
		return 2
	case Average:
		return 0
	case Difficult:
		return -2
	case VeryDifficult:
		return -4
	case Formidable:
		return -6
	default:
		return 0
	}
}

func (d Difficulty) String() string {
	switch d {
	case Simple:
		return "simple"
	case Easy:
		return "easy"
	case Routine:
		return "routine"
	case Average:
		return "average"
	case Difficult:
		return "difficult"
	case VeryDifficult:
		return "very-difficult"
	case Formidable:
		return "formidable"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// ParseDifficulty maps a tier name to its Difficulty. An empty string
// means Average.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "simple":
		return Simple, nil
	case "easy":
		return Easy, nil
	case "routine":
		return Routine, nil
	case "", "average":
		return Average, nil
	case "difficult":
		return Difficult, nil
	case "very-difficult":
		return VeryDifficult, nil
	case "formidable":
		return Formidable, nil
	default:
		return Average, fmt.Errorf("unknown difficulty %q", s)
	}
}

// Circumstance tilts a check by one point either way.
type Circumstance int

const (
	Disadvantage Circumstance = iota - 1
	Neutral
	Advantage
)

// Modifier returns the circumstance's roll modifier.
func (c Circumstance) Modifier() int {
	return int(c)
}

func (c Circumstance) String() string {
	switch c {
	case Disadvantage:
		return "disadvantage"
	case Neutral:
		return "neutral"
	case Advantage:
		return "advantage"
	default:
		return fmt.Sprintf("Circumstance(%d)", int(c))
	}
}

// ParseCircumstance maps a circumstance name. An empty string means
// Neutral.
func ParseCircumstance(s string) (Circumstance, error) {
	switch s {
	case "disadvantage":
		return Disadvantage, nil
	case "", "neutral":
		return Neutral, nil
	case "advantage":
		return Advantage, nil
	default:
		return Neutral, fmt.Errorf("unknown circumstance %q", s)
	}
}
