// Package dice implements a 2d6 task check: roll two dice, add a
// modifier, succeed on a total of 8 or more, and grade the result by
// its signed margin (the effect).
package dice

import (
	"fmt"
	"math/rand"
	"time"
)

// successThreshold is the total a check must reach to succeed.
const successThreshold = 8

// Outcome grades a check by its effect.
type Outcome int

const (
	ExceptionalFailure Outcome = iota
	Failure
	Success
	ExceptionalSuccess
)

func (o Outcome) String() string {
	switch o {
	case ExceptionalFailure:
		return "exceptional failure"
	case Failure:
		return "failure"
	case Success:
		return "success"
	case ExceptionalSuccess:
		return "exceptional success"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Check is the full breakdown of one 2d6 roll.
type Check struct {
	Die1      int
	Die2      int
	Modifier  int
	Total     int
	Succeeded bool
	Effect    int
	Outcome   Outcome
}

func (c Check) String() string {
	return fmt.Sprintf("%d+%d%+d = %d (effect %+d, %s)",
		c.Die1, c.Die2, c.Modifier, c.Total, c.Effect, c.Outcome)
}

// Evaluate grades an already-rolled die pair plus modifier. Split out
// from rolling so fixed rolls can be graded deterministically.
func Evaluate(die1, die2, modifier int) Check {
	total := die1 + die2 + modifier
	effect := total - successThreshold

	c := Check{
		Die1:      die1,
		Die2:      die2,
		Modifier:  modifier,
		Total:     total,
		Succeeded: total >= successThreshold,
		Effect:    effect,
	}
	switch {
	case effect >= 6:
		c.Outcome = ExceptionalSuccess
	case effect >= 0:
		c.Outcome = Success
	case effect >= -5:
		c.Outcome = Failure
	default:
		c.Outcome = ExceptionalFailure
	}
	return c
}

// Roller produces checks from a seeded random source. Not safe for
// concurrent use; give each goroutine its own roller.
type Roller struct {
	rng *rand.Rand
}

// NewRoller seeds a roller. A zero seed uses the current time.
func NewRoller(seed int64) *Roller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// RollCheck rolls 2d6, applies the modifier, and grades the result.
func (r *Roller) RollCheck(modifier int) Check {
	die1 := r.rng.Intn(6) + 1
	die2 := r.rng.Intn(6) + 1
	return Evaluate(die1, die2, modifier)
}

// RollDifficulty sums the tier and circumstance modifiers before
// delegating to RollCheck.
func (r *Roller) RollDifficulty(d Difficulty, c Circumstance) Check {
	return r.RollCheck(d.Modifier() + c.Modifier())
}
