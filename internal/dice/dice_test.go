package dice

import (
	"strings"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		die1, die2    int
		modifier      int
		wantTotal     int
		wantSucceeded bool
		wantEffect    int
		wantOutcome   Outcome
	}{
		{
			name: "bare success threshold",
			die1: 4, die2: 4, modifier: 0,
			wantTotal: 8, wantSucceeded: true, wantEffect: 0, wantOutcome: Success,
		},
		{
			name: "one short of success",
			die1: 4, die2: 3, modifier: 0,
			wantTotal: 7, wantSucceeded: false, wantEffect: -1, wantOutcome: Failure,
		},
		{
			name: "snake eyes",
			die1: 1, die2: 1, modifier: 0,
			wantTotal: 2, wantSucceeded: false, wantEffect: -6, wantOutcome: ExceptionalFailure,
		},
		{
			name: "boxcars with bonus",
			die1: 6, die2: 6, modifier: 2,
			wantTotal: 14, wantSucceeded: true, wantEffect: 6, wantOutcome: ExceptionalSuccess,
		},
		{
			name: "top of plain success band",
			die1: 6, die2: 6, modifier: 1,
			wantTotal: 13, wantSucceeded: true, wantEffect: 5, wantOutcome: Success,
		},
		{
			name: "bottom of plain failure band",
			die1: 1, die2: 1, modifier: 1,
			wantTotal: 3, wantSucceeded: false, wantEffect: -5, wantOutcome: Failure,
		},
		{
			name: "deep negative modifier",
			die1: 2, die2: 1, modifier: -6,
			wantTotal: -3, wantSucceeded: false, wantEffect: -11, wantOutcome: ExceptionalFailure,
		},
		{
			name: "large positive modifier",
			die1: 5, die2: 4, modifier: 6,
			wantTotal: 15, wantSucceeded: true, wantEffect: 7, wantOutcome: ExceptionalSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Evaluate(tt.die1, tt.die2, tt.modifier)

			if c.Die1 != tt.die1 || c.Die2 != tt.die2 || c.Modifier != tt.modifier {
				t.Errorf("Evaluate echoed %d,%d,%+d; want %d,%d,%+d",
					c.Die1, c.Die2, c.Modifier, tt.die1, tt.die2, tt.modifier)
			}
			if c.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", c.Total, tt.wantTotal)
			}
			if c.Succeeded != tt.wantSucceeded {
				t.Errorf("Succeeded = %v, want %v", c.Succeeded, tt.wantSucceeded)
			}
			if c.Effect != tt.wantEffect {
				t.Errorf("Effect = %d, want %d", c.Effect, tt.wantEffect)
			}
			if c.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %v, want %v", c.Outcome, tt.wantOutcome)
			}
		})
	}
}

func TestRollCheckBounds(t *testing.T) {
	r := NewRoller(42)

	for i := 0; i < 10000; i++ {
		c := r.RollCheck(0)

		if c.Die1 < 1 || c.Die1 > 6 {
			t.Fatalf("roll %d: die1 = %d outside [1,6]", i, c.Die1)
		}
		if c.Die2 < 1 || c.Die2 > 6 {
			t.Fatalf("roll %d: die2 = %d outside [1,6]", i, c.Die2)
		}
		if c.Total < 2 || c.Total > 12 {
			t.Fatalf("roll %d: total = %d outside [2,12]", i, c.Total)
		}
		if c.Succeeded != (c.Total >= 8) {
			t.Fatalf("roll %d: succeeded = %v with total %d", i, c.Succeeded, c.Total)
		}
		if c.Effect != c.Total-8 {
			t.Fatalf("roll %d: effect = %d, want %d", i, c.Effect, c.Total-8)
		}
	}
}

func TestRollCheckEveryFaceAppears(t *testing.T) {
	r := NewRoller(7)

	seen := make(map[int]bool)
	for i := 0; i < 10000; i++ {
		c := r.RollCheck(0)
		seen[c.Die1] = true
		seen[c.Die2] = true
	}

	for face := 1; face <= 6; face++ {
		if !seen[face] {
			t.Errorf("face %d never rolled in 10000 checks", face)
		}
	}
}

func TestSimpleModifierAlwaysSucceeds(t *testing.T) {
	// Minimum roll is 2, so a +6 modifier can never total below 8.
	r := NewRoller(99)

	for i := 0; i < 10000; i++ {
		if c := r.RollCheck(6); !c.Succeeded {
			t.Fatalf("roll %d: %v failed with +6 modifier", i, c)
		}
	}
}

func TestRollerDeterministic(t *testing.T) {
	a := NewRoller(1337)
	b := NewRoller(1337)

	for i := 0; i < 100; i++ {
		ca, cb := a.RollCheck(0), b.RollCheck(0)
		if ca != cb {
			t.Fatalf("roll %d: same seed diverged: %v vs %v", i, ca, cb)
		}
	}
}

func TestRollDifficultyMatchesModifierForm(t *testing.T) {
	tests := []struct {
		difficulty   Difficulty
		circumstance Circumstance
		wantModifier int
	}{
		{Simple, Neutral, 6},
		{Easy, Advantage, 5},
		{Routine, Disadvantage, 1},
		{Average, Neutral, 0},
		{Difficult, Advantage, -1},
		{VeryDifficult, Neutral, -4},
		{Formidable, Disadvantage, -7},
	}

	for _, tt := range tests {
		t.Run(tt.difficulty.String()+"/"+tt.circumstance.String(), func(t *testing.T) {
			// Same seed, so both rollers produce the same die faces and
			// the tiered form must reduce to the plain-modifier form.
			got := NewRoller(42).RollDifficulty(tt.difficulty, tt.circumstance)
			want := NewRoller(42).RollCheck(tt.wantModifier)
			if got != want {
				t.Errorf("RollDifficulty = %v, want %v", got, want)
			}
		})
	}
}

func TestDifficultyModifiers(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		want       int
	}{
		{Simple, 6},
		{Easy, 4},
		{Routine, 2},
		{Average, 0},
		{Difficult, -2},
		{VeryDifficult, -4},
		{Formidable, -6},
	}

	for _, tt := range tests {
		if got := tt.difficulty.Modifier(); got != tt.want {
			t.Errorf("%s modifier = %d, want %d", tt.difficulty, got, tt.want)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input   string
		want    Difficulty
		wantErr bool
	}{
		{input: "simple", want: Simple},
		{input: "easy", want: Easy},
		{input: "routine", want: Routine},
		{input: "average", want: Average},
		{input: "", want: Average},
		{input: "difficult", want: Difficult},
		{input: "very-difficult", want: VeryDifficult},
		{input: "formidable", want: Formidable},
		{input: "impossible", wantErr: true},
		{input: "Simple", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDifficulty(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDifficulty(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseDifficulty(%q) unexpected error: %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("ParseDifficulty(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCircumstance(t *testing.T) {
	tests := []struct {
		input   string
		want    Circumstance
		wantErr bool
	}{
		{input: "advantage", want: Advantage},
		{input: "neutral", want: Neutral},
		{input: "", want: Neutral},
		{input: "disadvantage", want: Disadvantage},
		{input: "lucky", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCircumstance(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseCircumstance(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseCircumstance(%q) unexpected error: %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("ParseCircumstance(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCheckString(t *testing.T) {
	c := Evaluate(4, 3, 2)

	s := c.String()
	for _, want := range []string{"4+3+2", "= 9", "effect +1", "success"} {
		if !strings.Contains(s, want) {
			t.Errorf("Check.String() = %q, missing %q", s, want)
		}
	}
}

func TestFreshRollersDiffer(t *testing.T) {
	// Zero seed falls back to the clock; two rollers made this way
	// should not replay each other's sequences.
	a := NewRoller(0)
	b := NewRoller(0)

	same := 0
	for i := 0; i < 50; i++ {
		if a.RollCheck(0) == b.RollCheck(0) {
			same++
		}
	}
	if same == 50 {
		t.Error("two clock-seeded rollers produced identical sequences")
	}
}
