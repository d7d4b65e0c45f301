package cmd

import (
	"fmt"

	"github.com/DestrierStudios/Rayfall/internal/dice"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rollCmd = &cobra.Command{
	Use:   "roll",
	Short: "Roll a 2d6 task check",
	Long: `Roll a 2d6 task check: two dice plus a modifier against a target of 8,
graded by the margin between the total and the target.

The modifier is given either directly with --modifier or as a named
difficulty tier with --difficulty, optionally tilted by --circumstance.`,
	RunE: runRoll,
}

func init() {
	rootCmd.AddCommand(rollCmd)

	rollCmd.Flags().IntP("modifier", "m", 0, "Flat roll modifier")
	rollCmd.Flags().StringP("difficulty", "d", "", "Difficulty tier (simple, easy, routine, average, difficult, very-difficult, formidable)")
	rollCmd.Flags().String("circumstance", "", "Circumstance adjustment (advantage, neutral, disadvantage)")
	rollCmd.Flags().Int64("seed", 0, "Random seed (0 uses the current time)")
	rollCmd.Flags().IntP("count", "n", 1, "Number of checks to roll")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"roll.modifier", "modifier"},
		{"roll.difficulty", "difficulty"},
		{"roll.circumstance", "circumstance"},
		{"roll.seed", "seed"},
		{"roll.count", "count"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, rollCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runRoll(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	modifier := viper.GetInt("roll.modifier")
	difficultyName := viper.GetString("roll.difficulty")
	circumstanceName := viper.GetString("roll.circumstance")
	seed := viper.GetInt64("roll.seed")
	count := viper.GetInt("roll.count")

	if count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", count)
	}

	roller := dice.NewRoller(seed)
	roll := func() dice.Check { return roller.RollCheck(modifier) }

	switch {
	case difficultyName != "":
		if modifier != 0 {
			return fmt.Errorf("--modifier and --difficulty are mutually exclusive")
		}

		difficulty, err := dice.ParseDifficulty(difficultyName)
		if err != nil {
			return err
		}
		circumstance, err := dice.ParseCircumstance(circumstanceName)
		if err != nil {
			return err
		}

		logger.Debug("Rolling against difficulty",
			"difficulty", difficulty,
			"circumstance", circumstance,
			"modifier", difficulty.Modifier()+circumstance.Modifier(),
		)
		roll = func() dice.Check { return roller.RollDifficulty(difficulty, circumstance) }

	case circumstanceName != "":
		return fmt.Errorf("--circumstance requires --difficulty")
	}

	for i := 0; i < count; i++ {
		fmt.Println(roll())
	}
	return nil
}
