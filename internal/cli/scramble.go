package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeviz"
)

var (
	scrambleLen int
	scrambleNet bool
)

var scrambleCmd = &cobra.Command{
	Use:   "scramble",
	Short: "Generate a random scramble",
	Long: `Generate a random scramble sequence. No two consecutive moves use the
same face and no three consecutive moves share an axis.`,
	RunE: runScramble,
}

func init() {
	rootCmd.AddCommand(scrambleCmd)
	scrambleCmd.Flags().IntVarP(&scrambleLen, "moves", "n", 20, "Number of moves")
	scrambleCmd.Flags().BoolVar(&scrambleNet, "net", false, "Also print the scrambled cube net")
}

func runScramble(cmd *cobra.Command, args []string) error {
	if scrambleLen <= 0 {
		return fmt.Errorf("move count must be positive")
	}

	moves := cubeviz.NewScramble(scrambleLen)
	fmt.Println(cubeviz.FormatMoves(moves))

	if scrambleNet {
		engine := cubeviz.New()
		if err := engine.ApplyMoves(moves...); err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(engine.Grid().String())
	}

	return nil
}
