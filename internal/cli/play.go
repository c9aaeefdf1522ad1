package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeviz"
	"github.com/SeamusWaldron/cubeviz/internal/recorder"
	"github.com/SeamusWaldron/cubeviz/internal/render"
	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

var playRecord bool

var playCmd = &cobra.Command{
	Use:   "play <notation>",
	Short: "Apply a move sequence and show the result",
	Long: `Apply a whitespace-separated move sequence to a solved cube and print
the resulting net and a rendered frame.

Examples:
  cubeviz play "R U R' U'"
  cubeviz play R U R2 F B --record`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolVar(&playRecord, "record", false, "Record the moves as a session")
}

func runPlay(cmd *cobra.Command, args []string) error {
	notation := strings.Join(args, " ")
	moves, err := cubeviz.ParseMoves(notation)
	if err != nil {
		return err
	}
	if len(moves) == 0 {
		return fmt.Errorf("no moves given")
	}

	engine := cubeviz.New()

	var rec *recorder.Recorder
	if playRecord {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		rec = recorder.New(db)
		if _, err := rec.Start("", storage.SourcePlay, "", ""); err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
	}

	var recordErr error
	if rec != nil {
		engine.OnMoveComplete(func(m cubeviz.Move) {
			if err := rec.Record(m); err != nil && recordErr == nil {
				recordErr = err
			}
		})
	}

	if err := engine.ApplyMoves(moves...); err != nil {
		return err
	}
	if recordErr != nil {
		return fmt.Errorf("failed to record moves: %w", recordErr)
	}

	fmt.Println(engine.Grid().String())
	fmt.Println(render.Render(engine.Grid(), render.DefaultCamera(), 60, 18))

	fmt.Printf("Applied %d moves: %s\n", len(moves), cubeviz.FormatMoves(moves))
	if engine.IsSolved() {
		fmt.Println("Cube is solved.")
	} else {
		prog := engine.Progress()
		fmt.Printf("Faces solved: %d/6\n", prog.SolvedFaces)
	}

	if rec != nil {
		if err := rec.End(engine.IsSolved()); err != nil {
			return fmt.Errorf("failed to end session: %w", err)
		}
		fmt.Printf("Session saved: %s\n", rec.SessionID())
	}

	return nil
}
