package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeviz"
	"github.com/SeamusWaldron/cubeviz/internal/recorder"
	"github.com/SeamusWaldron/cubeviz/internal/storage"
	"github.com/SeamusWaldron/cubeviz/internal/tui"
)

var (
	viewScramble string
	viewRecord   bool
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Interactive animated cube viewer",
	Long: `Start the interactive viewer.

Keyboard shortcuts:
  u/d/l/r/f/b - Turn a face clockwise (hold shift for the prime move)
  arrows      - Orbit the camera
  s           - Scramble
  z           - Reset to solved
  q/Esc       - Quit`,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().StringVar(&viewScramble, "scramble", "", "Apply a scramble before starting (notation, e.g. \"R U R' U'\")")
	viewCmd.Flags().BoolVar(&viewRecord, "record", false, "Record the session to the database")
}

func runView(cmd *cobra.Command, args []string) error {
	engine := cubeviz.New()
	if viewScramble != "" {
		if err := engine.ApplyNotation(viewScramble); err != nil {
			return fmt.Errorf("failed to apply scramble: %w", err)
		}
		engine.ClearMoveHistory()
	}

	var rec *recorder.Recorder
	if viewRecord {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		rec = recorder.New(db)
		sessionID, err := rec.Start(viewScramble, storage.SourceManual, "", "")
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
		if verbose {
			fmt.Printf("Recording session: %s\n", sessionID)
		}
	}

	model := tui.New(engine, rec)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
