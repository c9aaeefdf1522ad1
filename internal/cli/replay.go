package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeviz"
	"github.com/SeamusWaldron/cubeviz/internal/storage"
	"github.com/SeamusWaldron/cubeviz/internal/tui"
)

var (
	replaySpeed float64
	replayLast  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [session-id]",
	Short: "Replay a recorded session",
	Long: `Play a recorded session back through the animated viewer at its
recorded timing.

Examples:
  cubeviz replay --last
  cubeviz replay <session-id> --speed 2.0`,
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayLast, "last", false, "Replay the most recent session")
}

func runReplay(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessionRepo := storage.NewSessionRepository(db)
	moveRepo := storage.NewMoveRepository(db)

	session, err := resolveSession(sessionRepo, args, replayLast)
	if err != nil {
		return err
	}

	records, err := moveRepo.GetBySession(session.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no moves recorded for session %s", session.SessionID)
	}

	fmt.Printf("Session: %s\n", session.SessionID)
	fmt.Printf("Started: %s\n", session.StartedAt.Format(time.RFC3339))
	fmt.Printf("Moves:   %d\n", len(records))
	fmt.Println()

	engine := cubeviz.New()
	var scramble []cubeviz.Move
	if session.Scramble != nil && *session.Scramble != "" {
		scramble, err = cubeviz.ParseMoves(*session.Scramble)
		if err != nil {
			return fmt.Errorf("failed to parse recorded scramble: %w", err)
		}
	}

	model := tui.NewReplay(engine, session, scramble, records, replaySpeed)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// resolveSession picks a session from a positional id or the --last
// flag.
func resolveSession(repo *storage.SessionRepository, args []string, last bool) (*storage.Session, error) {
	if last {
		session, err := repo.GetLast()
		if err != nil {
			return nil, fmt.Errorf("failed to get last session: %w", err)
		}
		if session == nil {
			return nil, fmt.Errorf("no sessions recorded yet")
		}
		return session, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("please provide a session ID or use --last")
	}

	session, err := repo.Get(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found: %s", args[0])
	}
	return session, nil
}
