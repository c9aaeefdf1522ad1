package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

var (
	sessionsLimit int
	sessionsLast  bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage recorded sessions",
	Long:  `Commands for listing, inspecting, and deleting recorded sessions.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	Long:  `Display a list of recent sessions with basic statistics.`,
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show details of a session",
	Long: `Display detailed information about a specific session including
metadata, the scramble, and the full move sequence.

Use --last to show the most recent session.`,
	RunE: runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Long:  `Delete a session and all of its recorded moves.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsListCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "Maximum number of sessions to display")

	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsShowCmd.Flags().BoolVar(&sessionsLast, "last", false, "Show the most recent session")

	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessionRepo := storage.NewSessionRepository(db)
	sessions, err := sessionRepo.List(sessionsLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet")
		fmt.Println("Record one with: cubeviz view --record")
		return nil
	}

	fmt.Printf("Recent sessions (showing %d):\n", len(sessions))
	fmt.Println()
	fmt.Printf("%-36s  %-20s  %-10s  %-6s  %-6s  %s\n", "ID", "Started", "Duration", "Moves", "TPS", "Source")
	fmt.Println("------------------------------------  --------------------  ----------  ------  ------  ------")

	for _, s := range sessions {
		duration := "-"
		moves := "-"
		tps := "-"

		if s.DurationMs != nil {
			d := time.Duration(*s.DurationMs) * time.Millisecond
			duration = formatDuration(d)
		}

		moveCount, _ := sessionRepo.MoveCount(s.SessionID)
		if moveCount > 0 {
			moves = fmt.Sprintf("%d", moveCount)
			if s.DurationMs != nil && *s.DurationMs > 0 {
				tps = fmt.Sprintf("%.2f", float64(moveCount)/(float64(*s.DurationMs)/1000.0))
			}
		}

		status := ""
		if s.EndedAt == nil {
			status = " (active)"
		} else if s.Solved {
			status = " (solved)"
		}

		fmt.Printf("%-36s  %-20s  %-10s  %-6s  %-6s  %s%s\n",
			s.SessionID,
			s.StartedAt.Format("2006-01-02 15:04:05"),
			duration,
			moves,
			tps,
			s.Source,
			status,
		)
	}

	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessionRepo := storage.NewSessionRepository(db)
	moveRepo := storage.NewMoveRepository(db)

	session, err := resolveSession(sessionRepo, args, sessionsLast)
	if err != nil {
		return err
	}

	records, err := moveRepo.GetBySession(session.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}

	fmt.Println("Session Details")
	fmt.Println("===============")
	fmt.Println()

	fmt.Printf("ID:      %s\n", session.SessionID)
	fmt.Printf("Started: %s\n", session.StartedAt.Format("2006-01-02 15:04:05"))
	if session.EndedAt != nil {
		fmt.Printf("Ended:   %s\n", session.EndedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Source:  %s\n", session.Source)
	if session.DeviceName != nil && *session.DeviceName != "" {
		fmt.Printf("Device:  %s\n", *session.DeviceName)
	}
	if session.Scramble != nil && *session.Scramble != "" {
		fmt.Printf("Scramble: %s\n", *session.Scramble)
	}
	if session.Notes != nil && *session.Notes != "" {
		fmt.Printf("Notes:   %s\n", *session.Notes)
	}
	fmt.Println()

	fmt.Println("Statistics")
	fmt.Println("----------")
	if session.DurationMs != nil && *session.DurationMs > 0 {
		d := time.Duration(*session.DurationMs) * time.Millisecond
		fmt.Printf("Duration: %s\n", formatDuration(d))
		if len(records) > 0 {
			tps := float64(len(records)) / (float64(*session.DurationMs) / 1000.0)
			fmt.Printf("TPS:      %.2f\n", tps)
		}
	}
	fmt.Printf("Moves:    %d\n", len(records))
	fmt.Printf("Solved:   %v\n", session.Solved)
	fmt.Println()

	if len(records) > 0 {
		fmt.Println("Moves")
		fmt.Println("-----")

		var line string
		for i, m := range records {
			if len(line)+len(m.Notation)+1 > 60 {
				fmt.Println(line)
				line = m.Notation
			} else if line == "" {
				line = m.Notation
			} else {
				line += " " + m.Notation
			}

			if i == len(records)-1 && line != "" {
				fmt.Println(line)
			}
		}
	}

	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessionRepo := storage.NewSessionRepository(db)

	session, err := sessionRepo.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return fmt.Errorf("session not found: %s", args[0])
	}

	if err := sessionRepo.Delete(session.SessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	fmt.Printf("Deleted session: %s\n", session.SessionID)
	return nil
}
