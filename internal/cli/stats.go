package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeviz/internal/stats"
	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

var statsLast bool

var statsCmd = &cobra.Command{
	Use:   "stats [session-id]",
	Short: "Show timing statistics for a session",
	Long: `Compute and display timing statistics for a recorded session:
move count, turns per second, inter-move gap distribution, and
per-face usage.

Use --last to analyse the most recent session.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsLast, "last", false, "Analyse the most recent session")
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessionRepo := storage.NewSessionRepository(db)
	moveRepo := storage.NewMoveRepository(db)

	session, err := resolveSession(sessionRepo, args, statsLast)
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

	summary := stats.Summarize(records)

	fmt.Println("Session Statistics")
	fmt.Println("==================")
	fmt.Println()
	fmt.Printf("Session:  %s\n", session.SessionID)
	fmt.Printf("Started:  %s\n", session.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Source:   %s\n", session.Source)
	fmt.Println()

	fmt.Println("Timing")
	fmt.Println("------")
	fmt.Printf("Duration:    %s\n", formatDuration(time.Duration(summary.DurationMs)*time.Millisecond))
	fmt.Printf("Moves:       %d\n", summary.Moves)
	fmt.Printf("Moves/sec:   %.2f\n", summary.MovesPerSecond)
	fmt.Println()

	if summary.Moves > 1 {
		fmt.Println("Gaps between moves")
		fmt.Println("------------------")
		fmt.Printf("Mean:        %.0fms\n", summary.MeanGapMs)
		fmt.Printf("Std dev:     %.0fms\n", summary.StdDevGapMs)
		fmt.Printf("Median:      %.0fms\n", summary.MedianGapMs)
		fmt.Printf("95th pct:    %.0fms\n", summary.P95GapMs)
		fmt.Printf("Longest:     %s\n", formatDuration(time.Duration(summary.LongestGapMs)*time.Millisecond))
		fmt.Println()
	}

	fmt.Println("Faces")
	fmt.Println("-----")
	for _, face := range []string{"U", "D", "F", "B", "R", "L"} {
		if count, ok := summary.FaceCounts[face]; ok {
			fmt.Printf("%s: %d\n", face, count)
		}
	}
	if summary.BusiestFace != "" {
		fmt.Printf("Busiest:     %s\n", summary.BusiestFace)
	}
	if summary.LongestRun > 1 {
		fmt.Printf("Longest run: %d consecutive %s turns\n", summary.LongestRun, summary.LongestRunFace)
	}

	return nil
}
