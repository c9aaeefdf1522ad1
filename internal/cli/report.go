package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeviz/internal/report"
	"github.com/SeamusWaldron/cubeviz/internal/stats"
	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

var (
	reportOutput string
	reportLast   bool
)

var reportCmd = &cobra.Command{
	Use:   "report [session-id]",
	Short: "Generate an HTML report for a session",
	Long: `Generate a standalone HTML report with interactive charts for a
recorded session: gap timing, face usage, and the move timeline.

Examples:
  cubeviz report --last
  cubeviz report <session-id> -o report.html`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file (default: session_<id>.html)")
	reportCmd.Flags().BoolVar(&reportLast, "last", false, "Report on the most recent session")
}

func runReport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessionRepo := storage.NewSessionRepository(db)
	moveRepo := storage.NewMoveRepository(db)

	session, err := resolveSession(sessionRepo, args, reportLast)
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

	output := reportOutput
	if output == "" {
		output = fmt.Sprintf("session_%s.html", shortSessionID(session.SessionID))
	}

	dir := filepath.Dir(output)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data := report.Data{
		Session: session,
		Records: records,
		Summary: stats.Summarize(records),
	}

	if err := report.WriteFile(output, data); err != nil {
		return err
	}

	fmt.Printf("Report written to %s\n", output)
	return nil
}

// shortSessionID truncates a UUID for filenames and display.
func shortSessionID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
