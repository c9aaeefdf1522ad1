package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

var (
	exportFormat string
	exportOutput string
	exportLast   bool
)

var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export a session's moves",
	Long: `Export the move sequence from a session in text, JSON, or CSV
format.

Examples:
  cubeviz export --last
  cubeviz export <session-id> --format json
  cubeviz export <session-id> --format csv -o moves.csv`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVar(&exportLast, "last", false, "Export the most recent session")
	exportCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, json, csv)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessionRepo := storage.NewSessionRepository(db)
	moveRepo := storage.NewMoveRepository(db)

	session, err := resolveSession(sessionRepo, args, exportLast)
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

	output, err := formatRecords(records, exportFormat)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		fmt.Println(output)
		return nil
	}

	dir := filepath.Dir(exportOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Exported %d moves to %s\n", len(records), exportOutput)
	return nil
}

func formatRecords(records []storage.MoveRecord, format string) (string, error) {
	switch strings.ToLower(format) {
	case "txt":
		notations := make([]string, len(records))
		for i, r := range records {
			notations[i] = r.Notation
		}
		return strings.Join(notations, " "), nil

	case "json":
		type moveJSON struct {
			MoveIndex int    `json:"move_index"`
			OffsetMs  int64  `json:"offset_ms"`
			Face      string `json:"face"`
			Turn      int    `json:"turn"`
			Notation  string `json:"notation"`
		}

		movesJSON := make([]moveJSON, len(records))
		for i, r := range records {
			movesJSON[i] = moveJSON{
				MoveIndex: r.MoveIndex,
				OffsetMs:  r.OffsetMs,
				Face:      r.Face,
				Turn:      r.Turn,
				Notation:  r.Notation,
			}
		}

		data, err := json.MarshalIndent(movesJSON, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil

	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write([]string{"move_index", "offset_ms", "face", "turn", "notation"}); err != nil {
			return "", fmt.Errorf("failed to write CSV: %w", err)
		}
		for _, r := range records {
			row := []string{
				strconv.Itoa(r.MoveIndex),
				strconv.FormatInt(r.OffsetMs, 10),
				r.Face,
				strconv.Itoa(r.Turn),
				r.Notation,
			}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("failed to write CSV: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", fmt.Errorf("failed to write CSV: %w", err)
		}
		return strings.TrimRight(buf.String(), "\n"), nil

	default:
		return "", fmt.Errorf("unknown format: %s (use txt, json, or csv)", format)
	}
}
