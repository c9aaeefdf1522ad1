// Package cli implements the command-line interface for cubeviz.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	dbPath  string
	verbose bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubeviz",
	Short: "Animated Rubik's cube viewer",
	Long: `cubeviz - an animated terminal Rubik's cube viewer and session recorder.

Turn the cube interactively, play back notation, scramble it, mirror a
physical GoCube over Bluetooth, and record every session into SQLite
for replay, statistics and HTML reports.`,
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.cubeviz/cubeviz.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func openDB() (*storage.DB, error) {
	var db *storage.DB
	var err error

	if dbPath == "" {
		db, err = storage.OpenDefault()
	} else {
		db, err = storage.Open(dbPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}
