package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeviz/internal/recorder"
	"github.com/SeamusWaldron/cubeviz/internal/tui"
)

var mirrorScanTimeout time.Duration

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Mirror a physical GoCube in the viewer",
	Long: `Connect to a GoCube over Bluetooth and mirror its moves in the
animated viewer. Every physical turn is animated on screen and
recorded to a session, so it can be replayed or analysed later.`,
	RunE: runMirror,
}

func init() {
	rootCmd.AddCommand(mirrorCmd)
	mirrorCmd.Flags().DurationVar(&mirrorScanTimeout, "scan-timeout", 5*time.Second, "Device scan duration")
}

func runMirror(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	// Scan before entering the TUI so failures print normally.
	client, results, err := scanForCube(mirrorScanTimeout)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No GoCube devices found.")
		fmt.Println()
		fmt.Println("To fix this:")
		fmt.Println("  1. Rotate your cube to wake it up")
		fmt.Println("  2. Make sure it's not connected to your phone")
		fmt.Println("  3. Run this command again")
		return nil
	}

	rec := recorder.New(db)

	logger := recorder.NewSessionLogger()
	logDir, err := recorder.DefaultLogDir()
	if err == nil {
		err = logger.Start(logDir)
	}
	if err != nil {
		// Logging is optional.
		fmt.Printf("Warning: could not start logging: %v\n", err)
	}

	model := tui.NewMirror(client, results, stateFile, rec, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
