package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeviz/internal/recorder"
	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show storage and device status",
	Long:  `Display the database location, recorded session count, last mirrored device, and any GoCube devices currently in range.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	state := stateFile.State()

	fmt.Println("cubeviz Status")
	fmt.Println("==============")
	fmt.Println()

	path := dbPath
	if path == "" {
		path = state.DBPath
	}
	if path == "" {
		path, _ = storage.DefaultDBPath()
	}
	fmt.Printf("Database: %s\n", path)

	db, err := storage.Open(path)
	if err == nil {
		defer db.Close()
		if err := db.MigrateUp(); err == nil {
			sessionRepo := storage.NewSessionRepository(db)
			sessions, _ := sessionRepo.List(1)
			if len(sessions) > 0 {
				fmt.Printf("Last session: %s\n", sessions[0].StartedAt.Format(time.RFC3339))
			}

			allSessions, _ := sessionRepo.List(10000)
			fmt.Printf("Total sessions: %d\n", len(allSessions))
		}
	}

	fmt.Println()

	if state.LastDeviceID != "" {
		fmt.Printf("Last device: %s (%s)\n", state.LastDeviceName, state.LastDeviceID)
	} else {
		fmt.Println("No device history")
	}

	fmt.Println()

	_, results, err := scanForCube(5 * time.Second)
	if err != nil {
		fmt.Printf("Scan error: %v\n", err)
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No GoCube devices found")
		fmt.Println()
		fmt.Println("Tips:")
		fmt.Println("  - Ensure your GoCube is powered on")
		fmt.Println("  - Move the cube to wake it up")
		fmt.Println("  - Check that Bluetooth is enabled")
	} else {
		fmt.Printf("Found %d device(s):\n", len(results))
		for _, r := range results {
			fmt.Printf("  - %s (UUID: %s, RSSI: %d)\n", r.Name, r.UUID, r.RSSI)
		}
	}

	return nil
}
