package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeviz/internal/ble"
)

var scanTimeout time.Duration

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for GoCube devices",
	Long:  `Scan for nearby GoCube devices and list what was found.`,
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 5*time.Second, "Scan duration")
}

// scanForCube scans for GoCube devices using the same logic everywhere.
// A single 5-second scan is sufficient for macOS BLE discovery.
func scanForCube(timeout time.Duration) (*ble.Client, []ble.ScanResult, error) {
	fmt.Println("Scanning for GoCube devices...")

	client, err := ble.NewClient()
	if err != nil {
		return nil, nil, fmt.Errorf("BLE not available: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	results, err := client.Scan(ctx, timeout)
	if err != nil {
		return client, nil, fmt.Errorf("scan failed: %w", err)
	}

	if len(results) == 0 {
		return client, nil, nil
	}

	fmt.Printf("Found: %s\n", results[0].Name)
	return client, results, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	_, results, err := scanForCube(scanTimeout)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No GoCube devices found")
		fmt.Println()
		fmt.Println("Make sure your cube is:")
		fmt.Println("  - Powered on (turn a face to wake it)")
		fmt.Println("  - Not connected to another app")
		return nil
	}

	fmt.Println()
	fmt.Printf("%-24s  %-36s  %s\n", "Name", "UUID", "RSSI")
	fmt.Println("------------------------  ------------------------------------  ----")
	for _, r := range results {
		fmt.Printf("%-24s  %-36s  %d\n", r.Name, r.UUID, r.RSSI)
	}

	return nil
}
