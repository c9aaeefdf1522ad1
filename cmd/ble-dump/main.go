// BLE frame dump - shows decoded protocol frames from a GoCube.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SeamusWaldron/cubeviz/internal/ble"
	"github.com/SeamusWaldron/cubeviz/internal/protocol"
)

func main() {
	fmt.Println("BLE Frame Dump")
	fmt.Println("==============")
	fmt.Println()

	client, err := ble.NewClient()
	if err != nil {
		fmt.Printf("BLE not available: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Scanning for GoCube...")

	scanCtx, scanCancel := context.WithTimeout(context.Background(), 10*time.Second)
	results, err := client.Scan(scanCtx, 10*time.Second)
	scanCancel()
	if err != nil {
		fmt.Printf("Scan failed: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Println("GoCube not found")
		os.Exit(1)
	}

	fmt.Printf("Found: %s (%s)\n", results[0].Name, results[0].UUID)
	fmt.Println()

	client.SetFrameCallback(func(f *protocol.Frame) {
		fmt.Printf("[RAW] %s\n", hex.EncodeToString(f.Raw))
		fmt.Printf("      Type: 0x%02X (%s), payload %d bytes\n", f.Type, protocol.TypeName(f.Type), len(f.Payload))

		switch f.Type {
		case protocol.TypeRotation:
			events, err := protocol.DecodeRotation(f.Payload)
			if err != nil {
				fmt.Printf("      decode error: %v\n", err)
				return
			}
			for _, ev := range events {
				fmt.Printf("      %s\n", ev.Move(time.Now()).Notation())
			}
		case protocol.TypeBattery:
			if ev, err := protocol.DecodeBattery(f.Payload); err == nil {
				fmt.Printf("      Battery: %d%%\n", ev.Level)
			}
		case protocol.TypeOrientation:
			if ev, err := protocol.DecodeOrientation(f.Payload); err == nil {
				fmt.Printf("      Up: %s, Front: %s\n", ev.UpFace, ev.FrontFace)
			}
		}
	})

	fmt.Println("Connecting...")
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = client.ConnectToResult(connectCtx, results[0])
	connectCancel()
	if err != nil {
		fmt.Printf("Failed to connect: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Connected!")
	fmt.Println()

	fmt.Println("Rotate the cube to see frames...")
	fmt.Println("Press Ctrl+C to exit")
	fmt.Println()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	select {
	case <-sigChan:
		fmt.Println("\nDisconnecting...")
	case <-ctx.Done():
		fmt.Println("\nTimeout, disconnecting...")
	}

	client.Disconnect()
}
