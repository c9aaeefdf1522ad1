// Package cubeviz animates a 3x3x3 twisty cube as 27 independently
// posed cubies, with smooth eased layer rotations and a drift-free
// grid between moves.
//
// # Features
//
//   - Layer rotation engine: world-position layer selection, pivot
//     grouping, cubic-eased quarter turns, snap-back drift correction
//   - Cooperative animation: the host frame loop drives Update, the
//     engine never schedules itself
//   - One move in flight at a time; concurrent requests are refused,
//     never queued
//   - Facelet view, solved detection and flat-net rendering derived
//     from the 3D cubie poses
//   - Standard move notation (R, R', R2, ...) with parsing, sequences
//     and scramble generation
//
// # Quick Start
//
// Animate a turn from a frame loop:
//
//	engine := cubeviz.New()
//
//	done := engine.RotateFace(cubeviz.FaceR, false, 200*time.Millisecond)
//	for engine.Update(time.Now()) {
//	    time.Sleep(16 * time.Millisecond) // your frame cadence
//	}
//	fmt.Println("completed:", <-done)
//
// Completion can also be observed with a callback:
//
//	engine.OnMoveComplete(func(m cubeviz.Move) {
//	    fmt.Println("Move:", m.Notation())
//	})
//
// # Instant Moves
//
// Headless hosts can skip animation entirely:
//
//	engine.ApplyMoves(cubeviz.R, cubeviz.U, cubeviz.RPrime, cubeviz.UPrime)
//	engine.ApplyNotation("F B2 L' D")
//
//	fmt.Println("Solved:", engine.IsSolved())
//	fmt.Println(engine.Grid()) // flat net
//
// # Rendering
//
// Renderers read the cubie poses each frame and draw them however they
// like; mid-animation poses are live:
//
//	for _, c := range engine.Grid().Cubies() {
//	    world := c.World()
//	    // project world.Position / world.Rotation ...
//	}
package cubeviz
