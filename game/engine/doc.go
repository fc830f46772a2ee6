// Package engine provides the rules core for the board game Go.
//
// The engine package implements:
//   - A fixed-size square board of Empty/Black/White points
//   - Group discovery by iterative flood fill over orthogonal neighbours
//   - Liberty counting over the whole group, never per stone
//   - Capture resolution that removes every dead opposing group in one batch
//   - Move validation on a scratch copy, including suicide prevention
//   - A turn controller that applies validate, commit, capture, alternate
//
// Core Types:
//
// Board owns the grid. FindGroup, CountLiberties and HasLiberties read it.
// ResolveCaptures and GameEngine are the only writers. GameEngine implements
// the Engine interface and exposes a flat action space of N*N points where
// action a maps to row a/N, column a%N.
//
// Usage:
//
//	eng, err := engine.NewEngine(9)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result := eng.SubmitMove(engine.Coordinate{Row: 4, Col: 4})
//	if !result.Accepted {
//		fmt.Println("rejected:", result.Reason)
//	}
//	obs := eng.Observation()
//
// Rules:
//
// Black moves first and players alternate on every accepted move. A move must
// be on the board, on an empty point, and must not leave the mover's own group
// without liberties after opposing captures are applied. Ko, passing and
// scoring are not modelled; a game ends only when End is called.
//
// Concurrency:
//
// A GameEngine is single-threaded. Hosts that share one engine between
// goroutines must hold a lock around each SubmitMove or SubmitAction call.
package engine
