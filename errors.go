package cubeviz

import "errors"

// Sentinel errors for the cubeviz package.
var (
	// Parsing errors
	ErrInvalidNotation = errors.New("cubeviz: invalid move notation")

	// Engine errors
	ErrEngineBusy  = errors.New("cubeviz: a move is already animating")
	ErrInvalidMove = errors.New("cubeviz: unrecognized face")
)
