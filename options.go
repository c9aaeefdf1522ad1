package cubeviz

import "time"

// Option configures Engine behavior.
type Option func(*config)

type config struct {
	spacing     float64
	moveHistory bool
	clock       func() time.Time
}

func defaultConfig() *config {
	return &config{
		spacing:     DefaultSpacing,
		moveHistory: true,
		clock:       time.Now,
	}
}

// WithSpacing sets the center-to-center distance between adjacent
// cubies. Selection tolerance and drift correction are derived from it,
// so any positive spacing keeps the grid consistent.
func WithSpacing(spacing float64) Option {
	return func(c *config) {
		c.spacing = spacing
	}
}

// WithMoveHistory enables or disables move history tracking.
// When enabled (default), completed moves are stored and accessible via
// MoveHistory(). Disable this for long sessions to reduce memory usage.
func WithMoveHistory(enabled bool) Option {
	return func(c *config) {
		c.moveHistory = enabled
	}
}

// WithClock replaces the wall clock used to timestamp and time moves.
// Tests use it to drive animations deterministically.
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}
