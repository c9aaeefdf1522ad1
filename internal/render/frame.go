package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/cubeviz"
)

var stickerStyles = map[cubeviz.Color]lipgloss.Style{
	cubeviz.White:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	cubeviz.Yellow: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	cubeviz.Green:  lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
	cubeviz.Blue:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	cubeviz.Red:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	cubeviz.Orange: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
}

type cell struct {
	set   bool
	color cubeviz.Color
}

// Frame is a cell framebuffer one render pass fills and the terminal
// shows.
type Frame struct {
	Width  int
	Height int
	cells  []cell
}

// NewFrame creates an empty frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		cells:  make([]cell, width*height),
	}
}

// Set colors one cell. Out-of-bounds cells are dropped.
func (f *Frame) Set(x, y int, color cubeviz.Color) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	f.cells[y*f.Width+x] = cell{set: true, color: color}
}

// ColorAt reports the color at a cell, if one was drawn.
func (f *Frame) ColorAt(x, y int) (cubeviz.Color, bool) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return 0, false
	}
	c := f.cells[y*f.Width+x]
	return c.color, c.set
}

// String renders the frame as styled terminal lines.
func (f *Frame) String() string {
	var b strings.Builder
	for y := 0; y < f.Height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < f.Width; x++ {
			c := f.cells[y*f.Width+x]
			if !c.set {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(stickerStyles[c.color].Render("█"))
		}
	}
	return b.String()
}
