// Package tui implements the interactive terminal viewer: bubbletea
// models that drive the engine from a frame tick and draw the cube
// with internal/render. The engine never queues moves, so the models
// keep a host-side backlog and submit the next move from the
// OnMoveComplete callback.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/cubeviz"
	"github.com/SeamusWaldron/cubeviz/internal/recorder"
	"github.com/SeamusWaldron/cubeviz/internal/render"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

const (
	tickInterval  = 30 * time.Millisecond
	moveDuration  = 200 * time.Millisecond
	scrambleMoves = 20
	orbitStep     = 0.12
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// frameSize fits the cube frame into the terminal, leaving room for
// the header and status lines.
func frameSize(w, h int) (int, int) {
	fw := w
	if fw < 24 {
		fw = 24
	}
	if fw > 96 {
		fw = 96
	}
	fh := h - 10
	if fh < 12 {
		fh = 12
	}
	if fh > 40 {
		fh = 40
	}
	return fw, fh
}

func orbitKey(cam *render.Camera, key string) bool {
	switch key {
	case "left":
		cam.Orbit(-orbitStep, 0)
	case "right":
		cam.Orbit(orbitStep, 0)
	case "up":
		cam.Orbit(0, orbitStep)
	case "down":
		cam.Orbit(0, -orbitStep)
	default:
		return false
	}
	return true
}

// Model is the interactive viewer: keyboard turns, scramble playback
// and an optional recorder that persists every completed move.
type Model struct {
	engine *cubeviz.Engine
	rec    *recorder.Recorder
	cam    *render.Camera

	backlog []cubeviz.Move
	moves   []cubeviz.Move

	prog     progress.Model
	width    int
	height   int
	err      error
	quitting bool
}

// New creates a viewer for the engine. rec may be nil; when set, every
// completed move is recorded into the active session.
func New(engine *cubeviz.Engine, rec *recorder.Recorder) *Model {
	m := &Model{
		engine: engine,
		rec:    rec,
		cam:    render.DefaultCamera(),
		prog:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(24), progress.WithoutPercentage()),
		width:  80,
		height: 24,
	}
	engine.OnMoveComplete(m.moveCompleted)
	return m
}

// moveCompleted runs on the tick goroutine, inside Engine.Update, so
// model access needs no extra locking.
func (m *Model) moveCompleted(mv cubeviz.Move) {
	m.moves = append(m.moves, mv)
	if m.rec != nil {
		if err := m.rec.Record(mv); err != nil {
			m.err = err
		}
	}
	m.submitNext()
}

func (m *Model) enqueue(moves ...cubeviz.Move) {
	for _, mv := range moves {
		m.backlog = append(m.backlog, mv.Quarters()...)
	}
	m.submitNext()
}

func (m *Model) submitNext() {
	if m.engine.Busy() || len(m.backlog) == 0 {
		return
	}
	mv := m.backlog[0]
	m.backlog = m.backlog[1:]
	m.engine.RotateFace(mv.Face, mv.Turn == cubeviz.CCW, moveDuration)
}

func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			if m.rec != nil && m.rec.State() == recorder.StateRecording {
				if err := m.rec.End(m.engine.IsSolved()); err != nil {
					m.err = err
				}
			}
			return m, tea.Quit

		case "u", "d", "l", "r", "f", "b", "U", "D", "L", "R", "F", "B":
			m.err = nil
			turn := cubeviz.CW
			if key[0] >= 'A' && key[0] <= 'Z' {
				turn = cubeviz.CCW
			}
			face := cubeviz.Face(strings.ToUpper(key))
			m.enqueue(cubeviz.Move{Face: face, Turn: turn})

		case "s":
			m.err = nil
			m.enqueue(cubeviz.NewScramble(scrambleMoves)...)

		case "z":
			m.backlog = nil
			if err := m.engine.Reset(); err != nil {
				m.err = err
			} else {
				m.moves = nil
				m.engine.ClearMoveHistory()
			}

		default:
			orbitKey(m.cam, key)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.engine.Update(time.Time(msg))
		return m, tickCmd()
	}

	return m, nil
}

func (m *Model) View() string {
	if m.quitting {
		var b strings.Builder
		b.WriteString("Goodbye!\n")
		if m.rec != nil && m.rec.SessionID() != "" {
			b.WriteString(fmt.Sprintf("Session saved: %s\n", m.rec.SessionID()))
		}
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		return b.String()
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("cubeviz"))
	if m.rec != nil && m.rec.State() == recorder.StateRecording {
		b.WriteString(statusStyle.Render(fmt.Sprintf("  recording %s", shortID(m.rec.SessionID()))))
	}
	b.WriteString("\n\n")

	fw, fh := frameSize(m.width, m.height)
	b.WriteString(render.Render(m.engine.Grid(), m.cam, fw, fh))
	b.WriteString("\n")

	if mv, p, ok := m.engine.Animating(); ok {
		b.WriteString(fmt.Sprintf("%s %s", moveStyle.Render(mv.Notation()), m.prog.ViewAs(p)))
	} else if m.engine.IsSolved() {
		b.WriteString(statusStyle.Render("solved"))
	} else {
		prog := m.engine.Progress()
		b.WriteString(statusStyle.Render(fmt.Sprintf("%d/6 faces solved", prog.SolvedFaces)))
	}
	if len(m.backlog) > 0 {
		b.WriteString(statusStyle.Render(fmt.Sprintf("  queued: %d", len(m.backlog))))
	}
	b.WriteString("\n")

	if len(m.moves) > 0 {
		b.WriteString("Moves: ")
		start := 0
		if len(m.moves) > 20 {
			start = len(m.moves) - 20
			b.WriteString("... ")
		}
		var notations []string
		for i := start; i < len(m.moves); i++ {
			notations = append(notations, m.moves[i].Notation())
		}
		b.WriteString(moveStyle.Render(strings.Join(notations, " ")))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("u/d/l/r/f/b=turn (shift=prime)  arrows=orbit  s=scramble  z=reset  q=quit"))
	b.WriteString("\n")

	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
