package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SeamusWaldron/cubeviz"
	"github.com/SeamusWaldron/cubeviz/internal/render"
	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

// replayMoveDuration is shorter than the viewer's so fast sections of
// a session do not fall too far behind the recorded timing.
const replayMoveDuration = 150 * time.Millisecond

type replayMoveMsg struct{ index int }

// ReplayModel plays a recorded session back through the animated
// engine. Each move is scheduled from the gap between recorded
// offsets, scaled by speed; bursts faster than the animation queue up
// in the backlog.
type ReplayModel struct {
	engine   *cubeviz.Engine
	cam      *render.Camera
	session  *storage.Session
	scramble []cubeviz.Move
	records  []storage.MoveRecord

	index        int
	speed        float64
	paused       bool
	resetPending bool

	backlog []cubeviz.Move
	moves   []cubeviz.Move

	width    int
	height   int
	err      error
	quitting bool
}

// NewReplay creates a playback viewer for a recorded session. The
// scramble, when present, is applied instantly so playback starts from
// the state the session was recorded from. speed scales the recorded
// timing (2.0 plays twice as fast).
func NewReplay(engine *cubeviz.Engine, session *storage.Session, scramble []cubeviz.Move, records []storage.MoveRecord, speed float64) *ReplayModel {
	if speed <= 0 {
		speed = 1.0
	}
	m := &ReplayModel{
		engine:   engine,
		cam:      render.DefaultCamera(),
		session:  session,
		scramble: scramble,
		records:  records,
		speed:    speed,
		width:    80,
		height:   24,
	}
	m.applyScramble()
	engine.OnMoveComplete(m.moveCompleted)
	return m
}

func (m *ReplayModel) applyScramble() {
	if len(m.scramble) == 0 {
		return
	}
	if err := m.engine.ApplyMoves(m.scramble...); err != nil {
		m.err = err
		return
	}
	m.engine.ClearMoveHistory()
}

func (m *ReplayModel) moveCompleted(mv cubeviz.Move) {
	m.moves = append(m.moves, mv)
	m.submitNext()
}

func (m *ReplayModel) submitNext() {
	if m.engine.Busy() || len(m.backlog) == 0 {
		return
	}
	mv := m.backlog[0]
	m.backlog = m.backlog[1:]
	m.engine.RotateFace(mv.Face, mv.Turn == cubeviz.CCW, replayMoveDuration)
}

// scheduleNext arms a timer for the next recorded move, delayed by the
// gap to the previous one divided by the playback speed.
func (m *ReplayModel) scheduleNext() tea.Cmd {
	if m.index >= len(m.records) {
		return nil
	}
	var delay time.Duration
	if m.index > 0 {
		gapMs := m.records[m.index].OffsetMs - m.records[m.index-1].OffsetMs
		if gapMs > 0 {
			delay = time.Duration(float64(gapMs)/m.speed) * time.Millisecond
		}
	}
	idx := m.index
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return replayMoveMsg{index: idx}
	})
}

// playCurrent enqueues the move at the playback cursor and advances it.
func (m *ReplayModel) playCurrent() {
	rec := m.records[m.index]
	m.index++
	mv := cubeviz.Move{Face: cubeviz.Face(rec.Face), Turn: cubeviz.Turn(rec.Turn)}
	for _, q := range mv.Quarters() {
		m.backlog = append(m.backlog, q)
	}
	m.submitNext()
}

func (m *ReplayModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.scheduleNext())
}

func (m *ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case " ", "p":
			m.paused = !m.paused
			if !m.paused {
				return m, m.scheduleNext()
			}

		case "n":
			if m.paused && m.index < len(m.records) {
				m.playCurrent()
			}

		case "+", "=":
			m.speed *= 2
			if m.speed > 16 {
				m.speed = 16
			}

		case "-":
			m.speed /= 2
			if m.speed < 0.25 {
				m.speed = 0.25
			}

		case "r":
			m.index = 0
			m.backlog = nil
			m.resetPending = true

		default:
			orbitKey(m.cam, msg.String())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.engine.Update(time.Time(msg))
		if m.resetPending && !m.engine.Busy() {
			m.resetPending = false
			if err := m.engine.Reset(); err == nil {
				m.applyScramble()
				m.moves = nil
				m.engine.ClearMoveHistory()
				if !m.paused {
					return m, tea.Batch(tickCmd(), m.scheduleNext())
				}
			}
		}
		return m, tickCmd()

	case replayMoveMsg:
		// Stale timers from before a restart carry an old index.
		if m.paused || msg.index != m.index {
			return m, nil
		}
		m.playCurrent()
		return m, m.scheduleNext()
	}

	return m, nil
}

func (m *ReplayModel) View() string {
	if m.quitting {
		return "Replay ended.\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("cubeviz replay"))
	if m.session != nil {
		b.WriteString(statusStyle.Render(fmt.Sprintf("  %s", shortID(m.session.SessionID))))
	}
	b.WriteString("\n\n")

	fw, fh := frameSize(m.width, m.height)
	b.WriteString(render.Render(m.engine.Grid(), m.cam, fw, fh))
	b.WriteString("\n")

	status := fmt.Sprintf("Move %d/%d (%.2gx)", m.index, len(m.records), m.speed)
	if m.paused {
		status += " [PAUSED]"
	} else if m.index >= len(m.records) && len(m.backlog) == 0 && !m.engine.Busy() {
		status += " [DONE]"
	}
	b.WriteString(statusStyle.Render(status))
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
	b.WriteString(helpStyle.Render("space=pause  n=step  +/-=speed  r=restart  arrows=orbit  q=quit"))
	b.WriteString("\n")

	return b.String()
}
