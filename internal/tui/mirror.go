package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SeamusWaldron/cubeviz"
	"github.com/SeamusWaldron/cubeviz/internal/ble"
	"github.com/SeamusWaldron/cubeviz/internal/protocol"
	"github.com/SeamusWaldron/cubeviz/internal/recorder"
	"github.com/SeamusWaldron/cubeviz/internal/render"
	"github.com/SeamusWaldron/cubeviz/internal/storage"
)

// Physical turns arrive in bursts, so mirrored moves animate faster
// than interactive ones.
const mirrorMoveDuration = 120 * time.Millisecond

type mirrorConnectedMsg struct{ name string }
type mirrorErrMsg struct{ err error }
type frameMsg struct{ frame *protocol.Frame }

// MirrorModel drives the animated engine from a physical GoCube. The
// BLE callback pushes parsed frames into a channel; a self-rearming
// command feeds them to Update, which records the move at arrival time
// and queues it for animation.
type MirrorModel struct {
	client      *ble.Client
	scanResults []ble.ScanResult
	stateFile   *recorder.StateFile
	rec         *recorder.Recorder
	logger      *recorder.SessionLogger

	engine  *cubeviz.Engine
	cam     *render.Camera
	backlog []cubeviz.Move
	moves   []cubeviz.Move

	frames chan *protocol.Frame

	spin       spinner.Model
	connected  bool
	deviceName string
	battery    int

	width    int
	height   int
	logPath  string
	err      error
	quitting bool
}

// NewMirror creates a mirror viewer around a pre-scanned client. rec
// and logger may be nil.
func NewMirror(client *ble.Client, results []ble.ScanResult, stateFile *recorder.StateFile, rec *recorder.Recorder, logger *recorder.SessionLogger) *MirrorModel {
	m := &MirrorModel{
		client:      client,
		scanResults: results,
		stateFile:   stateFile,
		rec:         rec,
		logger:      logger,
		engine:      cubeviz.New(),
		cam:         render.DefaultCamera(),
		spin:        spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statusStyle)),
		battery:     -1,
		frames:      make(chan *protocol.Frame, 100),
		width:       80,
		height:      24,
	}
	m.engine.OnMoveComplete(m.moveCompleted)
	client.SetFrameCallback(func(f *protocol.Frame) {
		select {
		case m.frames <- f:
		default:
			// Channel full, drop frame.
		}
	})
	return m
}

func (m *MirrorModel) moveCompleted(mv cubeviz.Move) {
	m.moves = append(m.moves, mv)
	m.submitNext()
}

func (m *MirrorModel) submitNext() {
	if m.engine.Busy() || len(m.backlog) == 0 {
		return
	}
	mv := m.backlog[0]
	m.backlog = m.backlog[1:]
	m.engine.RotateFace(mv.Face, mv.Turn == cubeviz.CCW, mirrorMoveDuration)
}

func (m *MirrorModel) Init() tea.Cmd {
	return tea.Batch(m.connect(), tickCmd(), m.listenFrames(), m.spin.Tick)
}

// connect attaches to the last known device when it is among the scan
// results, otherwise to the first one found.
func (m *MirrorModel) connect() tea.Cmd {
	return func() tea.Msg {
		target := m.scanResults[0]
		if m.stateFile != nil {
			if id := m.stateFile.LastDeviceID(); id != "" {
				for _, r := range m.scanResults {
					if r.UUID == id {
						target = r
						break
					}
				}
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := m.client.ConnectToResult(ctx, target); err != nil {
			return mirrorErrMsg{err: fmt.Errorf("connection failed: %w", err)}
		}
		return mirrorConnectedMsg{name: m.client.DeviceName()}
	}
}

func (m *MirrorModel) listenFrames() tea.Cmd {
	return func() tea.Msg {
		return frameMsg{frame: <-m.frames}
	}
}

func (m *MirrorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			if m.rec != nil && m.rec.State() == recorder.StateRecording {
				solved := m.engine.IsSolved()
				if err := m.rec.End(solved); err != nil {
					m.err = err
				}
				if m.logger != nil {
					m.logger.LogSessionEnd(m.rec.SessionID(), solved)
				}
			}
			if m.logger != nil {
				m.logPath = m.logger.FilePath()
				m.logger.Close()
			}
			if m.client != nil {
				m.client.Disconnect()
			}
			return m, tea.Quit

		case "f":
			if m.connected {
				m.client.FlashBacklight()
			}

		case "z":
			m.backlog = nil
			if err := m.engine.Reset(); err != nil {
				m.err = err
			} else {
				m.moves = nil
				m.engine.ClearMoveHistory()
			}

		default:
			orbitKey(m.cam, msg.String())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.engine.Update(time.Time(msg))
		if m.client != nil {
			m.battery = m.client.Battery()
		}
		return m, tickCmd()

	case spinner.TickMsg:
		if !m.connected {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}

	case mirrorConnectedMsg:
		m.connected = true
		m.deviceName = msg.name
		if m.stateFile != nil {
			m.stateFile.SetLastDevice(m.client.DeviceUUID(), msg.name)
		}
		// Flash after a short delay so the BLE stack settles first.
		go func() {
			time.Sleep(500 * time.Millisecond)
			m.client.FlashBacklight()
		}()
		if m.rec != nil && m.rec.State() == recorder.StateIdle {
			id, err := m.rec.Start("", storage.SourceMirror, msg.name, "")
			if err != nil {
				m.err = err
			} else if m.logger != nil {
				m.logger.LogSessionStart(id)
			}
		}

	case mirrorErrMsg:
		m.err = msg.err

	case frameMsg:
		m.handleFrame(msg.frame)
		return m, m.listenFrames()
	}

	return m, nil
}

func (m *MirrorModel) handleFrame(f *protocol.Frame) {
	if m.logger != nil {
		m.logger.LogFrame(f, frameDescription(f))
	}
	if f.Type != protocol.TypeRotation {
		return
	}

	events, err := protocol.DecodeRotation(f.Payload)
	if err != nil {
		m.err = err
		return
	}

	now := time.Now()
	for _, ev := range events {
		mv := ev.Move(now)
		if m.rec != nil {
			if err := m.rec.Record(mv); err != nil {
				m.err = err
			}
		}
		if m.logger != nil {
			m.logger.LogMove(mv)
		}
		// Rotation events are always quarter turns.
		m.backlog = append(m.backlog, mv)
		m.submitNext()
	}
}

func frameDescription(f *protocol.Frame) string {
	desc := protocol.TypeName(f.Type)
	if f.Type == protocol.TypeRotation {
		if events, err := protocol.DecodeRotation(f.Payload); err == nil {
			var notations []string
			for _, ev := range events {
				notations = append(notations, ev.Move(time.Time{}).Notation())
			}
			desc = fmt.Sprintf("rotation: %s", strings.Join(notations, " "))
		}
	}
	return desc
}

func (m *MirrorModel) View() string {
	if m.quitting {
		var b strings.Builder
		b.WriteString("Goodbye!\n")
		if m.rec != nil && m.rec.SessionID() != "" {
			b.WriteString(fmt.Sprintf("Session saved: %s\n", m.rec.SessionID()))
		}
		if m.logPath != "" {
			b.WriteString(fmt.Sprintf("Log saved to: %s\n", m.logPath))
		}
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		return b.String()
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("cubeviz mirror"))
	b.WriteString("\n\n")

	if m.connected {
		status := fmt.Sprintf("Connected: %s", m.deviceName)
		if m.battery >= 0 {
			status += fmt.Sprintf(" (Battery: %d%%)", m.battery)
		}
		b.WriteString(statusStyle.Render(status))
		if m.rec != nil && m.rec.State() == recorder.StateRecording {
			b.WriteString(statusStyle.Render(fmt.Sprintf("  recording %s", shortID(m.rec.SessionID()))))
		}
	} else if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else {
		b.WriteString(fmt.Sprintf("%s Connecting...", m.spin.View()))
	}
	b.WriteString("\n\n")

	fw, fh := frameSize(m.width, m.height)
	b.WriteString(render.Render(m.engine.Grid(), m.cam, fw, fh))
	b.WriteString("\n")

	if mv, _, ok := m.engine.Animating(); ok {
		b.WriteString(moveStyle.Render(mv.Notation()))
	} else if m.engine.IsSolved() {
		b.WriteString(statusStyle.Render("solved"))
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

	if m.connected && m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("f=flash led  z=reset  arrows=orbit  q=quit"))
	b.WriteString("\n")

	return b.String()
}
