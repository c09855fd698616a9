package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-padlight/animation"
	"go-padlight/config"
	"go-padlight/midi"
	"go-padlight/patterns"
	"go-padlight/theme"
	"go-padlight/widgets"
)

// layoutBounds holds cached layout info
type layoutBounds struct {
	gridTop int
}

// ModelConfig wires the model to the running engine
type ModelConfig struct {
	Engine  *animation.Engine
	Sink    *GridSink
	Output  *midi.GridOutput    // may be nil
	Devices *midi.DeviceManager // may be nil
	Theme   *theme.Theme
	Pads    config.PadConfig
	Colors  []string // selectable pattern colors
	Color   string   // initial color
}

type Model struct {
	Engine  *animation.Engine
	Sink    *GridSink
	Output  *midi.GridOutput
	Devices *midi.DeviceManager
	Theme   *theme.Theme
	Pads    config.PadConfig

	frame      Frame
	cursor     animation.Position
	colors     []string
	colorIdx   int
	status     string
	tooltip    string
	quitting   bool
	bounds     *layoutBounds
	controller midi.Controller // current grid controller (may be nil)
}

type FrameMsg Frame

type DeviceEventMsg midi.DeviceEvent

func NewModel(cfg ModelConfig) Model {
	colors := slices.Clone(cfg.Colors)
	slices.Sort(colors)
	idx := slices.Index(colors, cfg.Color)
	if idx < 0 {
		colors = append([]string{cfg.Color}, colors...)
		idx = 0
	}
	th := cfg.Theme
	if th == nil {
		th = theme.New(nil)
	}
	return Model{
		Engine:   cfg.Engine,
		Sink:     cfg.Sink,
		Output:   cfg.Output,
		Devices:  cfg.Devices,
		Theme:    th,
		Pads:     cfg.Pads,
		cursor:   animation.Position{X: 3, Y: 3},
		colors:   colors,
		colorIdx: idx,
		bounds:   &layoutBounds{},
	}
}

func ListenForFrames(sink *GridSink) tea.Cmd {
	return func() tea.Msg {
		return FrameMsg(<-sink.Frames())
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForFrames(m.Sink)}
	if m.Devices != nil {
		cmds = append(cmds, ListenForDevices(m.Devices))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			m.cursor = m.move(0, -1)
		case "down", "j":
			m.cursor = m.move(0, 1)
		case "left", "h":
			m.cursor = m.move(-1, 0)
		case "right", "l":
			m.cursor = m.move(1, 0)

		case " ":
			m.trigger("flash", m.cursor)
		case "enter":
			m.trigger(m.Pads.Pattern, m.cursor)

		case "c":
			m.colorIdx = (m.colorIdx + 1) % len(m.colors)
			m.status = "color " + m.color()

		case "x":
			m.Engine.Post(func(e *animation.Engine) { e.Fades.Clear() })
			m.status = "cleared"

		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			idx := int(key[0] - '1')
			if idx < len(patterns.Order) {
				m.trigger(patterns.Order[idx], m.cursor)
			}
		}

	case tea.MouseMsg:
		pos, ok := widgets.GridHit(msg.X, msg.Y-m.bounds.gridTop)
		m.tooltip = ""
		if ok {
			m.tooltip = pos.String()
			if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
				m.cursor = pos
				m.trigger(m.Pads.Pattern, pos)
			}
		}

	case FrameMsg:
		m.frame = Frame(msg)
		return m, ListenForFrames(m.Sink)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			if out := event.Controller.Output(); out != nil && m.Output != nil {
				m.Output.SetTransport(out)
				m.controller = event.Controller
				// the new device has none of the running fades yet
				m.Engine.Post(func(e *animation.Engine) { e.Fades.Repaint() })
			}
			go Forward(m.Engine, event.Controller, m.Pads)
			m.status = "connected " + event.ID
		case midi.DeviceDisconnected:
			if m.controller != nil && m.controller.ID() == event.ID {
				m.controller = nil
				if m.Output != nil {
					m.Output.SetTransport(nil)
				}
			}
			m.status = "disconnected " + event.ID
		}
		return m, ListenForDevices(m.Devices)
	}

	return m, nil
}

func (m Model) move(dx, dy int) animation.Position {
	p := m.cursor.Add(animation.Position{X: dx, Y: dy})
	if !p.Valid() {
		return m.cursor
	}
	return p
}

func (m Model) color() string {
	return m.colors[m.colorIdx]
}

// trigger hands a pattern to the engine goroutine
func (m *Model) trigger(pattern string, pos animation.Position) {
	color, seconds := m.color(), m.Pads.Duration
	m.Engine.Post(func(e *animation.Engine) {
		e.TriggerColor(pattern, pos.X, pos.Y, seconds, color)
	})
	m.status = fmt.Sprintf("%s at %s", pattern, pos)
}

// Forward turns a controller's pad presses and notes into pad triggers, and their
// releases into releases of the same trigger, until its channels close
func Forward(e *animation.Engine, c midi.Controller, pads config.PadConfig) {
	padCh, noteCh := c.PadEvents(), c.NoteEvents()
	post := func(pos animation.Position, pressed bool) {
		if !pressed {
			e.Post(func(e *animation.Engine) {
				e.Release(pads.Pattern, pos.X, pos.Y)
			})
			return
		}
		e.Post(func(e *animation.Engine) {
			e.TriggerColor(pads.Pattern, pos.X, pos.Y, pads.Duration, pads.Color)
		})
	}
	for padCh != nil || noteCh != nil {
		select {
		case ev, ok := <-padCh:
			if !ok {
				padCh = nil
				continue
			}
			post(ev.Pos, ev.Pressed)
		case ev, ok := <-noteCh:
			if !ok {
				noteCh = nil
				continue
			}
			post(midi.NotePosition(ev.Note), ev.Pressed)
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	statusStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	tooltipStyle := lipgloss.NewStyle().
		Foreground(m.Theme.FG()).
		Background(m.Theme.Surface()).
		Padding(0, 1)

	deviceStatus := ""
	if m.controller != nil {
		deviceStatus = "  LP:" + m.controller.ID()
	}
	st := m.frame.Stats
	header := headerStyle.Render(fmt.Sprintf("go-padlight  fades:%02d tasks:%02d anims:%02d  color:%s%s",
		st.Fades, st.Tasks, st.Animations, m.color(), deviceStatus))

	grid := widgets.RenderPadGrid(&m.frame.Cells, m.Theme, m.cursor)

	var legend []string
	for i, id := range patterns.Order {
		legend = append(legend, fmt.Sprintf("%d:%s", i+1, id))
	}
	help := dimStyle.Render(strings.Join(legend, " ") + "\n" +
		"hjkl:move  space:flash  enter:" + m.Pads.Pattern + "  c:color  x:clear  q:quit")

	m.bounds.gridTop = 1 + lipgloss.Height(header) + 1

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(grid)
	out.WriteString("\n\n")
	out.WriteString(statusStyle.Render(m.status))
	out.WriteString("\n\n")
	out.WriteString(help)

	if m.tooltip != "" {
		out.WriteString("\n")
		out.WriteString(tooltipStyle.Render(m.tooltip))
	}

	return out.String()
}
