package viz

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/san-kum/ridersim/internal/editor"
	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/timeline"
	"github.com/san-kum/ridersim/internal/tools"
	"github.com/san-kum/ridersim/internal/track"
)

const (
	defaultCols     = 80
	defaultRows     = 24
	panelWidth      = 34
	historyCapacity = 600
	trailCapacity   = 120
	zoomStep        = 1.25
)

type tickMsg time.Time

type loadedMsg struct{ label string }

// Model is the terminal editor. It owns no track state; everything goes
// through the editor.
type Model struct {
	ctx    context.Context
	e      *editor.Editor
	logger *zap.Logger

	width, height int
	canvas        *Canvas
	view          Viewport
	theme         Theme
	st            styles

	sticky tools.Modifiers
	speeds []float64
	trail  []geom.Vec2
	hits   map[track.LineID]bool
	hitTL  *timeline.Timeline

	sub, subTicks int
	entries       func() []Entry
	picker        *picker
	showHelp      bool
	message       string
}

type Option func(*Model)

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.logger = l }
}

func WithTheme(name string) Option {
	return func(m *Model) { m.theme = GetTheme(name) }
}

// WithEntries sets the source of the open-track menu.
func WithEntries(fn func() []Entry) Option {
	return func(m *Model) { m.entries = fn }
}

func NewModel(ctx context.Context, e *editor.Editor, opts ...Option) Model {
	m := Model{
		ctx:      ctx,
		e:        e,
		logger:   zap.NewNop(),
		theme:    CurrentTheme,
		hits:     make(map[track.LineID]bool),
		subTicks: 1,
		entries:  SampleEntries,
		sticky:   tools.ModSnapSiblings,
	}
	for _, o := range opts {
		o(&m)
	}
	if e.Config().Playback.SmoothPlayback {
		m.subTicks = 2
	}
	m.st = newStyles(m.theme)
	m.resize(defaultCols+panelWidth, defaultRows+1)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	fps := m.e.Config().Playback.FPS
	if fps <= 0 {
		fps = 40
	}
	return tea.Tick(time.Second/time.Duration(fps*m.subTicks), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols, rows := max(w-panelWidth, 20), max(h-1, 8)
	if m.canvas == nil || m.canvas.Width != cols || m.canvas.Height != rows {
		m.canvas = NewCanvas(cols, rows)
	}
	m.redraw(true)
}

// Update handles input events and advances playback on ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.redraw(true)
		return m, cmd
	case tea.MouseMsg:
		m.handleMouse(msg)
		m.redraw(true)
		return m, nil
	case loadedMsg:
		m.message = "opened " + msg.label
		m.clearRun()
		m.redraw(true)
		return m, nil
	case tickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

// step runs one tick of playback. With smooth playback a frame spans
// several ticks and the ticks in between draw interpolated riders.
func (m *Model) step() {
	if m.e.State() != editor.Playing {
		m.sub = 0
		m.redraw(false)
		return
	}
	m.sub++
	if m.sub >= m.subTicks {
		m.sub = 0
		m.e.Update(m.ctx, 1)
		f := m.e.RenderFrame(m.ctx)
		m.record(f.State.Center(), f.State.Speed())
	}
	m.redraw(m.subTicks > 1)
}

func (m *Model) record(center geom.Vec2, speed float64) {
	m.speeds = append(m.speeds, speed)
	if len(m.speeds) > historyCapacity {
		m.speeds = m.speeds[1:]
	}
	m.trail = append(m.trail, center)
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[1:]
	}
}

func (m *Model) blend() float64 {
	return float64(m.sub+1) / float64(m.subTicks)
}

// View renders the canvas next to the status panel.
func (m Model) View() string {
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.st.menu.Render(helpText))
	}
	main := lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.Render(m.theme), m.panel())
	return main + "\n" + m.st.hint.Render(footer)
}

func (m *Model) setTheme(t Theme) {
	m.theme = t
	m.st = newStyles(t)
}

func (m *Model) zoom(f float64) {
	m.e.SetZoom(m.e.Zoom() * f)
}

func (m *Model) pan(dx, dy int) {
	cell := m.view.CellSize()
	m.e.PanCamera(geom.V(float64(dx)*cell*4, float64(dy)*cell*4))
}

func (m *Model) openPicker() {
	m.picker = &picker{entries: m.entries()}
}

func (m *Model) load(en Entry) tea.Cmd {
	m.message = "loading " + en.Label
	done := m.e.LoadAsync(m.ctx, en.Load)
	return func() tea.Msg {
		<-done
		return loadedMsg{label: en.Label}
	}
}

func (m *Model) save() {
	meta, err := m.e.Save(m.ctx)
	if err != nil {
		m.logger.Warn("save failed", zap.Error(err))
		m.message = "save failed: " + err.Error()
		return
	}
	m.message = "saved " + meta.ID[:8]
}

func (m *Model) clearRun() {
	m.speeds, m.trail = m.speeds[:0], m.trail[:0]
}
