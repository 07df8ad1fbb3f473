package viz

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ridersim/internal/config"
	"github.com/san-kum/ridersim/internal/editor"
	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/storage"
	"github.com/san-kum/ridersim/internal/track"
)

func TestCanvasSetAndInk(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0, InkStandard)
	c.Set(1, 0, InkRider)
	c.Set(-1, 3, InkRider)
	c.Set(100, 100, InkRider)

	if got, want := c.Grid[0][0], rune(blank|0x1|0x8); got != want {
		t.Errorf("cell = %U, want %U", got, want)
	}
	if c.InkAt(0, 0) != InkRider {
		t.Errorf("ink = %d, want rider", c.InkAt(0, 0))
	}
	if c.IsSet(2, 0) {
		t.Error("untouched dot is set")
	}

	c.Clear()
	if c.IsSet(0, 0) || c.InkAt(0, 0) != InkNone {
		t.Error("clear left the dot")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(8, 4)
	c.DrawLine(0, 0, 15, 15, InkStandard)
	for i := 0; i < 16; i++ {
		if !c.IsSet(i, i) {
			t.Fatalf("dot (%d, %d) not set", i, i)
		}
	}

	c.Clear()
	c.DrawLine(-500, -500, -10, -10, InkStandard)
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r > blank }) {
		t.Error("off-canvas line drew dots")
	}

	c.DrawRect(2, 2, 6, 6, InkSelection)
	for _, p := range [][2]int{{2, 2}, {6, 2}, {6, 6}, {2, 6}, {4, 2}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("rect dot %v not set", p)
		}
	}
	if c.IsSet(4, 4) {
		t.Error("rect is filled")
	}
}

func TestCanvasRenderKeepsCells(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Set(0, 0, InkAccel)
	out := c.Render(ThemeClassic)
	if !strings.Contains(out, string(rune(blank|0x1))) {
		t.Errorf("render lost the lit cell: %q", out)
	}
	if strings.Contains(out, "\n") {
		t.Errorf("single row rendered with newline: %q", out)
	}
}

func TestViewportRoundTrip(t *testing.T) {
	v := Viewport{Center: geom.V(10, 20), Zoom: 4, Cols: 40, Rows: 10}

	p := v.ToTrack(3, 5)
	if want := geom.V(-6.5, 21); p != want {
		t.Fatalf("ToTrack = %v, want %v", p, want)
	}
	x, y := v.ToDot(p)
	if x != 7 || y != 22 {
		t.Errorf("ToDot = (%d, %d), want (7, 22)", x, y)
	}

	vis := v.Visible()
	if vis.Min != geom.V(-10, 10) || vis.Max != geom.V(30, 30) {
		t.Errorf("visible = %v", vis)
	}
	if v.CellSize() != 1 {
		t.Errorf("cell size = %g", v.CellSize())
	}
}

func TestFitAndPaint(t *testing.T) {
	lines := []track.Line{
		track.NewLine(track.Standard, geom.V(0, 0), geom.V(100, 0)),
		track.NewLine(track.Scenery, geom.V(0, 50), geom.V(100, 50)),
	}
	v := Fit(geom.Rect{Min: geom.V(0, 0), Max: geom.V(100, 50)}, 50, 25)
	if v.Center != geom.V(50, 25) || v.Zoom != 2 {
		t.Fatalf("fit = %+v", v)
	}

	c := NewCanvas(v.Cols, v.Rows)
	Paint(c, v, lines)
	if !c.IsSet(50, 25) || c.InkAt(50, 25) != InkStandard {
		t.Errorf("ink at top = %d, want standard", c.InkAt(50, 25))
	}
	if !c.IsSet(50, 75) || c.InkAt(50, 75) != InkScenery {
		t.Errorf("ink at bottom = %d, want scenery", c.InkAt(50, 75))
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "classic" {
		t.Error("unknown theme should fall back to classic")
	}
	if NextTheme(ThemePaper).Name != "classic" {
		t.Error("theme cycle should wrap")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names incomplete")
	}
}

func newTestModel(t *testing.T, trk *track.Track, opts ...Option) (Model, *editor.Editor) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Playback.SmoothPlayback = false
	e := editor.New(cfg)
	e.ChangeTrack(context.Background(), trk)
	m := NewModel(context.Background(), e, opts...)
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return m, e
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelPlayback(t *testing.T) {
	trk, err := track.Sample("flat")
	if err != nil {
		t.Fatal(err)
	}
	m, e := newTestModel(t, trk)
	if m.canvas.Width != 120-panelWidth || m.canvas.Height != 29 {
		t.Fatalf("canvas = %dx%d", m.canvas.Width, m.canvas.Height)
	}

	m = send(m, key(" "))
	if e.State() != editor.Playing {
		t.Fatalf("state = %v, want playing", e.State())
	}
	for i := 0; i < 3; i++ {
		m = send(m, tickMsg(time.Now()))
	}
	if e.Offset() != 3 {
		t.Errorf("offset = %d, want 3", e.Offset())
	}
	if len(m.speeds) != 3 || len(m.trail) != 3 {
		t.Errorf("recorded %d speeds, %d trail points", len(m.speeds), len(m.trail))
	}
	view := m.View()
	for _, want := range []string{"FLAT", "PLAYING", "speed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = send(m, key(" "))
	if e.State() != editor.Paused {
		t.Errorf("state = %v, want paused", e.State())
	}
	m = send(m, tickMsg(time.Now()))
	if e.Offset() != 3 {
		t.Error("paused playback advanced")
	}

	m = send(m, key("esc"))
	if e.State() != editor.Stopped || len(m.trail) != 0 {
		t.Error("esc should stop and clear the run")
	}
}

func TestModelDragsKnob(t *testing.T) {
	m, e := newTestModel(t, track.New("drag"))
	ctx := context.Background()

	p := m.view.ToTrack(50, 10)
	if _, err := e.AddLine(ctx, track.NewLine(track.Standard, p, p.Add(geom.V(20, 0)))); err != nil {
		t.Fatal(err)
	}
	m = send(m, tea.MouseMsg{X: 50, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = send(m, tea.MouseMsg{X: 50, Y: 12, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = send(m, tea.MouseMsg{X: 50, Y: 12, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})

	lines := e.Snapshot(ctx).Lines
	if len(lines) != 1 {
		t.Fatalf("lines = %d", len(lines))
	}
	if want := p.Add(geom.V(0, 4)); lines[0].P1 != want {
		t.Errorf("P1 = %v, want %v", lines[0].P1, want)
	}
	if want := p.Add(geom.V(20, 0)); lines[0].P2 != want {
		t.Errorf("P2 = %v, want %v", lines[0].P2, want)
	}

	m = send(m, key("u"))
	if got := e.Snapshot(ctx).Lines[0].P1; got != p {
		t.Errorf("after undo P1 = %v, want %v", got, p)
	}
	_ = m
}

func TestModelLocksAndTools(t *testing.T) {
	m, e := newTestModel(t, track.New("locks"))

	if m.lockLabel() != "snap" {
		t.Errorf("default locks = %q", m.lockLabel())
	}
	m = send(m, key("7"))
	m = send(m, key("1"))
	if m.lockLabel() != "length" {
		t.Errorf("locks = %q, want length", m.lockLabel())
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if e.CurrentTool().Name() != "select" {
		t.Errorf("tool = %s, want select", e.CurrentTool().Name())
	}
	m = send(m, key("t"))
	if m.theme.Name != "retro" {
		t.Errorf("theme = %s", m.theme.Name)
	}
	m = send(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help not shown")
	}
	m = send(m, key("esc"))
	if m.showHelp {
		t.Error("esc should close help")
	}
}

func TestModelOpensTrack(t *testing.T) {
	m, e := newTestModel(t, track.New("empty"))

	m = send(m, key("o"))
	if m.picker == nil || !strings.Contains(m.View(), "OPEN TRACK") {
		t.Fatal("picker not open")
	}
	m = send(m, key("down"))
	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	if cmd == nil || m.picker != nil {
		t.Fatal("enter should close the picker and start loading")
	}
	m = send(m, cmd())

	want := track.SampleNames()[1]
	if got := e.Snapshot(context.Background()).Name; got != want {
		t.Errorf("track = %q, want %q", got, want)
	}
	if m.message != "opened "+want {
		t.Errorf("message = %q", m.message)
	}
}

func TestBackupEntries(t *testing.T) {
	st := storage.New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	trk, _ := track.Sample("ramp")
	if _, err := st.SaveTrack(context.Background(), trk.Snapshot(), storage.KindSave); err != nil {
		t.Fatal(err)
	}

	entries, err := BackupEntries(st)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Label != "ramp" {
		t.Fatalf("entries = %+v", entries)
	}
	got, err := entries[0].Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Checksum() != trk.Checksum() {
		t.Error("loaded track differs")
	}
}
