package viz

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ridersim/internal/editor"
	"github.com/san-kum/ridersim/internal/tools"
)

// Terminals do not report held keys, so locks are toggled on and stay on.
var lockKeys = []struct {
	key  string
	mod  tools.Modifiers
	name string
}{
	{"1", tools.ModSnapSiblings, "snap"},
	{"2", tools.ModBothJoints, "both"},
	{"3", tools.ModAxisLock, "axis"},
	{"4", tools.ModPerpAxisLock, "perp"},
	{"5", tools.ModAngleLock, "angle"},
	{"6", tools.ModDegreeSnap, "15°"},
	{"7", tools.ModLengthLock, "length"},
	{"8", tools.ModLifeLock, "life"},
}

const footer = "space play  p pause  esc stop  f flag  tab tool  o open  ? help  q quit"

const helpText = `KEYBOARD SHORTCUTS

space   play from flag       i   play ignoring flag
r       resume at flag       p   pause / resume
esc     stop                 R   reset to start
f / F   set / clear flag     , . previous / next frame
[ ]     sub-frame iterations
u       undo                 U   redo
tab     next tool            o   open track
c v x   copy paste delete    ctrl+s  save
+ -     zoom                 ←↑↓→    pan
1-8     toggle locks: snap both axis perp angle 15° length life
mouse   shift: both joints  ctrl: 15° snap  alt: angle lock
t       next theme           ?   close help
q       quit`

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if m.showHelp {
		if key == "?" || key == "esc" || key == "q" {
			m.showHelp = false
		}
		return nil
	}
	if m.picker != nil {
		return m.pickerKey(key)
	}

	for _, l := range lockKeys {
		if key == l.key {
			m.sticky ^= l.mod
			return nil
		}
	}

	ctx := m.ctx
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case " ":
		if m.e.State() == editor.Stopped {
			m.clearRun()
			m.e.StartFromFlag(ctx)
		} else {
			m.e.TogglePause()
		}
	case "p":
		m.e.TogglePause()
	case "i":
		m.clearRun()
		m.e.StartIgnoreFlag(ctx)
	case "r":
		if !m.e.ResumeFromFlag(ctx) {
			m.message = "flag no longer matches the track"
		}
	case "esc":
		m.e.Stop(ctx)
		m.clearRun()
	case "R":
		m.e.Reset(ctx)
		m.clearRun()
	case "f":
		m.e.Flag(ctx)
		m.message = fmt.Sprintf("flag at frame %d", m.e.CurrentFrame())
	case "F":
		m.e.RestoreFlag(nil)
	case ".":
		m.e.NextFrame(ctx)
		m.e.UpdateCamera(ctx)
	case ",":
		m.e.PreviousFrame(ctx)
		m.e.UpdateCamera(ctx)
	case "]":
		m.e.SetIterationsOffset(min(m.e.IterationsOffset()+1, m.e.Timeline().Iterations()))
	case "[":
		m.e.SetIterationsOffset(max(m.e.IterationsOffset()-1, 0))
	case "u", "ctrl+z":
		m.reportErr("undo", m.e.Undo(ctx))
	case "U", "ctrl+y":
		m.reportErr("redo", m.e.Redo(ctx))
	case "tab":
		m.nextTool()
	case "c":
		m.e.Copy()
	case "v":
		m.e.Paste(ctx)
	case "x", "delete", "backspace":
		m.e.Delete(ctx)
	case "ctrl+s":
		m.save()
	case "o":
		m.openPicker()
	case "+", "=":
		m.zoom(zoomStep)
	case "-", "_":
		m.zoom(1 / zoomStep)
	case "left":
		m.pan(-1, 0)
	case "right":
		m.pan(1, 0)
	case "up":
		m.pan(0, -1)
	case "down":
		m.pan(0, 1)
	case "t":
		m.setTheme(NextTheme(m.theme))
	case "?":
		m.showHelp = true
	}
	return nil
}

func (m *Model) pickerKey(key string) tea.Cmd {
	switch key {
	case "esc", "o", "q":
		m.picker = nil
	case "up", "k":
		m.picker.move(-1)
	case "down", "j":
		m.picker.move(1)
	case "enter":
		en, ok := m.picker.selected()
		m.picker = nil
		if ok {
			return m.load(en)
		}
	}
	return nil
}

func (m *Model) nextTool() {
	names := m.e.ToolNames()
	cur := m.e.CurrentTool().Name()
	for i, n := range names {
		if n == cur {
			m.reportErr("tool", m.e.SelectTool(m.ctx, names[(i+1)%len(names)]))
			return
		}
	}
}

func (m *Model) reportErr(what string, err error) {
	if err == nil {
		return
	}
	m.message = what + ": " + err.Error()
}

func (m *Model) modifiers(msg tea.MouseMsg) tools.Modifiers {
	mods := m.sticky
	if msg.Shift {
		mods |= tools.ModBothJoints
	}
	if msg.Ctrl {
		mods |= tools.ModDegreeSnap
	}
	if msg.Alt {
		mods |= tools.ModAngleLock
	}
	return mods
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.zoom(zoomStep)
		return
	case tea.MouseButtonWheelDown:
		m.zoom(1 / zoomStep)
		return
	}
	if m.picker != nil || m.showHelp {
		return
	}
	inside := msg.X >= 0 && msg.Y >= 0 && msg.X < m.canvas.Width && msg.Y < m.canvas.Height
	p := tools.Pointer{Pos: m.view.ToTrack(msg.X, msg.Y), Mods: m.modifiers(msg)}
	switch msg.Action {
	case tea.MouseActionPress:
		if inside && msg.Button == tea.MouseButtonLeft {
			m.e.PointerDown(m.ctx, p)
		}
	case tea.MouseActionMotion:
		m.e.PointerMove(m.ctx, p)
	case tea.MouseActionRelease:
		m.e.PointerUp(m.ctx, p)
	}
}
