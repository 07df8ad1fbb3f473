package editor_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ridersim/internal/config"
	"github.com/san-kum/ridersim/internal/editor"
	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/guard"
	"github.com/san-kum/ridersim/internal/tools"
	"github.com/san-kum/ridersim/internal/track"
	"github.com/san-kum/ridersim/internal/undo"
)

var _ = Describe("Editor", func() {
	var (
		ctx context.Context
		cfg *config.Config
		e   *editor.Editor
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = config.DefaultConfig()
	})

	JustBeforeEach(func() {
		e = editor.New(cfg, editor.WithStepper(slideStepper{}))
	})

	Describe("playback", func() {
		It("starts stopped at frame 0", func() {
			Expect(e.State()).To(Equal(editor.Stopped))
			Expect(e.CurrentFrame()).To(Equal(0))
			Expect(e.IterationsOffset()).To(Equal(4))
			Expect(e.RenderFrame(ctx).State.Center().X).To(BeNumerically("~", startX, 1e-9))
		})

		It("plays, pauses and stops", func() {
			e.StartIgnoreFlag(ctx)
			Expect(e.State()).To(Equal(editor.Playing))
			Expect(e.Playing()).To(BeTrue())

			e.Update(ctx, 5)
			Expect(e.Offset()).To(Equal(5))
			Expect(e.CurrentFrame()).To(Equal(5))
			Expect(e.RenderFrame(ctx).State.Center().X).To(BeNumerically("~", startX+5, 1e-9))

			e.TogglePause()
			Expect(e.State()).To(Equal(editor.Paused))
			Expect(e.Playing()).To(BeTrue(), "paused still counts as playback for tools")
			e.TogglePause()
			Expect(e.State()).To(Equal(editor.Playing))

			e.Stop(ctx)
			Expect(e.State()).To(Equal(editor.Stopped))
			Expect(e.Offset()).To(Equal(0))
			Expect(e.CurrentFrame()).To(Equal(0))
		})

		It("toggles pause only during playback", func() {
			e.TogglePause()
			Expect(e.State()).To(Equal(editor.Stopped))
		})

		It("clamps PreviousFrame at zero", func() {
			e.StartIgnoreFlag(ctx)
			e.NextFrame(ctx)
			e.PreviousFrame(ctx)
			e.PreviousFrame(ctx)
			Expect(e.Offset()).To(Equal(0))
		})

		It("restores the editing camera when playback stops", func() {
			Expect(e.CameraCenter()).To(Equal(geom.V(0, 0)))
			e.StartIgnoreFlag(ctx)
			Expect(e.CameraCenter().X).To(BeNumerically("~", startX, 1e-9))
			e.Stop(ctx)
			Expect(e.CameraCenter()).To(Equal(geom.V(0, 0)))
		})

		It("leans the camera toward the predicted rider", func() {
			e.StartIgnoreFlag(ctx)
			e.Update(ctx, 1)
			Expect(e.CameraCenter().X).To(BeNumerically("~", startX+1.5, 1e-9))
		})

		Context("with a specific playback zoom", func() {
			BeforeEach(func() {
				cfg.Playback.ZoomMode = config.ZoomSpecific
				cfg.Playback.Zoom = 8
			})

			It("applies it while playing and restores the old zoom", func() {
				e.SetZoom(2)
				e.StartIgnoreFlag(ctx)
				Expect(e.Zoom()).To(Equal(8.0))
				e.Stop(ctx)
				Expect(e.Zoom()).To(Equal(2.0))
			})
		})

		It("renders partial iterations of the current frame", func() {
			e.StartIgnoreFlag(ctx)
			e.SetFrame(ctx, 3)
			e.SetIterationsOffset(2)
			Expect(e.RenderFrame(ctx).State.Center().X).To(BeNumerically("~", startX+2.5, 1e-9))

			e.SetFrame(ctx, 3)
			Expect(e.IterationsOffset()).To(Equal(4))
			Expect(e.RenderFrame(ctx).State.Center().X).To(BeNumerically("~", startX+3, 1e-9))
		})

		It("panics on an iteration offset out of range", func() {
			Expect(func() { e.SetIterationsOffset(5) }).To(PanicWith(MatchError(editor.ErrIterationRange)))
			Expect(func() { e.SetIterationsOffset(-1) }).To(PanicWith(MatchError(editor.ErrIterationRange)))
		})

		It("interpolates between frames for smooth playback", func() {
			e.StartIgnoreFlag(ctx)
			e.Update(ctx, 4)
			Expect(e.Lerp(ctx, 0.5).Center().X).To(BeNumerically("~", startX+3.5, 1e-9))
			Expect(e.Lerp(ctx, 1).Center().X).To(BeNumerically("~", startX+4, 1e-9))

			e.TogglePause()
			Expect(e.Lerp(ctx, 0.5).Center().X).To(BeNumerically("~", startX+4, 1e-9))
		})
	})

	Describe("render rider", func() {
		It("is cached until an edit invalidates it", func() {
			e.StartIgnoreFlag(ctx)
			e.Update(ctx, 5)
			first := e.RenderFrame(ctx)
			Expect(e.RenderFrame(ctx)).To(BeIdenticalTo(first))

			_, err := e.AddLine(ctx, pad(3))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Timeline().Length()).To(BeNumerically("<=", 4))

			second := e.RenderFrame(ctx)
			Expect(second).NotTo(BeIdenticalTo(first))
			Expect(second.State).To(Equal(first.State))
		})

		It("keeps the cache when the edit is out of reach", func() {
			e.StartIgnoreFlag(ctx)
			e.Update(ctx, 5)
			first := e.RenderFrame(ctx)
			_, err := e.AddLine(ctx, std(500, 500, 520, 500))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Timeline().Length()).To(Equal(6))
			Expect(e.RenderFrame(ctx).State).To(Equal(first.State))
		})
	})

	Describe("flag", func() {
		It("is cleared when set while stopped", func() {
			e.StartIgnoreFlag(ctx)
			e.Update(ctx, 3)
			e.Flag(ctx)
			Expect(e.GetFlag()).NotTo(BeNil())
			e.Stop(ctx)
			e.Flag(ctx)
			Expect(e.GetFlag()).To(BeNil())
		})

		It("starts playback from the flagged frame", func() {
			e.StartIgnoreFlag(ctx)
			e.Update(ctx, 10)
			e.Flag(ctx)
			flag := e.GetFlag()
			Expect(flag.FrameID).To(Equal(10))
			e.Stop(ctx)

			e.StartFromFlag(ctx)
			Expect(e.Offset()).To(Equal(0))
			Expect(e.CurrentFrame()).To(Equal(10))
			Expect(e.RenderFrame(ctx).State).To(Equal(flag.Frame.State))

			e.Update(ctx, 2)
			Expect(e.CurrentFrame()).To(Equal(12))
		})

		It("starts from the track start without a flag", func() {
			e.StartFromFlag(ctx)
			Expect(e.CurrentFrame()).To(Equal(0))
			Expect(e.RenderFrame(ctx).State.Center().X).To(BeNumerically("~", startX, 1e-9))
		})

		It("resumes at the flag and checks it still matches", func() {
			e.StartIgnoreFlag(ctx)
			e.Update(ctx, 10)
			e.Flag(ctx)
			e.Stop(ctx)

			Expect(e.ResumeFromFlag(ctx)).To(BeTrue())
			Expect(e.Offset()).To(Equal(10))
			e.Stop(ctx)

			_, err := e.AddLine(ctx, wall(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.ResumeFromFlag(ctx)).To(BeFalse())
			Expect(e.RenderFrame(ctx).State.Failed()).To(BeTrue())
		})

		It("can be restored", func() {
			e.StartIgnoreFlag(ctx)
			e.Update(ctx, 4)
			e.Flag(ctx)
			saved := e.GetFlag()
			e.Flag(ctx)
			e.Stop(ctx)
			e.Flag(ctx)
			Expect(e.GetFlag()).To(BeNil())
			e.RestoreFlag(saved)
			Expect(e.GetFlag()).To(BeIdenticalTo(saved))
		})
	})

	Describe("zoom triggers", func() {
		It("eases the zoom toward the trigger target", func() {
			l, err := e.AddLine(ctx, pad(3))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Guard().Update(ctx, func(w *guard.WriteHandle) error {
				w.SetTriggers([]track.Trigger{{LineID: l.ID, Zoom: 10, Frames: 4}})
				return nil
			})).To(Succeed())

			e.StartIgnoreFlag(ctx)
			Expect(e.Zoom()).To(Equal(4.0))
			e.Update(ctx, 2)
			Expect(e.Zoom()).To(Equal(4.0))
			e.Update(ctx, 1)
			Expect(e.Zoom()).To(BeNumerically("~", 5.5, 1e-9))
			e.Update(ctx, 3)
			Expect(e.Zoom()).To(BeNumerically("~", 10, 1e-9))
			e.Update(ctx, 2)
			Expect(e.Zoom()).To(BeNumerically("~", 10, 1e-9))

			e.Stop(ctx)
			Expect(e.Zoom()).To(Equal(4.0))
		})
	})

	Describe("editing", func() {
		It("restarts the timeline when the start moves", func() {
			e.SetStart(ctx, geom.V(100, 0), false)
			Expect(e.RenderFrame(ctx).State.Center().X).To(BeNumerically("~", 100+startX, 1e-9))
			Expect(e.UndoManager().HasChanges()).To(BeFalse())
		})

		It("forwards pointer events to the current tool and undoes them", func() {
			l, err := e.AddLine(ctx, std(100, 100, 120, 100))
			Expect(err).NotTo(HaveOccurred())

			e.PointerDown(ctx, tools.Pointer{Pos: geom.V(110, 100)})
			e.PointerMove(ctx, tools.Pointer{Pos: geom.V(110, 110)})
			e.PointerUp(ctx, tools.Pointer{Pos: geom.V(110, 110)})
			Expect(lineY(ctx, e, l.ID)).To(Equal(110.0))
			Expect(e.UndoManager().UndoCount()).To(Equal(2))

			Expect(e.Undo(ctx)).To(Succeed())
			Expect(lineY(ctx, e, l.ID)).To(Equal(100.0))
			Expect(e.Undo(ctx)).To(Succeed())
			Expect(e.Status(ctx).Lines).To(Equal(0))
			Expect(e.Undo(ctx)).To(MatchError(undo.ErrNothingToUndo))

			Expect(e.Redo(ctx)).To(Succeed())
			Expect(e.Redo(ctx)).To(Succeed())
			Expect(lineY(ctx, e, l.ID)).To(Equal(110.0))
			Expect(e.Redo(ctx)).To(MatchError(undo.ErrNothingToRedo))
		})

		It("commits an unfinished drag before undoing", func() {
			l, _ := e.AddLine(ctx, std(100, 100, 120, 100))
			e.PointerDown(ctx, tools.Pointer{Pos: geom.V(110, 100)})
			e.PointerMove(ctx, tools.Pointer{Pos: geom.V(110, 104)})

			Expect(e.Undo(ctx)).To(Succeed())
			Expect(lineY(ctx, e, l.ID)).To(Equal(100.0))
			Expect(e.UndoManager().UndoCount()).To(Equal(1))
		})

		It("switches tools", func() {
			Expect(e.ToolNames()).To(Equal([]string{"move", "select"}))
			Expect(e.CurrentTool().Name()).To(Equal("move"))
			Expect(e.SelectTool(ctx, "select")).To(Succeed())
			Expect(e.CurrentTool().Name()).To(Equal("select"))
			Expect(e.SelectTool(ctx, "pencil")).To(MatchError(editor.ErrUnknownTool))
			Expect(e.CurrentTool().Name()).To(Equal("select"))
		})

		It("commits the move tool's drag when switching away", func() {
			l, _ := e.AddLine(ctx, std(100, 100, 120, 100))
			e.PointerDown(ctx, tools.Pointer{Pos: geom.V(110, 100)})
			e.PointerMove(ctx, tools.Pointer{Pos: geom.V(110, 106)})
			Expect(e.SelectTool(ctx, "select")).To(Succeed())
			Expect(e.UndoManager().UndoCount()).To(Equal(2))
			Expect(lineY(ctx, e, l.ID)).To(Equal(106.0))
		})

		It("copies, pastes and deletes through the select tool", func() {
			_, _ = e.AddLine(ctx, std(100, 100, 120, 100))
			Expect(e.SelectTool(ctx, "select")).To(Succeed())
			e.PointerDown(ctx, tools.Pointer{Pos: geom.V(90, 90)})
			e.PointerMove(ctx, tools.Pointer{Pos: geom.V(130, 110)})
			e.PointerUp(ctx, tools.Pointer{Pos: geom.V(130, 110)})

			e.Copy()
			e.Paste(ctx)
			Expect(e.Status(ctx).Lines).To(Equal(2))
			e.Delete(ctx)
			Expect(e.Status(ctx).Lines).To(Equal(1))
			Expect(e.UndoManager().UndoCount()).To(Equal(3))
		})
	})

	Describe("ChangeTrack", func() {
		It("replaces the track, history and playback state", func() {
			_, _ = e.AddLine(ctx, std(0, 0, 10, 0))
			e.StartIgnoreFlag(ctx)
			e.Update(ctx, 3)
			e.Flag(ctx)

			trk, err := track.Sample("ramp")
			Expect(err).NotTo(HaveOccurred())
			e.ChangeTrack(ctx, trk)

			s := e.Status(ctx)
			Expect(s.State).To(Equal(editor.Stopped))
			Expect(s.Name).To(Equal("ramp"))
			Expect(s.Lines).To(Equal(trk.LineCount()))
			Expect(s.HasFlag).To(BeFalse())
			Expect(s.CanUndo).To(BeFalse())
			Expect(e.Zoom()).To(Equal(4.0))
		})
	})

	Describe("status", func() {
		It("reports what the front end draws", func() {
			e.StartIgnoreFlag(ctx)
			e.Update(ctx, 2)
			s := e.Status(ctx)
			Expect(s.State).To(Equal(editor.Playing))
			Expect(s.Frame).To(Equal(2))
			Expect(s.Iteration).To(Equal(4))
			Expect(s.Tool).To(Equal("move"))
			Expect(s.Failed).To(BeFalse())
		})

		It("signals redraws", func() {
			Expect(e.ConsumeDraw()).To(BeTrue())
			Expect(e.ConsumeDraw()).To(BeFalse())
			e.StartIgnoreFlag(ctx)
			Expect(e.NeedsDraw()).To(BeTrue())
		})
	})
})

func lineY(ctx context.Context, e *editor.Editor, id track.LineID) float64 {
	r := e.Guard().AcquireRead(ctx)
	defer r.Release()
	l, ok := r.Line(id)
	Expect(ok).To(BeTrue())
	return l.P1.Y
}
