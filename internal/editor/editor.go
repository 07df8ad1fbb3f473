package editor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/san-kum/ridersim/internal/config"
	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/guard"
	"github.com/san-kum/ridersim/internal/physics"
	"github.com/san-kum/ridersim/internal/storage"
	"github.com/san-kum/ridersim/internal/timeline"
	"github.com/san-kum/ridersim/internal/tools"
	"github.com/san-kum/ridersim/internal/track"
	"github.com/san-kum/ridersim/internal/undo"
)

type PlaybackState int

const (
	Stopped PlaybackState = iota
	Playing
	Paused
)

func (s PlaybackState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("PlaybackState(%d)", int(s))
}

// Backuper persists snapshots for Backup and AutoLoadPrevious.
type Backuper interface {
	SaveTrack(ctx context.Context, snap track.Snapshot, kind storage.Kind) (storage.Metadata, error)
	Autosave(ctx context.Context, snap track.Snapshot) (storage.Metadata, bool, error)
	Prune(keep int) (int, error)
	Latest(kinds ...storage.Kind) (storage.Metadata, bool, error)
	LoadTrack(ctx context.Context, id string) (*track.Track, error)
}

var _ Backuper = (*storage.Store)(nil)

// Flag bookmarks a frame of a playback run.
type Flag struct {
	Frame   *timeline.Frame
	FrameID int
}

type Option func(*Editor)

func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

func WithStore(b Backuper) Option {
	return func(e *Editor) { e.store = b }
}

// WithStepper replaces the physics engine built from the config.
func WithStepper(s physics.Stepper) Option {
	return func(e *Editor) { e.stepper = s }
}

type Editor struct {
	cfg     config.Config
	logger  *zap.Logger
	store   Backuper
	stepper physics.Stepper
	guard   *guard.Guard

	renderDirty atomic.Bool
	needsDraw   atomic.Bool
	loading     atomic.Bool

	mu         sync.Mutex
	gen        uint64
	tl         *timeline.Timeline
	um         *undo.Manager
	state      PlaybackState
	offset     int
	startFrame int
	iteration  int
	flag       *Flag
	zoom       float64
	oldZoom    float64
	camera     Camera
	triggers   []*activeTrigger
	render     *timeline.Frame
	tools      map[string]tools.Tool
	tool       tools.Tool
}

var _ tools.Host = (*Editor)(nil)

// New returns an editor holding an empty track. A nil cfg means defaults.
func New(cfg *config.Config, opts ...Option) *Editor {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	e := &Editor{
		cfg:    *cfg,
		logger: zap.NewNop(),
		zoom:   cfg.Playback.DefaultZoom,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.stepper == nil {
		e.stepper = physics.NewEngine(cfg.Physics)
	}
	trk := track.New("untitled")
	e.guard = guard.New(trk, nil, nil, guard.WithLogger(e.logger))
	e.install(context.Background(), trk)
	return e
}

// binding forwards committed edits of one track to its timeline. A new
// binding is created per track so it never reads editor fields.
type binding struct {
	tl *timeline.Timeline
	e  *Editor
}

func (b *binding) NotifyChanged(changes ...track.Change) {
	b.tl.NotifyChanged(changes...)
	b.e.invalidateRender()
}

func (b *binding) NotifyStartChanged(start geom.Vec2, zeroStart bool) {
	b.tl.Restart(physics.NewRider(start, zeroStart))
	b.e.invalidateRender()
}

// ChangeTrack replaces the track, building a fresh timeline and undo
// history for it. Playback stops and the flag is cleared.
func (e *Editor) ChangeTrack(ctx context.Context, trk *track.Track) {
	e.install(ctx, trk)
	e.logger.Info("track changed",
		zap.String("name", trk.Name()),
		zap.Int("lines", trk.LineCount()))
}

func (e *Editor) install(ctx context.Context, trk *track.Track) {
	um := undo.NewManager(e.cfg.Editor.UndoLimit)
	tl := timeline.New(e.stepper, physics.NewRider(trk.Start(), trk.ZeroStart()),
		timeline.WithLogger(e.logger))
	e.guard.Replace(ctx, trk, um, &binding{tl: tl, e: e})

	e.mu.Lock()
	if e.state != Stopped {
		e.zoom = e.oldZoom
		e.camera.Pop()
	}
	e.gen++
	e.tl, e.um = tl, um
	e.state = Stopped
	e.offset, e.startFrame = 0, 0
	e.iteration = tl.Iterations()
	e.flag = nil
	e.triggers = nil
	e.render = nil
	e.camera.SetFrameCenter(trk.Start())
	e.buildToolsLocked()
	e.mu.Unlock()

	e.invalidateRender()
}

func (e *Editor) invalidateRender() {
	e.renderDirty.Store(true)
	e.needsDraw.Store(true)
}

func (e *Editor) Config() config.Config { return e.cfg }

func (e *Editor) Guard() *guard.Guard { return e.guard }

func (e *Editor) Timeline() *timeline.Timeline {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tl
}

func (e *Editor) UndoManager() *undo.Manager {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.um
}

func (e *Editor) Zoom() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zoom
}

// SetZoom changes the view zoom. Non-positive values are ignored.
func (e *Editor) SetZoom(z float64) {
	if z <= 0 {
		return
	}
	e.mu.Lock()
	e.zoom = z
	e.mu.Unlock()
	e.needsDraw.Store(true)
}

// Playing reports whether playback is running or paused.
func (e *Editor) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != Stopped
}

func (e *Editor) State() PlaybackState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Offset is the number of frames since the playback start.
func (e *Editor) Offset() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.offset
}

func (e *Editor) Invalidate() { e.needsDraw.Store(true) }

func (e *Editor) CameraCenter() geom.Vec2 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.camera.Center()
}

func (e *Editor) PanCamera(d geom.Vec2) {
	e.mu.Lock()
	e.camera.Pan(d)
	e.mu.Unlock()
	e.needsDraw.Store(true)
}

// SetStart moves the start pose. The timeline restarts from it.
func (e *Editor) SetStart(ctx context.Context, p geom.Vec2, zeroStart bool) {
	_ = e.guard.Update(ctx, func(w *guard.WriteHandle) error {
		w.SetStart(p, zeroStart)
		return nil
	}, guard.NoUndo())
}

// AddLine adds l as one undo action. A zero id is assigned.
func (e *Editor) AddLine(ctx context.Context, l track.Line) (track.Line, error) {
	var added track.Line
	err := e.guard.Update(ctx, func(w *guard.WriteHandle) error {
		var err error
		added, err = w.AddLine(l)
		return err
	})
	return added, err
}

func (e *Editor) RemoveLine(ctx context.Context, id track.LineID) error {
	return e.guard.Update(ctx, func(w *guard.WriteHandle) error {
		_, err := w.RemoveLine(id)
		return err
	})
}

// Snapshot copies the track under a read handle.
func (e *Editor) Snapshot(ctx context.Context) track.Snapshot {
	r := e.guard.AcquireRead(ctx)
	defer r.Release()
	return r.Snapshot()
}

func (e *Editor) startRider(ctx context.Context) physics.RiderState {
	r := e.guard.AcquireRead(ctx)
	defer r.Release()
	return physics.NewRider(r.Start(), r.ZeroStart())
}

func (e *Editor) frameAt(ctx context.Context, tl *timeline.Timeline, i int) *timeline.Frame {
	r := e.guard.AcquireRead(ctx)
	defer r.Release()
	return tl.GetFrame(r, i)
}
