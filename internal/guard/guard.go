package guard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/track"
	"github.com/san-kum/ridersim/internal/undo"
)

// Notifier learns about committed geometry changes. It is called with the
// write lock held and must not acquire handles on the same guard.
type Notifier interface {
	NotifyChanged(changes ...track.Change)
}

// StartNotifier is optionally implemented by a Notifier that also needs to
// hear about start pose changes.
type StartNotifier interface {
	NotifyStartChanged(start geom.Vec2, zeroStart bool)
}

const DefaultSlowWrite = 250 * time.Millisecond

type Guard struct {
	mu sync.RWMutex

	trk    *track.Track
	undo   *undo.Manager
	notify Notifier

	logger    *zap.Logger
	slowWrite time.Duration
}

type Option func(*Guard)

func WithLogger(l *zap.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

// WithSlowWrite sets the hold time above which a write handle is logged.
func WithSlowWrite(d time.Duration) Option {
	return func(g *Guard) { g.slowWrite = d }
}

// New binds a guard to trk. um and n may be nil.
func New(trk *track.Track, um *undo.Manager, n Notifier, opts ...Option) *Guard {
	g := &Guard{
		trk:       trk,
		undo:      um,
		notify:    n,
		logger:    zap.NewNop(),
		slowWrite: DefaultSlowWrite,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type heldKey struct{ g *Guard }

type handleState struct {
	write    bool
	released atomic.Bool
}

func (g *Guard) held(ctx context.Context) *handleState {
	st, _ := ctx.Value(heldKey{g}).(*handleState)
	if st == nil || st.released.Load() {
		return nil
	}
	return st
}

// AcquireRead blocks until no writer holds the guard. A context that already
// carries a live read handle of this guard gets a nested handle that shares
// the outer lock.
func (g *Guard) AcquireRead(ctx context.Context) *ReadHandle {
	if st := g.held(ctx); st != nil {
		if st.write {
			panic(ErrReadWhileWriting)
		}
		return &ReadHandle{view: g.newView(ctx, false), nested: true}
	}
	g.mu.RLock()
	return &ReadHandle{view: g.newView(ctx, false)}
}

type writeOptions struct {
	noUndo bool
}

type WriteOption func(*writeOptions)

// NoUndo keeps the handle's mutations out of the undo history.
func NoUndo() WriteOption {
	return func(o *writeOptions) { o.noUndo = true }
}

// AcquireWrite blocks until every other handle is released.
func (g *Guard) AcquireWrite(ctx context.Context, opts ...WriteOption) *WriteHandle {
	g.checkWrite(ctx)
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}
	g.mu.Lock()
	return &WriteHandle{
		view:       g.newView(ctx, true),
		recordUndo: !o.noUndo && g.undo != nil,
		acquired:   time.Now(),
	}
}

func (g *Guard) checkWrite(ctx context.Context) {
	if st := g.held(ctx); st != nil {
		if st.write {
			panic(ErrReentrantWrite)
		}
		panic(ErrWriteWhileReading)
	}
}

func (g *Guard) newView(ctx context.Context, write bool) view {
	st := &handleState{write: write}
	return view{g: g, st: st, ctx: context.WithValue(ctx, heldKey{g}, st)}
}

// View runs fn with a read handle and always releases it.
func (g *Guard) View(ctx context.Context, fn func(r *ReadHandle) error) error {
	r := g.AcquireRead(ctx)
	defer r.Release()
	return fn(r)
}

// Update runs fn with a write handle and always releases it. Mutations made
// before fn returns an error stay applied and recorded.
func (g *Guard) Update(ctx context.Context, fn func(w *WriteHandle) error, opts ...WriteOption) error {
	w := g.AcquireWrite(ctx, opts...)
	defer w.Release()
	return fn(w)
}

// Replace swaps the bound track, undo manager and notifier in one exclusive
// section.
func (g *Guard) Replace(ctx context.Context, trk *track.Track, um *undo.Manager, n Notifier) {
	g.checkWrite(ctx)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.trk, g.undo, g.notify = trk, um, n
}
