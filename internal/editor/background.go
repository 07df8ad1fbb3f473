package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ridersim/internal/storage"
	"github.com/san-kum/ridersim/internal/track"
)

// Loader builds a track away from the guard.
type Loader func(ctx context.Context) (*track.Track, error)

// Backup writes the track to the store. A crash backup is always written;
// an autosave only when the undo history has changes, and the store skips
// it when the track matches the last autosave. The snapshot is taken under
// a read handle and written after it is released. Empty tracks are skipped.
func (e *Editor) Backup(ctx context.Context, crash bool) error {
	if e.store == nil {
		return ErrNoStore
	}
	r := e.guard.AcquireRead(ctx)
	if r.LineCount() == 0 {
		r.Release()
		return nil
	}
	snap := r.Snapshot()
	r.Release()

	if crash {
		_, err := e.store.SaveTrack(ctx, snap, storage.KindCrash)
		return errors.Wrap(err, "crash backup")
	}
	if !e.UndoManager().HasChanges() {
		return nil
	}
	_, wrote, err := e.store.Autosave(ctx, snap)
	if err != nil {
		return errors.Wrap(err, "autosave")
	}
	if wrote && e.cfg.Editor.MaxBackups > 0 {
		if _, err := e.store.Prune(e.cfg.Editor.MaxBackups); err != nil {
			return errors.Wrap(err, "prune backups")
		}
	}
	return nil
}

// Save writes the track to the store as a named save, even when it is
// empty or unchanged.
func (e *Editor) Save(ctx context.Context) (storage.Metadata, error) {
	if e.store == nil {
		return storage.Metadata{}, ErrNoStore
	}
	r := e.guard.AcquireRead(ctx)
	snap := r.Snapshot()
	r.Release()
	meta, err := e.store.SaveTrack(ctx, snap, storage.KindSave)
	if err != nil {
		return storage.Metadata{}, errors.Wrap(err, "save")
	}
	e.logger.Info("track saved", zap.String("id", meta.ID), zap.Int("lines", meta.Lines))
	return meta, nil
}

// LoadAsync runs load on its own goroutine and swaps the result in. A
// failed or panicking load is logged and the current track stays. The
// returned channel closes when the attempt is over.
func (e *Editor) LoadAsync(ctx context.Context, load Loader) <-chan struct{} {
	done := make(chan struct{})
	e.loading.Store(true)
	go func() {
		defer close(done)
		defer e.loading.Store(false)
		defer e.needsDraw.Store(true)
		if err := e.runLoad(ctx, load); err != nil {
			e.logger.Warn("track load failed", zap.Error(err))
		}
	}()
	return done
}

func (e *Editor) runLoad(ctx context.Context, load Loader) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("load panicked: %v", r)
		}
	}()
	trk, err := load(ctx)
	if err != nil {
		return err
	}
	if err := trk.Validate(); err != nil {
		return errors.Wrap(err, "loaded track")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.ChangeTrack(ctx, trk)
	return nil
}

// AutoLoadPrevious loads the newest saved, autosaved or crash-backed-up
// track in the background.
func (e *Editor) AutoLoadPrevious(ctx context.Context) <-chan struct{} {
	return e.LoadAsync(ctx, func(ctx context.Context) (*track.Track, error) {
		if e.store == nil {
			return nil, ErrNoStore
		}
		meta, ok, err := e.store.Latest(storage.KindSave, storage.KindAutosave, storage.KindCrash)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New("no previous track")
		}
		return e.store.LoadTrack(ctx, meta.ID)
	})
}

// Run autosaves every AutosaveInterval until ctx is done. Autosave
// failures are logged and do not stop the loop.
func (e *Editor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	interval := e.cfg.Editor.AutosaveInterval
	if e.store != nil && interval > 0 {
		g.Go(func() error {
			t := time.NewTicker(interval)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-t.C:
					e.safeBackup(ctx)
				}
			}
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		return nil
	})
	return g.Wait()
}

func (e *Editor) safeBackup(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("autosave panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()
	if err := e.Backup(ctx, false); err != nil && !errors.Is(err, context.Canceled) {
		e.logger.Warn("autosave failed", zap.Error(err))
	}
}
