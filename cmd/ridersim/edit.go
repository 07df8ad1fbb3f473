package main

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ridersim/internal/editor"
	"github.com/san-kum/ridersim/internal/logging"
	"github.com/san-kum/ridersim/internal/storage"
	"github.com/san-kum/ridersim/internal/viz"
)

// runEdit starts the editor with autosave running next to the terminal
// program. A panic in the program writes a crash backup.
func runEdit(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return errors.Wrap(err, "create data dir")
	}
	l, err := logging.New(cfg.LogLevel, false, filepath.Join(cfg.DataDir, "ridersim.log"))
	if err != nil {
		return err
	}
	logger = l
	defer func() { _ = logger.Sync() }()

	st, err := openStore()
	if err != nil {
		return err
	}
	e := editor.New(cfg, editor.WithLogger(logger), editor.WithStore(st))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	switch {
	case len(args) == 1:
		trk, err := loadTrack(ctx, args[0])
		if err != nil {
			return err
		}
		e.ChangeTrack(ctx, trk)
	case cfg.Editor.AutoLoadLast:
		e.AutoLoadPrevious(ctx)
	}

	m := viz.NewModel(ctx, e,
		viz.WithLogger(logger),
		viz.WithTheme(theme),
		viz.WithEntries(entries(st)))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.Run(gctx) })
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		switch {
		case errors.Is(err, tea.ErrProgramPanic):
			if berr := e.Backup(context.Background(), true); berr != nil {
				logger.Error("crash backup failed", zap.Error(berr))
			}
			return errors.Wrap(err, "editor crashed, backup written")
		case err != nil && !errors.Is(err, tea.ErrProgramKilled):
			return errors.Wrap(err, "run editor")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	// Keep the last edits even when the autosave timer has not fired.
	if err := e.Backup(context.Background(), false); err != nil {
		logger.Warn("final autosave failed", zap.Error(err))
	}
	return nil
}

func entries(st *storage.Store) func() []viz.Entry {
	return func() []viz.Entry {
		out := viz.SampleEntries()
		backups, err := viz.BackupEntries(st)
		if err != nil {
			logger.Warn("list backups", zap.Error(err))
			return out
		}
		return append(out, backups...)
	}
}
