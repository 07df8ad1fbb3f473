// Package storage keeps saved tracks, autosaves and crash backups on disk.
//
// Each entry is a directory under the base dir named by a uuid, holding a
// metadata.json and the track snapshot as track.json.
package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/ridersim/internal/track"
)

var ErrNotFound = errors.New("storage: backup not found")

type Kind string

const (
	KindSave     Kind = "save"
	KindAutosave Kind = "autosave"
	KindCrash    Kind = "crash"
)

const (
	metadataFile = "metadata.json"
	trackFile    = "track.json"
)

type Metadata struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Checksum  uint64    `json:"checksum"`
	Lines     int       `json:"lines"`
}

type Store struct {
	baseDir string
	logger  *zap.Logger
	now     func() time.Time

	mu           sync.Mutex
	lastAutosave uint64
	haveLast     bool
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(baseDir string, opts ...Option) *Store {
	s := &Store{baseDir: baseDir, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Init() error {
	return errors.Wrapf(os.MkdirAll(s.baseDir, 0755), "create %s", s.baseDir)
}

// SaveTrack writes snap as a new entry of the given kind.
func (s *Store) SaveTrack(ctx context.Context, snap track.Snapshot, kind Kind) (Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, snap, kind)
}

func (s *Store) saveLocked(ctx context.Context, snap track.Snapshot, kind Kind) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	meta := Metadata{
		ID:        uuid.NewString(),
		Name:      snap.Name,
		Kind:      kind,
		Timestamp: s.now().UTC(),
		Checksum:  snap.Checksum(),
		Lines:     len(snap.Lines),
	}
	dir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Metadata{}, errors.Wrap(err, "create backup dir")
	}
	if err := writeJSON(filepath.Join(dir, trackFile), snap); err != nil {
		return Metadata{}, err
	}
	// metadata goes last so List never sees a half written entry
	if err := writeJSON(filepath.Join(dir, metadataFile), meta); err != nil {
		return Metadata{}, err
	}
	s.logger.Info("track saved",
		zap.String("id", meta.ID),
		zap.String("kind", string(kind)),
		zap.Int("lines", meta.Lines))
	return meta, nil
}

// Autosave writes snap unless it matches the most recent autosave. The
// boolean reports whether anything was written.
func (s *Store) Autosave(ctx context.Context, snap track.Snapshot) (Metadata, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := snap.Checksum()
	if !s.haveLast {
		if latest, ok, err := s.latestLocked(KindAutosave); err == nil && ok {
			s.lastAutosave, s.haveLast = latest.Checksum, true
		}
	}
	if s.haveLast && s.lastAutosave == sum {
		s.logger.Debug("autosave skipped, track unchanged", zap.Uint64("checksum", sum))
		return Metadata{}, false, nil
	}
	meta, err := s.saveLocked(ctx, snap, KindAutosave)
	if err != nil {
		return Metadata{}, false, err
	}
	s.lastAutosave, s.haveLast = sum, true
	return meta, true, nil
}

// List returns every entry, newest first.
func (s *Store) List() ([]Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

func (s *Store) listLocked() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, errors.Wrap(err, "list backups")
	}

	out := make([]Metadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var meta Metadata
		if err := readJSON(filepath.Join(s.baseDir, entry.Name(), metadataFile), &meta); err != nil {
			continue
		}
		out = append(out, meta)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Latest returns the newest entry of any of the given kinds, or of any kind
// when none are given.
func (s *Store) Latest(kinds ...Kind) (Metadata, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestLocked(kinds...)
}

func (s *Store) latestLocked(kinds ...Kind) (Metadata, bool, error) {
	all, err := s.listLocked()
	if err != nil {
		return Metadata{}, false, err
	}
	for _, m := range all {
		if len(kinds) == 0 || hasKind(kinds, m.Kind) {
			return m, true, nil
		}
	}
	return Metadata{}, false, nil
}

func hasKind(kinds []Kind, k Kind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}

func (s *Store) Load(id string) (track.Snapshot, Metadata, error) {
	dir := filepath.Join(s.baseDir, id)
	var meta Metadata
	if err := readJSON(filepath.Join(dir, metadataFile), &meta); err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return track.Snapshot{}, Metadata{}, errors.Wrapf(ErrNotFound, "id %s", id)
		}
		return track.Snapshot{}, Metadata{}, err
	}
	var snap track.Snapshot
	if err := readJSON(filepath.Join(dir, trackFile), &snap); err != nil {
		return track.Snapshot{}, Metadata{}, err
	}
	return snap, meta, nil
}

// LoadTrack loads and indexes the entry id.
func (s *Store) LoadTrack(ctx context.Context, id string) (*track.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, _, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	return track.FromSnapshot(snap)
}

// Prune deletes autosaves and crash backups beyond the keep newest ones.
// Saves are never pruned.
func (s *Store) Prune(keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.listLocked()
	if err != nil {
		return 0, err
	}
	kept, removed := 0, 0
	for _, m := range all {
		if m.Kind == KindSave {
			continue
		}
		if kept < keep {
			kept++
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.baseDir, m.ID)); err != nil {
			return removed, errors.Wrapf(err, "remove %s", m.ID)
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("backups pruned", zap.Int("removed", removed), zap.Int("kept", kept))
	}
	return removed, nil
}

// ReadFile reads a standalone track JSON file.
func ReadFile(path string) (track.Snapshot, error) {
	var snap track.Snapshot
	err := readJSON(path, &snap)
	return snap, err
}

// WriteFile writes snap as a standalone track JSON file.
func WriteFile(path string, snap track.Snapshot) error {
	return writeJSON(path, snap)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	return errors.Wrapf(f.Sync(), "sync %s", path)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	return errors.Wrapf(json.Unmarshal(data, v), "decode %s", path)
}
