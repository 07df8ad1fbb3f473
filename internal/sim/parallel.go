package sim

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ridersim/internal/physics"
)

// Ensemble rides the same track once per parameter set, concurrently.
type Ensemble struct {
	params map[string]physics.Params
	opts   []Option
	limit  int
}

func NewEnsemble(params map[string]physics.Params, opts ...Option) *Ensemble {
	return &Ensemble{params: params, opts: opts, limit: runtime.NumCPU()}
}

// SetLimit caps the rides running at once.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// Run returns one result per parameter set, sorted by name. lines must not
// change while it runs.
func (e *Ensemble) Run(ctx context.Context, lines physics.Lines, start physics.RiderState, cfg Config) ([]*Result, error) {
	names := make([]string, 0, len(e.params))
	for name := range e.params {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]*Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.limit, 1))
	for i, name := range names {
		g.Go(func() error {
			r, err := New(e.params[name], e.opts...).Run(ctx, lines, start, cfg)
			if err != nil {
				return err
			}
			r.Name = name
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
