package sim

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/ridersim/internal/metrics"
	"github.com/san-kum/ridersim/internal/physics"
	"github.com/san-kum/ridersim/internal/timeline"
)

var ErrInvalidConfig = errors.New("sim: invalid config")

// Simulator rides a track frame by frame, feeding each frame to its metrics
// and observers.
type Simulator struct {
	params    physics.Params
	stepper   physics.Stepper
	metrics   MetricSet
	observers []Observer
	logger    *zap.Logger
}

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithStepper replaces the engine built from the params.
func WithStepper(st physics.Stepper) Option {
	return func(s *Simulator) { s.stepper = st }
}

func WithMetrics(ms MetricSet) Option {
	return func(s *Simulator) { s.metrics = ms }
}

func New(p physics.Params, opts ...Option) *Simulator {
	s := &Simulator{
		params:  p,
		metrics: metrics.Standard,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.stepper == nil {
		s.stepper = physics.NewEngine(p)
	}
	return s
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run simulates cfg.Frames frames from start. Cancelling ctx returns the
// frames simulated so far with ctx's error.
func (s *Simulator) Run(ctx context.Context, lines physics.Lines, start physics.RiderState, cfg Config) (*Result, error) {
	if cfg.Frames <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "frames %d <= 0", cfg.Frames)
	}

	began := time.Now()
	ms := s.metrics(s.params)
	result := &Result{
		Params:  s.params,
		Frames:  make([]*timeline.Frame, 0, cfg.Frames),
		Metrics: make(map[string]float64, len(ms)),
	}
	tl := timeline.New(s.stepper, start, timeline.WithLogger(s.logger))

	finish := func() {
		for k, v := range metrics.Collect(result.Frames, ms...) {
			result.Metrics[k] = v
		}
		result.Elapsed = time.Since(began)
	}

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			finish()
			return result, ctx.Err()
		default:
		}

		f := tl.GetFrame(lines, i)
		if cfg.ValidateState && !f.State.IsValid() {
			result.Errors = append(result.Errors, RideError{Frame: i, Message: "invalid state (NaN/Inf)"})
			break
		}
		result.Frames = append(result.Frames, f)
		for _, obs := range s.observers {
			obs.OnFrame(f)
		}
		if cfg.StopOnCrash && f.State.Failed() {
			break
		}
	}

	finish()
	s.logger.Debug("ride finished",
		zap.Int("frames", len(result.Frames)),
		zap.Bool("crashed", result.Crashed()),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}
