package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ridersim/internal/config"
	"github.com/san-kum/ridersim/internal/geom"
	"github.com/san-kum/ridersim/internal/physics"
	"github.com/san-kum/ridersim/internal/timeline"
	"github.com/san-kum/ridersim/internal/track"
)

// scriptedStepper moves every point one unit right and applies mark at
// frame at.
type scriptedStepper struct {
	at   int
	mark func(*physics.RiderState)
	n    int
}

func (s *scriptedStepper) Iterations() int { return 1 }

func (s *scriptedStepper) Step(prev physics.RiderState, _ physics.Lines, _ int) physics.StepResult {
	next := prev.Translate(geom.V(1, 0))
	s.n++
	if s.mark != nil && s.n == s.at {
		s.mark(&next)
	}
	return physics.StepResult{State: next}
}

func TestSimulatorRun(t *testing.T) {
	trk, err := track.Sample("flat")
	if err != nil {
		t.Fatal(err)
	}
	s := New(physics.DefaultParams())

	var seen int
	s.AddObserver(ObserverFunc(func(f *timeline.Frame) { seen++ }))

	result, err := s.Run(context.Background(), trk, physics.NewRider(trk.Start(), trk.ZeroStart()), Config{Frames: 40})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Frames) != 40 || seen != 40 {
		t.Errorf("frames = %d, observed = %d, want 40", len(result.Frames), seen)
	}
	for i, f := range result.Frames {
		if f.Index != i {
			t.Fatalf("frame %d has index %d", i, f.Index)
		}
	}
	for _, name := range []string{"mean_speed", "max_speed", "crash_frame"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("metric %s missing", name)
		}
	}
	if len(result.States()) != 40 {
		t.Error("states incomplete")
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	_, err := New(physics.DefaultParams()).Run(context.Background(), track.New("x"), physics.NewRider(geom.V(0, 0), false), Config{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestSimulatorStopOnCrash(t *testing.T) {
	st := &scriptedStepper{at: 5, mark: func(s *physics.RiderState) { s.Crashed = true }}
	s := New(physics.DefaultParams(), WithStepper(st))

	result, err := s.Run(context.Background(), track.New("x"), physics.NewRider(geom.V(0, 0), false), Config{Frames: 20, StopOnCrash: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Frames) != 6 || !result.Crashed() {
		t.Errorf("frames = %d crashed = %v, want 6 frames ending in a crash", len(result.Frames), result.Crashed())
	}
}

func TestSimulatorValidateState(t *testing.T) {
	st := &scriptedStepper{at: 3, mark: func(s *physics.RiderState) { s.Points[physics.Nose].Pos.X = math.NaN() }}
	s := New(physics.DefaultParams(), WithStepper(st))

	result, err := s.Run(context.Background(), track.New("x"), physics.NewRider(geom.V(0, 0), false), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Frames) != 3 {
		t.Errorf("frames = %d, want 3", len(result.Frames))
	}
	var re RideError
	if len(result.Errors) != 1 || !errors.As(result.Errors[0], &re) || re.Frame != 3 {
		t.Errorf("errors = %v", result.Errors)
	}
}

func TestSimulatorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := New(physics.DefaultParams()).Run(ctx, track.New("x"), physics.NewRider(geom.V(0, 0), false), Config{Frames: 10})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want canceled", err)
	}
	if result == nil || len(result.Frames) != 0 {
		t.Error("cancelled ride should return an empty result")
	}
}

func TestEnsembleRun(t *testing.T) {
	trk, err := track.Sample("ramp")
	if err != nil {
		t.Fatal(err)
	}
	e := NewEnsemble(config.Presets)
	e.SetLimit(2)

	results, err := e.Run(context.Background(), trk, physics.NewRider(trk.Start(), trk.ZeroStart()), Config{Frames: 60})
	if err != nil {
		t.Fatal(err)
	}
	names := config.ListPresets()
	if len(results) != len(names) {
		t.Fatalf("results = %d, want %d", len(results), len(names))
	}
	for i, r := range results {
		if r.Name != names[i] {
			t.Errorf("result %d = %s, want %s", i, r.Name, names[i])
		}
		if r.Params != config.Presets[r.Name] {
			t.Errorf("%s ran with the wrong params", r.Name)
		}
		if len(r.Frames) != 60 {
			t.Errorf("%s: frames = %d", r.Name, len(r.Frames))
		}
	}
}
