package sim

import (
	"context"
	"errors"
	"math"
	"testing"
)

// decay is x' = -x.
type decay struct{}

func (decay) Derivative(x State, t float64) State { return State{-x[0]} }
func (decay) Dim() int                            { return 1 }

// blowup returns NaN once t passes a threshold.
type blowup struct{ after float64 }

func (b blowup) Derivative(x State, t float64) State {
	if t >= b.after {
		return State{math.NaN()}
	}
	return State{1}
}
func (b blowup) Dim() int { return 1 }

// euler is a local fixed-step integrator so this package's tests need no
// imports from the integrators package.
type euler struct{}

func (euler) Step(sys System, x State, t, dt float64) State {
	dx := sys.Derivative(x, t)
	out := make(State, len(x))
	for i := range x {
		out[i] = x[i] + dt*dx[i]
	}
	return out
}

func TestRun_GridShape(t *testing.T) {
	s := New(decay{}, euler{})

	tr, err := s.Run(context.Background(), State{1}, Config{Points: 101, Horizon: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if tr.Len() != 101 {
		t.Fatalf("expected 101 samples, got %d", tr.Len())
	}
	if tr.Times[0] != 0 {
		t.Errorf("expected grid to start at 0, got %f", tr.Times[0])
	}
	if math.Abs(tr.FinalTime()-1) > 1e-12 {
		t.Errorf("expected grid to end at horizon, got %f", tr.FinalTime())
	}
	// uniform spacing
	dt := tr.Times[1] - tr.Times[0]
	for i := 2; i < tr.Len(); i++ {
		if math.Abs((tr.Times[i]-tr.Times[i-1])-dt) > 1e-12 {
			t.Fatalf("non-uniform grid at index %d", i)
		}
	}
}

func TestRun_Accuracy(t *testing.T) {
	s := New(decay{}, euler{})

	tr, err := s.Run(context.Background(), State{1}, Config{Points: 10001, Horizon: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	exact := math.Exp(-1)
	if math.Abs(tr.FinalOmega()-exact) > 1e-3 {
		t.Errorf("expected %.6f, got %.6f", exact, tr.FinalOmega())
	}
}

func TestRun_Deterministic(t *testing.T) {
	s := New(decay{}, euler{})
	cfg := Config{Points: 500, Horizon: 2}

	a, err := s.Run(context.Background(), State{1}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	b, err := s.Run(context.Background(), State{1}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for i := range a.Omega {
		if a.Omega[i] != b.Omega[i] {
			t.Fatalf("runs differ at index %d", i)
		}
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	s := New(decay{}, euler{})

	tests := []struct {
		name string
		cfg  Config
	}{
		{"one point", Config{Points: 1, Horizon: 1}},
		{"zero horizon", Config{Points: 100, Horizon: 0}},
		{"negative horizon", Config{Points: 100, Horizon: -1}},
		{"adaptive without tolerance", Config{Points: 100, Horizon: 1, Adaptive: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), State{1}, tt.cfg); err == nil {
				t.Error("expected config error")
			}
		})
	}
}

func TestRun_NonFiniteState(t *testing.T) {
	s := New(blowup{after: 0.5}, euler{})

	_, err := s.Run(context.Background(), State{0}, Config{Points: 101, Horizon: 1})
	var ierr *IntegrationError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected IntegrationError, got %v", err)
	}
	if ierr.From < 0.4 || ierr.To > 0.6 {
		t.Errorf("error localized to wrong interval: [%.2f, %.2f]", ierr.From, ierr.To)
	}
}

func TestRun_Cancellation(t *testing.T) {
	s := New(decay{}, euler{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, State{1}, Config{Points: 100, Horizon: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestState(t *testing.T) {
	x := State{1, 2}
	c := x.Clone()
	c[0] = 99
	if x[0] != 1 {
		t.Error("clone should not alias the original")
	}

	if !x.IsValid() {
		t.Error("finite state reported invalid")
	}
	if (State{1, math.NaN()}).IsValid() {
		t.Error("NaN state reported valid")
	}
	if (State{math.Inf(1)}).IsValid() {
		t.Error("Inf state reported valid")
	}
}

func TestTrajectory_Empty(t *testing.T) {
	tr := &Trajectory{}
	if tr.FinalOmega() != 0 || tr.FinalTime() != 0 {
		t.Error("empty trajectory should report zeros")
	}
}
