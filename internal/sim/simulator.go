package sim

import (
	"context"
	"fmt"
)

// Simulator drives one System over a fixed time grid.
type Simulator struct {
	sys   System
	integ Integrator
}

func New(sys System, integ Integrator) *Simulator {
	return &Simulator{sys: sys, integ: integ}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Points < 2 {
		return fmt.Errorf("grid needs at least 2 points, got %d", cfg.Points)
	}
	if cfg.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %f", cfg.Horizon)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	return nil
}

// Run integrates from x0 at t=0 and returns one sample per grid point.
// Deterministic for fixed inputs; the only error sources are cancellation,
// bad config and non-finite state.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Trajectory, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	dt := cfg.Horizon / float64(cfg.Points-1)
	tr := &Trajectory{
		Times: make([]float64, 0, cfg.Points),
		Omega: make([]float64, 0, cfg.Points),
	}

	x := x0.Clone()
	tr.Times = append(tr.Times, 0)
	tr.Omega = append(tr.Omega, x[0])

	for i := 1; i < cfg.Points; i++ {
		select {
		case <-ctx.Done():
			return tr, ctx.Err()
		default:
		}

		t0 := float64(i-1) * dt
		t1 := float64(i) * dt

		var err error
		if cfg.Adaptive {
			x, err = s.adaptiveAdvance(x, t0, dt, cfg.Tolerance)
			if err != nil {
				return tr, err
			}
		} else {
			x = s.integ.Step(s.sys, x, t0, dt)
		}

		if !x.IsValid() {
			return tr, &IntegrationError{From: t0, To: t1}
		}

		tr.Times = append(tr.Times, t1)
		tr.Omega = append(tr.Omega, x[0])
	}

	return tr, nil
}

// adaptiveAdvance covers one grid interval with error-controlled substeps,
// always landing exactly on the next grid point.
func (s *Simulator) adaptiveAdvance(x State, t0, span, tol float64) (State, error) {
	adaptive, ok := s.integ.(AdaptiveIntegrator)
	if !ok {
		return s.integ.Step(s.sys, x, t0, span), nil
	}

	t := t0
	end := t0 + span
	h := span

	for t < end {
		if h > end-t {
			h = end - t
		}
		next, hNext, err := adaptive.StepAdaptive(s.sys, x, t, h, tol)
		if err != nil {
			return x, err
		}
		x = next
		t += h
		h = hNext
	}
	return x, nil
}
