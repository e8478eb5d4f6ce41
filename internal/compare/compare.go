// Package compare runs the same motor and load under several starting
// methods and lines the results up for side-by-side reporting.
package compare

import (
	"context"
	"fmt"
	"sync"

	"github.com/dynmep/motorstart/internal/drive"
	"github.com/dynmep/motorstart/internal/dynamics"
	"github.com/dynmep/motorstart/internal/metrics"
	"github.com/dynmep/motorstart/internal/motor"
	"github.com/dynmep/motorstart/internal/sim"
)

// Run is one completed startup: trajectory plus derived series and summary.
type Run struct {
	Method     string
	Trajectory *sim.Trajectory
	Series     *metrics.Series
	Summary    metrics.Summary
}

// Scenario is everything a set of comparison runs shares.
type Scenario struct {
	Machine *motor.Machine
	Curve   motor.TorqueSlipCurve
	Load    motor.Load

	// NewIntegrator builds a fresh integrator per run; integrators carry
	// scratch state and must not be shared across goroutines.
	NewIntegrator func() sim.Integrator
}

// Case is one method to simulate with its own grid.
type Case struct {
	Profile drive.Profile
	Config  sim.Config
}

// Comparison holds the aligned results, in the order the cases were given.
type Comparison struct {
	Runs []Run
}

// Summaries maps method name to its summary.
func (c *Comparison) Summaries() map[string]metrics.Summary {
	out := make(map[string]metrics.Summary, len(c.Runs))
	for _, r := range c.Runs {
		out[r.Summary.Method] = r.Summary
	}
	return out
}

// Get returns the run for a method name.
func (c *Comparison) Get(method string) (Run, bool) {
	for _, r := range c.Runs {
		if r.Method == method {
			return r, true
		}
	}
	return Run{}, false
}

// Execute runs every case concurrently. Each run owns its dynamics,
// integrator, trajectory and series; nothing is shared, so no locking.
// The first error wins.
func (s *Scenario) Execute(ctx context.Context, cases []Case) (*Comparison, error) {
	runs := make([]Run, len(cases))
	errs := make([]error, len(cases))

	var wg sync.WaitGroup
	for i, cs := range cases {
		wg.Add(1)
		go func(idx int, cs Case) {
			defer wg.Done()
			runs[idx], errs[idx] = s.runOne(ctx, cs)
		}(i, cs)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cases[i].Profile.Name(), err)
		}
	}
	return &Comparison{Runs: runs}, nil
}

// RunOne simulates a single case synchronously.
func (s *Scenario) RunOne(ctx context.Context, cs Case) (Run, error) {
	return s.runOne(ctx, cs)
}

func (s *Scenario) runOne(ctx context.Context, cs Case) (Run, error) {
	dyn := dynamics.New(s.Machine, s.Curve, s.Load, cs.Profile)
	simulator := sim.New(dyn, s.NewIntegrator())

	tr, err := simulator.Run(ctx, sim.State{0}, cs.Config)
	if err != nil {
		return Run{}, err
	}

	series, summary, err := metrics.Compute(tr, cs.Profile, s.Machine, s.Curve, s.Load)
	if err != nil {
		return Run{}, err
	}

	return Run{
		Method:     cs.Profile.Name(),
		Trajectory: tr,
		Series:     series,
		Summary:    summary,
	}, nil
}
