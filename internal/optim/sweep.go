// Package optim sweeps ramp time for the ramped starting methods and picks
// the candidate with the lowest peak current that still reaches speed.
package optim

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/dynmep/motorstart/internal/compare"
	"github.com/dynmep/motorstart/internal/drive"
	"github.com/dynmep/motorstart/internal/sim"
)

// Candidate is one evaluated ramp time.
type Candidate struct {
	RampTime         float64
	PeakCurrent      float64
	PeakCurrentRatio float64
	EnergyKWh        float64
	FinalSlipPct     float64
	TimeToSpeed      float64
	ReachedSpeed     bool
}

// Result holds all candidates in ramp time order plus the best one.
type Result struct {
	Method     string
	Candidates []Candidate
	Best       Candidate
}

// Sweep evaluates ramp times concurrently against a shared scenario.
type Sweep struct {
	Scenario *compare.Scenario
	Points   int

	// BuildProfile makes the profile for one candidate ramp time.
	BuildProfile func(rampTime float64) (drive.Profile, error)
}

// RampTimes builds n evenly spaced candidates over [min, max].
func RampTimes(min, max float64, n int) []float64 {
	if n < 2 {
		return []float64{min}
	}
	times := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range times {
		times[i] = min + float64(i)*step
	}
	return times
}

// Run evaluates every ramp time in its own goroutine. Candidates that fail
// to simulate abort the sweep; candidates that simulate but never reach 95%
// speed stay in the table and are excluded from Best.
func (s *Sweep) Run(ctx context.Context, method string, rampTimes []float64) (*Result, error) {
	if len(rampTimes) == 0 {
		return nil, fmt.Errorf("optim: no ramp times to sweep")
	}
	if s.Points < 2 {
		return nil, fmt.Errorf("optim: points must be >= 2, got %d", s.Points)
	}

	candidates := make([]Candidate, len(rampTimes))
	errs := make([]error, len(rampTimes))

	var wg sync.WaitGroup
	for i, ramp := range rampTimes {
		wg.Add(1)
		go func(i int, ramp float64) {
			defer wg.Done()
			candidates[i], errs[i] = s.evaluate(ctx, ramp)
		}(i, ramp)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("ramp %.1fs: %w", rampTimes[i], err)
		}
	}

	result := &Result{Method: method, Candidates: candidates}
	best := -1
	for i, c := range candidates {
		if !c.ReachedSpeed {
			continue
		}
		if best < 0 || c.PeakCurrent < candidates[best].PeakCurrent {
			best = i
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("optim: no ramp time reached 95%% speed; extend the range")
	}
	result.Best = candidates[best]

	return result, nil
}

func (s *Sweep) evaluate(ctx context.Context, ramp float64) (Candidate, error) {
	profile, err := s.BuildProfile(ramp)
	if err != nil {
		return Candidate{}, err
	}

	run, err := s.Scenario.RunOne(ctx, compare.Case{
		Profile: profile,
		Config:  sim.Config{Points: s.Points, Horizon: ramp},
	})
	if err != nil {
		return Candidate{}, err
	}

	sum := run.Summary
	return Candidate{
		RampTime:         ramp,
		PeakCurrent:      sum.PeakCurrent,
		PeakCurrentRatio: sum.PeakCurrentRatio,
		EnergyKWh:        sum.EnergyKWh,
		FinalSlipPct:     sum.FinalSlipPct,
		TimeToSpeed:      sum.TimeToSpeed,
		ReachedSpeed:     !math.IsNaN(sum.TimeToSpeed),
	}, nil
}
