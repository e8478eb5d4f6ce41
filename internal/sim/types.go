package sim

import "math"

// State is the ODE state vector. The motor model uses a single component,
// angular velocity in rad/s, but integrators operate on the general form.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an ODE right-hand side.
type System interface {
	Derivative(x State, t float64) State
	Dim() int
}

// Integrator advances a System by one fixed step.
type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveIntegrator additionally supports error-controlled stepping.
// StepAdaptive returns the new state and a suggested next step size.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

// Config controls one integration run.
type Config struct {
	Points    int     // grid points, inclusive of both endpoints
	Horizon   float64 // seconds
	Adaptive  bool    // use error-controlled substeps between grid points
	Tolerance float64 // local error tolerance when Adaptive
}

// Trajectory is the integrated angular velocity sampled on the time grid.
// Immutable after the run completes.
type Trajectory struct {
	Times []float64
	Omega []float64 // rad/s
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

func (tr *Trajectory) FinalOmega() float64 {
	if len(tr.Omega) == 0 {
		return 0
	}
	return tr.Omega[len(tr.Omega)-1]
}

func (tr *Trajectory) FinalTime() float64 {
	if len(tr.Times) == 0 {
		return 0
	}
	return tr.Times[len(tr.Times)-1]
}
