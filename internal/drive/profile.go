// Package drive implements the three motor starting methods as excitation
// profiles: direct-on-line, variable frequency drive, and SCR soft starter.
//
// Each profile supplies the instantaneous drive-level inputs via [Profile.At]
// and its own torque-production rule via [Profile.Torque]; the ODE core
// consumes both uniformly and never branches on the method itself. Profiles
// with method-specific current behavior additionally implement [InrushModel]
// or [CurrentScaler], which the metrics layer discovers by type assertion.
package drive

import "github.com/dynmep/motorstart/internal/motor"

// Excitation is the drive output at one instant: stator frequency and the
// applied voltage as a fraction of rated voltage.
type Excitation struct {
	Frequency       float64
	VoltageFraction float64
}

// Profile is a starting method. At must be monotonically non-decreasing in
// both outputs during the ramp window and constant thereafter.
type Profile interface {
	Name() string

	// At returns the excitation at elapsed time t >= 0.
	At(t float64) Excitation

	// Torque returns per-unit electromagnetic torque at the given slip
	// under this method's voltage/frequency scaling rule.
	Torque(curve motor.TorqueSlipCurve, slip float64, exc Excitation) float64
}

// InrushModel is implemented by profiles whose line current follows a direct
// inrush characteristic rather than the phasor approximation.
type InrushModel interface {
	InrushCurrent(fla, slip float64) float64
}

// CurrentScaler is implemented by profiles that draw extra current while
// operating at reduced voltage.
type CurrentScaler interface {
	CurrentScale(exc Excitation, t float64) float64
}

func rampFraction(t, rampTime float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= rampTime {
		return 1
	}
	return t / rampTime
}
