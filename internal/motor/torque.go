package motor

import (
	"fmt"
	"math"
)

// TorqueSlipCurve is the rational torque-slip characteristic
//
//	T/T_rated = A·s / (s² + B·s + C)
//
// with A the peak-torque multiplier, B the shape constant and C the starting
// torque adjustment. C > 0 keeps the denominator away from zero at s = 0.
type TorqueSlipCurve struct {
	A float64
	B float64
	C float64
}

// DefaultTorqueSlipCurve returns the coefficients for a standard NEMA design B
// machine, matching the calibrated startup scenarios.
func DefaultTorqueSlipCurve() TorqueSlipCurve {
	return TorqueSlipCurve{A: 2.5, B: 0.15, C: 0.08}
}

func (c TorqueSlipCurve) Validate() error {
	if c.A <= 0 {
		return fmt.Errorf("peak torque multiplier must be positive, got %.3f", c.A)
	}
	if c.C <= 0 {
		return fmt.Errorf("starting adjustment must be positive, got %.3f", c.C)
	}
	return nil
}

// PerUnit evaluates the characteristic at slip s. Zero at synchronous speed,
// negative (braking) for negative slip, finite everywhere on [-1, 2].
func (c TorqueSlipCurve) PerUnit(s float64) float64 {
	return (c.A * s) / (s*s + c.B*s + c.C)
}

// BreakdownSlip is the slip at which the curve peaks. Operating points at
// higher slip sit on the unstable branch.
func (c TorqueSlipCurve) BreakdownSlip() float64 {
	return math.Sqrt(c.C)
}

// BreakdownTorque is the per-unit torque at breakdown slip.
func (c TorqueSlipCurve) BreakdownTorque() float64 {
	return c.PerUnit(c.BreakdownSlip())
}
