package drive

import (
	"fmt"

	"github.com/dynmep/motorstart/internal/motor"
)

const (
	// boostCutoffFraction is the frequency, as a fraction of base, below
	// which the low-frequency voltage boost contributes torque.
	boostCutoffFraction = 0.15

	// crawlFrequency bounds the crawl regime: below it the rational
	// torque-slip curve scaled by f/f_base falls under any realistic load,
	// so torque follows a linear high-gain law that keeps the rotor
	// tracking the slowly rising synchronous speed.
	crawlFrequency = 1.0

	// crawlBoostGain amplifies the configured voltage boost inside the
	// crawl regime.
	crawlBoostGain = 5.0

	// maxBoost is the soft upper bound on the boost fraction; beyond it
	// the low-frequency voltage would exceed safe flux limits.
	maxBoost = 0.3
)

// VFD ramps frequency linearly from zero to base frequency over RampTime,
// holding V/f constant with a low-frequency voltage boost.
type VFD struct {
	BaseFrequency float64
	RampTime      float64
	Boost         float64
}

func NewVFD(baseFreq, rampTime, boost float64) (*VFD, error) {
	if rampTime <= 0 {
		return nil, fmt.Errorf("vfd ramp time must be positive, got %.2f", rampTime)
	}
	if boost < 0 || boost > maxBoost {
		return nil, fmt.Errorf("vfd boost must be in [0, %.1f], got %.3f", maxBoost, boost)
	}
	return &VFD{BaseFrequency: baseFreq, RampTime: rampTime, Boost: boost}, nil
}

func (v *VFD) Name() string { return "vfd" }

func (v *VFD) At(t float64) Excitation {
	freq := v.BaseFrequency * rampFraction(t, v.RampTime)
	fr := freq / v.BaseFrequency

	// Constant V/f with boost tapering to zero at full frequency, clamped
	// so the applied voltage never exceeds rated.
	vf := fr + v.Boost*(1-fr)
	if vf > 1 {
		vf = 1
	}
	return Excitation{Frequency: freq, VoltageFraction: vf}
}

func (v *VFD) Torque(curve motor.TorqueSlipCurve, slip float64, exc Excitation) float64 {
	if exc.Frequency < crawlFrequency {
		return curve.A * slip * (1 + crawlBoostGain*v.Boost)
	}

	fr := exc.Frequency / v.BaseFrequency
	tq := curve.PerUnit(slip) * fr

	if exc.Frequency < v.BaseFrequency*boostCutoffFraction {
		tq *= 1 + v.Boost*(1-exc.Frequency/(v.BaseFrequency*boostCutoffFraction))
	}
	return tq
}
