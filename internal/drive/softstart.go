package drive

import (
	"fmt"

	"github.com/dynmep/motorstart/internal/motor"
)

// reducedVoltageCurrentGain scales current draw during the voltage ramp:
// at reduced voltage the motor pulls proportionally more current for the
// same shaft demand.
const reducedVoltageCurrentGain = 1.2

// SoftStarter holds frequency at base and ramps RMS voltage linearly from
// InitialFraction to full over RampTime (SCR phase-angle control).
type SoftStarter struct {
	BaseFrequency   float64
	RampTime        float64
	InitialFraction float64
}

func NewSoftStarter(baseFreq, rampTime, initialFraction float64) (*SoftStarter, error) {
	if rampTime <= 0 {
		return nil, fmt.Errorf("soft starter ramp time must be positive, got %.2f", rampTime)
	}
	if initialFraction <= 0 || initialFraction >= 1 {
		return nil, fmt.Errorf("initial voltage fraction must be in (0,1), got %.3f", initialFraction)
	}
	return &SoftStarter{
		BaseFrequency:   baseFreq,
		RampTime:        rampTime,
		InitialFraction: initialFraction,
	}, nil
}

func (s *SoftStarter) Name() string { return "soft_starter" }

func (s *SoftStarter) At(t float64) Excitation {
	vf := s.InitialFraction + (1-s.InitialFraction)*rampFraction(t, s.RampTime)
	if vf > 1 {
		vf = 1
	}
	return Excitation{Frequency: s.BaseFrequency, VoltageFraction: vf}
}

// Torque scales the characteristic by voltage fraction squared: at fixed
// frequency flux is not preserved, so torque falls with the square of the
// applied voltage.
func (s *SoftStarter) Torque(curve motor.TorqueSlipCurve, slip float64, exc Excitation) float64 {
	return curve.PerUnit(slip) * exc.VoltageFraction * exc.VoltageFraction
}

// CurrentScale inflates the phasor current estimate while the ramp is active
// and the voltage sits above the initial fraction.
func (s *SoftStarter) CurrentScale(exc Excitation, t float64) float64 {
	if t < s.RampTime && exc.VoltageFraction > s.InitialFraction {
		return reducedVoltageCurrentGain / exc.VoltageFraction
	}
	return 1
}
