package drive

import "github.com/dynmep/motorstart/internal/motor"

// lockedRotorCurrentRatio is the DOL inrush current at slip 1 as a multiple
// of full-load current, typical for an across-the-line start.
const lockedRotorCurrentRatio = 6.5

// DOL is a direct-on-line start: full voltage and frequency from t = 0.
type DOL struct {
	BaseFrequency float64
}

func NewDOL(baseFreq float64) *DOL {
	return &DOL{BaseFrequency: baseFreq}
}

func (d *DOL) Name() string { return "dol" }

func (d *DOL) At(t float64) Excitation {
	return Excitation{Frequency: d.BaseFrequency, VoltageFraction: 1.0}
}

func (d *DOL) Torque(curve motor.TorqueSlipCurve, slip float64, exc Excitation) float64 {
	return curve.PerUnit(slip)
}

// InrushCurrent follows the locked-rotor line: 6.5x FLA at standstill,
// decaying linearly with slip toward the running current.
func (d *DOL) InrushCurrent(fla, slip float64) float64 {
	return fla * (1 + (lockedRotorCurrentRatio-1)*slip)
}
