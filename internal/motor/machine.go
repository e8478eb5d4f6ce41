package motor

import (
	"fmt"
	"math"
)

const (
	// HPToKW converts nameplate horsepower to kilowatts.
	HPToKW = 0.7457

	// MagnetizingFraction is the fixed magnetizing component of stator
	// current, as a fraction of full-load current.
	MagnetizingFraction = 0.3
)

// Params describes an induction motor and the mechanical system on its shaft.
type Params struct {
	PowerHP       float64 // nameplate rating, HP
	Voltage       float64 // line-to-line, V
	BaseFrequency float64 // Hz
	Poles         int
	RatedSlip     float64 // fractional slip at rated load
	Efficiency    float64 // at rated load
	PowerFactor   float64 // at rated load
	Inertia       float64 // motor + load, kg.m^2
	Damping       float64 // viscous coefficient, N.m.s/rad
}

func (p Params) Validate() error {
	if p.PowerHP <= 0 {
		return fmt.Errorf("power must be positive, got %.1f HP", p.PowerHP)
	}
	if p.Voltage <= 0 {
		return fmt.Errorf("voltage must be positive, got %.1f V", p.Voltage)
	}
	if p.BaseFrequency <= 0 {
		return fmt.Errorf("base frequency must be positive, got %.2f Hz", p.BaseFrequency)
	}
	if p.Poles < 2 || p.Poles%2 != 0 {
		return fmt.Errorf("pole count must be even and >= 2, got %d", p.Poles)
	}
	if p.RatedSlip <= 0 || p.RatedSlip >= 1 {
		return fmt.Errorf("rated slip must be in (0,1), got %.4f", p.RatedSlip)
	}
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return fmt.Errorf("efficiency must be in (0,1], got %.3f", p.Efficiency)
	}
	if p.PowerFactor <= 0 || p.PowerFactor > 1 {
		return fmt.Errorf("power factor must be in (0,1], got %.3f", p.PowerFactor)
	}
	if p.Inertia <= 0 {
		return fmt.Errorf("inertia must be positive, got %.2f", p.Inertia)
	}
	if p.Damping < 0 {
		return fmt.Errorf("damping must be non-negative, got %.2f", p.Damping)
	}
	return nil
}

// Machine is a validated Params plus the quantities derived from it.
// It is immutable after construction.
type Machine struct {
	Params

	PowerKW      float64
	SyncSpeedRPM float64 // at base frequency
	SyncSpeedRad float64 // at base frequency, rad/s
	RatedTorque  float64 // N.m, at rated slip
	FLA          float64 // full-load current, A
}

func NewMachine(p Params) (*Machine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m := &Machine{Params: p}
	m.PowerKW = p.PowerHP * HPToKW
	m.SyncSpeedRPM = 120 * p.BaseFrequency / float64(p.Poles)
	m.SyncSpeedRad = m.SyncSpeedRPM * (2 * math.Pi / 60)
	m.RatedTorque = (m.PowerKW * 1000) / (m.SyncSpeedRad * (1 - p.RatedSlip))
	m.FLA = (m.PowerKW * 1000) / (math.Sqrt(3) * p.Voltage * p.PowerFactor * p.Efficiency)
	return m, nil
}

// SyncSpeed returns the synchronous angular velocity in rad/s for a given
// stator frequency.
func (m *Machine) SyncSpeed(freq float64) float64 {
	return (120 * freq / float64(m.Poles)) * (2 * math.Pi / 60)
}

// RatedSpeedRPM is the shaft speed at rated slip.
func (m *Machine) RatedSpeedRPM() float64 {
	return m.SyncSpeedRPM * (1 - m.RatedSlip)
}
