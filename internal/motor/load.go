package motor

import "fmt"

// LoadType selects one of the supported load torque profiles.
type LoadType string

const (
	// ConstantTorque covers conveyors, hoists and positive displacement
	// pumps: breakaway torque at standstill rising linearly to full torque
	// at synchronous speed.
	ConstantTorque LoadType = "constant_torque"
	// FanPump covers centrifugal fans and pumps, torque ∝ speed².
	FanPump LoadType = "fan_pump"
	// ConstantPower covers machine tools and winders, torque ∝ 1/speed.
	ConstantPower LoadType = "constant_power"
)

const (
	// breakawayFraction is the constant-torque load at standstill as a
	// fraction of its full value.
	breakawayFraction = 0.3

	// constantPowerFloor regularizes the constant-power profile near zero
	// speed, capping load torque at base/constantPowerFloor.
	constantPowerFloor = 0.1
)

// Load is a load profile plus its base torque expressed as a fraction of
// rated motor torque.
type Load struct {
	Type     LoadType
	Fraction float64
}

func (l Load) Validate() error {
	switch l.Type {
	case ConstantTorque, FanPump, ConstantPower:
	default:
		return fmt.Errorf("unknown load type: %q", l.Type)
	}
	if l.Fraction <= 0 || l.Fraction >= 1 {
		return fmt.Errorf("load fraction must be in (0,1), got %.3f", l.Fraction)
	}
	return nil
}

// BaseTorque is the load torque at rated speed for a given machine.
func (l Load) BaseTorque(m *Machine) float64 {
	return m.RatedTorque * l.Fraction
}

// Torque returns the load torque at a given speed ratio ω/ω_sync.
// The ratio is clamped to [0, 1] before evaluation.
func (l Load) Torque(speedRatio, base float64) float64 {
	r := speedRatio
	if r < 0 {
		r = 0
	}
	if r > 1 {
		r = 1
	}

	switch l.Type {
	case FanPump:
		return base * r * r
	case ConstantPower:
		if r < constantPowerFloor {
			r = constantPowerFloor
		}
		return base / r
	default:
		return base * (breakawayFraction + (1-breakawayFraction)*r)
	}
}
