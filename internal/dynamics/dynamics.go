// Package dynamics is the ODE right-hand side for motor startup: the torque
// balance dω/dt = (T_em − T_load − D·ω) / J with the excitation profile
// injected as the only method-specific behavior.
package dynamics

import (
	"github.com/dynmep/motorstart/internal/drive"
	"github.com/dynmep/motorstart/internal/motor"
	"github.com/dynmep/motorstart/internal/sim"
)

const (
	// syncSpeedFloor, in rad/s, is the synchronous speed below which the
	// stator field is treated as unenergized: slip is undefined near zero
	// frequency, so the rotor holds still instead of dividing by it.
	syncSpeedFloor = 0.1

	// slipMin/slipMax bound the slip fed to the torque rule. Outside this
	// range only a misconfigured excitation can land; the clamp keeps the
	// derivative finite rather than propagating NaN through the run.
	slipMin = -0.5
	slipMax = 1.5
)

// Motor binds a machine, torque-slip curve, load and excitation profile into
// a sim.System. Immutable; safe for concurrent runs each holding their own.
type Motor struct {
	machine *motor.Machine
	curve   motor.TorqueSlipCurve
	load    motor.Load
	base    float64 // load torque at rated speed, N.m
	profile drive.Profile
}

func New(m *motor.Machine, curve motor.TorqueSlipCurve, load motor.Load, profile drive.Profile) *Motor {
	return &Motor{
		machine: m,
		curve:   curve,
		load:    load,
		base:    load.BaseTorque(m),
		profile: profile,
	}
}

func (d *Motor) Dim() int { return 1 }

// Slip computes the guarded slip for a rotor speed under a given excitation.
func (d *Motor) Slip(omega float64, exc drive.Excitation) float64 {
	syncSpeed := d.machine.SyncSpeed(exc.Frequency)
	if syncSpeed < syncSpeedFloor {
		return 1.0 // locked rotor
	}
	s := (syncSpeed - omega) / syncSpeed
	if s < slipMin {
		s = slipMin
	}
	if s > slipMax {
		s = slipMax
	}
	return s
}

func (d *Motor) Derivative(x sim.State, t float64) sim.State {
	omega := x[0]
	exc := d.profile.At(t)

	syncSpeed := d.machine.SyncSpeed(exc.Frequency)
	if syncSpeed < syncSpeedFloor {
		return sim.State{0}
	}

	slip := d.Slip(omega, exc)
	torqueEM := d.profile.Torque(d.curve, slip, exc) * d.machine.RatedTorque

	speedRatio := omega / d.machine.SyncSpeedRad
	loadTorque := d.load.Torque(speedRatio, d.base)

	accel := (torqueEM - loadTorque - d.machine.Damping*omega) / d.machine.Inertia
	return sim.State{accel}
}

// Machine exposes the bound machine for metric computation.
func (d *Motor) Machine() *motor.Machine { return d.machine }

// Profile exposes the bound excitation profile.
func (d *Motor) Profile() drive.Profile { return d.profile }
