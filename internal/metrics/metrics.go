// Package metrics post-processes an integrated startup trajectory into the
// derived electrical quantities and scalar summary statistics.
package metrics

import (
	"fmt"
	"math"

	"github.com/dynmep/motorstart/internal/drive"
	"github.com/dynmep/motorstart/internal/motor"
	"github.com/dynmep/motorstart/internal/sim"
)

// meteringFloor is the stator frequency, in Hz, below which electrical
// quantities are not metered: the drive is barely energized and the phasor
// approximation has nothing to measure.
const meteringFloor = 0.5

// fullSpeedRatio is the speed ratio at which the motor counts as started.
const fullSpeedRatio = 0.95

// Series holds the per-sample derived quantities for one startup run.
// All slices share the trajectory's length.
type Series struct {
	Time            []float64
	Frequency       []float64 // Hz
	SpeedRPM        []float64
	Slip            []float64 // fractional, clipped to [0,1]
	Torque          []float64 // electromagnetic, N.m
	LoadTorque      []float64 // N.m
	Current         []float64 // A
	VoltageFraction []float64
	PowerOut        []float64 // kW
	PowerIn         []float64 // kW
	Efficiency      []float64 // fractional
}

// Summary are the scalar statistics of one run.
type Summary struct {
	Method           string
	PeakCurrent      float64 // A
	PeakCurrentRatio float64 // multiple of FLA
	FinalSpeedRPM    float64
	FinalSlipPct     float64
	TimeToSpeed      float64 // first time speed ratio >= 0.95; NaN if never
	EnergyKJ         float64 // startup energy, trapezoidal over input power
	EnergyKWh        float64
	AvgEfficiency    float64 // mean over metered samples
}

// Compute derives the full series and summary from a trajectory. It fails if
// any derived sample is non-finite, which indicates a hole in the dynamics
// guards rather than a recoverable condition.
func Compute(tr *sim.Trajectory, profile drive.Profile, m *motor.Machine, curve motor.TorqueSlipCurve, load motor.Load) (*Series, Summary, error) {
	n := tr.Len()
	s := &Series{
		Time:            make([]float64, n),
		Frequency:       make([]float64, n),
		SpeedRPM:        make([]float64, n),
		Slip:            make([]float64, n),
		Torque:          make([]float64, n),
		LoadTorque:      make([]float64, n),
		Current:         make([]float64, n),
		VoltageFraction: make([]float64, n),
		PowerOut:        make([]float64, n),
		PowerIn:         make([]float64, n),
		Efficiency:      make([]float64, n),
	}

	baseLoad := load.BaseTorque(m)
	inrush, hasInrush := profile.(drive.InrushModel)
	scaler, hasScaler := profile.(drive.CurrentScaler)

	for i := 0; i < n; i++ {
		t := tr.Times[i]
		omega := tr.Omega[i]
		exc := profile.At(t)

		s.Time[i] = t
		s.Frequency[i] = exc.Frequency
		s.SpeedRPM[i] = omega * (60 / (2 * math.Pi))
		s.VoltageFraction[i] = exc.VoltageFraction

		if exc.Frequency < meteringFloor {
			s.Slip[i] = 1.0
			continue
		}

		syncSpeed := m.SyncSpeed(exc.Frequency)
		slip := (syncSpeed - omega) / syncSpeed
		if slip < 0 {
			slip = 0
		}
		if slip > 1 {
			slip = 1
		}
		s.Slip[i] = slip

		torqueEM := profile.Torque(curve, slip, exc) * m.RatedTorque
		s.Torque[i] = torqueEM

		speedRatio := omega / m.SyncSpeedRad
		if speedRatio < 0 {
			speedRatio = 0
		}
		s.LoadTorque[i] = load.Torque(speedRatio, baseLoad)

		// Simplified phasor approximation: torque-proportional component
		// in quadrature with a fixed magnetizing component. Methods with
		// their own current behavior override or scale it.
		var current float64
		if hasInrush {
			current = inrush.InrushCurrent(m.FLA, slip)
		} else {
			torqueComponent := m.FLA * (torqueEM / m.RatedTorque)
			magnetizing := m.FLA * motor.MagnetizingFraction
			current = math.Hypot(torqueComponent, magnetizing)
			if hasScaler {
				current *= scaler.CurrentScale(exc, t)
			}
		}
		s.Current[i] = current

		voltage := m.Voltage * exc.VoltageFraction
		s.PowerOut[i] = (omega * s.LoadTorque[i]) / 1000
		s.PowerIn[i] = (math.Sqrt(3) * voltage * current * m.PowerFactor) / 1000
		if s.PowerIn[i] > 0 {
			s.Efficiency[i] = s.PowerOut[i] / s.PowerIn[i]
		}
	}

	if err := s.checkFinite(); err != nil {
		return nil, Summary{}, err
	}
	return s, s.summarize(profile.Name(), m), nil
}

func (s *Series) checkFinite() error {
	cols := map[string][]float64{
		"slip":       s.Slip,
		"torque":     s.Torque,
		"current":    s.Current,
		"power_in":   s.PowerIn,
		"power_out":  s.PowerOut,
		"efficiency": s.Efficiency,
	}
	for name, col := range cols {
		for i, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("non-finite %s sample at t=%.4fs", name, s.Time[i])
			}
		}
	}
	return nil
}

func (s *Series) summarize(method string, m *motor.Machine) Summary {
	sum := Summary{
		Method:      method,
		TimeToSpeed: math.NaN(),
	}

	for i, c := range s.Current {
		if c > sum.PeakCurrent {
			sum.PeakCurrent = c
		}
		if math.IsNaN(sum.TimeToSpeed) && s.SpeedRPM[i] >= fullSpeedRatio*m.SyncSpeedRPM {
			sum.TimeToSpeed = s.Time[i]
		}
	}
	sum.PeakCurrentRatio = sum.PeakCurrent / m.FLA

	n := len(s.Time)
	if n > 0 {
		sum.FinalSpeedRPM = s.SpeedRPM[n-1]
		sum.FinalSlipPct = s.Slip[n-1] * 100
	}

	sum.EnergyKJ = Trapezoid(s.Time, s.PowerIn)
	sum.EnergyKWh = sum.EnergyKJ / 3600

	var effSum float64
	var effN int
	for _, e := range s.Efficiency {
		if e > 0 {
			effSum += e
			effN++
		}
	}
	if effN > 0 {
		sum.AvgEfficiency = effSum / float64(effN)
	}
	return sum
}

// Trapezoid integrates y over x with the trapezoidal rule.
func Trapezoid(x, y []float64) float64 {
	var total float64
	for i := 1; i < len(x) && i < len(y); i++ {
		total += 0.5 * (y[i] + y[i-1]) * (x[i] - x[i-1])
	}
	return total
}
