package metrics

import (
	"math"
	"testing"

	"github.com/dynmep/motorstart/internal/drive"
	"github.com/dynmep/motorstart/internal/motor"
	"github.com/dynmep/motorstart/internal/sim"
)

func testMachine(t *testing.T) *motor.Machine {
	t.Helper()
	m, err := motor.NewMachine(motor.Params{
		PowerHP:       800,
		Voltage:       460,
		BaseFrequency: 60,
		Poles:         4,
		RatedSlip:     0.03,
		Efficiency:    0.95,
		PowerFactor:   0.88,
		Inertia:       150,
		Damping:       2.0,
	})
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	return m
}

func testLoad() motor.Load {
	return motor.Load{Type: motor.ConstantTorque, Fraction: 0.75}
}

// rampTrajectory builds a plausible accelerating trajectory on a uniform
// grid ending at sync speed times (1 - finalSlip).
func rampTrajectory(horizon float64, points int, finalOmega float64) *sim.Trajectory {
	tr := &sim.Trajectory{
		Times: make([]float64, points),
		Omega: make([]float64, points),
	}
	for i := 0; i < points; i++ {
		f := float64(i) / float64(points-1)
		tr.Times[i] = horizon * f
		tr.Omega[i] = finalOmega * f
	}
	return tr
}

func TestCompute_DOLInrushAtLockedRotor(t *testing.T) {
	m := testMachine(t)
	tr := rampTrajectory(5, 200, m.SyncSpeedRad*0.97)

	series, summary, err := Compute(tr, drive.NewDOL(60), m, motor.DefaultTorqueSlipCurve(), testLoad())
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	// at t=0 the rotor is locked: inrush is exactly 6.5x FLA
	if math.Abs(series.Current[0]-6.5*m.FLA) > 1e-6 {
		t.Errorf("expected 6.5x FLA at t=0, got %.2fx", series.Current[0]/m.FLA)
	}
	if math.Abs(summary.PeakCurrent-6.5*m.FLA) > 1e-6 {
		t.Errorf("expected peak at locked rotor, got %.1f", summary.PeakCurrent)
	}
	if math.Abs(summary.PeakCurrentRatio-6.5) > 1e-6 {
		t.Errorf("expected peak ratio 6.5, got %.3f", summary.PeakCurrentRatio)
	}
}

func TestCompute_SeriesShapes(t *testing.T) {
	m := testMachine(t)
	vfd, err := drive.NewVFD(60, 30, 0.15)
	if err != nil {
		t.Fatalf("vfd: %v", err)
	}
	tr := rampTrajectory(30, 300, m.SyncSpeedRad*0.96)

	series, _, err := Compute(tr, vfd, m, motor.DefaultTorqueSlipCurve(), testLoad())
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	n := tr.Len()
	for name, col := range map[string][]float64{
		"frequency": series.Frequency,
		"speed":     series.SpeedRPM,
		"slip":      series.Slip,
		"current":   series.Current,
		"power_in":  series.PowerIn,
	} {
		if len(col) != n {
			t.Errorf("%s: expected %d samples, got %d", name, n, len(col))
		}
	}

	for i, s := range series.Slip {
		if s < 0 || s > 1 {
			t.Fatalf("slip out of [0,1] at index %d: %.4f", i, s)
		}
	}
	for i, e := range series.Efficiency {
		if e < 0 || e > 1.2 {
			t.Fatalf("implausible efficiency at index %d: %.4f", i, e)
		}
	}
}

func TestCompute_MeteringFloor(t *testing.T) {
	m := testMachine(t)
	vfd, err := drive.NewVFD(60, 30, 0.15)
	if err != nil {
		t.Fatalf("vfd: %v", err)
	}
	tr := rampTrajectory(30, 300, m.SyncSpeedRad*0.96)

	series, _, err := Compute(tr, vfd, m, motor.DefaultTorqueSlipCurve(), testLoad())
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	// the first samples sit below 0.5 Hz: nothing metered, slip pinned to 1
	if series.Slip[0] != 1 {
		t.Errorf("expected slip 1 below metering floor, got %.3f", series.Slip[0])
	}
	if series.Current[0] != 0 || series.PowerIn[0] != 0 {
		t.Error("expected zero electrical quantities below metering floor")
	}
}

func TestCompute_SoftStarterCurrentScaling(t *testing.T) {
	m := testMachine(t)
	ss, err := drive.NewSoftStarter(60, 20, 0.3)
	if err != nil {
		t.Fatalf("soft starter: %v", err)
	}
	tr := rampTrajectory(20, 200, m.SyncSpeedRad*0.97)

	series, _, err := Compute(tr, ss, m, motor.DefaultTorqueSlipCurve(), testLoad())
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	// mid-ramp the reduced-voltage scaling applies: recompute one sample
	i := 100
	exc := ss.At(series.Time[i])
	slip := series.Slip[i]
	torqueEM := ss.Torque(motor.DefaultTorqueSlipCurve(), slip, exc) * m.RatedTorque
	want := math.Hypot(m.FLA*torqueEM/m.RatedTorque, m.FLA*motor.MagnetizingFraction) * ss.CurrentScale(exc, series.Time[i])
	if math.Abs(series.Current[i]-want) > 1e-6 {
		t.Errorf("expected %.2f A, got %.2f A", want, series.Current[i])
	}
}

func TestCompute_EnergyPositive(t *testing.T) {
	m := testMachine(t)
	tr := rampTrajectory(5, 500, m.SyncSpeedRad*0.97)

	_, summary, err := Compute(tr, drive.NewDOL(60), m, motor.DefaultTorqueSlipCurve(), testLoad())
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	if summary.EnergyKJ <= 0 {
		t.Errorf("expected positive startup energy, got %.2f kJ", summary.EnergyKJ)
	}
	if math.Abs(summary.EnergyKWh-summary.EnergyKJ/3600) > 1e-9 {
		t.Error("kWh should be kJ over 3600")
	}
}

func TestCompute_TimeToSpeed(t *testing.T) {
	m := testMachine(t)

	// linear ramp to 0.97 sync over 5s crosses 0.95 at ~4.9s
	tr := rampTrajectory(5, 501, m.SyncSpeedRad*0.97)
	_, summary, err := Compute(tr, drive.NewDOL(60), m, motor.DefaultTorqueSlipCurve(), testLoad())
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if math.IsNaN(summary.TimeToSpeed) {
		t.Fatal("expected time to speed")
	}
	if summary.TimeToSpeed < 4.8 || summary.TimeToSpeed > 5.0 {
		t.Errorf("expected crossing near 4.9s, got %.2f", summary.TimeToSpeed)
	}

	// a stalled run never crosses
	stalled := rampTrajectory(5, 100, m.SyncSpeedRad*0.5)
	_, summary, err = Compute(stalled, drive.NewDOL(60), m, motor.DefaultTorqueSlipCurve(), testLoad())
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if !math.IsNaN(summary.TimeToSpeed) {
		t.Errorf("expected NaN for stalled run, got %.2f", summary.TimeToSpeed)
	}
}

func TestTrapezoid(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{0, 1, 2, 3}
	// integral of y=x from 0 to 3
	if got := Trapezoid(x, y); math.Abs(got-4.5) > 1e-12 {
		t.Errorf("expected 4.5, got %.4f", got)
	}

	if got := Trapezoid([]float64{1}, []float64{5}); got != 0 {
		t.Errorf("expected 0 for single sample, got %.4f", got)
	}
}

func TestProject(t *testing.T) {
	p := CostParams{
		InstalledCost:    70000,
		LossFraction:     0.04,
		AnnualHours:      6000,
		EnergyCostPerKWh: 0.10,
		StartsPerDay:     2,
	}

	c := Project(596.56, 2.5, p)
	if c.StartsPerYear != 730 {
		t.Errorf("expected 730 starts/yr, got %.0f", c.StartsPerYear)
	}
	if math.Abs(c.AnnualStartup-2.5*0.10*730) > 1e-9 {
		t.Errorf("unexpected startup cost %.2f", c.AnnualStartup)
	}
	if math.Abs(c.AnnualLosses-0.04*596.56*6000*0.10) > 1e-6 {
		t.Errorf("unexpected loss cost %.2f", c.AnnualLosses)
	}
	if math.Abs(c.AnnualTotal-(c.AnnualStartup+c.AnnualLosses)) > 1e-9 {
		t.Error("total should be startup plus losses")
	}
}

func TestPaybackYears(t *testing.T) {
	baseline := CostProjection{Installed: 5000, AnnualTotal: 20000}
	premium := CostProjection{Installed: 70000, AnnualTotal: 7000}

	years := PaybackYears(premium, baseline)
	want := (70000.0 - 5000.0) / (20000.0 - 7000.0)
	if math.Abs(years-want) > 1e-9 {
		t.Errorf("expected %.2f years, got %.2f", want, years)
	}

	// premium that also costs more to run never pays back
	expensive := CostProjection{Installed: 70000, AnnualTotal: 25000}
	if !math.IsInf(PaybackYears(expensive, baseline), 1) {
		t.Error("expected +Inf payback")
	}
}
