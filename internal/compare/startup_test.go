package compare

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dynmep/motorstart/internal/drive"
	"github.com/dynmep/motorstart/internal/integrators"
	"github.com/dynmep/motorstart/internal/metrics"
	"github.com/dynmep/motorstart/internal/motor"
	"github.com/dynmep/motorstart/internal/sim"
)

// End-to-end runs of the calibrated 800 HP conveyor scenario: a 75%
// constant-torque load started direct-on-line, on a 30s VFD ramp with 15%
// boost, and on a 20s soft-starter ramp from 30% voltage.
var _ = Describe("800 HP conveyor startup", func() {
	var (
		scenario   *Scenario
		comparison *Comparison
	)

	BeforeEach(func() {
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
		Expect(err).NotTo(HaveOccurred())

		scenario = &Scenario{
			Machine:       m,
			Curve:         motor.DefaultTorqueSlipCurve(),
			Load:          motor.Load{Type: motor.ConstantTorque, Fraction: 0.75},
			NewIntegrator: func() sim.Integrator { return integrators.NewRK4() },
		}

		vfd, err := drive.NewVFD(60, 30, 0.15)
		Expect(err).NotTo(HaveOccurred())
		ss, err := drive.NewSoftStarter(60, 20, 0.3)
		Expect(err).NotTo(HaveOccurred())

		comparison, err = scenario.Execute(context.Background(), []Case{
			{Profile: drive.NewDOL(60), Config: sim.Config{Points: 1000, Horizon: 5}},
			{Profile: vfd, Config: sim.Config{Points: 1000, Horizon: 30}},
			{Profile: ss, Config: sim.Config{Points: 1000, Horizon: 20}},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("direct-on-line", func() {
		It("draws the full locked-rotor inrush at breaker close", func() {
			run, ok := comparison.Get("dol")
			Expect(ok).To(BeTrue())
			Expect(run.Summary.PeakCurrent).To(BeNumerically("~", 6.5*scenario.Machine.FLA, 1e-6))
			Expect(run.Summary.PeakCurrentRatio).To(BeNumerically("~", 6.5, 1e-9))
		})

		It("reaches full speed within the start window", func() {
			run, _ := comparison.Get("dol")
			Expect(math.IsNaN(run.Summary.TimeToSpeed)).To(BeFalse())
			Expect(run.Summary.TimeToSpeed).To(BeNumerically("<", 5.0))
			Expect(run.Summary.TimeToSpeed).To(BeNumerically(">", 1.0))
		})

		It("settles near rated slip", func() {
			run, _ := comparison.Get("dol")
			Expect(run.Summary.FinalSlipPct).To(BeNumerically("<", 5.0))
			Expect(run.Summary.FinalSlipPct).To(BeNumerically(">", 1.0))
		})
	})

	Describe("VFD ramp", func() {
		It("finishes the ramp near full speed", func() {
			run, ok := comparison.Get("vfd")
			Expect(ok).To(BeTrue())
			Expect(run.Summary.FinalSpeedRPM).To(BeNumerically("~", 1729, 1729*0.02))
		})

		It("ends the ramp carrying slip from the still-accelerating load", func() {
			run, _ := comparison.Get("vfd")
			Expect(run.Summary.FinalSlipPct).To(BeNumerically(">", 3.3))
			Expect(run.Summary.FinalSlipPct).To(BeNumerically("<", 4.7))
		})

		It("keeps peak current a small fraction of the direct-on-line inrush", func() {
			run, _ := comparison.Get("vfd")
			Expect(run.Summary.PeakCurrentRatio).To(BeNumerically(">", 1.0))
			Expect(run.Summary.PeakCurrentRatio).To(BeNumerically("<", 2.5))
		})

		It("keeps the rotor bounded by synchronous speed", func() {
			run, _ := comparison.Get("vfd")
			limit := scenario.Machine.SyncSpeedRad * 1.05
			for _, omega := range run.Trajectory.Omega {
				Expect(omega).To(BeNumerically("<", limit))
				Expect(omega).To(BeNumerically(">", -10.0))
			}
		})
	})

	Describe("soft starter", func() {
		It("cuts inrush well below direct-on-line", func() {
			run, ok := comparison.Get("soft_starter")
			Expect(ok).To(BeTrue())
			Expect(run.Summary.PeakCurrentRatio).To(BeNumerically(">", 2.2))
			Expect(run.Summary.PeakCurrentRatio).To(BeNumerically("<", 4.0))
		})

		It("settles near its steady-state slip", func() {
			run, _ := comparison.Get("soft_starter")
			Expect(run.Summary.FinalSlipPct).To(BeNumerically("~", 2.96, 0.4))
		})
	})

	It("orders the methods by peak current", func() {
		vfd, _ := comparison.Get("vfd")
		ss, _ := comparison.Get("soft_starter")
		dol, _ := comparison.Get("dol")

		Expect(vfd.Summary.PeakCurrent).To(BeNumerically("<", ss.Summary.PeakCurrent))
		Expect(ss.Summary.PeakCurrent).To(BeNumerically("<", dol.Summary.PeakCurrent))
	})

	It("meters a positive startup energy for every method", func() {
		for _, run := range comparison.Runs {
			Expect(run.Summary.EnergyKJ).To(BeNumerically(">", 0), run.Method)
		}
	})

	It("keeps every derived sample finite", func() {
		for _, run := range comparison.Runs {
			for i := range run.Series.Time {
				Expect(math.IsNaN(run.Series.Current[i])).To(BeFalse())
				Expect(math.IsNaN(run.Series.Torque[i])).To(BeFalse())
				Expect(math.IsNaN(run.Series.PowerIn[i])).To(BeFalse())
			}
		}
	})

	Describe("cost projections", func() {
		It("pays back the soft starter before the drive on energy alone", func() {
			vfd, _ := comparison.Get("vfd")
			dol, _ := comparison.Get("dol")

			dolCost := metrics.Project(scenario.Machine.PowerKW, dol.Summary.EnergyKWh, metrics.CostParams{
				InstalledCost: 5000, AnnualHours: 6000, EnergyCostPerKWh: 0.10, StartsPerDay: 2,
			})
			vfdCost := metrics.Project(scenario.Machine.PowerKW, vfd.Summary.EnergyKWh, metrics.CostParams{
				InstalledCost: 70000, LossFraction: 0.04, AnnualHours: 6000, EnergyCostPerKWh: 0.10, StartsPerDay: 2,
			})

			// drive losses dwarf any startup savings at two starts a day
			Expect(math.IsInf(metrics.PaybackYears(vfdCost, dolCost), 1)).To(BeTrue())
		})
	})
})
