// Package config is the boundary between the outside world and the
// simulation core: it loads, defaults and validates every knob once, so the
// core packages never re-check their inputs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dynmep/motorstart/internal/drive"
	"github.com/dynmep/motorstart/internal/metrics"
	"github.com/dynmep/motorstart/internal/motor"
	"github.com/dynmep/motorstart/internal/sim"
)

// Defaults: the calibrated 800 HP conveyor scenario.
const (
	DefaultPowerHP        = 800.0
	DefaultVoltage        = 460.0
	DefaultBaseFrequency  = 60.0
	DefaultPoles          = 4
	DefaultRatedSlip      = 0.03
	DefaultEfficiency     = 0.95
	DefaultPowerFactor    = 0.88
	DefaultInertia        = 150.0
	DefaultDamping        = 2.0
	DefaultLoadFraction   = 0.75
	DefaultVFDRamp        = 30.0
	DefaultBoost          = 0.15
	DefaultSoftStartRamp  = 20.0
	DefaultInitialVoltage = 0.3
	DefaultDOLHorizon     = 5.0
	DefaultPoints         = 1000
)

// Error is a configuration invariant violation, reported at the boundary
// before any integration starts.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

type Config struct {
	Motor       MotorConfig       `yaml:"motor"`
	Load        LoadConfig        `yaml:"load"`
	VFD         VFDConfig         `yaml:"vfd"`
	SoftStarter SoftStarterConfig `yaml:"soft_starter"`
	DOL         DOLConfig         `yaml:"dol"`
	Sim         SimConfig         `yaml:"sim"`
	Costs       CostsConfig       `yaml:"costs"`
}

type MotorConfig struct {
	PowerHP       float64 `yaml:"power_hp"`
	Voltage       float64 `yaml:"voltage"`
	BaseFrequency float64 `yaml:"base_frequency"`
	Poles         int     `yaml:"poles"`
	RatedSlip     float64 `yaml:"rated_slip"`
	Efficiency    float64 `yaml:"efficiency"`
	PowerFactor   float64 `yaml:"power_factor"`
	Inertia       float64 `yaml:"inertia"`
	Damping       float64 `yaml:"damping"`
}

type LoadConfig struct {
	Type     string  `yaml:"type"`
	Fraction float64 `yaml:"fraction"`
}

type VFDConfig struct {
	RampTime float64 `yaml:"ramp_time"`
	Boost    float64 `yaml:"boost"`
}

type SoftStarterConfig struct {
	RampTime       float64 `yaml:"ramp_time"`
	InitialVoltage float64 `yaml:"initial_voltage"`
}

type DOLConfig struct {
	Horizon float64 `yaml:"horizon"`
}

type SimConfig struct {
	Points     int     `yaml:"points"`
	Integrator string  `yaml:"integrator"`
	Horizon    float64 `yaml:"horizon"` // 0 means per-method default
	Adaptive   bool    `yaml:"adaptive"`
	Tolerance  float64 `yaml:"tolerance"`
}

type MethodCost struct {
	Installed    float64 `yaml:"installed"`
	LossFraction float64 `yaml:"loss_fraction"`
}

type CostsConfig struct {
	AnnualHours      float64    `yaml:"annual_hours"`
	EnergyCostPerKWh float64    `yaml:"energy_cost_kwh"`
	StartsPerDay     float64    `yaml:"starts_per_day"`
	VFD              MethodCost `yaml:"vfd"`
	SoftStarter      MethodCost `yaml:"soft_starter"`
	DOL              MethodCost `yaml:"dol"`
}

func DefaultConfig() *Config {
	return &Config{
		Motor: MotorConfig{
			PowerHP:       DefaultPowerHP,
			Voltage:       DefaultVoltage,
			BaseFrequency: DefaultBaseFrequency,
			Poles:         DefaultPoles,
			RatedSlip:     DefaultRatedSlip,
			Efficiency:    DefaultEfficiency,
			PowerFactor:   DefaultPowerFactor,
			Inertia:       DefaultInertia,
			Damping:       DefaultDamping,
		},
		Load: LoadConfig{
			Type:     string(motor.ConstantTorque),
			Fraction: DefaultLoadFraction,
		},
		VFD:         VFDConfig{RampTime: DefaultVFDRamp, Boost: DefaultBoost},
		SoftStarter: SoftStarterConfig{RampTime: DefaultSoftStartRamp, InitialVoltage: DefaultInitialVoltage},
		DOL:         DOLConfig{Horizon: DefaultDOLHorizon},
		Sim:         SimConfig{Points: DefaultPoints, Integrator: "rk4", Tolerance: 1e-6},
		Costs: CostsConfig{
			AnnualHours:      6000,
			EnergyCostPerKWh: 0.10,
			StartsPerDay:     2,
			VFD:              MethodCost{Installed: 70000, LossFraction: 0.04},
			SoftStarter:      MethodCost{Installed: 15000, LossFraction: 0},
			DOL:              MethodCost{Installed: 5000, LossFraction: 0},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every boundary invariant. Violations are reported, never
// silently clamped.
func (c *Config) Validate() error {
	if err := c.motorParams().Validate(); err != nil {
		return &Error{Field: "motor", Reason: err.Error()}
	}
	if err := c.LoadProfile().Validate(); err != nil {
		return &Error{Field: "load", Reason: err.Error()}
	}
	if _, err := drive.NewVFD(c.Motor.BaseFrequency, c.VFD.RampTime, c.VFD.Boost); err != nil {
		return &Error{Field: "vfd", Reason: err.Error()}
	}
	if _, err := drive.NewSoftStarter(c.Motor.BaseFrequency, c.SoftStarter.RampTime, c.SoftStarter.InitialVoltage); err != nil {
		return &Error{Field: "soft_starter", Reason: err.Error()}
	}
	if c.DOL.Horizon <= 0 {
		return &Error{Field: "dol", Reason: fmt.Sprintf("horizon must be positive, got %.2f", c.DOL.Horizon)}
	}
	if c.Sim.Points < 2 {
		return &Error{Field: "sim", Reason: fmt.Sprintf("points must be >= 2, got %d", c.Sim.Points)}
	}
	if c.Sim.Adaptive && c.Sim.Tolerance <= 0 {
		return &Error{Field: "sim", Reason: "tolerance must be positive for adaptive integration"}
	}
	return nil
}

func (c *Config) motorParams() motor.Params {
	return motor.Params{
		PowerHP:       c.Motor.PowerHP,
		Voltage:       c.Motor.Voltage,
		BaseFrequency: c.Motor.BaseFrequency,
		Poles:         c.Motor.Poles,
		RatedSlip:     c.Motor.RatedSlip,
		Efficiency:    c.Motor.Efficiency,
		PowerFactor:   c.Motor.PowerFactor,
		Inertia:       c.Motor.Inertia,
		Damping:       c.Motor.Damping,
	}
}

// Machine builds the validated machine.
func (c *Config) Machine() (*motor.Machine, error) {
	return motor.NewMachine(c.motorParams())
}

// LoadProfile builds the load model.
func (c *Config) LoadProfile() motor.Load {
	return motor.Load{Type: motor.LoadType(c.Load.Type), Fraction: c.Load.Fraction}
}

// Profile builds the excitation profile for a method name.
func (c *Config) Profile(method string) (drive.Profile, error) {
	switch method {
	case "dol":
		return drive.NewDOL(c.Motor.BaseFrequency), nil
	case "vfd":
		return drive.NewVFD(c.Motor.BaseFrequency, c.VFD.RampTime, c.VFD.Boost)
	case "soft_starter":
		return drive.NewSoftStarter(c.Motor.BaseFrequency, c.SoftStarter.RampTime, c.SoftStarter.InitialVoltage)
	default:
		return nil, &Error{Field: "method", Reason: fmt.Sprintf("unknown starting method: %q", method)}
	}
}

// Methods lists the supported starting methods.
func Methods() []string {
	return []string{"dol", "vfd", "soft_starter"}
}

// HorizonFor returns the simulation horizon for a method: the explicit
// override when set, otherwise the method's natural window (its ramp time,
// or the DOL start window).
func (c *Config) HorizonFor(method string) float64 {
	if c.Sim.Horizon > 0 {
		return c.Sim.Horizon
	}
	switch method {
	case "vfd":
		return c.VFD.RampTime
	case "soft_starter":
		return c.SoftStarter.RampTime
	default:
		return c.DOL.Horizon
	}
}

// SimConfigFor builds the grid config for a method.
func (c *Config) SimConfigFor(method string) sim.Config {
	return sim.Config{
		Points:    c.Sim.Points,
		Horizon:   c.HorizonFor(method),
		Adaptive:  c.Sim.Adaptive,
		Tolerance: c.Sim.Tolerance,
	}
}

// CostFor returns the cost parameters for a method.
func (c *Config) CostFor(method string) metrics.CostParams {
	var mc MethodCost
	switch method {
	case "vfd":
		mc = c.Costs.VFD
	case "soft_starter":
		mc = c.Costs.SoftStarter
	default:
		mc = c.Costs.DOL
	}
	return metrics.CostParams{
		InstalledCost:    mc.Installed,
		LossFraction:     mc.LossFraction,
		AnnualHours:      c.Costs.AnnualHours,
		EnergyCostPerKWh: c.Costs.EnergyCostPerKWh,
		StartsPerDay:     c.Costs.StartsPerDay,
	}
}
