package config

// Presets are ready-made starting scenarios. Each starts from the defaults
// and adjusts only what the scenario changes.
var Presets = map[string]*Config{
	"conveyor-800hp": DefaultConfig(),
	"fan-800hp":      fanPreset(),
	"pump-200hp":     pumpPreset(),
	"crusher-800hp":  crusherPreset(),
}

func fanPreset() *Config {
	cfg := DefaultConfig()
	cfg.Load.Type = "fan_pump"
	cfg.Load.Fraction = 0.85
	return cfg
}

func pumpPreset() *Config {
	cfg := DefaultConfig()
	cfg.Motor.PowerHP = 200
	cfg.Motor.Inertia = 25
	cfg.Motor.Damping = 0.5
	cfg.Load.Type = "fan_pump"
	cfg.Load.Fraction = 0.8
	cfg.VFD.RampTime = 15
	cfg.SoftStarter.RampTime = 10
	cfg.Costs.VFD.Installed = 22000
	cfg.Costs.SoftStarter.Installed = 6000
	return cfg
}

func crusherPreset() *Config {
	cfg := DefaultConfig()
	cfg.Load.Type = "constant_power"
	cfg.Load.Fraction = 0.65
	cfg.Motor.Inertia = 300
	cfg.VFD.RampTime = 45
	cfg.SoftStarter.RampTime = 30
	cfg.SoftStarter.InitialVoltage = 0.4
	return cfg
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
