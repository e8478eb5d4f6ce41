package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/dynmep/motorstart/internal/chart"
	"github.com/dynmep/motorstart/internal/compare"
	"github.com/dynmep/motorstart/internal/config"
	"github.com/dynmep/motorstart/internal/drive"
	"github.com/dynmep/motorstart/internal/integrators"
	"github.com/dynmep/motorstart/internal/metrics"
	"github.com/dynmep/motorstart/internal/motor"
	"github.com/dynmep/motorstart/internal/optim"
	"github.com/dynmep/motorstart/internal/report"
	"github.com/dynmep/motorstart/internal/store"
	"github.com/dynmep/motorstart/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	hp             float64
	voltage        float64
	frequency      float64
	poles          int
	ratedSlip      float64
	efficiency     float64
	powerFactor    float64
	inertia        float64
	damping        float64
	loadFraction   float64
	loadType       string
	rampTime       float64
	boost          float64
	initialVoltage float64
	points         int
	horizon        float64
	integrator     string

	saveRun  bool
	asciiOut bool
	chartDir string

	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "motorstart",
		Short: "induction motor starting method lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(
				tint.NewHandler(os.Stderr, &tint.Options{
					Level:      level,
					TimeFormat: "15:04:05",
				}),
			))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".motorstart", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	addScenarioFlags := func(cmd *cobra.Command) {
		cmd.Flags().Float64Var(&hp, "hp", config.DefaultPowerHP, "motor rating (HP)")
		cmd.Flags().Float64Var(&voltage, "voltage", config.DefaultVoltage, "line voltage (V)")
		cmd.Flags().Float64Var(&frequency, "freq", config.DefaultBaseFrequency, "base frequency (Hz)")
		cmd.Flags().IntVar(&poles, "poles", config.DefaultPoles, "pole count")
		cmd.Flags().Float64Var(&ratedSlip, "slip", config.DefaultRatedSlip, "rated slip")
		cmd.Flags().Float64Var(&efficiency, "efficiency", config.DefaultEfficiency, "rated efficiency")
		cmd.Flags().Float64Var(&powerFactor, "pf", config.DefaultPowerFactor, "rated power factor")
		cmd.Flags().Float64Var(&inertia, "inertia", config.DefaultInertia, "total inertia (kg.m2)")
		cmd.Flags().Float64Var(&damping, "damping", config.DefaultDamping, "viscous damping (N.m.s)")
		cmd.Flags().Float64Var(&loadFraction, "load", config.DefaultLoadFraction, "load torque fraction")
		cmd.Flags().StringVar(&loadType, "load-type", "constant_torque", "load profile (constant_torque, fan_pump, constant_power)")
		cmd.Flags().Float64Var(&rampTime, "ramp", 0, "ramp time (s), applies to vfd and soft_starter")
		cmd.Flags().Float64Var(&boost, "boost", config.DefaultBoost, "vfd low-frequency torque boost")
		cmd.Flags().Float64Var(&initialVoltage, "initial-voltage", config.DefaultInitialVoltage, "soft starter initial voltage fraction")
		cmd.Flags().IntVar(&points, "points", config.DefaultPoints, "samples on the time grid")
		cmd.Flags().Float64Var(&horizon, "time", 0, "simulation horizon (s), 0 uses the method default")
		cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, rk4, rk45)")
	}

	runCmd := &cobra.Command{
		Use:   "run [method]",
		Short: "simulate one starting method",
		Args:  cobra.ExactArgs(1),
		RunE:  runMethod,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run to the data directory")
	runCmd.Flags().BoolVar(&asciiOut, "plot", false, "draw terminal plots")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "simulate all starting methods side by side",
		RunE:  runCompare,
	}
	addScenarioFlags(compareCmd)
	compareCmd.Flags().StringVar(&chartDir, "chart", "", "write comparison PNG charts into this directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "terminal plots for a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	chartCmd := &cobra.Command{
		Use:   "chart [run_id]",
		Short: "PNG charts for a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringVar(&chartDir, "out", ".", "output directory")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [method]",
		Short: "sweep ramp time for vfd or soft_starter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 10, "shortest ramp time (s)")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 60, "longest ramp time (s)")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of candidates")

	liveCmd := &cobra.Command{
		Use:   "live [method]",
		Short: "simulate and replay a start in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	rootCmd.AddCommand(runCmd, compareCmd, listCmd, plotCmd, chartCmd, exportCSVCmd, exportJSONCmd, presetsCmd, sweepCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig layers preset, config file and changed CLI flags, in that
// order of increasing precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("hp") {
		cfg.Motor.PowerHP = hp
	}
	if flags.Changed("voltage") {
		cfg.Motor.Voltage = voltage
	}
	if flags.Changed("freq") {
		cfg.Motor.BaseFrequency = frequency
	}
	if flags.Changed("poles") {
		cfg.Motor.Poles = poles
	}
	if flags.Changed("slip") {
		cfg.Motor.RatedSlip = ratedSlip
	}
	if flags.Changed("efficiency") {
		cfg.Motor.Efficiency = efficiency
	}
	if flags.Changed("pf") {
		cfg.Motor.PowerFactor = powerFactor
	}
	if flags.Changed("inertia") {
		cfg.Motor.Inertia = inertia
	}
	if flags.Changed("damping") {
		cfg.Motor.Damping = damping
	}
	if flags.Changed("load") {
		cfg.Load.Fraction = loadFraction
	}
	if flags.Changed("load-type") {
		cfg.Load.Type = loadType
	}
	if flags.Changed("ramp") {
		cfg.VFD.RampTime = rampTime
		cfg.SoftStarter.RampTime = rampTime
	}
	if flags.Changed("boost") {
		cfg.VFD.Boost = boost
	}
	if flags.Changed("initial-voltage") {
		cfg.SoftStarter.InitialVoltage = initialVoltage
	}
	if flags.Changed("points") {
		cfg.Sim.Points = points
	}
	if flags.Changed("time") {
		cfg.Sim.Horizon = horizon
	}
	if flags.Changed("integrator") {
		cfg.Sim.Integrator = integrator
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildScenario(cfg *config.Config) (*compare.Scenario, error) {
	machine, err := cfg.Machine()
	if err != nil {
		return nil, err
	}
	newInteg, err := integrators.Factory(cfg.Sim.Integrator)
	if err != nil {
		return nil, err
	}
	return &compare.Scenario{
		Machine:       machine,
		Curve:         motor.DefaultTorqueSlipCurve(),
		Load:          cfg.LoadProfile(),
		NewIntegrator: newInteg,
	}, nil
}

func simulateOne(cmd *cobra.Command, method string) (*config.Config, *compare.Scenario, compare.Run, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, nil, compare.Run{}, err
	}

	scenario, err := buildScenario(cfg)
	if err != nil {
		return nil, nil, compare.Run{}, err
	}

	profile, err := cfg.Profile(method)
	if err != nil {
		return nil, nil, compare.Run{}, err
	}

	slog.Debug("simulating",
		"method", method,
		"horizon", cfg.HorizonFor(method),
		"points", cfg.Sim.Points,
		"integrator", cfg.Sim.Integrator)

	run, err := scenario.RunOne(context.Background(), compare.Case{
		Profile: profile,
		Config:  cfg.SimConfigFor(method),
	})
	if err != nil {
		return nil, nil, compare.Run{}, err
	}
	return cfg, scenario, run, nil
}

func runMethod(cmd *cobra.Command, args []string) error {
	method := args[0]

	cfg, scenario, run, err := simulateOne(cmd, method)
	if err != nil {
		return err
	}

	report.PrintMachine(os.Stdout, scenario.Machine, scenario.Load)
	report.PrintSummary(os.Stdout, run.Summary)

	if asciiOut {
		report.PlotSeries(os.Stdout, run.Series)
	}

	if saveRun {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(store.RunInfo{
			Method:        method,
			PowerHP:       scenario.Machine.PowerHP,
			Voltage:       scenario.Machine.Voltage,
			BaseFrequency: scenario.Machine.BaseFrequency,
			FLA:           scenario.Machine.FLA,
			LoadType:      string(scenario.Load.Type),
			LoadFraction:  scenario.Load.Fraction,
			Integrator:    cfg.Sim.Integrator,
			Horizon:       cfg.HorizonFor(method),
			Points:        cfg.Sim.Points,
		}, run.Series, run.Summary)
		if err != nil {
			return err
		}
		slog.Info("run saved", "id", runID)
	}

	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := buildScenario(cfg)
	if err != nil {
		return err
	}

	cases := make([]compare.Case, 0, len(config.Methods()))
	for _, method := range config.Methods() {
		profile, err := cfg.Profile(method)
		if err != nil {
			return err
		}
		cases = append(cases, compare.Case{
			Profile: profile,
			Config:  cfg.SimConfigFor(method),
		})
	}

	comparison, err := scenario.Execute(context.Background(), cases)
	if err != nil {
		return err
	}

	report.PrintMachine(os.Stdout, scenario.Machine, scenario.Load)
	report.PrintComparison(os.Stdout, comparison)

	projections := make(map[string]metrics.CostProjection, len(comparison.Runs))
	for _, run := range comparison.Runs {
		projections[run.Method] = metrics.Project(scenario.Machine.PowerKW, run.Summary.EnergyKWh, cfg.CostFor(run.Method))
	}
	report.PrintCosts(os.Stdout, projections)

	if chartDir != "" {
		if err := os.MkdirAll(chartDir, 0755); err != nil {
			return err
		}
		byMethod := make(map[string]*metrics.Series, len(comparison.Runs))
		for _, run := range comparison.Runs {
			byMethod[run.Method] = run.Series
		}
		speedPath := chartDir + "/compare_speed.png"
		if err := chart.ComparisonPlot(byMethod,
			func(s *metrics.Series) []float64 { return s.SpeedRPM },
			"Motor speed", "speed (RPM)", speedPath); err != nil {
			return err
		}
		currentPath := chartDir + "/compare_current.png"
		if err := chart.ComparisonPlot(byMethod,
			func(s *metrics.Series) []float64 { return s.Current },
			"Stator current", "current (A)", currentPath); err != nil {
			return err
		}
		slog.Info("charts written", "dir", chartDir)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMETHOD\tTIME\tHP\tLOAD\tPEAK A\tFINAL RPM")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%s %.0f%%\t%.1f\t%.0f\n",
			run.ID,
			run.Method,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.PowerHP,
			run.LoadType,
			run.LoadFraction*100,
			run.PeakCurrent,
			run.FinalSpeedRPM,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	report.PlotSeries(os.Stdout, series)
	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(chartDir, 0755); err != nil {
		return err
	}
	paths, err := chart.RunCharts(series, meta.Method, meta.FLA, chartDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	path := runID + ".csv"
	if err := store.ExportCSV(path, series); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	summary := metrics.Summary{
		Method:           meta.Method,
		PeakCurrent:      meta.PeakCurrent,
		PeakCurrentRatio: meta.PeakCurrentRatio,
		FinalSpeedRPM:    meta.FinalSpeedRPM,
		FinalSlipPct:     meta.FinalSlipPct,
		TimeToSpeed:      meta.TimeToSpeed,
		EnergyKWh:        meta.EnergyKWh,
		AvgEfficiency:    meta.AvgEfficiency,
	}
	return store.ExportJSONStdout(series, summary)
}

func runSweep(cmd *cobra.Command, args []string) error {
	method := args[0]

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := buildScenario(cfg)
	if err != nil {
		return err
	}

	sw := &optim.Sweep{
		Scenario: scenario,
		Points:   cfg.Sim.Points,
	}
	switch method {
	case "vfd":
		sw.BuildProfile = func(ramp float64) (drive.Profile, error) {
			return drive.NewVFD(cfg.Motor.BaseFrequency, ramp, cfg.VFD.Boost)
		}
	case "soft_starter":
		sw.BuildProfile = func(ramp float64) (drive.Profile, error) {
			return drive.NewSoftStarter(cfg.Motor.BaseFrequency, ramp, cfg.SoftStarter.InitialVoltage)
		}
	default:
		return fmt.Errorf("sweep supports vfd and soft_starter, got %q", method)
	}

	result, err := sw.Run(context.Background(), method, optim.RampTimes(sweepMin, sweepMax, sweepSteps))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RAMP s\tPEAK A\tPEAK x FLA\tENERGY kWh\tSLIP %\tTO SPEED")
	for _, c := range result.Candidates {
		toSpeed := "never"
		if c.ReachedSpeed {
			toSpeed = fmt.Sprintf("%.2fs", c.TimeToSpeed)
		}
		fmt.Fprintf(w, "%.1f\t%.1f\t%.2f\t%.3f\t%.2f\t%s\n",
			c.RampTime, c.PeakCurrent, c.PeakCurrentRatio, c.EnergyKWh, c.FinalSlipPct, toSpeed)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: %.1fs ramp, %.1f A peak (%.2fx FLA)\n",
		result.Best.RampTime, result.Best.PeakCurrent, result.Best.PeakCurrentRatio)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	method := args[0]

	_, scenario, run, err := simulateOne(cmd, method)
	if err != nil {
		return err
	}

	return tui.Run(method, scenario.Machine, run.Series, run.Summary)
}
