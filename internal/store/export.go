package store

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/dynmep/motorstart/internal/metrics"
)

// ExportData is the flat JSON form of a full run, for downstream analysis
// tools.
type ExportData struct {
	Method  string             `json:"method"`
	Samples int                `json:"samples"`
	Summary map[string]float64 `json:"summary"`

	Time            []float64 `json:"time"`
	Frequency       []float64 `json:"frequency"`
	SpeedRPM        []float64 `json:"speed_rpm"`
	SlipPct         []float64 `json:"slip_pct"`
	Torque          []float64 `json:"torque"`
	LoadTorque      []float64 `json:"load_torque"`
	Current         []float64 `json:"current"`
	PowerOut        []float64 `json:"power_out"`
	PowerIn         []float64 `json:"power_in"`
	Efficiency      []float64 `json:"efficiency"`
	VoltageFraction []float64 `json:"voltage_fraction"`
}

func buildExport(series *metrics.Series, summary metrics.Summary) ExportData {
	// NaN is not valid JSON; a start that never reached speed exports -1.
	timeToSpeed := summary.TimeToSpeed
	if math.IsNaN(timeToSpeed) {
		timeToSpeed = -1
	}

	data := ExportData{
		Method:  summary.Method,
		Samples: len(series.Time),
		Summary: map[string]float64{
			"peak_current":       summary.PeakCurrent,
			"peak_current_ratio": summary.PeakCurrentRatio,
			"final_speed_rpm":    summary.FinalSpeedRPM,
			"final_slip_pct":     summary.FinalSlipPct,
			"time_to_speed":      timeToSpeed,
			"energy_kwh":         summary.EnergyKWh,
			"avg_efficiency":     summary.AvgEfficiency,
		},
		Time:            series.Time,
		Frequency:       series.Frequency,
		SpeedRPM:        series.SpeedRPM,
		Torque:          series.Torque,
		LoadTorque:      series.LoadTorque,
		Current:         series.Current,
		PowerOut:        series.PowerOut,
		PowerIn:         series.PowerIn,
		Efficiency:      series.Efficiency,
		VoltageFraction: series.VoltageFraction,
	}

	data.SlipPct = make([]float64, len(series.Slip))
	for i, s := range series.Slip {
		data.SlipPct[i] = s * 100
	}

	return data
}

func ExportJSON(path string, series *metrics.Series, summary metrics.Summary) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, series, summary)
}

func ExportJSONStdout(series *metrics.Series, summary metrics.Summary) error {
	return writeExport(os.Stdout, series, summary)
}

func writeExport(w io.Writer, series *metrics.Series, summary metrics.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(series, summary))
}

// ExportCSV writes a run's series to a standalone CSV file.
func ExportCSV(path string, series *metrics.Series) error {
	return WriteSeriesCSV(path, series)
}
