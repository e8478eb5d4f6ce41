// Package store persists startup runs on disk, one directory per run with a
// metadata.json summary and a series.csv time history.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dynmep/motorstart/internal/metrics"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string    `json:"id"`
	Method        string    `json:"method"`
	Timestamp     time.Time `json:"timestamp"`
	PowerHP       float64   `json:"power_hp"`
	Voltage       float64   `json:"voltage"`
	BaseFrequency float64   `json:"base_frequency"`
	FLA           float64   `json:"fla"`
	LoadType      string    `json:"load_type"`
	LoadFraction  float64   `json:"load_fraction"`
	Integrator    string    `json:"integrator"`
	Horizon       float64   `json:"horizon"`
	Points        int       `json:"points"`

	PeakCurrent      float64 `json:"peak_current"`
	PeakCurrentRatio float64 `json:"peak_current_ratio"`
	FinalSpeedRPM    float64 `json:"final_speed_rpm"`
	FinalSlipPct     float64 `json:"final_slip_pct"`
	TimeToSpeed      float64 `json:"time_to_speed"`
	EnergyKWh        float64 `json:"energy_kwh"`
	AvgEfficiency    float64 `json:"avg_efficiency"`
}

// RunInfo describes the scenario behind a run; the summary fields of the
// metadata come from the computed metrics.
type RunInfo struct {
	Method        string
	PowerHP       float64
	Voltage       float64
	BaseFrequency float64
	FLA           float64
	LoadType      string
	LoadFraction  float64
	Integrator    string
	Horizon       float64
	Points        int
}

var seriesHeader = []string{
	"time", "frequency", "speed_rpm", "slip_pct", "torque", "load_torque",
	"current", "power_out", "power_in", "efficiency", "voltage_fraction",
}

func (s *Store) Save(info RunInfo, series *metrics.Series, summary metrics.Summary) (string, error) {
	runID := fmt.Sprintf("%s_%d", info.Method, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Method:        info.Method,
		Timestamp:     time.Now(),
		PowerHP:       info.PowerHP,
		Voltage:       info.Voltage,
		BaseFrequency: info.BaseFrequency,
		FLA:           info.FLA,
		LoadType:      info.LoadType,
		LoadFraction:  info.LoadFraction,
		Integrator:    info.Integrator,
		Horizon:       info.Horizon,
		Points:        info.Points,

		PeakCurrent:      summary.PeakCurrent,
		PeakCurrentRatio: summary.PeakCurrentRatio,
		FinalSpeedRPM:    summary.FinalSpeedRPM,
		FinalSlipPct:     summary.FinalSlipPct,
		TimeToSpeed:      summary.TimeToSpeed,
		EnergyKWh:        summary.EnergyKWh,
		AvgEfficiency:    summary.AvgEfficiency,
	}
	// NaN is not valid JSON; a start that never reached speed stores -1.
	if math.IsNaN(meta.TimeToSpeed) {
		meta.TimeToSpeed = -1
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "series.csv")
	if err := WriteSeriesCSV(csvPath, series); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteSeriesCSV writes the full time history of a run.
func WriteSeriesCSV(path string, series *metrics.Series) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write(seriesHeader); err != nil {
		return err
	}

	for i := range series.Time {
		row := []string{
			fmtF(series.Time[i]),
			fmtF(series.Frequency[i]),
			fmtF(series.SpeedRPM[i]),
			fmtF(series.Slip[i] * 100),
			fmtF(series.Torque[i]),
			fmtF(series.LoadTorque[i]),
			fmtF(series.Current[i]),
			fmtF(series.PowerOut[i]),
			fmtF(series.PowerIn[i]),
			fmtF(series.Efficiency[i]),
			fmtF(series.VoltageFraction[i]),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads a stored run's time history back into a Series. Slip is
// stored in percent and converted back to a fraction.
func (s *Store) LoadSeries(runID string) (*metrics.Series, error) {
	csvPath := filepath.Join(s.baseDir, runID, "series.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return &metrics.Series{}, nil
	}
	if len(records[0]) != len(seriesHeader) {
		return nil, fmt.Errorf("store: %s: expected %d columns, got %d", runID, len(seriesHeader), len(records[0]))
	}

	series := &metrics.Series{}
	for i := 1; i < len(records); i++ {
		vals := make([]float64, len(seriesHeader))
		for j, field := range records[i] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("store: %s: row %d: %w", runID, i, err)
			}
			vals[j] = v
		}

		series.Time = append(series.Time, vals[0])
		series.Frequency = append(series.Frequency, vals[1])
		series.SpeedRPM = append(series.SpeedRPM, vals[2])
		series.Slip = append(series.Slip, vals[3]/100)
		series.Torque = append(series.Torque, vals[4])
		series.LoadTorque = append(series.LoadTorque, vals[5])
		series.Current = append(series.Current, vals[6])
		series.PowerOut = append(series.PowerOut, vals[7])
		series.PowerIn = append(series.PowerIn, vals[8])
		series.Efficiency = append(series.Efficiency, vals[9])
		series.VoltageFraction = append(series.VoltageFraction, vals[10])
	}

	return series, nil
}
