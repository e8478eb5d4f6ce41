package store

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/dynmep/motorstart/internal/metrics"
)

func sampleSeries() *metrics.Series {
	return &metrics.Series{
		Time:            []float64{0.0, 0.5, 1.0},
		Frequency:       []float64{0.0, 30.0, 60.0},
		SpeedRPM:        []float64{0.0, 850.0, 1729.0},
		Slip:            []float64{1.0, 0.055, 0.0393},
		Torque:          []float64{3200.0, 4100.0, 3150.0},
		LoadTorque:      []float64{950.0, 2400.0, 3100.0},
		Current:         []float64{0.0, 1104.6, 790.2},
		VoltageFraction: []float64{0.15, 0.575, 1.0},
		PowerOut:        []float64{0.0, 210.0, 561.0},
		PowerIn:         []float64{0.0, 240.0, 595.0},
		Efficiency:      []float64{0.0, 0.875, 0.943},
	}
}

func sampleSummary() metrics.Summary {
	return metrics.Summary{
		Method:           "vfd",
		PeakCurrent:      1104.6,
		PeakCurrentRatio: 1.23,
		FinalSpeedRPM:    1729.0,
		FinalSlipPct:     3.93,
		TimeToSpeed:      27.4,
		EnergyKJ:         9180.0,
		EnergyKWh:        2.55,
		AvgEfficiency:    0.91,
	}
}

func sampleInfo() RunInfo {
	return RunInfo{
		Method:        "vfd",
		PowerHP:       800,
		Voltage:       460,
		BaseFrequency: 60,
		LoadType:      "constant_torque",
		LoadFraction:  0.75,
		Integrator:    "rk4",
		Horizon:       30,
		Points:        3,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(sampleInfo(), sampleSeries(), sampleSummary())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Method != "vfd" {
		t.Errorf("expected method 'vfd', got '%s'", meta.Method)
	}
	if meta.PowerHP != 800 {
		t.Errorf("expected 800 HP, got %f", meta.PowerHP)
	}
	if meta.PeakCurrent != 1104.6 {
		t.Errorf("expected peak current 1104.6, got %f", meta.PeakCurrent)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(series.Time) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(series.Time))
	}
	if math.Abs(series.Slip[2]-0.0393) > 1e-6 {
		t.Errorf("expected final slip 0.0393, got %f", series.Slip[2])
	}
	if math.Abs(series.Current[1]-1104.6) > 1e-3 {
		t.Errorf("expected current 1104.6, got %f", series.Current[1])
	}
}

func TestStoreSave_NeverReachedSpeed(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	summary := sampleSummary()
	summary.TimeToSpeed = math.NaN()

	runID, err := st.Save(sampleInfo(), sampleSeries(), summary)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.TimeToSpeed != -1 {
		t.Errorf("expected -1 for unreached speed, got %f", meta.TimeToSpeed)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty list, got %d runs", len(runs))
	}

	if _, err := st.Save(sampleInfo(), sampleSeries(), sampleSummary()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty list, got %d runs", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")

	if err := ExportJSON(path, sampleSeries(), sampleSummary()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var exported ExportData
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if exported.Method != "vfd" {
		t.Errorf("expected method 'vfd', got '%s'", exported.Method)
	}
	if exported.Samples != 3 {
		t.Errorf("expected 3 samples, got %d", exported.Samples)
	}
	if math.Abs(exported.SlipPct[2]-3.93) > 1e-6 {
		t.Errorf("expected slip 3.93%%, got %f", exported.SlipPct[2])
	}
	if exported.Summary["peak_current"] != 1104.6 {
		t.Errorf("expected peak current 1104.6, got %f", exported.Summary["peak_current"])
	}
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")

	if err := ExportCSV(path, sampleSeries()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty csv")
	}
}
