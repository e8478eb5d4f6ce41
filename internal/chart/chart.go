// Package chart writes PNG plots of startup runs using gonum/plot.
package chart

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/dynmep/motorstart/internal/metrics"
)

var methodColors = map[string]color.RGBA{
	"dol":          {R: 220, G: 60, B: 60, A: 255},
	"vfd":          {R: 60, G: 120, B: 220, A: 255},
	"soft_starter": {R: 60, G: 180, B: 90, A: 255},
}

func colorFor(method string) color.RGBA {
	if c, ok := methodColors[method]; ok {
		return c
	}
	return color.RGBA{R: 80, G: 80, B: 80, A: 255}
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

func newLine(xs, ys []float64, c color.RGBA) (*plotter.Line, error) {
	line, err := plotter.NewLine(xys(xs, ys))
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = c
	return line, nil
}

func save(p *plot.Plot, path string) error {
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// SpeedPlot writes speed vs time for one run.
func SpeedPlot(series *metrics.Series, method, path string) error {
	if len(series.Time) == 0 {
		return fmt.Errorf("chart: empty series")
	}

	p := plot.New()
	p.Title.Text = "Motor speed"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "speed (RPM)"

	line, err := newLine(series.Time, series.SpeedRPM, colorFor(method))
	if err != nil {
		return err
	}
	p.Add(line)
	p.Legend.Add(method, line)
	p.Legend.Top = false

	return save(p, path)
}

// CurrentPlot writes stator current vs time with a horizontal full-load
// amps reference line.
func CurrentPlot(series *metrics.Series, method string, fla float64, path string) error {
	if len(series.Time) == 0 {
		return fmt.Errorf("chart: empty series")
	}

	p := plot.New()
	p.Title.Text = "Stator current"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "current (A)"

	line, err := newLine(series.Time, series.Current, colorFor(method))
	if err != nil {
		return err
	}
	p.Add(line)
	p.Legend.Add(method, line)

	end := series.Time[len(series.Time)-1]
	ref, err := newLine([]float64{0, end}, []float64{fla, fla}, color.RGBA{R: 120, G: 120, B: 120, A: 255})
	if err != nil {
		return err
	}
	ref.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(ref)
	p.Legend.Add("FLA", ref)

	return save(p, path)
}

// TorquePlot writes electromagnetic and load torque vs time.
func TorquePlot(series *metrics.Series, method, path string) error {
	if len(series.Time) == 0 {
		return fmt.Errorf("chart: empty series")
	}

	p := plot.New()
	p.Title.Text = "Torque"
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "torque (N.m)"

	em, err := newLine(series.Time, series.Torque, colorFor(method))
	if err != nil {
		return err
	}
	p.Add(em)
	p.Legend.Add("motor", em)

	load, err := newLine(series.Time, series.LoadTorque, color.RGBA{R: 200, G: 140, B: 40, A: 255})
	if err != nil {
		return err
	}
	load.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(load)
	p.Legend.Add("load", load)

	return save(p, path)
}

// ComparisonPlot overlays speed or current histories of several runs on a
// single axis. The field selector picks the series column.
func ComparisonPlot(runs map[string]*metrics.Series, field func(*metrics.Series) []float64, title, ylabel, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel

	added := 0
	for method, series := range runs {
		if len(series.Time) == 0 {
			continue
		}
		line, err := newLine(series.Time, field(series), colorFor(method))
		if err != nil {
			return err
		}
		p.Add(line)
		p.Legend.Add(method, line)
		added++
	}
	if added == 0 {
		return fmt.Errorf("chart: no data to plot")
	}

	return save(p, path)
}

// RunCharts writes the standard set of per-run plots into dir and returns
// their paths.
func RunCharts(series *metrics.Series, method string, fla float64, dir string) ([]string, error) {
	speed := filepath.Join(dir, fmt.Sprintf("%s_speed.png", method))
	if err := SpeedPlot(series, method, speed); err != nil {
		return nil, err
	}
	current := filepath.Join(dir, fmt.Sprintf("%s_current.png", method))
	if err := CurrentPlot(series, method, fla, current); err != nil {
		return nil, err
	}
	torque := filepath.Join(dir, fmt.Sprintf("%s_torque.png", method))
	if err := TorquePlot(series, method, torque); err != nil {
		return nil, err
	}
	return []string{speed, current, torque}, nil
}
