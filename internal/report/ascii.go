package report

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"

	"github.com/dynmep/motorstart/internal/metrics"
)

const (
	plotHeight = 10
	plotWidth  = 80
)

// PlotSeries renders the speed and current histories as terminal graphs.
func PlotSeries(w io.Writer, series *metrics.Series) {
	if len(series.Time) == 0 {
		return
	}

	speed := asciigraph.Plot(series.SpeedRPM,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("speed (RPM)"),
	)
	fmt.Fprintln(w, speed)
	fmt.Fprintln(w)

	current := asciigraph.Plot(series.Current,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("stator current (A)"),
	)
	fmt.Fprintln(w, current)
	fmt.Fprintln(w)
}

// PlotSpeedComparison overlays speed histories of several runs.
func PlotSpeedComparison(w io.Writer, runs map[string]*metrics.Series) {
	for method, series := range runs {
		if len(series.Time) == 0 {
			continue
		}
		graph := asciigraph.Plot(series.SpeedRPM,
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(fmt.Sprintf("speed (RPM), %s", methodLabel(method))),
		)
		fmt.Fprintln(w, graph)
		fmt.Fprintln(w)
	}
}
