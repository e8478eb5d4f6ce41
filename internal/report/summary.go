// Package report renders run summaries, comparison tables and cost
// projections for the terminal.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/dynmep/motorstart/internal/compare"
	"github.com/dynmep/motorstart/internal/metrics"
	"github.com/dynmep/motorstart/internal/motor"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	goodStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))
)

// methodLabel maps internal method names to display names.
func methodLabel(method string) string {
	switch method {
	case "dol":
		return "Direct-on-line"
	case "vfd":
		return "VFD ramp"
	case "soft_starter":
		return "Soft starter"
	default:
		return method
	}
}

// PrintMachine writes the nameplate and derived ratings.
func PrintMachine(w io.Writer, m *motor.Machine, load motor.Load) {
	fmt.Fprintln(w, titleStyle.Render("Machine"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		fmt.Fprintf(tw, "%s\t%s\n", labelStyle.Render(label), valueStyle.Render(value))
	}
	row("Rating", fmt.Sprintf("%.0f HP (%.1f kW), %.0f V, %.0f Hz, %d-pole", m.PowerHP, m.PowerKW, m.Voltage, m.BaseFrequency, m.Poles))
	row("Sync speed", fmt.Sprintf("%.0f RPM", m.SyncSpeedRPM))
	row("Rated speed", fmt.Sprintf("%.0f RPM", m.RatedSpeedRPM()))
	row("Rated torque", fmt.Sprintf("%.0f N.m", m.RatedTorque))
	row("Full-load amps", fmt.Sprintf("%.1f A", m.FLA))
	row("Load", fmt.Sprintf("%s at %.0f%% of rated torque", load.Type, load.Fraction*100))
	tw.Flush()
	fmt.Fprintln(w)
}

// PrintSummary writes the scalar results of one run.
func PrintSummary(w io.Writer, s metrics.Summary) {
	fmt.Fprintln(w, titleStyle.Render(methodLabel(s.Method)))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		fmt.Fprintf(tw, "%s\t%s\n", labelStyle.Render(label), valueStyle.Render(value))
	}
	row("Peak current", fmt.Sprintf("%.1f A (%.2fx FLA)", s.PeakCurrent, s.PeakCurrentRatio))
	row("Final speed", fmt.Sprintf("%.0f RPM (slip %.2f%%)", s.FinalSpeedRPM, s.FinalSlipPct))
	if math.IsNaN(s.TimeToSpeed) {
		row("Time to speed", warnStyle.Render("did not reach 95% speed"))
	} else {
		row("Time to speed", fmt.Sprintf("%.2f s", s.TimeToSpeed))
	}
	row("Startup energy", fmt.Sprintf("%.1f kJ (%.3f kWh)", s.EnergyKJ, s.EnergyKWh))
	row("Avg efficiency", fmt.Sprintf("%.1f%%", s.AvgEfficiency*100))
	tw.Flush()
	fmt.Fprintln(w)
}

// PrintComparison writes a side-by-side table of all runs, lowest peak
// current first.
func PrintComparison(w io.Writer, c *compare.Comparison) {
	fmt.Fprintln(w, titleStyle.Render("Starting method comparison"))

	summaries := make([]metrics.Summary, 0, len(c.Runs))
	for _, r := range c.Runs {
		summaries = append(summaries, r.Summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].PeakCurrent < summaries[j].PeakCurrent
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPEAK A\tPEAK x FLA\tFINAL RPM\tSLIP %\tTO SPEED\tENERGY kWh")
	for _, s := range summaries {
		toSpeed := "never"
		if !math.IsNaN(s.TimeToSpeed) {
			toSpeed = fmt.Sprintf("%.2fs", s.TimeToSpeed)
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%.2f\t%.0f\t%.2f\t%s\t%.3f\n",
			methodLabel(s.Method),
			s.PeakCurrent,
			s.PeakCurrentRatio,
			s.FinalSpeedRPM,
			s.FinalSlipPct,
			toSpeed,
			s.EnergyKWh,
		)
	}
	tw.Flush()

	if len(summaries) > 1 {
		best := summaries[0]
		worst := summaries[len(summaries)-1]
		if worst.PeakCurrent > 0 {
			reduction := (1 - best.PeakCurrent/worst.PeakCurrent) * 100
			fmt.Fprintf(w, "\n%s %s\n",
				goodStyle.Render(fmt.Sprintf("%s draws %.0f%% less peak current", methodLabel(best.Method), reduction)),
				labelStyle.Render(fmt.Sprintf("than %s", methodLabel(worst.Method))))
		}
	}
	fmt.Fprintln(w)
}

// PrintCosts writes per-method cost projections and the payback of each
// premium option against the cheapest installed one.
func PrintCosts(w io.Writer, projections map[string]metrics.CostProjection) {
	fmt.Fprintln(w, titleStyle.Render("Cost projection"))

	methods := make([]string, 0, len(projections))
	for m := range projections {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool {
		return projections[methods[i]].Installed < projections[methods[j]].Installed
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tINSTALLED\tSTARTS/YR\tSTART kWh/YR\tLOSSES $/YR\tTOTAL $/YR")
	for _, m := range methods {
		p := projections[m]
		fmt.Fprintf(tw, "%s\t$%.0f\t%.0f\t%.1f\t$%.0f\t$%.0f\n",
			methodLabel(m),
			p.Installed,
			p.StartsPerYear,
			p.StartEnergyKWh*p.StartsPerYear,
			p.AnnualLosses,
			p.AnnualTotal,
		)
	}
	tw.Flush()

	if len(methods) > 1 {
		baseline := projections[methods[0]]
		for _, m := range methods[1:] {
			p := projections[m]
			years := metrics.PaybackYears(p, baseline)
			if math.IsInf(years, 1) {
				fmt.Fprintf(w, "%s\n", labelStyle.Render(
					fmt.Sprintf("%s premium over %s never pays back on energy alone", methodLabel(m), methodLabel(methods[0]))))
			} else {
				fmt.Fprintf(w, "%s\n", labelStyle.Render(
					fmt.Sprintf("%s premium over %s pays back in %.1f years", methodLabel(m), methodLabel(methods[0]), years)))
			}
		}
	}
	fmt.Fprintln(w)
}
