package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rewired-gh/skyhook-sim/internal/models"
)

// barWidth is the width of the longest histogram bar
const barWidth = 50

// printExposure displays an exposure run as an hourly bar chart
func printExposure(w io.Writer, report *models.ExposureReport) {
	printExposureSummary(w, report)
	fmt.Fprintln(w)
	printHistogram(w, report.Series)
}

// printExposureSummary displays the headline numbers of an exposure run
func printExposureSummary(w io.Writer, report *models.ExposureReport) {
	p := report.Params
	fmt.Fprintln(w, "EXPOSURE SIMULATION")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "  Entities: %s, anchor %02d:00 ± %.1fh, window %.1fh every %dh\n",
		humanize.Comma(int64(p.Entities)), p.CenterAnchor, p.StddevHours, p.WindowHours, p.CycleHours)
	fmt.Fprintf(w, "  Spread: %.2f, cycle randomness: %.2f, horizon: %d days\n",
		p.CenterSpread, p.CycleRandomness, p.HorizonDays)
	label := ""
	if report.PeakHour < len(report.Series) {
		label = report.Series[report.PeakHour].Label
	}
	fmt.Fprintf(w, "  Peak: %s vulnerable at hour %d (%s)\n",
		humanize.Comma(int64(report.PeakCount)), report.PeakHour, label)
	fmt.Fprintf(w, "  Total window-hours: %s\n", humanize.Comma(int64(report.Total)))
}

// printHistogram draws one bar per hour scaled to the highest count
func printHistogram(w io.Writer, series []models.HourCount) {
	peak := 0
	for _, p := range series {
		peak = max(peak, p.Count)
	}
	for _, p := range series {
		fmt.Fprintf(w, "%4d %s |%-*s %s\n", p.Hour, p.Label, barWidth, bar(p.Count, peak), humanize.Comma(int64(p.Count)))
	}
}

func bar(count, peak int) string {
	if peak == 0 || count <= 0 {
		return ""
	}
	n := count * barWidth / peak
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

// printReach displays a reachability estimate
func printReach(w io.Writer, report *models.ReachReport) {
	fmt.Fprintln(w, "REACHABILITY ESTIMATE")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "  Vulnerable systems: %s sampled (%s requested)\n",
		humanize.Comma(int64(report.Targets)), humanize.Comma(int64(report.Count)))

	if !report.Defined {
		fmt.Fprintf(w, "  Mean hops: %d (no trial reached a vulnerable system)\n", models.NoTargetsMeanHops)
		fmt.Fprintf(w, "  P(reach within %d jumps): 0.0%%\n", report.MaxJumps)
		return
	}

	fmt.Fprintf(w, "  Trials: %s, reached a target: %s\n",
		humanize.Comma(int64(report.Trials)), humanize.Comma(int64(report.Successful)))
	fmt.Fprintf(w, "  Mean hops: %.2f (median %.1f, stddev %.2f)\n",
		report.MeanHops, report.MedianHops, report.StddevHops)
	fmt.Fprintf(w, "  P(reach within %d jumps): %.1f%%\n", report.MaxJumps, report.ProbabilityWithin*100)
}
