package report

import (
	"fmt"
	"io"

	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// renderChart draws the covered and missed units of every suite column as a
// stacked bar chart.
func renderChart(w io.Writer, summary Summary) error {
	covered := make([]opts.BarData, 0, len(summary.Totals.Cells))
	missed := make([]opts.BarData, 0, len(summary.Totals.Cells))
	for _, c := range summary.Totals.Cells {
		covered = append(covered, opts.BarData{Value: c.Covered})
		missed = append(missed, opts.BarData{Value: c.Total - c.Covered})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: global.ReportTitle, Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: global.ReportTitle, Subtitle: fmt.Sprintf("%s per suite", summary.Unit)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	stacked := func(color string) []charts.SeriesOpts {
		return []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithBarChartOpts(opts.BarChart{Stack: "units"}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "inside"}),
		}
	}
	bar.SetXAxis(summary.Titles).
		AddSeries("covered", covered, stacked("#6ece58")...).
		AddSeries("missed", missed, stacked(global.NotCoveredColor)...)
	return bar.Render(w)
}
