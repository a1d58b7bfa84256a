// Package charts builds theme-aware chart objects from filtered tables.
// Chart drawing itself is delegated to go-echarts; this package only
// assembles series data and rendering options.
package charts

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"gradeviz/internal/stats"
)

// Chart is anything renderable to HTML on its own or inside a page.
type Chart interface {
	components.Charter
	Render(w io.Writer) error
}

// Builder creates charts with a consistent theme and size.
type Builder struct {
	theme string
}

// NewBuilder creates a chart builder for the given theme ("light"/"dark").
func NewBuilder(theme string) *Builder {
	return &Builder{theme: theme}
}

// Theme returns the active theme name.
func (b *Builder) Theme() string { return b.theme }

func (b *Builder) echartsTheme() string {
	if b.theme == "dark" {
		return types.ThemeChalk
	}
	return types.ThemeWesteros
}

func (b *Builder) initOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  b.echartsTheme(),
			Width:  "820px",
			Height: "480px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

// Bar builds a categorical bar chart.
func (b *Builder) Bar(title, subtitle, seriesName string, labels []string, values []float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(b.initOpts(title, subtitle)...)

	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}
	bar.SetXAxis(labels).AddSeries(seriesName, data)
	bar.SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return bar
}

// Pie builds a share chart with percentage labels.
func (b *Builder) Pie(title, seriesName string, labels []string, values []float64) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(b.initOpts(title, "")...)

	data := make([]opts.PieData, len(values))
	for i, v := range values {
		data[i] = opts.PieData{Name: labels[i], Value: v}
	}
	pie.AddSeries(seriesName, data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"35%", "70%"}}),
	)
	return pie
}

// HistogramBar renders pre-binned histogram counts as contiguous bars.
func (b *Builder) HistogramBar(title, subtitle string, hist stats.Histogram) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(b.initOpts(title, subtitle)...)

	data := make([]opts.BarData, len(hist.Counts))
	for i, v := range hist.Counts {
		data[i] = opts.BarData{Value: v}
	}
	bar.SetXAxis(hist.Labels).AddSeries("broj studenata", data)
	bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{BarGap: "0%"}))
	return bar
}

// Line builds a line chart over categorical x values.
func (b *Builder) Line(title, seriesName string, labels []string, values []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(b.initOpts(title, "")...)

	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	line.SetXAxis(labels).AddSeries(seriesName, data)
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(true)}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return line
}

// BoxPlot builds a box plot from per-group five-number summaries.
func (b *Builder) BoxPlot(title, seriesName string, labels []string, fives []stats.FiveNumber) *charts.BoxPlot {
	bp := charts.NewBoxPlot()
	bp.SetGlobalOptions(b.initOpts(title, "")...)

	data := make([]opts.BoxPlotData, len(fives))
	for i, f := range fives {
		data[i] = opts.BoxPlotData{Value: []float64{f.Min, f.Q1, f.Median, f.Q3, f.Max}}
	}
	bp.SetXAxis(labels).AddSeries(seriesName, data)
	return bp
}

// Scatter builds a numeric x/y scatter chart.
func (b *Builder) Scatter(title, xName, yName, seriesName string, points [][2]float64) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(append(b.initOpts(title, ""),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName, Type: "value", Scale: opts.Bool(true)}),
	)...)

	data := make([]opts.ScatterData, len(points))
	for i, p := range points {
		data[i] = opts.ScatterData{Value: []float64{p[0], p[1]}, SymbolSize: 8}
	}
	sc.AddSeries(seriesName, data)
	return sc
}

// Page lays out several charts on one flex page, used for the dashboard
// view and as the source document for PDF capture.
func (b *Builder) Page(title string, items ...Chart) *components.Page {
	page := components.NewPage()
	page.PageTitle = title
	page.SetLayout(components.PageFlexLayout)
	for _, c := range items {
		page.AddCharts(c)
	}
	return page
}
