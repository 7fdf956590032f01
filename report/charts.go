package report

import (
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/go-gota/gota/dataframe"

	"github.com/gmaffy/kitcomp/utils"
)

func metricBar(metric string, labels []string, values []float64, colors []string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: metric}),
		charts.WithYAxisOpts(opts.YAxis{Name: metric}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Sample"}),
	)

	var data []opts.BarData
	for i, v := range values {
		d := opts.BarData{Value: v}
		if math.IsNaN(v) {
			d.Value = "-"
		}
		if colors[i] != "" {
			d.ItemStyle = &opts.ItemStyle{Color: colors[i]}
		}
		data = append(data, d)
	}

	bar.SetXAxis(labels).AddSeries(metric, data)
	return bar
}

// RenderCharts writes one bar chart per metric of a Table to w as a single
// HTML page. Bars use the sample colors of the metadata table.
func RenderCharts(w io.Writer, df dataframe.DataFrame, samples *utils.SampleTable, metricPaths []string) error {
	names := df.Col("sample").Records()
	labels := df.Col("display").Records()
	colors := make([]string, len(names))
	for i, n := range names {
		info, _ := samples.Lookup(n)
		colors[i] = info.Color
	}

	page := components.NewPage()
	page.PageTitle = "Kit comparison"
	page.SetLayout(components.PageFlexLayout)
	for _, p := range metricPaths {
		page.AddCharts(metricBar(p, labels, df.Col(p).Float(), colors))
	}
	return page.Render(w)
}
