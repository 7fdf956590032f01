package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"github.com/gmaffy/kitcomp/utils"
)

// Table builds a samples x metrics dataframe. Rows follow the sample table
// order; missing metrics are NaN.
func Table(c Collected, samples *utils.SampleTable, metricPaths []string) dataframe.DataFrame {
	names := samples.Sort(c.Samples())

	kits := make([]string, len(names))
	display := make([]string, len(names))
	for i, name := range names {
		info, _ := samples.Lookup(name)
		kits[i] = info.Kit
		display[i] = info.Display
	}

	cols := []series.Series{
		series.New(names, series.String, "sample"),
		series.New(kits, series.String, "kit"),
		series.New(display, series.String, "display"),
	}
	for _, p := range metricPaths {
		vals := make([]float64, len(names))
		for i, name := range names {
			v, ok := c.Value(name, p)
			if !ok {
				v = math.NaN()
			}
			vals[i] = v
		}
		cols = append(cols, series.New(vals, series.Float, p))
	}
	return dataframe.New(cols...)
}

// KitSummary reduces a Table to one row per kit and metric with the number of
// samples, mean and sample standard deviation. Kits follow the sample table. NaN values are left out; the
// standard deviation of fewer than two values is 0.
func KitSummary(df dataframe.DataFrame, samples *utils.SampleTable, metricPaths []string) dataframe.DataFrame {
	kits := samples.Kits(df.Col("sample").Records())
	rowsByKit := make(map[string][]int)
	for i, k := range df.Col("kit").Records() {
		rowsByKit[k] = append(rowsByKit[k], i)
	}

	var outKit, outMetric []string
	var outN []int
	var outMean, outSD []float64
	for _, p := range metricPaths {
		col := df.Col(p).Float()
		for _, k := range kits {
			var vals []float64
			for _, i := range rowsByKit[k] {
				if !math.IsNaN(col[i]) {
					vals = append(vals, col[i])
				}
			}
			mean, sd := math.NaN(), 0.0
			switch {
			case len(vals) >= 2:
				mean, sd = stat.MeanStdDev(vals, nil)
			case len(vals) == 1:
				mean = vals[0]
			}
			outKit = append(outKit, k)
			outMetric = append(outMetric, p)
			outN = append(outN, len(vals))
			outMean = append(outMean, mean)
			outSD = append(outSD, sd)
		}
	}

	return dataframe.New(
		series.New(outKit, series.String, "kit"),
		series.New(outMetric, series.String, "metric"),
		series.New(outN, series.Int, "n"),
		series.New(outMean, series.Float, "mean"),
		series.New(outSD, series.Float, "stddev"),
	)
}

// WriteCSV writes df to path.
func WriteCSV(df dataframe.DataFrame, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// Files written by Write, relative to the output directory.
const (
	SamplesCSV = "kit_comp_samples.csv"
	KitsCSV    = "kit_comp_kits.csv"
	ChartsHTML = "kit_comp_overview.html"
)

// Write produces the sample table, the kit summary and the chart page in outDir.
func Write(c Collected, samples *utils.SampleTable, metricPaths []string, outDir string) error {
	if len(metricPaths) == 0 {
		metricPaths = DefaultMetrics
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	df := Table(c, samples, metricPaths)
	if err := df.Error(); err != nil {
		return fmt.Errorf("building sample table: %w", err)
	}
	if err := WriteCSV(df, filepath.Join(outDir, SamplesCSV)); err != nil {
		return err
	}
	if err := WriteCSV(KitSummary(df, samples, metricPaths), filepath.Join(outDir, KitsCSV)); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(outDir, ChartsHTML))
	if err != nil {
		return err
	}
	if err := RenderCharts(f, df, samples, metricPaths); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
