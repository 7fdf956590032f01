package reports

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gmaffy/kitcomp/metrics"
	"gonum.org/v1/gonum/stat"
)

const (
	CpGDistSuffix  = "_cpg_dist_table.txt"
	cpgDepthSuffix = "_table.txt"
	cpgDepthInfix  = "_cpgs_"
)

// CpGCategories are the region rows of a CpG distribution table.
var CpGCategories = []string{"TotalCpGs", "CGICpGs", "ExonicCpGs", "GenicCpGs", "RepeatCpGs"}

var cpgDistPatterns = compileCpGDistPatterns()

func compileCpGDistPatterns() map[string][2]*regexp.Regexp {
	out := make(map[string][2]*regexp.Regexp, len(CpGCategories))
	for _, cat := range CpGCategories {
		out[cat] = [2]*regexp.Regexp{
			regexp.MustCompile(fmt.Sprintf(`(?m)%s\s+(All)\s+(\d+)\s+(\d+)`, cat)),
			regexp.MustCompile(fmt.Sprintf(`(?m)%s\s+(Q40)\s+(\d+)\s+(\d+)`, cat)),
		}
	}
	return out
}

// ParseCpGDistTable reports the percentage of CpGs covered per region, for all
// reads and for MAPQ >= 40 reads. A region is filled only when both rows exist.
func ParseCpGDistTable(path string) (Result, error) {
	text, err := readText(path)
	if err != nil {
		return Result{}, err
	}

	m := metrics.New()
	for _, cat := range CpGCategories {
		covered := metrics.New()
		m.Set(cat+"_percent_covered", covered)

		all := cpgDistPatterns[cat][0].FindStringSubmatch(text)
		q40 := cpgDistPatterns[cat][1].FindStringSubmatch(text)
		if all == nil || q40 == nil {
			continue
		}
		for _, row := range [][]string{all, q40} {
			n, err := parseInt(row[2], path)
			if err != nil {
				return Result{}, err
			}
			c, err := parseInt(row[3], path)
			if err != nil {
				return Result{}, err
			}
			p, err := percent(c, n)
			if err != nil {
				return Result{}, fmt.Errorf("%s: %s %s: %w", path, cat, row[1], err)
			}
			covered.Set(row[1], p)
		}
	}

	return Result{Sample: SampleName(path, CpGDistSuffix), Metrics: m}, nil
}

// ParseCpGDepthTable reads <sample>_cpgs_<region>_table.txt (header, then
// depth/count rows) and reports the count-weighted average depth as
// <region>_avg_depth.
func ParseCpGDepthTable(path string) (Result, error) {
	base := strings.TrimSuffix(filepath.Base(path), cpgDepthSuffix)
	i := strings.LastIndex(base, cpgDepthInfix)
	if i < 0 {
		return Result{}, fmt.Errorf("%s: %w: file name lacks %q", path, ErrMalformed, cpgDepthInfix)
	}
	sample, region := base[:i], base[i+len(cpgDepthInfix):]

	lines, err := dataLines(path, 1)
	if err != nil {
		return Result{}, err
	}

	var depths, counts []float64
	total := 0.0
	for _, l := range lines {
		fields := strings.Split(strings.TrimSpace(l), "\t")
		if len(fields) < 2 {
			return Result{}, fmt.Errorf("%s: %w: short row %q", path, ErrMalformed, l)
		}
		d, err := parseInt(fields[0], path)
		if err != nil {
			return Result{}, err
		}
		c, err := parseInt(fields[1], path)
		if err != nil {
			return Result{}, err
		}
		depths = append(depths, float64(d))
		counts = append(counts, float64(c))
		total += float64(c)
	}
	if total == 0 {
		return Result{}, fmt.Errorf("%s: %w: no CpGs counted", path, ErrEmpty)
	}

	weights := make([]float64, len(counts))
	for i, c := range counts {
		weights[i] = c / total
	}

	m := metrics.New()
	m.Set(region+"_avg_depth", stat.Mean(depths, weights))
	return Result{Sample: sample, Metrics: m}, nil
}
