package reports

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gmaffy/kitcomp/metrics"
)

const BiscuitQCDirSuffix = "_QC"

type qcParser func(path string) (*metrics.Map, error)

// BISCUITqc sub-reports in the order they appear in a sample record.
var biscuitQCFiles = []struct {
	suffix string
	key    string
	parse  qcParser
}{
	{"_cv_table.txt", "uniformity", parseCVTable},
	{"_dup_report.txt", "dup_report", parseDupReport},
	{"_totalBaseConversionRate.txt", "base_rtn", retentionRateParser("b")},
	{"_totalReadConversionRate.txt", "read_rtn", retentionRateParser("r")},
	{"_mapq_table.txt", "aligned_reads", parseMapqTable},
	{"_CpGRetentionByReadPos.txt", "cpg_rtn_readpos", parseRetentionByReadPos},
	{"_CpHRetentionByReadPos.txt", "cph_rtn_readpos", parseRetentionByReadPos},
	{"_covdist_all_base_table.txt", "covdist_all_base", parseCovDist},
	{"_covdist_all_cpg_table.txt", "covdist_all_cpg", parseCovDist},
	{"_covdist_q40_base_table.txt", "covdist_q40_base", parseCovDist},
	{"_covdist_q40_cpg_table.txt", "covdist_q40_cpg", parseCovDist},
	{"_isize_table.txt", "isize_data", parseIsizeTable},
}

// ParseBiscuitQCDir parses the BISCUITqc reports in a <sample>_QC directory.
// Reports that are not present are left out of the record.
func ParseBiscuitQCDir(dir string) (Result, error) {
	sample := SampleName(filepath.Clean(dir), BiscuitQCDirSuffix)

	m := metrics.New()
	for _, f := range biscuitQCFiles {
		path := filepath.Join(dir, sample+f.suffix)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		sub, err := f.parse(path)
		if err != nil {
			return Result{}, err
		}
		m.Set(f.key, sub)
	}
	return Result{Sample: sample, Metrics: m}, nil
}

func parseMapqTable(path string) (*metrics.Map, error) {
	lines, err := dataLines(path, 2)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	var order []string
	for _, l := range lines {
		s := strings.Fields(l)
		if len(s) < 2 {
			return nil, fmt.Errorf("%s: %w: short row %q", path, ErrMalformed, l)
		}
		n, err := parseInt(s[1], path)
		if err != nil {
			return nil, err
		}
		if _, seen := counts[s[0]]; !seen {
			order = append(order, s[0])
		}
		counts[s[0]] = n
	}

	total := 0
	for mapq, n := range counts {
		if mapq != "unmapped" {
			total += n
		}
	}

	mapqPercent := metrics.New()
	for mapq := 0; mapq <= 60; mapq++ {
		n, ok := counts[strconv.Itoa(mapq)]
		if !ok {
			mapqPercent.SetInt(mapq, 0.0)
			continue
		}
		p, err := percent(n, total)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		mapqPercent.SetInt(mapq, p)
	}

	opt, sub, not := 0, 0, 0
	for _, mapq := range order {
		n := counts[mapq]
		if mapq == "unmapped" {
			not += n
			continue
		}
		q, err := parseInt(mapq, path)
		if err != nil {
			return nil, err
		}
		if q >= 40 {
			opt += n
		} else {
			sub += n
		}
	}

	out := metrics.New()
	out.Set("opt_align", opt)
	out.Set("sub_align", sub)
	out.Set("not_align", not)
	out.Set("mapq_percent", mapqPercent)
	return out, nil
}

func parseIsizeTable(path string) (*metrics.Map, error) {
	lines, err := dataLines(path, 2)
	if err != nil {
		return nil, err
	}

	pct := metrics.New()
	cnt := metrics.New()
	for _, l := range lines {
		fields := strings.Split(l, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s: %w: short row %q", path, ErrMalformed, l)
		}
		size, err := parseInt(fields[0], path)
		if err != nil {
			return nil, err
		}
		frac, err := parseFloat(fields[1], path)
		if err != nil {
			return nil, err
		}
		reads, err := parseFloat(fields[2], path)
		if err != nil {
			return nil, err
		}
		pct.SetInt(size, 100*frac)
		cnt.SetInt(size, reads)
	}

	out := metrics.New()
	out.Set("percent", pct)
	out.Set("readcnt", cnt)
	return out, nil
}

var dupPatterns = []struct {
	dup, total *regexp.Regexp
	key        string
}{
	{regexp.MustCompile(`(?m)Number of duplicate reads:\s+(\d+)`), regexp.MustCompile(`(?m)Number of reads:\s+(\d+)`), "dup_all"},
	{regexp.MustCompile(`(?m)Number of duplicate q40-reads:\s+(\d+)`), regexp.MustCompile(`(?m)Number of q40-reads:\s+(\d+)`), "dup_q40"},
}

func parseDupReport(path string) (*metrics.Map, error) {
	text, err := readText(path)
	if err != nil {
		return nil, err
	}

	out := metrics.New()
	for _, p := range dupPatterns {
		dup, err := findInt(p.dup, text, path)
		if err != nil {
			return nil, err
		}
		total, err := findInt(p.total, text, path)
		if err != nil {
			return nil, err
		}
		v, err := percent(dup, total)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", path, p.key, err)
		}
		out.Set(p.key, v)
	}
	return out, nil
}

var cvTargets = []string{"all_base", "all_cpg", "q40_base", "q40_cpg"}

const cvNumber = `([\d.]+(?:[eE][+-]?\d+)?)`

var cvPatterns = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(cvTargets))
	for _, t := range cvTargets {
		out[t] = regexp.MustCompile(fmt.Sprintf(`(?m)%s\t%s\t%s\t%s`, t, cvNumber, cvNumber, cvNumber))
	}
	return out
}()

// parseCVTable reads the depth mean and coefficient of variation per target.
func parseCVTable(path string) (*metrics.Map, error) {
	text, err := readText(path)
	if err != nil {
		return nil, err
	}

	out := metrics.New()
	for _, t := range cvTargets {
		m := cvPatterns[t].FindStringSubmatch(text)
		if m == nil {
			return nil, fmt.Errorf("%s: %w: %s", path, ErrMissingField, t)
		}
		mu, err := parseFloat(m[1], path)
		if err != nil {
			return nil, err
		}
		cv, err := parseFloat(m[3], path)
		if err != nil {
			return nil, err
		}
		out.Set(t+"_mu", mu)
		out.Set(t+"_cv", cv)
	}
	return out, nil
}

// parseCovDist turns a coverage histogram into the number of positions (in
// millions) covered at least c times, for the first 51 coverages.
func parseCovDist(path string) (*metrics.Map, error) {
	lines, err := dataLines(path, 2)
	if err != nil {
		return nil, err
	}

	dd := make(map[int]int)
	for _, l := range lines {
		fields := strings.Fields(l)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s: %w: short row %q", path, ErrMalformed, l)
		}
		cov, err := parseFloat(fields[0], path)
		if err != nil {
			return nil, err
		}
		n, err := parseFloat(fields[1], path)
		if err != nil {
			return nil, err
		}
		dd[int(math.Trunc(cov))] = int(math.Trunc(n))
	}

	covs := make([]int, 0, len(dd))
	remaining := 0
	for c, n := range dd {
		covs = append(covs, c)
		remaining += n
	}
	sort.Ints(covs)
	if len(covs) > 51 {
		covs = covs[:51]
	}

	out := metrics.New()
	for _, c := range covs {
		out.SetInt(c, float64(remaining)/1e6)
		remaining -= dd[c]
	}
	return out, nil
}

var retentionRow = regexp.MustCompile(`^([\d.]+)\t([\d.]+)\t([\d.]+)\t([\d.]+)`)

// retentionRateParser reads the A/C/G/T retention fractions on the third line
// of a total conversion rate file; keys are prefix + "ca", "cc", "cg", "ct".
func retentionRateParser(prefix string) qcParser {
	return func(path string) (*metrics.Map, error) {
		text, err := readText(path)
		if err != nil {
			return nil, err
		}
		lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
		if len(lines) < 3 {
			return nil, fmt.Errorf("%s: %w: retention rates", path, ErrMissingField)
		}
		m := retentionRow.FindStringSubmatch(lines[2])
		if m == nil {
			return nil, fmt.Errorf("%s: %w: %q", path, ErrMalformed, lines[2])
		}

		out := metrics.New()
		for i, ctx := range []string{"ca", "cc", "cg", "ct"} {
			v, err := parseFloat(m[i+1], path)
			if err != nil {
				return nil, err
			}
			out.Set(prefix+ctx, 100*v)
		}
		return out, nil
	}
}

// parseRetentionByReadPos reports, per read and position, the percentage of
// retained cytosines. Rows with an unknown read or strand tag make the whole
// table empty.
func parseRetentionByReadPos(path string) (*metrics.Map, error) {
	lines, err := dataLines(path, 2)
	if err != nil {
		return nil, err
	}

	type counts map[string]map[int]int
	reads := map[string]counts{
		"1": {"C": {}, "R": {}},
		"2": {"C": {}, "R": {}},
	}
	for _, l := range lines {
		fields := strings.Split(strings.TrimSpace(l), "\t")
		read, ok := reads[fields[0]]
		if !ok {
			return metrics.New(), nil
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("%s: %w: short row %q", path, ErrMalformed, l)
		}
		if fields[2] != "C" && fields[2] != "R" {
			return metrics.New(), nil
		}
		pos, err := parseInt(fields[1], path)
		if err != nil {
			return nil, err
		}
		n, err := parseInt(fields[3], path)
		if err != nil {
			return nil, err
		}
		read[fields[2]][pos] = n
	}

	out := metrics.New()
	for _, r := range []string{"1", "2"} {
		c := reads[r]
		positions := make([]int, 0, len(c["C"]))
		for pos := range c["C"] {
			positions = append(positions, pos)
		}
		sort.Ints(positions)

		rate := metrics.New()
		for _, pos := range positions {
			retained, ok := c["R"][pos]
			if !ok {
				continue
			}
			p, err := percent(retained, retained+c["C"][pos])
			if err != nil {
				continue
			}
			rate.SetInt(pos, p)
		}
		out.Set(r, rate)
	}
	return out, nil
}
