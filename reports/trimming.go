package reports

import (
	"regexp"
	"strings"

	"github.com/gmaffy/kitcomp/metrics"
)

const TrimReportSuffix = "_L000_R1_001.fastq.gz_trimming_report.txt"

var trimPatterns = []struct {
	key string
	re  *regexp.Regexp
}{
	{"bp_process", regexp.MustCompile(`(?m)Total basepairs processed:\s*([\d,]+) bp`)},
	{"bp_written", regexp.MustCompile(`(?m)Total written \(filtered\):\s*([\d,]+) bp`)},
	{"bp_quality", regexp.MustCompile(`(?m)Quality-trimmed:\s*([\d,]+) bp`)},
	{"re_process", regexp.MustCompile(`(?m)Total reads processed:\s*([\d,]+)`)},
	{"re_adapter", regexp.MustCompile(`(?m)Reads with adapters:\s*([\d,]+)`)},
	{"re_written", regexp.MustCompile(`(?m)Reads written \(passing filters\):\s*([\d,]+)`)},
}

func readTrimCounts(path string) (map[string]int64, error) {
	text, err := readText(path)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(trimPatterns))
	for _, p := range trimPatterns {
		v, err := findInt(p.re, text, path)
		if err != nil {
			return nil, err
		}
		counts[p.key] = v
	}
	return counts, nil
}

// ParseTrimmingReport reads the read 1 trimming report at r1Path together with
// its read 2 sibling and reports trimmed/written fractions for both reads.
func ParseTrimmingReport(r1Path string) (Result, error) {
	r2Path := strings.Replace(r1Path, "L000_R1_001", "L000_R2_001", 1)

	m := metrics.New()
	for _, side := range []struct {
		tag  string
		path string
	}{{"r1_", r1Path}, {"r2_", r2Path}} {
		c, err := readTrimCounts(side.path)
		if err != nil {
			return Result{}, err
		}

		trimmed, err := ratio(c["bp_process"]-c["bp_written"], c["bp_process"])
		if err != nil {
			return Result{}, err
		}
		quality, err := ratio(c["bp_quality"], c["bp_process"])
		if err != nil {
			return Result{}, err
		}
		adapter, err := ratio(c["re_adapter"], c["re_process"])
		if err != nil {
			return Result{}, err
		}
		written, err := ratio(c["re_written"], c["re_process"])
		if err != nil {
			return Result{}, err
		}

		m.Set(side.tag+"trimmed_bp", trimmed)
		m.Set(side.tag+"quality_bp", quality)
		m.Set(side.tag+"adapter_re", adapter)
		m.Set(side.tag+"written_re", written)
	}

	return Result{Sample: SampleName(r1Path, TrimReportSuffix), Metrics: m}, nil
}
