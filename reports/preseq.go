package reports

import (
	"fmt"
	"strings"

	"github.com/gmaffy/kitcomp/metrics"
)

const PreseqCurveSuffix = ".complex.ccurve.txt"

// ParsePreseqCurve reads a Preseq c_curve table (header plus total/distinct rows).
func ParsePreseqCurve(path string) (Result, error) {
	lines, err := dataLines(path, 1)
	if err != nil {
		return Result{}, err
	}

	curve := metrics.New()
	for _, l := range lines {
		fields := strings.Split(strings.TrimSpace(l), "\t")
		if len(fields) < 2 {
			return Result{}, fmt.Errorf("%s: %w: short row %q", path, ErrMalformed, l)
		}
		total, err := parseInt(fields[0], path)
		if err != nil {
			return Result{}, err
		}
		distinct, err := parseFloat(fields[1], path)
		if err != nil {
			return Result{}, err
		}
		curve.SetInt(total, distinct)
	}

	m := metrics.New()
	m.Set("complexity_curve", curve)
	return Result{Sample: SampleName(path, PreseqCurveSuffix), Metrics: m}, nil
}
