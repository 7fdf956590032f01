package reports

import (
	"fmt"
	"strings"

	"github.com/gmaffy/kitcomp/metrics"
)

// TrinucContexts is the column order of a trinucleotide methylation file.
var TrinucContexts = []string{"cah", "cag", "cth", "ctg"}

// ParseTrinucMeth reads the single line of base-averaged CAH, CAG, CTH and CTG
// methylation percentages. ext is stripped from the file name to get the sample.
func ParseTrinucMeth(path, ext string) (Result, error) {
	lines, err := dataLines(path, 0)
	if err != nil {
		return Result{}, err
	}
	if len(lines) != 1 {
		return Result{}, fmt.Errorf("%s: %w: expected 1 line, got %d", path, ErrMalformed, len(lines))
	}

	vals := strings.Split(strings.TrimSpace(lines[0]), "\t")
	if len(vals) != len(TrinucContexts) {
		return Result{}, fmt.Errorf("%s: %w: expected %d values, got %d", path, ErrMalformed, len(TrinucContexts), len(vals))
	}

	m := metrics.New()
	for i, ctx := range TrinucContexts {
		v, err := parseFloat(vals[i], path)
		if err != nil {
			return Result{}, err
		}
		m.Set(ctx+"_methylation_percent", v)
	}
	return Result{Sample: SampleName(path, ext), Metrics: m}, nil
}
