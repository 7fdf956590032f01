package reports

import (
	"fmt"
	"strings"

	"github.com/gmaffy/kitcomp/metrics"
)

const (
	obsExpRefLen = 1
	obsExpMapLen = 8
)

// Column pairs (expected in reference, observed in mapped reads) per region.
var obsExpRegions = []struct {
	key      string
	exp, obs int
}{
	{"cpgs_obs_exp_ratio", 2, 9},
	{"cpis_obs_exp_ratio", 3, 10},
	{"rmsk_obs_exp_ratio", 4, 11},
	{"exon_obs_exp_ratio", 5, 12},
	{"gene_obs_exp_ratio", 6, 13},
	{"intr_obs_exp_ratio", 7, 14},
}

// ParseObsExpLog reads the one-line stdout of the observed/expected coverage
// job. The sample is the first column; each key is prefixed with prefix.
func ParseObsExpLog(path, prefix string) (Result, error) {
	lines, err := dataLines(path, 0)
	if err != nil {
		return Result{}, err
	}
	if len(lines) == 0 {
		return Result{}, fmt.Errorf("%s: %w", path, ErrEmpty)
	}

	fields := strings.Fields(lines[0])
	if len(fields) < 15 {
		return Result{}, fmt.Errorf("%s: %w: expected 15 columns, got %d", path, ErrMissingField, len(fields))
	}
	vals := make([]float64, len(fields))
	for i := 1; i < len(fields); i++ {
		if vals[i], err = parseFloat(fields[i], path); err != nil {
			return Result{}, err
		}
	}

	m := metrics.New()
	for _, r := range obsExpRegions {
		exp, err := ratio(vals[r.exp], vals[obsExpRefLen])
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", path, err)
		}
		obs, err := ratio(vals[r.obs], vals[obsExpMapLen])
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", path, err)
		}
		v, err := ratio(obs, exp)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %s: %w", path, r.key, err)
		}
		m.Set(prefix+r.key, v)
	}

	return Result{Sample: fields[0], Metrics: m}, nil
}
