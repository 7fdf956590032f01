package reports

import (
	"fmt"
	"regexp"

	"github.com/gmaffy/kitcomp/metrics"
)

type rawReadField struct {
	label string
	key   string
}

var rawReadFields = []rawReadField{
	{"filename", "sample"},
	{"number of reads", "read_count"},
	{"number of bases", "base_count"},
	{"% of reads with avg. base quality >= 20", "read_base_20"},
	{"% of reads with avg. base quality >= 30", "read_base_30"},
	{"% of bases with base quality < 20", "low_base_qual"},
}

var rawReadPatterns = compileRawReadPatterns()

func compileRawReadPatterns() map[int]map[string]*regexp.Regexp {
	out := make(map[int]map[string]*regexp.Regexp)
	for _, read := range []int{1, 2} {
		out[read] = make(map[string]*regexp.Regexp)
		for _, f := range rawReadFields {
			value := `(\d*[.,]?\d*)`
			switch f.key {
			case "sample":
				value = `(/.*?\.[\w:]+)`
			case "read_count", "base_count":
				value = `(\d+)`
			}
			out[read][f.key] = regexp.MustCompile(fmt.Sprintf(`(?m)Read %d\s+%s:\s+%s`, read, regexp.QuoteMeta(f.label), value))
		}
	}
	return out
}

type rawReadSide struct {
	sample string
	reads  int
	bases  int
	pcts   map[string]float64
}

func parseRawReadSide(text, path string, read int) (rawReadSide, error) {
	side := rawReadSide{pcts: make(map[string]float64)}
	for _, f := range rawReadFields {
		m := rawReadPatterns[read][f.key].FindStringSubmatch(text)
		if m == nil || m[1] == "" {
			return side, fmt.Errorf("%s: %w: Read %d %s", path, ErrMissingField, read, f.label)
		}
		var err error
		switch f.key {
		case "sample":
			side.sample = SampleName(m[1], "_L000_R1_001.fastq", "_L000_R2_001.fastq")
		case "read_count":
			side.reads, err = parseInt(m[1], path)
		case "base_count":
			side.bases, err = parseInt(m[1], path)
		default:
			side.pcts[f.key], err = parseFloat(m[1], path)
		}
		if err != nil {
			return side, err
		}
	}
	return side, nil
}

// ParseRawReadLog reads the log written by the base quality scan of a read pair.
// Read 1 and read 2 must agree on sample, read count and base count.
func ParseRawReadLog(path string) (Result, error) {
	text, err := readText(path)
	if err != nil {
		return Result{}, err
	}

	r1, err := parseRawReadSide(text, path, 1)
	if err != nil {
		return Result{}, err
	}
	r2, err := parseRawReadSide(text, path, 2)
	if err != nil {
		return Result{}, err
	}

	if r1.sample != r2.sample {
		return Result{}, fmt.Errorf("%s: %w: sample %s != %s", path, ErrMismatch, r1.sample, r2.sample)
	}
	if r1.reads != r2.reads {
		return Result{}, fmt.Errorf("%s: %w: read count %d != %d", path, ErrMismatch, r1.reads, r2.reads)
	}
	if r1.bases != r2.bases {
		return Result{}, fmt.Errorf("%s: %w: base count %d != %d", path, ErrMismatch, r1.bases, r2.bases)
	}

	m := metrics.New()
	for _, s := range []struct {
		tag  string
		side rawReadSide
	}{{"r1_", r1}, {"r2_", r2}} {
		for _, key := range []string{"read_base_20", "read_base_30", "low_base_qual"} {
			m.Set(s.tag+key, s.side.pcts[key])
		}
	}
	m.Set("read_count", r1.reads)
	m.Set("base_count", r1.bases)

	return Result{Sample: r1.sample, Metrics: m}, nil
}
