// Package trinuc averages methylation over CAH, CAG, CTH and CTG contexts from
// BISCUIT cytosine context BED files.
package trinuc

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gmaffy/kitcomp/reports"
)

// Context BED columns used here.
const (
	colGroup   = 4 // CG, CHG or CHH
	colTwoBase = 5 // CA, CC, CG, CT
	colBeta    = 7
)

// Summary holds base-averaged methylation percentages.
type Summary struct {
	CAH, CAG, CTH, CTG float64
}

type accum struct {
	sum float64
	n   int
}

func (a accum) percent(ctx, path string) (float64, error) {
	if a.n == 0 {
		return 0, fmt.Errorf("%s: %w: no %s rows", path, reports.ErrEmpty, ctx)
	}
	return 100 * a.sum / float64(a.n), nil
}

// Summarize streams a context BED (gzip compressed when it ends in .gz).
func Summarize(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
		}
		defer gz.Close()
		reader = gz
	}

	acc := map[string]*accum{
		"CHH/CA": {}, "CHG/CA": {}, "CHH/CT": {}, "CHG/CT": {},
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) <= colBeta {
			return Summary{}, fmt.Errorf("%s: %w: short row %q", path, reports.ErrMalformed, line)
		}
		a, ok := acc[fields[colGroup]+"/"+fields[colTwoBase]]
		if !ok {
			continue
		}
		beta, err := strconv.ParseFloat(fields[colBeta], 64)
		if err != nil {
			return Summary{}, fmt.Errorf("%s: %w: beta %q", path, reports.ErrMalformed, fields[colBeta])
		}
		a.sum += beta
		a.n++
	}
	if err := scanner.Err(); err != nil {
		return Summary{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var s Summary
	for _, c := range []struct {
		key, name string
		dst       *float64
	}{
		{"CHH/CA", "CAH", &s.CAH},
		{"CHG/CA", "CAG", &s.CAG},
		{"CHH/CT", "CTH", &s.CTH},
		{"CHG/CT", "CTG", &s.CTG},
	} {
		if *c.dst, err = acc[c.key].percent(c.name, path); err != nil {
			return Summary{}, err
		}
	}
	return s, nil
}

// WriteSummary writes the single line read by reports.ParseTrinucMeth.
func WriteSummary(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(w, "%.2f\t%.2f\t%.2f\t%.2f", s.CAH, s.CAG, s.CTH, s.CTG)
	return err
}
