// Package reports parses the text reports written by the tools of the WGBS
// pipeline (read QC, trimming, samtools, BISCUITqc, Preseq, CpG coverage) into
// per-sample metric maps.
package reports

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gmaffy/kitcomp/metrics"
	"golang.org/x/exp/constraints"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrMismatch     = errors.New("read1/read2 mismatch")
	ErrMalformed    = errors.New("malformed value")
	ErrEmpty        = errors.New("empty table")
)

// Result is what every parser returns: the sample the file belongs to and
// the metrics extracted from it.
type Result struct {
	Sample  string
	Metrics *metrics.Map
}

// SampleName strips the directory and then each suffix, in order, from path.
// Every parser goes through here so records of one sample merge.
func SampleName(path string, suffixes ...string) string {
	name := filepath.Base(path)
	for _, s := range suffixes {
		name = strings.TrimSuffix(name, s)
	}
	return name
}

func readText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// dataLines returns the lines of path after skipping the first skip lines.
// Blank lines are dropped.
func dataLines(path string, skip int) ([]string, error) {
	text, err := readText(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var out []string
	for i, l := range lines {
		if i < skip || strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// percent is 100*num/den.
func percent[T constraints.Integer | constraints.Float](num, den T) (float64, error) {
	r, err := ratio(num, den)
	return 100 * r, err
}

func ratio[T constraints.Integer | constraints.Float](num, den T) (float64, error) {
	if den == 0 {
		return 0, fmt.Errorf("%w: zero denominator", ErrEmpty)
	}
	return float64(num) / float64(den), nil
}

// findInt returns the integer in the first capture group of re, with
// thousands separators removed.
func findInt(re *regexp.Regexp, text, path string) (int64, error) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, fmt.Errorf("%s: %w: %s", path, ErrMissingField, re.String())
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %q", path, ErrMalformed, m[1])
	}
	return v, nil
}

// parseFloat accepts finite numbers only.
func parseFloat(s, path string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: %w: %q", path, ErrMalformed, s)
	}
	return v, nil
}

func parseInt(s, path string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %q", path, ErrMalformed, s)
	}
	return v, nil
}
