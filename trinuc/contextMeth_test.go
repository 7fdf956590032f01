package trinuc

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gmaffy/kitcomp/reports"
)

const contextBed = "chr1\t10\t11\tC\tCHH\tCA\tCAAAT\t0.10\t5\n" +
	"chr1\t20\t21\tC\tCHH\tCA\tCAAAT\t0.30\t5\n" +
	"chr1\t30\t31\tC\tCHG\tCA\tCAGAT\t0.50\t5\n" +
	"chr1\t40\t41\tC\tCHH\tCT\tCTAAT\t0.02\t5\n" +
	"chr1\t50\t51\tC\tCHG\tCT\tCTGAT\t0.04\t5\n" +
	"chr1\t60\t61\tC\tCG\tCG\tCGAAT\t0.90\t5\n"

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "FtubeAneb.c.context.sorted.bed")
	if err := os.WriteFile(path, []byte(contextBed), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Summarize(path)
	if err != nil {
		t.Fatal(err)
	}
	for name, c := range map[string][2]float64{
		"CAH": {s.CAH, 20}, "CAG": {s.CAG, 50}, "CTH": {s.CTH, 2}, "CTG": {s.CTG, 4},
	} {
		if math.Abs(c[0]-c[1]) > 1e-9 {
			t.Errorf("%s = %v, want %v", name, c[0], c[1])
		}
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, s); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "FtubeAneb_raw.tsv")
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	res, err := reports.ParseTrinucMeth(out, "_raw.tsv")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := res.Metrics.Float("cah_methylation_percent"); v != 20 {
		t.Errorf("cah = %v", v)
	}
}

func TestSummarizeMissingContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.bed")
	os.WriteFile(path, []byte("chr1\t10\t11\tC\tCHH\tCA\tCAAAT\t0.10\t5\n"), 0644)

	if _, err := Summarize(path); !errors.Is(err, reports.ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}
