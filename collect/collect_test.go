package collect

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gmaffy/kitcomp/metrics"
	"github.com/gmaffy/kitcomp/reports"
)

func result(sample string, kv ...any) reports.Result {
	m := metrics.New()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1])
	}
	return reports.Result{Sample: sample, Metrics: m}
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestAggregateSingleResultRoundTrip(t *testing.T) {
	res := result("FtubeAneb", "avg_insert", 250.5, "read_count", 42)

	agg := NewAggregate()
	agg.Add(res)

	got := marshal(t, agg)
	want := `{"FtubeAneb":` + marshal(t, res.Metrics) + `}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestAggregateMergeIsIdempotent(t *testing.T) {
	res := result("S1", "dup_all", 5.0)

	once := NewAggregate()
	once.Add(res)

	twice := NewAggregate()
	twice.Add(res)
	twice.Add(res)

	if a, b := marshal(t, once), marshal(t, twice); a != b {
		t.Errorf("merging twice changed the result: %s vs %s", a, b)
	}
}

func TestAggregateShallowMergeLastWriteWins(t *testing.T) {
	a := NewAggregate()
	a.Add(result("S1", "read_count", 10, "avg_insert", 200.0))
	a.Add(result("S2", "read_count", 20))

	b := NewAggregate()
	b.Add(result("S3", "read_count", 30))
	b.Add(result("S1", "avg_insert", 300.0, "dup_all", 1.5))

	a.Merge(b)

	if got := strings.Join(a.Samples(), ","); got != "S1,S2,S3" {
		t.Errorf("sample order = %s", got)
	}
	rec, _ := a.Record("S1")
	want := `{"read_count":10,"avg_insert":300,"dup_all":1.5}`
	if got := marshal(t, rec); got != want {
		t.Errorf("S1 = %s, want %s", got, want)
	}
}

func TestWriteJSONIndent(t *testing.T) {
	agg := NewAggregate()
	agg.Add(result("S1", "avg_insert", 250.5))

	path := filepath.Join(t.TempDir(), "out.json")
	if err := agg.WriteJSON(path); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n    \"S1\": {\n        \"avg_insert\": 250.5\n    }\n}\n"
	if string(b) != want {
		t.Errorf("got %q, want %q", b, want)
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

const trimReport = "Total reads processed: 1,000\nReads with adapters: 100 (10.0%)\nReads written (passing filters): 1,000 (100.0%)\n" +
	"Total basepairs processed: 100,000 bp\nQuality-trimmed: 1,000 bp (1.0%)\nTotal written (filtered): 99,000 bp (99.0%)\n"

func studyTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"analysis/cpg_covg/S1_cpgs_total_all_table.txt":             "depth\tcount\n1\t3\n2\t1\n",
		"analysis/cpg_covg/S1_cpgs_total_q40_table.txt":             "depth\tcount\n4\t1\n",
		"analysis/align/S1.sorted.markdup.bam.stat":                 "SN\tinsert size average:\t300.0\n",
		"analysis/align/S1_QC/S1_dup_report.txt":                    "Number of duplicate reads: 10\nNumber of reads: 200\nNumber of duplicate q40-reads: 1\nNumber of q40-reads: 100\n",
		"analysis/align/notes.txt":                                  "not a report",
		"analysis/preseq/S1.complex.ccurve.txt":                     "TOTAL\tDISTINCT\n10\t9\n",
		"trimmed_fastq/S1_L000_R1_001.fastq.gz_trimming_report.txt": trimReport,
		"trimmed_fastq/S1_L000_R2_001.fastq.gz_trimming_report.txt": trimReport,
	})
	return filepath.Join(root, "analysis")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCollectRawVariant(t *testing.T) {
	top := studyTree(t)
	c := &Collector{TopDir: top, Policy: Abort, Logger: quietLogger()}

	agg, err := c.Collect(Categories(Raw))
	if err != nil {
		t.Fatal(err)
	}
	if agg.Len() != 1 {
		t.Fatalf("expected one sample, got %v", agg.Samples())
	}
	rec, _ := agg.Record("S1")

	want := []string{
		"total_all_avg_depth", "total_q40_avg_depth",
		"r1_trimmed_bp", "r1_quality_bp", "r1_adapter_re", "r1_written_re",
		"r2_trimmed_bp", "r2_quality_bp", "r2_adapter_re", "r2_written_re",
		"avg_insert", "dup_report", "complexity_curve",
	}
	if got := strings.Join(rec.Keys(), ","); got != strings.Join(want, ",") {
		t.Errorf("keys = %s\nwant   %s", got, strings.Join(want, ","))
	}
	if v, _ := rec.Float("total_all_avg_depth"); v != 1.25 {
		t.Errorf("total_all_avg_depth = %v", v)
	}
	dup, _ := rec.Sub("dup_report")
	if v, _ := dup.Float("dup_all"); v != 5.0 {
		t.Errorf("dup_all = %v", v)
	}
}

func TestCollectErrorPolicy(t *testing.T) {
	top := studyTree(t)
	writeTree(t, top, map[string]string{
		"cpg_covg/S2_cpgs_total_all_table.txt": "depth\tcount\nx\t1\n",
	})

	abort := &Collector{TopDir: top, Policy: Abort, Logger: quietLogger()}
	if _, err := abort.Collect(Categories(Raw)); !errors.Is(err, reports.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}

	skip := &Collector{TopDir: top, Policy: Skip, Logger: quietLogger()}
	agg, err := skip.Collect(Categories(Raw))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := agg.Record("S2"); ok {
		t.Error("skipped file should not create a record")
	}
	if _, ok := agg.Record("S1"); !ok {
		t.Error("S1 missing")
	}
}

func TestCollectSubsampledVariant(t *testing.T) {
	top := studyTree(t)
	writeTree(t, top, map[string]string{
		"analyze_the_data/subsampling/cpg_covg/S1_cpgs_total_all_table.txt":           "depth\tcount\n1\t1\n3\t1\n",
		"analyze_the_data/subsampling/S1.subsampled.sorted.markdup.bam.stat":          "SN\tinsert size average:\t280.0\n",
		"analyze_the_data/subsampling/S1_QC/S1_dup_report.txt":                        "Number of duplicate reads: 20\nNumber of reads: 200\nNumber of duplicate q40-reads: 1\nNumber of q40-reads: 100\n",
		"analyze_the_data/subsampling/S1.complex.ccurve.txt":                          "TOTAL\tDISTINCT\n10\t8\n",
		"analyze_the_data/cpg_questions/trinuc_methylation/S1_sub.tsv":                "1.00\t2.00\t3.00\t4.00",
		"analyze_the_data/cpg_questions/trinuc_methylation/S1_raw.tsv":                "9.00\t9.00\t9.00\t9.00",
		"analyze_the_data/cpg_questions/exp_vs_obs_coverage/pbs_mappability/x.stdout": "not read for subsampled data",
	})

	c := &Collector{TopDir: top, Policy: Abort, Logger: quietLogger()}
	agg, err := c.Collect(Categories(Subsampled))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(agg.Samples(), ","); got != "S1" {
		t.Fatalf("samples = %s", got)
	}
	rec, _ := agg.Record("S1")

	want := []string{
		"total_all_avg_depth",
		"r1_trimmed_bp", "r1_quality_bp", "r1_adapter_re", "r1_written_re",
		"r2_trimmed_bp", "r2_quality_bp", "r2_adapter_re", "r2_written_re",
		"avg_insert", "dup_report", "complexity_curve",
		"cah_methylation_percent", "cag_methylation_percent", "cth_methylation_percent", "ctg_methylation_percent",
	}
	if got := strings.Join(rec.Keys(), ","); got != strings.Join(want, ",") {
		t.Errorf("keys = %s\nwant   %s", got, strings.Join(want, ","))
	}
	if v, _ := rec.Float("total_all_avg_depth"); v != 2.0 {
		t.Errorf("total_all_avg_depth = %v, want the subsampled table", v)
	}
	if v, _ := rec.Float("avg_insert"); v != 280.0 {
		t.Errorf("avg_insert = %v", v)
	}
	dup, _ := rec.Sub("dup_report")
	if v, _ := dup.Float("dup_all"); v != 10.0 {
		t.Errorf("dup_all = %v", v)
	}
	if v, _ := rec.Float("ctg_methylation_percent"); v != 4.0 {
		t.Errorf("ctg_methylation_percent = %v, want the _sub.tsv value", v)
	}
}

func TestCollectSkipsNonFiniteValues(t *testing.T) {
	top := studyTree(t)
	writeTree(t, top, map[string]string{
		"analyze_the_data/cpg_questions/trinuc_methylation/S1_raw.tsv": "nan\tnan\t1.0\t2.0",
		"analyze_the_data/cpg_questions/trinuc_methylation/S2_raw.tsv": "1.0\t2.0\t3.0\t4.0",
	})

	abort := &Collector{TopDir: top, Policy: Abort, Logger: quietLogger()}
	if _, err := abort.Collect(Categories(Raw)); !errors.Is(err, reports.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}

	skip := &Collector{TopDir: top, Policy: Skip, Logger: quietLogger()}
	agg, err := skip.Collect(Categories(Raw))
	if err != nil {
		t.Fatal(err)
	}
	rec, _ := agg.Record("S1")
	if _, ok := rec.Get("cah_methylation_percent"); ok {
		t.Error("skipped trinucleotide file contributed to S1")
	}
	if _, ok := agg.Record("S2"); !ok {
		t.Error("collection did not continue past the skipped file")
	}

	path := filepath.Join(t.TempDir(), Raw.OutputName())
	if err := agg.WriteJSON(path); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]map[string]any
	b, _ := os.ReadFile(path)
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["S2"]["ctg_methylation_percent"] != 4.0 {
		t.Errorf("S2 = %v", decoded["S2"])
	}
}

func TestWriteJSONKeepsFileOnEncodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	agg := NewAggregate()
	agg.Add(result("S1", "cah_methylation_percent", math.NaN()))
	if err := agg.WriteJSON(path); err == nil {
		t.Fatal("expected an encode error for NaN")
	}
	if b, _ := os.ReadFile(path); string(b) != "{}\n" {
		t.Errorf("existing output replaced with %q", b)
	}
}

func TestParseErrorPolicyAndVariant(t *testing.T) {
	if p, err := ParseErrorPolicy(""); err != nil || p != Abort {
		t.Errorf("default policy = %v, %v", p, err)
	}
	if _, err := ParseErrorPolicy("retry"); err == nil {
		t.Error("expected error for unknown policy")
	}
	v, err := ParseVariant("subsampled")
	if err != nil {
		t.Fatal(err)
	}
	if v.OutputName() != "kit_comp_collected_data_subsampled.json" {
		t.Errorf("output = %s", v.OutputName())
	}
	for _, cat := range Categories(Subsampled) {
		if cat.Name == "obs_exp" {
			t.Error("subsampled variant has no obs/exp category")
		}
	}
}
