package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const studyConfig = `top_dir: /data/study/analysis
on_error: skip
samples:
  - name: FtubeAneb
    kit: NEB
    group: A
    replicate: 1
    display: NEB Rep. 1
    color: "#1E88E5"
    order: 5
  - name: FtubeAkapaBC
    kit: Kapa
    group: A
    replicate: 1
    color: "#D81B60"
    order: 1
  - name: FtubeAkapaBCrep2
    kit: Kapa
    group: A
    replicate: 2
    display: Kapa Rep. 2
    order: 3
`

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kitcomp.yaml")
	if err := os.WriteFile(path, []byte(studyConfig), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TopDir != "/data/study/analysis" || cfg.OnError != "skip" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.OutputDir != "." || cfg.LogFile != "kitcomp.log" {
		t.Errorf("defaults not kept: %+v", cfg)
	}
	if len(cfg.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(cfg.Samples))
	}

	table, err := NewSampleTable(cfg.Samples)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := table.Lookup("FtubeAkapaBC")
	if !ok || s.Kit != "Kapa" || s.Display != "FtubeAkapaBC" || s.Color != "#D81B60" {
		t.Errorf("lookup = %+v, %v", s, ok)
	}

	order := table.Sort([]string{"Zed", "FtubeAneb", "FtubeAkapaBCrep2", "Abc", "FtubeAkapaBC"})
	if got := strings.Join(order, ","); got != "FtubeAkapaBC,FtubeAkapaBCrep2,FtubeAneb,Abc,Zed" {
		t.Errorf("sort = %s", got)
	}
	if got := strings.Join(table.Kits([]string{"FtubeAneb", "FtubeAkapaBC", "Other"}), ","); got != "Kapa,NEB,unknown" {
		t.Errorf("kits = %s", got)
	}
}

func TestReadConfigDuplicateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.yaml")
	content := "samples:\n  - name: A\n  - name: A\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadConfig(path); err == nil {
		t.Error("expected an error for a duplicated sample")
	}
}

func TestReadConfigEmptyPath(t *testing.T) {
	cfg, err := ReadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OnError != "abort" || cfg.OutputDir != "." || len(cfg.Samples) != 0 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}
