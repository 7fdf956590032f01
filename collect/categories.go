package collect

import (
	"fmt"
	"path/filepath"

	"github.com/gmaffy/kitcomp/reports"
)

// Category is one kind of report: where its files live and how to parse them.
type Category struct {
	Name    string
	Pattern string // glob, relative to the study top directory
	Dirs    bool   // pattern matches directories instead of files
	Parse   func(path string) (reports.Result, error)
}

// Variant selects which alignments the collected data comes from.
type Variant string

const (
	Raw        Variant = "raw"
	Subsampled Variant = "subsampled"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case Raw, Subsampled:
		return Variant(s), nil
	}
	return "", fmt.Errorf("unknown variant %q (want %s or %s)", s, Raw, Subsampled)
}

// OutputName is the JSON artifact written for v.
func (v Variant) OutputName() string {
	if v == Subsampled {
		return "kit_comp_collected_data_subsampled.json"
	}
	return "kit_comp_collected_data.json"
}

const (
	subsamplingDir = "analyze_the_data/subsampling"
	obsExpDir      = "analyze_the_data/cpg_questions/exp_vs_obs_coverage/pbs_mappability"
	TrinucDir      = "analyze_the_data/cpg_questions/trinuc_methylation"
	TrinucRawExt   = "_raw.tsv"
	TrinucSubExt   = "_sub.tsv"
	ObsExpPrefix   = "mappy_"
)

// Categories lists the report categories of v in merge order.
func Categories(v Variant) []Category {
	rawQual := Category{Name: "raw_read_quality", Pattern: "raw_read_quality/pbs/*.log", Parse: reports.ParseRawReadLog}
	trimming := Category{Name: "trimming", Pattern: "../trimmed_fastq/*_L000_R1_*report.txt", Parse: reports.ParseTrimmingReport}

	if v == Subsampled {
		return []Category{
			rawQual,
			{Name: "cpg_dist", Pattern: filepath.Join(subsamplingDir, "cpg_covg/*_cpg_dist_table.txt"), Parse: reports.ParseCpGDistTable},
			{Name: "cpg_depth", Pattern: filepath.Join(subsamplingDir, "cpg_covg/*_cpgs_*_table.txt"), Parse: reports.ParseCpGDepthTable},
			trimming,
			{Name: "samtools_stats", Pattern: filepath.Join(subsamplingDir, "*.bam.stat"), Parse: reports.ParseSamtoolsStats},
			{Name: "biscuitqc", Pattern: filepath.Join(subsamplingDir, "*_QC"), Dirs: true, Parse: reports.ParseBiscuitQCDir},
			{Name: "preseq", Pattern: filepath.Join(subsamplingDir, "*.ccurve.txt"), Parse: reports.ParsePreseqCurve},
			trinucCategory(TrinucSubExt),
		}
	}

	return []Category{
		rawQual,
		{Name: "cpg_dist", Pattern: "cpg_covg/*_cpg_dist_table.txt", Parse: reports.ParseCpGDistTable},
		{Name: "cpg_depth", Pattern: "cpg_covg/*_cpgs_*_table.txt", Parse: reports.ParseCpGDepthTable},
		trimming,
		{Name: "samtools_stats", Pattern: "align/*.bam.stat", Parse: reports.ParseSamtoolsStats},
		{Name: "biscuitqc", Pattern: "align/*_QC", Dirs: true, Parse: reports.ParseBiscuitQCDir},
		{Name: "preseq", Pattern: "preseq/*.ccurve.txt", Parse: reports.ParsePreseqCurve},
		{Name: "obs_exp", Pattern: filepath.Join(obsExpDir, "*.stdout"), Parse: func(path string) (reports.Result, error) {
			return reports.ParseObsExpLog(path, ObsExpPrefix)
		}},
		trinucCategory(TrinucRawExt),
	}
}

func trinucCategory(ext string) Category {
	return Category{
		Name:    "trinuc_meth",
		Pattern: filepath.Join(TrinucDir, "*"+ext),
		Parse: func(path string) (reports.Result, error) {
			return reports.ParseTrinucMeth(path, ext)
		},
	}
}
