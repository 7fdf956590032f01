// Package report turns a collected kit comparison JSON into a per-sample
// summary table, a per-kit summary and an HTML chart page.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// DefaultMetrics are the dotted metric paths summarized when none are given.
var DefaultMetrics = []string{
	"read_count",
	"r1_read_base_30",
	"r2_read_base_30",
	"r1_trimmed_bp",
	"avg_insert",
	"TotalCpGs_percent_covered.All",
	"TotalCpGs_percent_covered.Q40",
	"aligned_reads.opt_align",
	"dup_report.dup_all",
	"dup_report.dup_q40",
	"uniformity.all_cpg_cv",
	"base_rtn.bca",
	"mappy_cpgs_obs_exp_ratio",
	"cah_methylation_percent",
	"ctg_methylation_percent",
}

// Collected is the decoded artifact: sample -> metric tree.
type Collected map[string]map[string]any

// LoadCollected reads a JSON file written by the collect command.
func LoadCollected(path string) (Collected, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Collected
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return c, nil
}

// Samples returns the sample names in lexical order.
func (c Collected) Samples() []string {
	out := make([]string, 0, len(c))
	for s := range c {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Value resolves a dotted metric path such as "dup_report.dup_all" in the
// record of sample. Only numeric leaves resolve.
func (c Collected) Value(sample, path string) (float64, bool) {
	var cur any = c[sample]
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return 0, false
		}
		if cur, ok = m[part]; !ok {
			return 0, false
		}
	}
	f, ok := cur.(float64)
	return f, ok
}
