package reports

import (
	"regexp"

	"github.com/gmaffy/kitcomp/metrics"
)

const SamtoolsStatSuffix = ".sorted.markdup.bam.stat"

var insertSizeAverage = regexp.MustCompile(`(?m)SN\s+insert size average:\s+(\d*[.,]?\d*)`)

// ParseSamtoolsStats pulls the average insert size out of a samtools stats file.
// A file without the SN line yields no metric rather than an error.
func ParseSamtoolsStats(path string) (Result, error) {
	text, err := readText(path)
	if err != nil {
		return Result{}, err
	}

	m := metrics.New()
	if sm := insertSizeAverage.FindStringSubmatch(text); sm != nil && sm[1] != "" {
		v, err := parseFloat(sm[1], path)
		if err != nil {
			return Result{}, err
		}
		m.Set("avg_insert", v)
	}

	return Result{Sample: SampleName(path, SamtoolsStatSuffix, ".subsampled"), Metrics: m}, nil
}
