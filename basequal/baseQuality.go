package basequal

import (
	"compress/gzip"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
	"golang.org/x/sync/errgroup"
)

// Stats are the base quality counts of one FASTQ file.
type Stats struct {
	Filename string
	Reads    int
	Bases    int
	AvgQ20   int // reads with mean Phred >= 20
	AvgQ30   int // reads with mean Phred >= 30
	LowQ20   int // bases with Phred < 20

	// NameDigest hashes the read names in file order, so two mates can be
	// checked for matching order without keeping the names around.
	NameDigest uint64
}

// ScanFastq reads a FASTQ file (gzip compressed when it ends in .gz) and
// counts read and base qualities.
func ScanFastq(path string) (Stats, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Filename: abs}

	f, err := os.Open(path)
	if err != nil {
		return st, err
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return st, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
		}
		defer gz.Close()
		reader = gz
	}

	names := fnv.New64a()
	sc := seqio.NewScanner(fastq.NewReader(reader, linear.NewQSeq("", nil, alphabet.DNAredundant, alphabet.Sanger)))
	for sc.Next() {
		s := sc.Seq().(*linear.QSeq)
		names.Write([]byte(s.Name()))
		names.Write([]byte{'\n'})

		sum := 0
		for _, ql := range s.Seq {
			q := int(ql.Q)
			sum += q
			if q < 20 {
				st.LowQ20++
			}
		}
		if n := len(s.Seq); n > 0 {
			avg := float64(sum) / float64(n)
			if avg >= 20 {
				st.AvgQ20++
			}
			if avg >= 30 {
				st.AvgQ30++
			}
			st.Bases += n
		}
		st.Reads++
	}
	if err := sc.Error(); err != nil {
		return st, fmt.Errorf("reading %s: %w", path, err)
	}

	st.NameDigest = names.Sum64()
	return st, nil
}

// ScanPair scans the two mates of a read pair concurrently.
func ScanPair(fastq1, fastq2 string) (Stats, Stats, error) {
	var r1, r2 Stats
	var g errgroup.Group
	g.Go(func() error {
		var err error
		r1, err = ScanFastq(fastq1)
		return err
	})
	g.Go(func() error {
		var err error
		r2, err = ScanFastq(fastq2)
		return err
	})
	if err := g.Wait(); err != nil {
		return r1, r2, err
	}
	return r1, r2, nil
}

// InOrder reports whether both mates list the same reads in the same order.
func InOrder(r1, r2 Stats) bool {
	return r1.Reads == r2.Reads && r1.NameDigest == r2.NameDigest
}

// WriteLog writes the read quality summary of a pair in the layout read by
// reports.ParseRawReadLog.
func WriteLog(w io.Writer, r1, r2 Stats) error {
	if InOrder(r1, r2) {
		fmt.Fprintln(w, "All reads are ordering correctly!")
	} else {
		fmt.Fprintln(w, "There is a read out of order in:", r1.Filename, "and", r2.Filename)
	}

	for i, st := range []Stats{r1, r2} {
		if st.Reads == 0 || st.Bases == 0 {
			return fmt.Errorf("%s: no reads", st.Filename)
		}
		_, err := fmt.Fprintf(w, `
    Read %[1]d filename: %[2]s
    Read %[1]d number of reads: %[3]d
    Read %[1]d number of bases: %[4]d
    Read %[1]d %% of reads with avg. base quality >= 20: %.2[5]f
    Read %[1]d %% of reads with avg. base quality >= 30: %.2[6]f
    Read %[1]d %% of bases with base quality < 20: %.2[7]f
`,
			i+1, st.Filename, st.Reads, st.Bases,
			100*float64(st.AvgQ20)/float64(st.Reads),
			100*float64(st.AvgQ30)/float64(st.Reads),
			100*float64(st.LowQ20)/float64(st.Bases))
		if err != nil {
			return err
		}
	}
	return nil
}
