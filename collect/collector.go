package collect

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// ErrorPolicy decides what a parser error does to a collection run.
type ErrorPolicy string

const (
	// Abort stops the run at the first parser error.
	Abort ErrorPolicy = "abort"
	// Skip logs the error and leaves the file out.
	Skip ErrorPolicy = "skip"
)

func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch ErrorPolicy(s) {
	case Abort, Skip:
		return ErrorPolicy(s), nil
	case "":
		return Abort, nil
	}
	return "", fmt.Errorf("unknown error policy %q (want %s or %s)", s, Abort, Skip)
}

// Collector runs the report categories of a study directory and merges their
// results per sample. Files are processed one at a time.
type Collector struct {
	TopDir string
	Policy ErrorPolicy
	Logger *slog.Logger
}

func (c *Collector) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Collect parses every category and merges them, in order, into one aggregate.
func (c *Collector) Collect(categories []Category) (*Aggregate, error) {
	all := NewAggregate()
	for _, cat := range categories {
		agg, err := c.CollectCategory(cat)
		if err != nil {
			return nil, err
		}
		all.Merge(agg)
	}
	return all, nil
}

// CollectCategory parses the files matched by one category.
func (c *Collector) CollectCategory(cat Category) (*Aggregate, error) {
	log := c.logger()

	paths, err := c.match(cat)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Collecting %s: %d inputs ...\n", cat.Name, len(paths))
	log.Info("COLLECT", "PROGRAM", cat.Name, "SAMPLE", "ALL", "STATUS", "STARTED", "FILES", len(paths))

	agg := NewAggregate()
	for _, path := range paths {
		res, err := cat.Parse(path)
		if err != nil {
			if c.Policy == Skip {
				fmt.Printf("Skipping %s: %v\n", path, err)
				log.Warn("COLLECT", "PROGRAM", cat.Name, "FILE", path, "STATUS", fmt.Sprintf("SKIPPED - %v", err))
				continue
			}
			log.Error("COLLECT", "PROGRAM", cat.Name, "FILE", path, "STATUS", fmt.Sprintf("FAILED - %v", err))
			return nil, fmt.Errorf("%s: %w", cat.Name, err)
		}
		agg.Add(res)
		log.Info("COLLECT", "PROGRAM", cat.Name, "SAMPLE", res.Sample, "FILE", path, "STATUS", "COMPLETED")
	}
	return agg, nil
}

func (c *Collector) match(cat Category) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(c.TopDir, cat.Pattern))
	if err != nil {
		return nil, fmt.Errorf("%s: bad pattern %q: %w", cat.Name, cat.Pattern, err)
	}
	sort.Strings(paths)

	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() == cat.Dirs {
			out = append(out, p)
		}
	}
	return out, nil
}
