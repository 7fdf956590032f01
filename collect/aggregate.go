package collect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gmaffy/kitcomp/metrics"
	"github.com/gmaffy/kitcomp/reports"
)

// Aggregate maps sample name -> merged metric record, in first-seen order.
type Aggregate struct {
	order   []string
	samples map[string]*metrics.Map
}

func NewAggregate() *Aggregate {
	return &Aggregate{samples: make(map[string]*metrics.Map)}
}

// Add merges a parser result into the sample's record. Keys already present
// are overwritten, everything else in the record is kept.
func (a *Aggregate) Add(res reports.Result) {
	rec, ok := a.samples[res.Sample]
	if !ok {
		rec = metrics.New()
		a.samples[res.Sample] = rec
		a.order = append(a.order, res.Sample)
	}
	rec.Update(res.Metrics)
}

// Merge adds every record of other, in other's order.
func (a *Aggregate) Merge(other *Aggregate) {
	for _, s := range other.order {
		a.Add(reports.Result{Sample: s, Metrics: other.samples[s]})
	}
}

func (a *Aggregate) Samples() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

func (a *Aggregate) Record(sample string) (*metrics.Map, bool) {
	rec, ok := a.samples[sample]
	return rec, ok
}

func (a *Aggregate) Len() int {
	return len(a.order)
}

func (a *Aggregate) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range a.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		vb, err := a.samples[s].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", s, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteJSON writes the aggregate to path with 4-space indentation. The
// aggregate is encoded before path is touched, so a failed encode leaves an
// existing file in place.
func (a *Aggregate) WriteJSON(path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
