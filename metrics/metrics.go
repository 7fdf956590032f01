package metrics

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Map is a metric name -> value mapping that remembers insertion order.
// Values are ints, float64s, strings or nested *Map.
type Map struct {
	keys []string
	vals map[string]any
}

func New() *Map {
	return &Map{vals: make(map[string]any)}
}

// Set adds or overwrites key. An overwritten key keeps its original position.
func (m *Map) Set(key string, v any) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// SetInt is Set with a decimal integer key, used for histogram-like tables.
func (m *Map) SetInt(key int, v any) {
	m.Set(strconv.Itoa(key), v)
}

func (m *Map) Get(key string) (any, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Float returns the value under key as a float64 when it is numeric.
func (m *Map) Float(key string) (float64, bool) {
	switch v := m.vals[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Sub returns the nested map under key.
func (m *Map) Sub(key string) (*Map, bool) {
	v, ok := m.vals[key].(*Map)
	return v, ok
}

func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *Map) Len() int {
	return len(m.keys)
}

// Update merges other into m. New keys are appended, repeated keys are
// overwritten with other's value (shallow, last write wins).
func (m *Map) Update(other *Map) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		m.Set(k, other.vals[k])
	}
}

// MarshalJSON writes the keys in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
