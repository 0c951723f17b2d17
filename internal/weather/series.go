package weather

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// SeriesShape identifies which of the two upstream layouts a parameter
// series arrived in.
type SeriesShape int

const (
	// ShapeFlat holds one scalar per time key (YYYYMMDD or YYYYMMDDHH).
	ShapeFlat SeriesShape = iota
	// ShapeDayArrays holds one array of hourly scalars per day key, indexed by
	// hour of day.
	ShapeDayArrays
)

// RawSeries is a single parameter's series as delivered by the reanalysis
// provider. The shape is decided once when the series is decoded.
type RawSeries struct {
	Shape SeriesShape
	Flat  map[string]*float64
	Days  map[string][]*float64
}

// FlatSeries maps a time key to a possibly missing value.
type FlatSeries map[string]*float64

// ParameterSet is the "parameter" block of a reanalysis response keyed by
// parameter name (T2M, RH2M, ...).
type ParameterSet map[string]RawSeries

// UnmarshalJSON sniffs the value stored under the smallest key: an array
// selects ShapeDayArrays for the whole series. Entries that do not match the
// selected shape are dropped.
func (s *RawSeries) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode series: %w", err)
	}

	*s = RawSeries{Shape: ShapeFlat, Flat: make(map[string]*float64, len(raw))}
	if len(raw) == 0 {
		return nil
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sample := bytes.TrimSpace(raw[keys[0]])
	if len(sample) > 0 && sample[0] == '[' {
		s.Shape = ShapeDayArrays
		s.Flat = nil
		s.Days = make(map[string][]*float64, len(raw))
		for k, v := range raw {
			var vals []*float64
			if err := json.Unmarshal(v, &vals); err != nil {
				continue
			}
			s.Days[k] = vals
		}
		return nil
	}

	for k, v := range raw {
		var val *float64
		if err := json.Unmarshal(v, &val); err != nil {
			continue
		}
		s.Flat[k] = val
	}
	return nil
}

// Flatten returns the series keyed by time. Day arrays expand to
// "<day><hour:02d>" keys; flat series are returned as they are.
func (s RawSeries) Flatten() FlatSeries {
	if s.Shape != ShapeDayArrays {
		out := make(FlatSeries, len(s.Flat))
		for k, v := range s.Flat {
			out[k] = v
		}
		return out
	}

	out := make(FlatSeries, len(s.Days)*24)
	for day, vals := range s.Days {
		for hour, v := range vals {
			out[fmt.Sprintf("%s%02d", day, hour)] = v
		}
	}
	return out
}

// Series returns the flattened series for a parameter; unknown parameters
// yield an empty series.
func (p ParameterSet) Series(name string) FlatSeries {
	raw, ok := p[name]
	if !ok {
		return FlatSeries{}
	}
	return raw.Flatten()
}

// Keys returns the series keys in chronological order.
func (f FlatSeries) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Latest scans the series backward in time and returns the first value that
// is not missing, or nil when every entry is missing.
func (f FlatSeries) Latest(sentinels Sentinels) *float64 {
	keys := f.Keys()
	for i := len(keys) - 1; i >= 0; i-- {
		if v := f[keys[i]]; !sentinels.Missing(v) {
			return v
		}
	}
	return nil
}

// unionKeys merges the keys of several series in chronological order.
func unionKeys(series ...FlatSeries) []string {
	seen := make(map[string]struct{})
	for _, s := range series {
		for k := range s {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
