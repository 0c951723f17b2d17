package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/backspace-weather/internal/weather"
)

var (
	// ErrNotFound is returned when no probe result is available for a source.
	ErrNotFound = errors.New("no probe results for source")
)

// ProbeHistory holds a time-ordered list of probe results for one upstream.
type ProbeHistory struct {
	Results []weather.ProbeResult
}

// MemoryStore is a concurrency-safe in-memory record of upstream probes.
type MemoryStore struct {
	mu sync.RWMutex

	// key: source name, value: history
	data map[string]*ProbeHistory

	// retention configuration
	maxHistory int           // max number of results per source
	maxAge     time.Duration // optional max age for results
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*ProbeHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveProbe appends a result for its source and enforces retention.
func (s *MemoryStore) SaveProbe(result weather.ProbeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[result.Source]
	if !ok {
		history = &ProbeHistory{}
		s.data[result.Source] = history
	}

	history.Results = append(history.Results, result)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Results) > s.maxHistory {
		over := len(history.Results) - s.maxHistory
		history.Results = history.Results[over:]
	}

	// Enforce retention by age, always keeping the newest result.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Results)-1; i++ {
			if !history.Results[i].CheckedAt.Before(cutoff) {
				break
			}
		}
		history.Results = history.Results[i:]
	}
}

// GetLatest returns the most recent result for a source.
func (s *MemoryStore) GetLatest(source string) (weather.ProbeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[source]
	if !ok || len(history.Results) == 0 {
		return weather.ProbeResult{}, ErrNotFound
	}
	return history.Results[len(history.Results)-1], nil
}

// Latest returns the most recent result of every source, ordered by name.
func (s *MemoryStore) Latest() []weather.ProbeResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]weather.ProbeResult, 0, len(s.data))
	for _, history := range s.data {
		if n := len(history.Results); n > 0 {
			out = append(out, history.Results[n-1])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

// GetRange returns all results for a source between from and to (inclusive).
func (s *MemoryStore) GetRange(source string, from, to time.Time) ([]weather.ProbeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[source]
	if !ok || len(history.Results) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.ProbeResult
	for _, r := range history.Results {
		if !r.CheckedAt.Before(from) && !r.CheckedAt.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
