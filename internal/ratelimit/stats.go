package ratelimit

import (
	"context"
	"maps"
	"sync"
	"time"
)

// StatsEvent describes one rate limit decision.
type StatsEvent struct {
	Key     string
	Allowed bool
	Method  string
	Path    string
	At      time.Time
}

// Counters aggregates decisions.
type Counters struct {
	Allowed  int64 `json:"allowed"`
	Rejected int64 `json:"rejected"`
}

// StatsStore records decisions. Recording is best-effort; callers ignore errors.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
	Total(ctx context.Context) (Counters, error)
	// ByRoute returns counters keyed by "<method> <path>".
	ByRoute(ctx context.Context) (map[string]Counters, error)
	// Minute returns the counters of the UTC minute containing at.
	Minute(ctx context.Context, at time.Time) (Counters, error)
}

// memoryMinutes is how many minute buckets MemoryStats keeps.
const memoryMinutes = 60

// MemoryStats keeps counters in process memory. Totals never expire; minute
// buckets older than an hour are dropped on the next Record.
type MemoryStats struct {
	mu      sync.Mutex
	total   Counters
	byRoute map[string]Counters
	minutes map[int64]Counters
}

func NewMemoryStats() *MemoryStats {
	return &MemoryStats{
		byRoute: make(map[string]Counters),
		minutes: make(map[int64]Counters),
	}
}

func minuteOf(t time.Time) int64 {
	return t.UTC().Truncate(time.Minute).Unix() / 60
}

func (c *Counters) add(allowed bool) {
	if allowed {
		c.Allowed++
	} else {
		c.Rejected++
	}
}

func (s *MemoryStats) Record(_ context.Context, ev StatsEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	route := ev.Method + " " + ev.Path
	minute := minuteOf(at)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev.Allowed)

	c := s.byRoute[route]
	c.add(ev.Allowed)
	s.byRoute[route] = c

	m := s.minutes[minute]
	m.add(ev.Allowed)
	s.minutes[minute] = m

	for k := range s.minutes {
		if k <= minute-memoryMinutes {
			delete(s.minutes, k)
		}
	}
	return nil
}

func (s *MemoryStats) Total(_ context.Context) (Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total, nil
}

func (s *MemoryStats) ByRoute(_ context.Context) (map[string]Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.byRoute), nil
}

func (s *MemoryStats) Minute(_ context.Context, at time.Time) (Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minutes[minuteOf(at)], nil
}
