package weather

import (
	"sort"
	"time"

	"github.com/i474232898/mars-weather/internal/mars"
)

// NotAvailable is rendered in place of a temperature the feed did not report.
const NotAvailable = "not available"

// Reading is the weather recorded by the rover for a single sol.
// MinTemp and MaxTemp are nil when the feed omitted them or they did not parse.
type Reading struct {
	Sol     mars.Sol `json:"sol"`
	MinTemp *int64   `json:"min_temp"`
	MaxTemp *int64   `json:"max_temp"`
	Sunrise string   `json:"sunrise"`
	Sunset  string   `json:"sunset"`

	// Passthrough fields from the feed, not used for lookups.
	ID              string `json:"id"`
	TerrestrialDate string `json:"terrestrial_date"`
}

// ReadingView is the client-facing shape of a Reading.
type ReadingView struct {
	MartianSolDay mars.Sol `json:"martian_sol_day"`
	MinTemp       any      `json:"min_temp"`
	MaxTemp       any      `json:"max_temp"`
	Sunrise       string   `json:"sunrise"`
	Sunset        string   `json:"sunset"`
}

// View renders r for clients, replacing missing temperatures with NotAvailable.
func (r Reading) View() ReadingView {
	return ReadingView{
		MartianSolDay: r.Sol,
		MinTemp:       tempOrNotAvailable(r.MinTemp),
		MaxTemp:       tempOrNotAvailable(r.MaxTemp),
		Sunrise:       r.Sunrise,
		Sunset:        r.Sunset,
	}
}

func tempOrNotAvailable(v *int64) any {
	if v == nil {
		return NotAvailable
	}
	return *v
}

// Snapshot is one immutable generation of cached readings together with the
// time it was installed. The readings and the timestamp always belong together.
type Snapshot struct {
	readings  map[mars.Sol]Reading
	updatedAt time.Time
}

// NewSnapshot copies readings so later changes by the caller cannot leak in.
func NewSnapshot(readings map[mars.Sol]Reading, updatedAt time.Time) *Snapshot {
	cp := make(map[mars.Sol]Reading, len(readings))
	for sol, r := range readings {
		cp[sol] = cloneReading(r)
	}
	return &Snapshot{readings: cp, updatedAt: updatedAt}
}

// Get returns a copy of the reading for sol.
func (s *Snapshot) Get(sol mars.Sol) (Reading, bool) {
	if s == nil {
		return Reading{}, false
	}
	r, ok := s.readings[sol]
	if !ok {
		return Reading{}, false
	}
	return cloneReading(r), true
}

// UpdatedAt is the zero time for a nil snapshot.
func (s *Snapshot) UpdatedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.updatedAt
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.readings)
}

// Sols returns the cached sols in ascending order.
func (s *Snapshot) Sols() []mars.Sol {
	if s == nil {
		return nil
	}
	sols := make([]mars.Sol, 0, len(s.readings))
	for sol := range s.readings {
		sols = append(sols, sol)
	}
	sort.Slice(sols, func(i, j int) bool { return sols[i] < sols[j] })
	return sols
}

// cloneReading detaches the temperature pointers from the stored value.
func cloneReading(r Reading) Reading {
	if r.MinTemp != nil {
		v := *r.MinTemp
		r.MinTemp = &v
	}
	if r.MaxTemp != nil {
		v := *r.MaxTemp
		r.MaxTemp = &v
	}
	return r
}
