package weather

import (
	"context"

	"github.com/i474232898/mars-weather/internal/mars"
)

// Fetcher abstracts the upstream feed (e.g. the Curiosity REMS weather service).
// Implementations return every usable reading keyed by sol.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (map[mars.Sol]Reading, error)
}

// Store is the contract the sol cache must satisfy.
type Store interface {
	Replace(readings map[mars.Sol]Reading)
	Get(sol mars.Sol) (Reading, bool)
	Snapshot() *Snapshot
}
