package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/mars-weather/internal/mars"
)

// UsageText describes the accepted date formats.
const UsageText = "Pass a date as ?date=YYYY-MM-DD (midnight UTC) or as an RFC 3339 timestamp, " +
	"e.g. ?date=2026-02-15 or ?date=2026-02-15T21:42:00+01:00"

var errNoFetcher = errors.New("no weather fetcher configured")

// ResultKind distinguishes the outcomes of Answer that are not errors.
type ResultKind int

const (
	ResultUsage ResultKind = iota
	ResultFound
	ResultNoData
)

func (k ResultKind) String() string {
	switch k {
	case ResultUsage:
		return "usage"
	case ResultFound:
		return "found"
	case ResultNoData:
		return "no_data"
	default:
		return "unknown"
	}
}

// QueryResult is the answer to a date query. Reading is only set for ResultFound.
type QueryResult struct {
	Kind      ResultKind
	Sol       mars.Sol
	Reading   Reading
	UpdatedAt time.Time
	Usage     string
}

// Service answers date queries from the cache and refreshes it from the feed.
type Service struct {
	store   Store
	fetcher Fetcher
	logger  *zap.Logger
}

// NewService creates a new Service. A nil logger disables logging.
func NewService(store Store, fetcher Fetcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		fetcher: fetcher,
		logger:  logger.Named("weather"),
	}
}

// Refresh fetches the whole feed and swaps it into the store. The fetch runs
// without touching the store; on failure the previous snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) error {
	if s.fetcher == nil {
		return errNoFetcher
	}

	start := time.Now()
	readings, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch from %s: %w", s.fetcher.Name(), err)
	}

	s.store.Replace(readings)
	s.logger.Info("cache refreshed",
		zap.String("fetcher", s.fetcher.Name()),
		zap.Int("sols", len(readings)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Answer resolves rawDate to a sol and looks it up. A nil rawDate yields usage
// help. Only an unparseable date is an error; a sol outside the cache is
// reported as ResultNoData.
func (s *Service) Answer(rawDate *string) (QueryResult, error) {
	if rawDate == nil {
		return QueryResult{Kind: ResultUsage, Usage: UsageText}, nil
	}

	ts, err := mars.ParseDate(*rawDate)
	if err != nil {
		return QueryResult{}, err
	}

	sol := mars.SolFor(ts)
	snap := s.store.Snapshot()

	r, ok := snap.Get(sol)
	if !ok {
		s.logger.Debug("no reading for sol", zap.Int64("sol", int64(sol)), zap.Int("cached", snap.Len()))
		return QueryResult{Kind: ResultNoData, Sol: sol, UpdatedAt: snap.UpdatedAt()}, nil
	}

	return QueryResult{
		Kind:      ResultFound,
		Sol:       sol,
		Reading:   r,
		UpdatedAt: snap.UpdatedAt(),
	}, nil
}

// Snapshot exposes the current cache generation.
func (s *Service) Snapshot() *Snapshot {
	return s.store.Snapshot()
}
