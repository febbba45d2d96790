package weather_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/mars-weather/internal/mars"
	"github.com/i474232898/mars-weather/internal/store"
	"github.com/i474232898/mars-weather/internal/weather"
)

type stubFetcher struct {
	readings map[mars.Sol]weather.Reading
	err      error
	calls    int
}

func (f *stubFetcher) Name() string { return "stub" }

func (f *stubFetcher) Fetch(context.Context) (map[mars.Sol]weather.Reading, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.readings, nil
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

func twoSols() map[mars.Sol]weather.Reading {
	return map[mars.Sol]weather.Reading{
		100: {Sol: 100, MinTemp: int64Ptr(-78), MaxTemp: int64Ptr(-10), Sunrise: "05:30", Sunset: "17:40", ID: "a"},
		101: {Sol: 101, MinTemp: int64Ptr(-77), MaxTemp: nil, Sunrise: "05:31", Sunset: "17:41", ID: "b"},
	}
}

func newService(t *testing.T, f *stubFetcher) *weather.Service {
	t.Helper()
	svc := weather.NewService(store.NewSolCache(), f, nil)
	require.NoError(t, svc.Refresh(context.Background()))
	return svc
}

func TestAnswerEndToEnd(t *testing.T) {
	svc := newService(t, &stubFetcher{readings: twoSols()})

	// 2012-11-17 falls in sol 101.
	res, err := svc.Answer(strPtr("2012-11-17"))
	require.NoError(t, err)
	assert.Equal(t, weather.ResultFound, res.Kind)
	assert.Equal(t, mars.Sol(101), res.Sol)
	assert.Equal(t, "b", res.Reading.ID)
	assert.False(t, res.UpdatedAt.IsZero())

	// 2015-05-29 falls in sol 999.
	res, err = svc.Answer(strPtr("2015-05-29"))
	require.NoError(t, err)
	assert.Equal(t, weather.ResultNoData, res.Kind)
	assert.Equal(t, mars.Sol(999), res.Sol)
}

func TestAnswerTimestampForm(t *testing.T) {
	svc := newService(t, &stubFetcher{readings: twoSols()})

	// 10:00 UTC on 2012-11-16 is still sol 100.
	res, err := svc.Answer(strPtr("2012-11-16T12:00:00+02:00"))
	require.NoError(t, err)
	assert.Equal(t, weather.ResultFound, res.Kind)
	assert.Equal(t, mars.Sol(100), res.Sol)
	assert.Equal(t, "a", res.Reading.ID)
}

func TestAnswerWithoutDateReturnsUsage(t *testing.T) {
	svc := newService(t, &stubFetcher{readings: twoSols()})

	res, err := svc.Answer(nil)
	require.NoError(t, err)
	assert.Equal(t, weather.ResultUsage, res.Kind)
	assert.Equal(t, weather.UsageText, res.Usage)
}

func TestAnswerMissIsNotAnError(t *testing.T) {
	svc := newService(t, &stubFetcher{readings: twoSols()})

	res, err := svc.Answer(strPtr("2040-01-01"))
	require.NoError(t, err)
	assert.Equal(t, weather.ResultNoData, res.Kind)

	res, err = svc.Answer(strPtr("2001-01-01"))
	require.NoError(t, err)
	assert.Equal(t, weather.ResultNoData, res.Kind)
	assert.Less(t, int64(res.Sol), int64(0))
}

func TestAnswerMalformedDateIsAnError(t *testing.T) {
	svc := newService(t, &stubFetcher{readings: twoSols()})

	res, err := svc.Answer(strPtr("15/02/2026"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, mars.ErrInvalidDateFormat))
	assert.NotEqual(t, weather.ResultNoData, res.Kind)
	assert.NotEqual(t, weather.ResultFound, res.Kind)
}

func TestAnswerBeforeFirstRefresh(t *testing.T) {
	svc := weather.NewService(store.NewSolCache(), &stubFetcher{}, nil)

	res, err := svc.Answer(strPtr("2012-11-17"))
	require.NoError(t, err)
	assert.Equal(t, weather.ResultNoData, res.Kind)
	assert.True(t, res.UpdatedAt.IsZero())
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	f := &stubFetcher{readings: twoSols()}
	svc := newService(t, f)
	before := svc.Snapshot()

	f.err = errors.New("upstream unavailable")
	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, f.err)

	assert.Same(t, before, svc.Snapshot())
	res, err := svc.Answer(strPtr("2012-11-17"))
	require.NoError(t, err)
	require.Equal(t, weather.ResultFound, res.Kind)
	assert.Equal(t, int64(-77), *res.Reading.MinTemp)
	assert.Nil(t, res.Reading.MaxTemp)
}

func TestRefreshReplacesWholesale(t *testing.T) {
	f := &stubFetcher{readings: twoSols()}
	svc := newService(t, f)

	f.readings = map[mars.Sol]weather.Reading{102: {Sol: 102}}
	require.NoError(t, svc.Refresh(context.Background()))

	res, err := svc.Answer(strPtr("2012-11-17"))
	require.NoError(t, err)
	assert.Equal(t, weather.ResultNoData, res.Kind)
	assert.Equal(t, 2, f.calls)
}

func TestRefreshWithoutFetcher(t *testing.T) {
	svc := weather.NewService(store.NewSolCache(), nil, nil)
	assert.Error(t, svc.Refresh(context.Background()))
}
