package availability

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/calendar"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
)

type stubFreeBusy struct {
	busy     []calendar.BusyInterval
	err      error
	lastFrom time.Time
	lastTo   time.Time
	calls    int
}

func (s *stubFreeBusy) FreeBusy(_ context.Context, windowStart, windowEnd time.Time) ([]calendar.BusyInterval, error) {
	s.calls++
	s.lastFrom = windowStart
	s.lastTo = windowEnd
	return s.busy, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "availability-test", Output: io.Discard})
}

func newTestChecker(t *testing.T, client FreeBusyClient) *Checker {
	t.Helper()
	checker, err := NewChecker(client, time.UTC, testLogger(), nil)
	require.NoError(t, err)
	return checker
}

func TestNewCheckerRequiresDependencies(t *testing.T) {
	_, err := NewChecker(nil, time.UTC, testLogger(), nil)
	assert.Error(t, err)

	_, err = NewChecker(&stubFreeBusy{}, time.UTC, nil, nil)
	assert.Error(t, err)
}

func TestCheckSkipsIncompleteParams(t *testing.T) {
	stub := &stubFreeBusy{}
	checker := newTestChecker(t, stub)

	cases := []Params{
		{},
		{Date: "2026-05-01"},
		{Date: "2026-05-01", Time: "14:00"},
		{Time: "14:00", DurationMinutes: 120},
		{Date: "2026-05-01", Time: "14:00", DurationMinutes: 0},
	}
	for _, params := range cases {
		result, err := checker.Check(context.Background(), params)
		require.NoError(t, err)
		assert.False(t, result.Checked)
		assert.False(t, result.Available)
	}
	assert.Zero(t, stub.calls, "incomplete params must not hit the calendar")
}

func TestCheckAvailableWhenNoOverlap(t *testing.T) {
	stub := &stubFreeBusy{busy: []calendar.BusyInterval{
		{
			Start: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}}
	checker := newTestChecker(t, stub)

	result, err := checker.Check(context.Background(), Params{
		Date: "2026-05-01", Time: "14:00", DurationMinutes: 120,
	})
	require.NoError(t, err)
	assert.True(t, result.Checked)
	assert.True(t, result.Available)
	assert.Equal(t, time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC), stub.lastFrom)
	assert.Equal(t, time.Date(2026, 5, 1, 16, 0, 0, 0, time.UTC), stub.lastTo)
}

func TestCheckBusyWhenOverlap(t *testing.T) {
	stub := &stubFreeBusy{busy: []calendar.BusyInterval{
		{
			Start: time.Date(2026, 5, 1, 15, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 5, 1, 17, 0, 0, 0, time.UTC),
		},
	}}
	checker := newTestChecker(t, stub)

	result, err := checker.Check(context.Background(), Params{
		Date: "2026-05-01", Time: "14:00", DurationMinutes: 120,
	})
	require.NoError(t, err)
	assert.True(t, result.Checked)
	assert.False(t, result.Available)
}

func TestCheckFailsClosed(t *testing.T) {
	stub := &stubFreeBusy{err: errors.New("upstream timeout")}
	checker := newTestChecker(t, stub)

	result, err := checker.Check(context.Background(), Params{
		Date: "2026-05-01", Time: "14:00", DurationMinutes: 120,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCheckFailed))
	assert.True(t, result.Checked)
	assert.False(t, result.Available, "errors must read as unavailable")
}

func TestCheckRejectsUnparsableWindow(t *testing.T) {
	checker := newTestChecker(t, &stubFreeBusy{})

	result, err := checker.Check(context.Background(), Params{
		Date: "01-05-2026", Time: "14:00", DurationMinutes: 120,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCheckFailed))
	assert.False(t, result.Available)
}
