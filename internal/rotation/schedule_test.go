package rotation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(Eastern)
	require.NoError(t, err)
	return loc
}

func at(loc *time.Location, day, h, m, s int) time.Time {
	return time.Date(2026, time.March, day, h, m, s, 0, loc)
}

func TestEventName(t *testing.T) {
	names := []string{}
	for _, e := range DefaultEvents() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"09:30:01", "09:31:30", "15:55:00", "15:56:00"}, names)
}

func TestNewSchedule_RejectsEmptyWindow(t *testing.T) {
	_, err := NewSchedule(DefaultEvents(), 0)
	assert.Error(t, err)
}

func TestSchedule_FiresOncePerDay(t *testing.T) {
	loc := eastern(t)
	s, err := NewSchedule(DefaultEvents(), 5*time.Second)
	require.NoError(t, err)

	assert.Empty(t, s.Due(at(loc, 10, 9, 30, 0)))

	due := s.Due(at(loc, 10, 9, 30, 1))
	require.Len(t, due, 1)
	assert.Equal(t, ActionLiquidate, due[0].Action)

	assert.Empty(t, s.Due(at(loc, 10, 9, 30, 2)), "already fired today")

	due = s.Due(at(loc, 10, 9, 31, 30))
	require.Len(t, due, 1)
	assert.Equal(t, ActionBuy, due[0].Action)
	assert.Equal(t, BasketIntraday, due[0].Basket)

	// Next day the flags are clear again.
	due = s.Due(at(loc, 11, 9, 30, 1))
	require.Len(t, due, 1)
	assert.Equal(t, "09:30:01", due[0].Name())
}

func TestSchedule_Window(t *testing.T) {
	loc := eastern(t)

	t.Run("late tick inside the window", func(t *testing.T) {
		s, err := NewSchedule(DefaultEvents(), 5*time.Second)
		require.NoError(t, err)
		due := s.Due(at(loc, 10, 15, 56, 4))
		require.Len(t, due, 1)
		assert.Equal(t, BasketAfterHours, due[0].Basket)
	})

	t.Run("tick past the window", func(t *testing.T) {
		s, err := NewSchedule(DefaultEvents(), 5*time.Second)
		require.NoError(t, err)
		assert.Empty(t, s.Due(at(loc, 10, 15, 56, 5)))
	})

	t.Run("one second window is exact", func(t *testing.T) {
		s, err := NewSchedule(DefaultEvents(), time.Second)
		require.NoError(t, err)
		assert.Empty(t, s.Due(at(loc, 10, 15, 55, 1)))
		assert.Len(t, s.Due(at(loc, 10, 15, 55, 0).Add(900*time.Millisecond)), 1)
	})
}

func TestSchedule_ConvertsToEastern(t *testing.T) {
	loc := eastern(t)
	s, err := NewSchedule(DefaultEvents(), 5*time.Second)
	require.NoError(t, err)

	// 09:30:01 EDT on the first weekday after the DST change is 13:30:01 UTC.
	utc := time.Date(2026, time.March, 9, 13, 30, 1, 0, time.UTC)
	due := s.Due(utc)
	require.Len(t, due, 1)
	assert.Equal(t, ActionLiquidate, due[0].Action)
	assert.Equal(t, loc.String(), s.Location().String())
}

func TestSchedule_DSTDay(t *testing.T) {
	loc := eastern(t)
	s, err := NewSchedule(DefaultEvents(), 5*time.Second)
	require.NoError(t, err)

	// Clocks jump forward on 2026-03-08; the wall clock still drives firing.
	due := s.Due(at(loc, 8, 9, 30, 1))
	assert.Len(t, due, 1)
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "liquidate", ActionLiquidate.String())
	assert.Equal(t, "buy", ActionBuy.String())
	assert.Equal(t, "action(7)", Action(7).String())
}
