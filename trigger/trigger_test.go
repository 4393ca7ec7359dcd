package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-08-31 is a Monday.
var monday = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func TestOneShotDueTime(t *testing.T) {
	t.Parallel()

	at := monday.Add(3 * time.Hour)
	s := Spec{Mode: OneShot, At: at}

	assert.Equal(t, at, s.DueTime(monday))
	assert.False(t, s.IsDue(monday))
	assert.False(t, s.IsDue(at)) // strictly after, not at
	assert.True(t, s.IsDue(at.Add(time.Millisecond)))
}

func TestDailyDueTimeToday(t *testing.T) {
	t.Parallel()

	s := Spec{Mode: Daily, Hour: 14, Minute: 30, Weekdays: Weekdays}

	due := s.DueTime(monday)
	assert.Equal(t, time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC), due)
	assert.Equal(t, time.Monday, due.Weekday())
}

func TestDailySkipsPassedDay(t *testing.T) {
	t.Parallel()

	s := Spec{Mode: Daily, Hour: 9, Weekdays: Weekdays}

	// 9:00 passed hours ago: roll to Tuesday.
	due := s.DueTime(monday)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), due)

	// Within the grace window the current day still counts.
	now := time.Date(2026, 8, 31, 9, 0, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC), s.DueTime(now))
	assert.True(t, s.IsDue(now))

	// Just past the grace window the day is skipped.
	now = time.Date(2026, 8, 31, 9, 0, 11, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), s.DueTime(now))
	assert.False(t, s.IsDue(now))
}

func TestDailySingleWeekday(t *testing.T) {
	t.Parallel()

	s := Spec{
		Mode:     Daily,
		Hour:     14,
		Weekdays: WeekdayMask(0).With(time.Friday),
	}

	due := s.DueTime(monday)
	assert.Equal(t, time.Friday, due.Weekday())
	assert.Equal(t, time.Date(2026, 9, 4, 14, 0, 0, 0, time.UTC), due)

	// Past Friday's time: the same weekday one week out.
	fri := time.Date(2026, 9, 4, 15, 0, 0, 0, time.UTC)
	due = s.DueTime(fri)
	assert.Equal(t, time.Date(2026, 9, 11, 14, 0, 0, 0, time.UTC), due)
}

func TestDailyAlwaysLandsOnEnabledWeekday(t *testing.T) {
	t.Parallel()

	masks := []WeekdayMask{
		Weekdays,
		WeekdayMask(0).With(time.Sunday),
		WeekdayMask(0).With(time.Wednesday).With(time.Saturday),
		WeekdayMask(0).With(time.Monday),
	}

	for _, mask := range masks {
		s := Spec{Mode: Daily, Hour: 6, Weekdays: mask}
		now := monday
		for i := 0; i < 30; i++ {
			due := s.DueTime(now)
			require.True(t, mask.Enabled(due.Weekday()),
				"due %v not on an enabled weekday", due)
			require.LessOrEqual(t, due.Sub(now), 8*24*time.Hour,
				"due %v more than 7 days past %v", due, now)
			now = due.Add(24 * time.Hour)
		}
	}
}

func TestDueTimeIdempotent(t *testing.T) {
	t.Parallel()

	s := Spec{Mode: Daily, Hour: 17, Minute: 45, Second: 30, Weekdays: Weekdays}
	now := monday
	assert.Equal(t, s.DueTime(now), s.DueTime(now))
}

func TestWeekdayMaskText(t *testing.T) {
	t.Parallel()

	var m WeekdayMask
	require.NoError(t, m.UnmarshalText([]byte("mon, Wed,friday")))
	assert.True(t, m.Enabled(time.Monday))
	assert.True(t, m.Enabled(time.Wednesday))
	assert.True(t, m.Enabled(time.Friday))
	assert.False(t, m.Enabled(time.Tuesday))

	text, err := m.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "mon,wed,fri", string(text))

	assert.Error(t, m.UnmarshalText([]byte("noday")))
}
