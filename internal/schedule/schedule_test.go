package schedule

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/tutoring-api/internal/types"
)

func TestWallClock(t *testing.T) {
	cases := []struct {
		hour   float64
		period Period
		h, m   int
	}{
		{9.5, AM, 9, 30},
		{9.25, PM, 21, 15},
		{12, PM, 12, 0},
		{12.75, PM, 12, 45},
		{12, AM, 0, 0},
		{12.5, AM, 0, 30},
		{11.75, AM, 11, 45},
		{1, PM, 13, 0},
	}
	for _, tc := range cases {
		h, m := WallClock(tc.hour, tc.period)
		assert.Equal(t, tc.h, h, "%v %s", tc.hour, tc.period)
		assert.Equal(t, tc.m, m, "%v %s", tc.hour, tc.period)
	}
}

func TestExpand_SingleOccurrenceToday(t *testing.T) {
	now := time.Date(2024, time.May, 15, 18, 42, 0, 0, time.UTC)
	slot := Slot{Title: "Math", DayOfWeek: 1, StartHour: 9.5, StartPeriod: AM, EndHour: 10.5, EndPeriod: AM}

	events := Expand(slot, now, time.UTC)
	require.Len(t, events, 1)

	ev := events[0]
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "Math", ev.Title)
	assert.Equal(t, time.Date(2024, time.May, 15, 9, 30, 0, 0, time.UTC), ev.Start)
	assert.Equal(t, time.Date(2024, time.May, 15, 10, 30, 0, 0, time.UTC), ev.End)
}

func TestExpand_WeeklySeriesForOneYear(t *testing.T) {
	now := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC) // Monday
	slot := Slot{Title: "Level 2", DayOfWeek: 1, StartHour: 4, StartPeriod: PM, EndHour: 5, EndPeriod: PM, Repeat: true}

	events := Expand(slot, now, time.UTC)
	require.Len(t, events, 53)

	assert.Equal(t, time.Date(2024, time.January, 1, 16, 0, 0, 0, time.UTC), events[0].Start)

	ids := map[string]bool{}
	for i, ev := range events {
		assert.Equal(t, "Level 2", ev.Title)
		assert.Equal(t, 16, ev.Start.Hour())
		assert.Equal(t, 17, ev.End.Hour())
		assert.False(t, ids[ev.ID], "duplicate id")
		ids[ev.ID] = true
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, ev.Start.Sub(events[i-1].Start))
		}
	}

	limit := time.Date(2025, time.January, 1, 23, 59, 59, 0, time.UTC)
	last := events[len(events)-1].Start
	assert.False(t, last.After(limit))
	assert.True(t, last.AddDate(0, 0, 7).After(limit))
}

func TestAnchor_StaysInSundayWeek(t *testing.T) {
	wed := time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC), Anchor(wed, 0, time.UTC))
	assert.Equal(t, time.Date(2024, time.May, 13, 0, 0, 0, 0, time.UTC), Anchor(wed, 1, time.UTC))
	assert.Equal(t, time.Date(2024, time.May, 18, 0, 0, 0, 0, time.UTC), Anchor(wed, 6, time.UTC))
}

func TestExpand_UsesLocationAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2024, time.March, 4, 12, 0, 0, 0, loc) // Monday, before DST starts
	slot := Slot{Title: "Piano", DayOfWeek: 1, StartHour: 9, StartPeriod: AM, EndHour: 10, EndPeriod: AM, Repeat: true}

	events := Expand(slot, now, loc)
	require.GreaterOrEqual(t, len(events), 2)
	for _, ev := range events[:3] {
		assert.Equal(t, 9, ev.Start.In(loc).Hour())
		assert.Equal(t, time.UTC, ev.Start.Location())
	}
}

func TestEdit_NeverFansOut(t *testing.T) {
	now := time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)
	existing := types.Event{ID: "keep-me", Title: "Old"}
	slot := Slot{Title: "New", DayOfWeek: 1, StartHour: 2, StartPeriod: PM, EndHour: 3.25, EndPeriod: PM, Repeat: true}

	ev := Edit(existing, slot, now, time.UTC)

	assert.Equal(t, "keep-me", ev.ID)
	assert.Equal(t, "New", ev.Title)
	assert.Equal(t, time.Date(2024, time.May, 13, 14, 0, 0, 0, time.UTC), ev.Start)
	assert.Equal(t, time.Date(2024, time.May, 13, 15, 15, 0, 0, time.UTC), ev.End)

	slot.Repeat = false
	ev = Edit(existing, slot, now, time.UTC)
	assert.Equal(t, time.Date(2024, time.May, 15, 14, 0, 0, 0, time.UTC), ev.Start)
}

func TestSlot_Check(t *testing.T) {
	slot := Slot{StartHour: 5, StartPeriod: PM, EndHour: 9, EndPeriod: AM}
	assert.ErrorIs(t, slot.Check(), ErrEndBeforeStart)

	slot = Slot{StartHour: 11.75, StartPeriod: AM, EndHour: 12, EndPeriod: PM}
	assert.NoError(t, slot.Check())

	slot = Slot{StartHour: 4, StartPeriod: PM, EndHour: 4, EndPeriod: PM}
	assert.NoError(t, slot.Check())

	// 12 AM is midnight, so it ends before any morning start.
	slot = Slot{StartHour: 9, StartPeriod: AM, EndHour: 12, EndPeriod: AM}
	assert.ErrorIs(t, slot.Check(), ErrEndBeforeStart)
}
