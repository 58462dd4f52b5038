package timegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dersplan/timetable-api/internal/domain"
)

func TestSlotsOfIsCanonicalAndDisjoint(t *testing.T) {
	slots := SlotsOf(domain.Monday)
	require.Len(t, slots, 11)
	for i := 1; i < len(slots); i++ {
		assert.False(t, Overlaps(slots[i-1], slots[i]), "adjacent slots must not overlap")
		assert.Equal(t, slots[i-1].End, slots[i].Start, "slots must be contiguous")
	}
}

func TestOverlapsIgnoresOtherDays(t *testing.T) {
	a := domain.Slot{Day: domain.Monday, Start: 480, End: 540}
	b := domain.Slot{Day: domain.Tuesday, Start: 480, End: 540}
	assert.False(t, Overlaps(a, b))
}

func TestOnlineEligibleOnlyEveningSlots(t *testing.T) {
	slots := SlotsOf(domain.Wednesday)
	for _, s := range slots {
		eligible := IsOnlineEligible(s)
		if s.Start >= 1020 {
			assert.True(t, eligible, "%v should be online-eligible", s)
		} else {
			assert.False(t, eligible, "%v should not be online-eligible", s)
		}
	}
}

func TestParseIntervalRejectsNonCanonicalSpan(t *testing.T) {
	_, err := ParseInterval(domain.Monday, "08:00", "08:30")
	assert.Error(t, err)
}

func TestParseIntervalMatchesCanonicalSlot(t *testing.T) {
	slot, err := ParseInterval(domain.Tuesday, "09:00", "10:00")
	require.NoError(t, err)
	assert.Equal(t, domain.Slot{Day: domain.Tuesday, Start: 540, End: 600}, slot)
}

func TestParseClockRejectsGarbage(t *testing.T) {
	_, err := ParseClock("not-a-time")
	assert.Error(t, err)
}

func TestSlotsForIntervalMatchesOverlappingCanonicalSlots(t *testing.T) {
	matched := SlotsForInterval(domain.Monday, 500, 650)
	require.Len(t, matched, 3)
	assert.Equal(t, domain.ClockMinutes(480), matched[0].Start)
	assert.Equal(t, domain.ClockMinutes(660), matched[2].End)
}
