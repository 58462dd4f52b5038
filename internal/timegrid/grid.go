// Package timegrid exposes the canonical weekly slot grid as pure functions.
// It holds no state: callers pass domain.Slot values through it and get back
// enumerations or overlap answers.
package timegrid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dersplan/timetable-api/internal/domain"
)

type template struct {
	start, end     domain.ClockMinutes
	onlineEligible bool
}

// canonicalTemplates mirrors the source's slot layout: hourly slots from
// 08:00 to 17:00, then a two-hour evening pair reserved for online-eligible
// classes.
var canonicalTemplates = []template{
	{480, 540, false},   // 08:00-09:00
	{540, 600, false},   // 09:00-10:00
	{600, 660, false},   // 10:00-11:00
	{660, 720, false},   // 11:00-12:00
	{720, 780, false},   // 12:00-13:00
	{780, 840, false},   // 13:00-14:00
	{840, 900, false},   // 14:00-15:00
	{900, 960, false},   // 15:00-16:00
	{960, 1020, false},  // 16:00-17:00
	{1020, 1140, true},  // 17:00-19:00
	{1140, 1260, true},  // 19:00-21:00
}

// SlotsOf returns the canonical ordered slots for one day.
func SlotsOf(day domain.Day) []domain.Slot {
	slots := make([]domain.Slot, len(canonicalTemplates))
	for i, t := range canonicalTemplates {
		slots[i] = domain.Slot{Day: day, Start: t.start, End: t.end}
	}
	return slots
}

// AllSlots returns every canonical slot across the five-day week, grouped by
// day in weekday order.
func AllSlots() []domain.Slot {
	all := make([]domain.Slot, 0, len(canonicalTemplates)*len(domain.Weekdays))
	for _, day := range domain.Weekdays {
		all = append(all, SlotsOf(day)...)
	}
	return all
}

// Overlaps reports whether two slots share any instant. Slots on different
// days never overlap.
func Overlaps(a, b domain.Slot) bool {
	if a.Day != b.Day {
		return false
	}
	return a.Start < b.End && b.Start < a.End
}

// IsOnlineEligible reports whether slot falls in the evening, online-eligible
// zone of the grid.
func IsOnlineEligible(slot domain.Slot) bool {
	for _, t := range canonicalTemplates {
		if t.start == slot.Start && t.end == slot.End {
			return t.onlineEligible
		}
	}
	return false
}

// SlotsForInterval maps an arbitrary [start, end) interval on day onto the
// set of canonical slots it overlaps.
func SlotsForInterval(day domain.Day, start, end domain.ClockMinutes) []domain.Slot {
	var matched []domain.Slot
	probe := domain.Slot{Day: day, Start: start, End: end}
	for _, t := range canonicalTemplates {
		candidate := domain.Slot{Day: day, Start: t.start, End: t.end}
		if Overlaps(probe, candidate) {
			matched = append(matched, candidate)
		}
	}
	return matched
}

// ParseClock parses an "HH:MM" string into minutes since midnight.
func ParseClock(raw string) (domain.ClockMinutes, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("timegrid: malformed clock value %q", raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("timegrid: malformed hour in %q: %w", raw, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("timegrid: malformed minute in %q: %w", raw, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("timegrid: clock value out of range %q", raw)
	}
	return domain.ClockMinutes(h*60 + m), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(m domain.ClockMinutes) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseInterval parses a "Day HH:MM-HH:MM" style pair of clock values into a
// matched canonical slot. It is the building block the single-slot editor
// uses to turn a caller-supplied interval into a domain.Slot.
func ParseInterval(day domain.Day, startRaw, endRaw string) (domain.Slot, error) {
	start, err := ParseClock(startRaw)
	if err != nil {
		return domain.Slot{}, err
	}
	end, err := ParseClock(endRaw)
	if err != nil {
		return domain.Slot{}, err
	}
	if end <= start {
		return domain.Slot{}, fmt.Errorf("timegrid: interval end %s must be after start %s", endRaw, startRaw)
	}
	for _, t := range canonicalTemplates {
		if t.start == start && t.end == end {
			return domain.Slot{Day: day, Start: start, End: end}, nil
		}
	}
	return domain.Slot{}, fmt.Errorf("timegrid: %s-%s is not a canonical slot", startRaw, endRaw)
}
