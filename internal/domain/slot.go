package domain

import "fmt"

// ClockMinutes is a time of day expressed as minutes since midnight.
type ClockMinutes int

// Slot is a half-open interval [Start, End) on a given Day. Slots are
// identified by the (Day, Start, End) triple; the struct is comparable so it
// can be used directly as a map key, which is what the constraint store
// relies on.
type Slot struct {
	Day   Day
	Start ClockMinutes
	End   ClockMinutes
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %02d:%02d-%02d:%02d", s.Day, s.Start/60, s.Start%60, s.End/60, s.End%60)
}

// overlapsInterval reports whether the two intervals share any instant, ignoring day.
func (s Slot) overlapsInterval(other Slot) bool {
	return s.Start < other.End && other.Start < s.End
}
