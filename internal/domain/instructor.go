package domain

// AvailabilityMask records, per day, the slots an instructor is available.
// A day key that is absent from the map is unconstrained or fully
// unavailable depending on the MissingDayUnconstrained setting threaded in
// from configuration (see pkg/config SchedulerConfig.AvailabilityMissingDay);
// a day key present with an empty slice means unavailable for the whole day.
// This is the single documented semantics the source left ambiguous.
type AvailabilityMask map[Day][]Slot

// Constrained reports whether the mask declares anything at all for day.
func (m AvailabilityMask) Constrained(day Day) bool {
	_, ok := m[day]
	return ok
}

// Allows reports whether slot is permitted under the mask. missingDayUnconstrained
// governs the behaviour when day has no entry in the mask at all.
func (m AvailabilityMask) Allows(slot Slot, missingDayUnconstrained bool) bool {
	allowed, constrained := m[slot.Day]
	if !constrained {
		return missingDayUnconstrained
	}
	for _, s := range allowed {
		if s == slot {
			return true
		}
	}
	return false
}

// Instructor is an independently owned record; courses reference it by id
// only, never by embedding, so there are no reference cycles between the two.
type Instructor struct {
	ID           string
	DisplayName  string
	Availability AvailabilityMask
}
