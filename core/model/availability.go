package model

// DateStatus is the per-day availability record. The core never assumes the
// three sets are disjoint; when a participant appears as both accepted and
// declined for the same day, decline wins (enforced by the scheduler).
type DateStatus struct {
	Date      Day
	Accepted  ParticipantSet
	Declined  ParticipantSet
	Uncertain ParticipantSet
}

// AvailabilityTable maps a day to its availability record. A day absent from
// the table means no data exists for it.
type AvailabilityTable map[Day]DateStatus

// Lookup returns the record for a day and whether one exists.
func (t AvailabilityTable) Lookup(d Day) (DateStatus, bool) {
	s, ok := t[d]
	return s, ok
}

// BlackoutSet is the set of days already bound to a committed session. A day
// in the set is unusable for every campaign, regardless of roster.
type BlackoutSet map[Day]struct{}

// NewBlackoutSet builds a set from the given days.
func NewBlackoutSet(days ...Day) BlackoutSet {
	s := make(BlackoutSet, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

// Add inserts a day into the set.
func (s BlackoutSet) Add(d Day) { s[d] = struct{}{} }

// Contains reports whether the day is blacked out.
func (s BlackoutSet) Contains(d Day) bool {
	_, ok := s[d]
	return ok
}
