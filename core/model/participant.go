package model

import "sort"

// Participant identifies a single player. Identifiers are compared as exact
// strings; alias normalization happens at ingest, never here.
type Participant string

// ParticipantSet is an unordered set of participants.
type ParticipantSet map[Participant]struct{}

// NewParticipantSet builds a set from the given identifiers.
func NewParticipantSet(names ...Participant) ParticipantSet {
	s := make(ParticipantSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts a participant into the set.
func (s ParticipantSet) Add(p Participant) { s[p] = struct{}{} }

// Contains reports set membership.
func (s ParticipantSet) Contains(p Participant) bool {
	_, ok := s[p]
	return ok
}

// ContainsAll reports whether every member of o is also in s.
func (s ParticipantSet) ContainsAll(o ParticipantSet) bool {
	for p := range o {
		if !s.Contains(p) {
			return false
		}
	}
	return true
}

// Intersects reports whether s and o share at least one member.
func (s ParticipantSet) Intersects(o ParticipantSet) bool {
	for p := range o {
		if s.Contains(p) {
			return true
		}
	}
	return false
}

// Diff returns the members of s absent from o, sorted by identifier.
func (s ParticipantSet) Diff(o ParticipantSet) []Participant {
	var out []Participant
	for p := range s {
		if !o.Contains(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Sorted returns all members ordered by identifier.
func (s ParticipantSet) Sorted() []Participant {
	return s.Diff(nil)
}

// Len returns the number of members.
func (s ParticipantSet) Len() int { return len(s) }
