package model

// Session statuses that bind a calendar day. A session in one of these
// states makes its day a blackout day for every campaign.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
)

// lockedStatuses is the fixed set of states considered committed.
var lockedStatuses = map[string]struct{}{
	StatusScheduled: {},
	StatusConfirmed: {},
}

// Session is a single announced play date as recorded on its campaign page.
type Session struct {
	Campaign      string
	Date          Day
	Weekday       string
	Time          string
	Location      string
	Status        string
	Page          string
	Confirmations []Participant
	Comments      string
}

// Locked reports whether the session status is in the committed set.
func (s Session) Locked() bool {
	_, ok := lockedStatuses[s.Status]
	return ok
}

// BlackoutFromSessions derives the blackout set from the committed sessions.
func BlackoutFromSessions(sessions []Session) BlackoutSet {
	out := make(BlackoutSet)
	for _, s := range sessions {
		if s.Locked() && !s.Date.IsZero() {
			out.Add(s.Date)
		}
	}
	return out
}
