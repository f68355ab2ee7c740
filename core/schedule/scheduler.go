// Package schedule implements the date-matching core: it scans a per-day
// availability table for each campaign and proposes the best candidate day.
package schedule

import (
	"fmt"
	"time"

	"github.com/jhaeusler/sessionbot/core/model"
)

// Violation reports a campaign rejected before scheduling.
type Violation struct {
	Campaign string
	Err      error
}

func (v Violation) Error() string {
	return fmt.Sprintf("campaign %s: %v", v.Campaign, v.Err)
}

// Schedule produces one result per schedulable campaign, in input order.
// Excluded campaigns are skipped silently; campaigns violating the data
// model (empty roster, duplicate name) are skipped and reported as
// violations while scheduling proceeds for the rest.
//
// The function is pure: it reads the table and blackout set only and holds
// no state across calls.
func Schedule(campaigns []model.Campaign, table model.AvailabilityTable, blackout model.BlackoutSet, today model.Day, horizonDays int) ([]model.SchedulingResult, []Violation) {
	var (
		results    []model.SchedulingResult
		violations []Violation
	)
	seen := make(map[string]struct{}, len(campaigns))
	for _, c := range campaigns {
		if c.Excluded {
			continue
		}
		if err := c.Validate(); err != nil {
			violations = append(violations, Violation{Campaign: c.Name, Err: err})
			continue
		}
		if _, dup := seen[c.Name]; dup {
			violations = append(violations, Violation{Campaign: c.Name, Err: fmt.Errorf("duplicate campaign name")})
			continue
		}
		seen[c.Name] = struct{}{}
		results = append(results, scan(c, table, blackout, today, horizonDays))
	}
	return results, violations
}

// scanState carries the immutable fold accumulator: the earliest full match
// and the earliest eligible partial day found so far.
type scanState struct {
	fullMatch *model.Day
	fallback  *model.Day
}

// scan walks the closed range [today, today+horizonDays] in ascending order.
//
// A day with no table entry ends the scan: the remainder of the horizon is
// unknown, not empty. A day is disqualified when any roster member declined
// (decline wins over a simultaneous accept), when it is blacked out, or when
// it falls on Monday through Thursday for an in-person-only campaign. The
// first full match ends the scan immediately; otherwise the first eligible
// partial day is kept as fallback and never replaced by a later one.
func scan(c model.Campaign, table model.AvailabilityTable, blackout model.BlackoutSet, today model.Day, horizonDays int) model.SchedulingResult {
	var st scanState
	for i := 0; i <= horizonDays; i++ {
		d := today.AddDays(i)
		status, ok := table.Lookup(d)
		if !ok {
			break
		}
		next, done := st.fold(c, d, status, blackout)
		st = next
		if done {
			break
		}
	}

	res := model.SchedulingResult{Campaign: c}
	switch {
	case st.fullMatch != nil:
		res.Date = st.fullMatch
	case st.fallback != nil:
		res.Date = st.fallback
	default:
		return res
	}
	status, _ := table.Lookup(*res.Date)
	res.Missing = c.Roster.Diff(status.Accepted)
	return res
}

// fold advances the accumulator by one day and reports whether the scan is
// finished.
func (st scanState) fold(c model.Campaign, d model.Day, status model.DateStatus, blackout model.BlackoutSet) (scanState, bool) {
	if status.Declined.Intersects(c.Roster) {
		return st, false
	}
	if blackout.Contains(d) {
		return st, false
	}
	if !c.RemoteCapable && isEarlyWeekday(d) {
		return st, false
	}
	if status.Accepted.ContainsAll(c.Roster) {
		return scanState{fullMatch: &d, fallback: st.fallback}, true
	}
	if st.fallback == nil {
		return scanState{fallback: &d}, false
	}
	return st, false
}

// isEarlyWeekday reports whether the day falls on Monday through Thursday.
func isEarlyWeekday(d model.Day) bool {
	switch d.Weekday() {
	case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
		return true
	}
	return false
}
