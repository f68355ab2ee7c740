// Package maintenance selects session records that are due for cleanup.
package maintenance

import (
	"github.com/jhaeusler/sessionbot/core/model"
)

// Expired returns the sessions whose date lies at least retentionDays in the
// past relative to today. Sessions without a recorded date are never
// returned. Input order is preserved.
func Expired(sessions []model.Session, today model.Day, retentionDays int) []model.Session {
	var out []model.Session
	for _, s := range sessions {
		if s.Date.IsZero() {
			continue
		}
		if s.Date.DaysUntil(today) >= retentionDays {
			out = append(out, s)
		}
	}
	return out
}
