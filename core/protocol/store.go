// Package protocol persists the bot's run history: one record per scheduling
// pass and one record per cleaned-up session.
package protocol

import (
	"context"
	"time"

	"github.com/jhaeusler/sessionbot/core/model"
)

// Record kinds stored in the protocol.
const (
	KindRun     = "run"
	KindCleanup = "cleanup"
)

// Record captures one protocol entry. Run records summarize a scheduling
// pass; cleanup records document one removed session.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	RunID     string    `json:"run_id"`

	// Run summary fields.
	Campaigns     int    `json:"campaigns,omitempty"`
	Possible      int    `json:"possible,omitempty"`
	MaybePossible int    `json:"maybe_possible,omitempty"`
	NotPossible   int    `json:"not_possible,omitempty"`
	Violations    int    `json:"violations,omitempty"`
	Publish       string `json:"publish,omitempty"`

	// Cleanup fields.
	Campaign string     `json:"campaign,omitempty"`
	Date     *model.Day `json:"date,omitempty"`
	Status   string     `json:"status,omitempty"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start    time.Time
	End      time.Time
	Kind     string
	Campaign string
}

// Matches reports whether the record passes the non-index filters.
func (q Query) Matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.Campaign != "" && r.Campaign != q.Campaign {
		return false
	}
	return true
}

// Store persists protocol records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
