// Package metrics defines the sink contracts for run observability. Sinks
// implement MetricsSink; the narrower recorder interfaces are optional and
// detected by type assertion.
package metrics

import (
	"time"

	"github.com/jhaeusler/sessionbot/core/model"
)

// ProposalEvent is a per-campaign scheduling outcome to be recorded.
type ProposalEvent struct {
	RunID        string
	Campaign     string
	Tier         model.SuggestionTier
	Date         *model.Day
	MissingCount int
	Time         time.Time
}

// MetricsSink records proposal outcomes for observability purposes.
type MetricsSink interface {
	RecordProposals(events []ProposalEvent) error
}

// PublishEvent captures the outcome of one report publication attempt.
type PublishEvent struct {
	RunID   string
	Page    string
	Outcome string // "updated", "unchanged" or "failed"
	Time    time.Time
}

// PublishRecorder records report publication outcomes.
type PublishRecorder interface {
	RecordPublish(ev PublishEvent) error
}

// FetchEvent captures one provider fetch, successful or not.
type FetchEvent struct {
	Provider string
	Duration time.Duration
	Failed   bool
	Time     time.Time
}

// FetchRecorder records provider fetches.
type FetchRecorder interface {
	RecordFetch(ev FetchEvent) error
}

// CleanupEvent captures one expired session removed during maintenance.
type CleanupEvent struct {
	RunID    string
	Campaign string
	Date     model.Day
	Time     time.Time
}

// CleanupRecorder records session cleanups.
type CleanupRecorder interface {
	RecordCleanup(ev CleanupEvent) error
}

// NopSink discards all events.
type NopSink struct{}

// RecordProposals implements MetricsSink.
func (NopSink) RecordProposals([]ProposalEvent) error { return nil }
