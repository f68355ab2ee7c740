package metrics

import coremetrics "github.com/jhaeusler/sessionbot/core/metrics"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordProposals forwards proposal events to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordProposals(events []coremetrics.ProposalEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordProposals(events); err != nil {
			return err
		}
	}
	return nil
}

// RecordPublish forwards publication outcomes to sinks that support them.
func (m *MultiSink) RecordPublish(ev coremetrics.PublishEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.PublishRecorder); ok {
			if err := rec.RecordPublish(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFetch forwards fetch events to sinks that support them.
func (m *MultiSink) RecordFetch(ev coremetrics.FetchEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.FetchRecorder); ok {
			if err := rec.RecordFetch(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordCleanup forwards cleanup events to sinks that support them.
func (m *MultiSink) RecordCleanup(ev coremetrics.CleanupEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.CleanupRecorder); ok {
			if err := rec.RecordCleanup(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
