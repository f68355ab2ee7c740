package app

import (
	"github.com/jhaeusler/sessionbot/core/model"
	"github.com/jhaeusler/sessionbot/core/schedule"
	"github.com/jhaeusler/sessionbot/infra/wiki"
)

// Event is published on the service bus at each stage of a run so that
// observers (CLI logging, tests) can follow the pass without hooking into
// the service internals.
type Event interface{ isEvent() }

// RunStarted is emitted once per pass, before any remote call.
type RunStarted struct {
	RunID string
}

// RunSkipped is emitted when the parameter page disables the bot.
type RunSkipped struct {
	RunID string
}

// ProposalsReady carries the classified scheduling outcome of a pass.
type ProposalsReady struct {
	RunID     string
	Proposals []schedule.Proposal
}

// ReportPublished is emitted after the report page edit, whether or not
// the page content actually changed.
type ReportPublished struct {
	RunID   string
	Outcome wiki.Outcome
}

// SessionCleaned is emitted for every expired session reset during the
// maintenance step.
type SessionCleaned struct {
	RunID   string
	Session model.Session
}

// RunCompleted is the final event of a successful pass.
type RunCompleted struct {
	RunID string
}

func (RunStarted) isEvent()      {}
func (RunSkipped) isEvent()      {}
func (ProposalsReady) isEvent()  {}
func (ReportPublished) isEvent() {}
func (SessionCleaned) isEvent()  {}
func (RunCompleted) isEvent()    {}
