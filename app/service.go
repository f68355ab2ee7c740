// Package app wires the configured collaborators into the bot service and
// drives a full scheduling pass.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhaeusler/sessionbot/config"
	"github.com/jhaeusler/sessionbot/core/logger"
	"github.com/jhaeusler/sessionbot/core/maintenance"
	coremetrics "github.com/jhaeusler/sessionbot/core/metrics"
	"github.com/jhaeusler/sessionbot/core/model"
	"github.com/jhaeusler/sessionbot/core/monitoring"
	"github.com/jhaeusler/sessionbot/core/protocol"
	"github.com/jhaeusler/sessionbot/core/report"
	"github.com/jhaeusler/sessionbot/core/schedule"
	"github.com/jhaeusler/sessionbot/infra/availability"
	infralogger "github.com/jhaeusler/sessionbot/infra/logger"
	inframetrics "github.com/jhaeusler/sessionbot/infra/metrics"
	inframonitoring "github.com/jhaeusler/sessionbot/infra/monitoring"
	"github.com/jhaeusler/sessionbot/infra/notify"
	"github.com/jhaeusler/sessionbot/infra/wiki"
	"github.com/jhaeusler/sessionbot/internal/eventbus"
)

// wikiGateway is the wiki surface the service needs: parameters and
// sessions in, report and session edits out.
type wikiGateway interface {
	FetchParams(ctx context.Context) (wiki.RunParams, error)
	Sessions(ctx context.Context) ([]model.Session, error)
	PublishReport(ctx context.Context, report string) (wiki.Outcome, error)
	CleanSession(ctx context.Context, s model.Session) error
}

// availabilitySource provides the per-date response table.
type availabilitySource interface {
	FetchTable(ctx context.Context, from, to model.Day) (model.AvailabilityTable, error)
}

// proposalAnnouncer pushes classified proposals to subscribers.
type proposalAnnouncer interface {
	Announce(runID string, proposals []schedule.Proposal) error
	Close()
}

// Service runs scheduling passes against the configured wiki and
// availability provider.
type Service struct {
	cfg   *config.Config
	wiki  wikiGateway
	avail availabilitySource
	store protocol.Store
	sink  coremetrics.MetricsSink
	ann   proposalAnnouncer
	bus   *eventbus.Bus[Event]
	log   logger.Logger
	now   func() time.Time

	closeSinks func()
}

// New builds a Service from the validated configuration.
func New(cfg *config.Config) (*Service, error) {
	log := infralogger.New("app")

	mon, err := inframonitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("init monitoring: %w", err)
	}
	monitoring.Init(mon)

	wikiClient, err := wiki.NewClient(cfg.Wiki)
	if err != nil {
		return nil, fmt.Errorf("init wiki client: %w", err)
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		prom, err := inframetrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("init prometheus sink: %w", err)
		}
		sinks = append(sinks, prom)
	}
	closeSinks := func() {}
	if cfg.Metrics.InfluxEnabled {
		influx := inframetrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, influx)
		if c, ok := influx.(*inframetrics.InfluxSink); ok {
			closeSinks = c.Close
		}
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) > 0 {
		sink = inframetrics.NewMultiSink(sinks...)
	}

	var ann proposalAnnouncer
	if cfg.Notify.Enabled {
		a, err := notify.NewAnnouncer(cfg.Notify)
		if err != nil {
			return nil, fmt.Errorf("init announcer: %w", err)
		}
		ann = a
	}

	store, err := protocol.Open(cfg.Protocol)
	if err != nil {
		return nil, fmt.Errorf("open protocol store: %w", err)
	}

	return &Service{
		cfg:        cfg,
		wiki:       wikiClient,
		avail:      availability.NewClient(cfg.Availability),
		store:      store,
		sink:       sink,
		ann:        ann,
		bus:        eventbus.New[Event](),
		log:        log,
		now:        time.Now,
		closeSinks: closeSinks,
	}, nil
}

// Events exposes the run event bus for observers.
func (s *Service) Events() *eventbus.Bus[Event] { return s.bus }

// Run executes one full pass: parameters, sessions, availability,
// scheduling, report publication, notifications and maintenance. A provider
// fetch failure aborts the pass before anything is published.
func (s *Service) Run(ctx context.Context) error {
	defer monitoring.Recover()

	runID := uuid.NewString()
	s.bus.Publish(RunStarted{RunID: runID})
	s.log.Infof("run %s started", runID)

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := inframetrics.StartPromServer(ctx, ":"+s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Warnf("prometheus server: %v", err)
			}
		}()
	}

	p, err := s.propose(ctx, false)
	if err != nil {
		monitoring.CaptureException(err, map[string]string{"run_id": runID})
		return err
	}
	if !p.params.Active {
		s.log.Infof("run %s skipped: bot disabled on parameter page", runID)
		s.bus.Publish(RunSkipped{RunID: runID})
		return nil
	}
	s.bus.Publish(ProposalsReady{RunID: runID, Proposals: p.proposals})

	outcome, err := s.wiki.PublishReport(ctx, report.Render(p.proposals))
	if err != nil {
		s.recordPublish(runID, "failed")
		monitoring.CaptureException(err, map[string]string{"run_id": runID, "page": s.cfg.Wiki.ReportPage})
		return fmt.Errorf("publish report: %w", err)
	}
	s.recordPublish(runID, outcome.String())
	s.bus.Publish(ReportPublished{RunID: runID, Outcome: outcome})
	s.log.Infof("report on %s: %s", s.cfg.Wiki.ReportPage, outcome)

	if err := s.sink.RecordProposals(proposalEvents(runID, p.proposals, time.Now())); err != nil {
		s.log.Warnf("record proposals: %v", err)
	}
	if s.ann != nil {
		if err := s.ann.Announce(runID, p.proposals); err != nil {
			s.log.Warnf("announce proposals: %v", err)
		}
	}

	cleaned := 0
	if p.params.CleanupEnabled {
		cleaned = s.cleanSessions(ctx, runID, p.sessions, p.params.RetentionDays)
	}

	if err := s.store.Append(ctx, runRecord(runID, time.Now(), p, outcome)); err != nil {
		s.log.Warnf("append run record: %v", err)
	}

	s.bus.Publish(RunCompleted{RunID: runID})
	s.log.Infof("run %s complete: %d proposals, report %s, %d sessions cleaned",
		runID, len(p.proposals), outcome, cleaned)
	return nil
}

// Propose performs the read-only half of a pass and returns the classified
// proposals together with the rendered report. Nothing is published; the
// parameter-page kill switch is ignored because the caller asked explicitly.
func (s *Service) Propose(ctx context.Context) ([]schedule.Proposal, string, error) {
	p, err := s.propose(ctx, true)
	if err != nil {
		return nil, "", err
	}
	return p.proposals, report.Render(p.proposals), nil
}

// Cleanup runs only the maintenance step: expired sessions are reset on
// their campaign pages. The parameter-page kill switch still applies.
func (s *Service) Cleanup(ctx context.Context) error {
	defer monitoring.Recover()

	runID := uuid.NewString()
	params, err := s.fetchParams(ctx)
	if err != nil {
		return err
	}
	if !params.Active {
		s.log.Infof("cleanup skipped: bot disabled on parameter page")
		s.bus.Publish(RunSkipped{RunID: runID})
		return nil
	}
	sessions, err := s.fetchSessions(ctx)
	if err != nil {
		return err
	}
	cleaned := s.cleanSessions(ctx, runID, sessions, params.RetentionDays)
	s.log.Infof("cleanup %s complete: %d sessions cleaned", runID, cleaned)
	return nil
}

// Close releases network and storage resources. Safe after a failed run.
func (s *Service) Close() error {
	if s.ann != nil {
		s.ann.Close()
	}
	s.closeSinks()
	s.bus.Close()
	err := s.store.Close()
	monitoring.Flush(2 * time.Second)
	return err
}

// pass holds everything the read-only half of a run produced.
type pass struct {
	params     wiki.RunParams
	sessions   []model.Session
	proposals  []schedule.Proposal
	violations []schedule.Violation
}

// propose gathers parameters, sessions and availability, then schedules and
// classifies. Unless force is set, an inactive parameter page returns early
// with empty proposals so callers can decide what "disabled" means for them.
func (s *Service) propose(ctx context.Context, force bool) (pass, error) {
	params, err := s.fetchParams(ctx)
	if err != nil {
		return pass{}, err
	}
	if !params.Active && !force {
		return pass{params: params}, nil
	}

	sessions, err := s.fetchSessions(ctx)
	if err != nil {
		return pass{}, err
	}

	today := model.DayOf(s.now())
	started := time.Now()
	table, err := s.avail.FetchTable(ctx, today, today.AddDays(params.HorizonDays))
	s.recordFetch("availability", time.Since(started), err)
	if err != nil {
		return pass{}, fmt.Errorf("fetch availability: %w", err)
	}

	campaigns := params.Rosters(s.cfg.Availability.Aliases, s.cfg.Schedule.SandboxCampaign)
	results, violations := schedule.Schedule(campaigns, table, model.BlackoutFromSessions(sessions), today, params.HorizonDays)
	for _, v := range violations {
		s.log.Warnf("campaign skipped: %v", v)
	}
	return pass{
		params:     params,
		sessions:   sessions,
		proposals:  schedule.Classify(results),
		violations: violations,
	}, nil
}

func (s *Service) fetchParams(ctx context.Context) (wiki.RunParams, error) {
	started := time.Now()
	params, err := s.wiki.FetchParams(ctx)
	s.recordFetch("wiki_params", time.Since(started), err)
	if err != nil {
		return wiki.RunParams{}, fmt.Errorf("fetch parameters: %w", err)
	}
	return params, nil
}

func (s *Service) fetchSessions(ctx context.Context) ([]model.Session, error) {
	started := time.Now()
	sessions, err := s.wiki.Sessions(ctx)
	s.recordFetch("wiki_sessions", time.Since(started), err)
	if err != nil {
		return nil, fmt.Errorf("fetch sessions: %w", err)
	}
	return sessions, nil
}

// cleanSessions resets every expired session. A failing edit is logged and
// skipped so one broken page does not block the rest.
func (s *Service) cleanSessions(ctx context.Context, runID string, sessions []model.Session, retentionDays int) int {
	today := model.DayOf(s.now())
	cleaned := 0
	for _, sess := range maintenance.Expired(sessions, today, retentionDays) {
		if err := s.wiki.CleanSession(ctx, sess); err != nil {
			s.log.Errorf("clean session %s: %v", sess.Page, err)
			monitoring.CaptureException(err, map[string]string{"run_id": runID, "campaign": sess.Campaign})
			continue
		}
		cleaned++
		s.bus.Publish(SessionCleaned{RunID: runID, Session: sess})
		s.recordCleanup(runID, sess)
		date := sess.Date
		rec := protocol.Record{
			Timestamp: time.Now(),
			Kind:      protocol.KindCleanup,
			RunID:     runID,
			Campaign:  sess.Campaign,
			Date:      &date,
			Status:    sess.Status,
		}
		if err := s.store.Append(ctx, rec); err != nil {
			s.log.Warnf("append cleanup record: %v", err)
		}
	}
	return cleaned
}

func (s *Service) recordFetch(provider string, d time.Duration, err error) {
	r, ok := s.sink.(coremetrics.FetchRecorder)
	if !ok {
		return
	}
	ev := coremetrics.FetchEvent{Provider: provider, Duration: d, Failed: err != nil, Time: time.Now()}
	if rerr := r.RecordFetch(ev); rerr != nil {
		s.log.Warnf("record fetch: %v", rerr)
	}
}

func (s *Service) recordPublish(runID, outcome string) {
	r, ok := s.sink.(coremetrics.PublishRecorder)
	if !ok {
		return
	}
	ev := coremetrics.PublishEvent{RunID: runID, Page: s.cfg.Wiki.ReportPage, Outcome: outcome, Time: time.Now()}
	if err := r.RecordPublish(ev); err != nil {
		s.log.Warnf("record publish: %v", err)
	}
}

func (s *Service) recordCleanup(runID string, sess model.Session) {
	r, ok := s.sink.(coremetrics.CleanupRecorder)
	if !ok {
		return
	}
	ev := coremetrics.CleanupEvent{RunID: runID, Campaign: sess.Campaign, Date: sess.Date, Time: time.Now()}
	if err := r.RecordCleanup(ev); err != nil {
		s.log.Warnf("record cleanup: %v", err)
	}
}

func proposalEvents(runID string, proposals []schedule.Proposal, ts time.Time) []coremetrics.ProposalEvent {
	events := make([]coremetrics.ProposalEvent, 0, len(proposals))
	for _, p := range proposals {
		events = append(events, coremetrics.ProposalEvent{
			RunID:        runID,
			Campaign:     p.Result.Campaign.Name,
			Tier:         p.Tier,
			Date:         p.Result.Date,
			MissingCount: len(p.Result.Missing),
			Time:         ts,
		})
	}
	return events
}

func runRecord(runID string, ts time.Time, p pass, outcome wiki.Outcome) protocol.Record {
	rec := protocol.Record{
		Timestamp:  ts,
		Kind:       protocol.KindRun,
		RunID:      runID,
		Campaigns:  len(p.proposals),
		Violations: len(p.violations),
		Publish:    outcome.String(),
	}
	for _, pr := range p.proposals {
		switch pr.Tier {
		case model.Possible:
			rec.Possible++
		case model.MaybePossible:
			rec.MaybePossible++
		default:
			rec.NotPossible++
		}
	}
	return rec
}
