// Package cmd defines the sessionbot command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jhaeusler/sessionbot/app"
	"github.com/jhaeusler/sessionbot/config"
	"github.com/jhaeusler/sessionbot/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "sessionbot",
	Short: "Session proposal bot for campaign wikis",
	Long: "sessionbot matches campaign rosters against the shared availability " +
		"table, publishes a proposal report on the wiki and resets expired sessions.",
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)
	go watchEvents(svc)
	return svc.Run(ctx)
}

// watchEvents logs run progress from the service bus. The subscription
// channel closes when the service does.
func watchEvents(svc *app.Service) {
	log := logger.New("run")
	for e := range svc.Events().Subscribe() {
		switch ev := e.(type) {
		case app.RunStarted:
			log.Debugf("run %s started", ev.RunID)
		case app.RunSkipped:
			log.Debugf("run %s skipped", ev.RunID)
		case app.ProposalsReady:
			log.Debugf("run %s produced %d proposals", ev.RunID, len(ev.Proposals))
		case app.ReportPublished:
			log.Debugf("run %s report %s", ev.RunID, ev.Outcome)
		case app.SessionCleaned:
			log.Debugf("run %s cleaned session %s on %s", ev.RunID, ev.Session.Campaign, ev.Session.Date)
		case app.RunCompleted:
			log.Debugf("run %s completed", ev.RunID)
		}
	}
}

func newService() (*app.Service, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(cfg)
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}
