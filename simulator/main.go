// The simulator serves a synthetic availability table over HTTP so that
// sessionbot can be exercised locally without the real provider. Point the
// availability base_url at it and run a pass.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jhaeusler/sessionbot/core/model"
)

var (
	errNoParticipants = errors.New("at least one participant is required")
	errBadRates       = errors.New("accept and decline rates must be non-negative and sum to at most 1")
)

func main() {
	var (
		addr         = flag.String("addr", ":8080", "listen address")
		participants = flag.String("participants", "alice,bob,carol", "comma separated participant names")
		acceptRate   = flag.Float64("accept-rate", 0.6, "per-day probability of an accept")
		declineRate  = flag.Float64("decline-rate", 0.1, "per-day probability of a decline")
		gapAfter     = flag.Int("gap-after", 0, "truncate the table this many days in (0 = never)")
		seed         = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	)
	flag.Parse()

	cfg := Config{
		Participants: strings.Split(*participants, ","),
		AcceptRate:   *acceptRate,
		DeclineRate:  *declineRate,
		GapAfterDays: *gapAfter,
		Seed:         *seed,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: *addr, Handler: handler(cfg), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("availability simulator on %s (seed %d)", *addr, *seed)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}

// handler answers GET requests carrying from/to query parameters with a
// generated table, the same way the real provider would.
func handler(cfg Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		from, err := model.ParseDay(r.URL.Query().Get("from"))
		if err != nil {
			http.Error(w, "bad from parameter", http.StatusBadRequest)
			return
		}
		to, err := model.ParseDay(r.URL.Query().Get("to"))
		if err != nil {
			http.Error(w, "bad to parameter", http.StatusBadRequest)
			return
		}
		if to.Before(from) {
			http.Error(w, "to precedes from", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(GenerateTable(cfg, from, to)); err != nil {
			log.Printf("encode table: %v", err)
		}
	})
}
