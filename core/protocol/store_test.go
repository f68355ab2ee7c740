package protocol

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jhaeusler/sessionbot/core/model"
)

func testRecords() []Record {
	base := time.Date(2026, 7, 1, 20, 0, 0, 0, time.UTC)
	d := model.NewDay(2026, time.June, 20)
	return []Record{
		{Timestamp: base, Kind: KindRun, RunID: "r1", Campaigns: 3, Possible: 1, MaybePossible: 1, NotPossible: 1, Publish: "updated"},
		{Timestamp: base.Add(time.Minute), Kind: KindCleanup, RunID: "r1", Campaign: "Mythgart", Date: &d, Status: model.StatusConfirmed},
		{Timestamp: base.Add(2 * time.Minute), Kind: KindCleanup, RunID: "r1", Campaign: "Shadowfen", Date: &d, Status: model.StatusScheduled},
	}
}

func runStoreTests(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	for _, rec := range testRecords() {
		if err := s.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := s.Query(ctx, Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records got %d", len(all))
	}
	if all[0].Kind != KindRun || all[0].Publish != "updated" {
		t.Fatalf("run record mangled: %+v", all[0])
	}

	cleanups, err := s.Query(ctx, Query{Kind: KindCleanup})
	if err != nil {
		t.Fatalf("query cleanups: %v", err)
	}
	if len(cleanups) != 2 {
		t.Fatalf("expected 2 cleanups got %d", len(cleanups))
	}

	mythgart, err := s.Query(ctx, Query{Campaign: "Mythgart"})
	if err != nil {
		t.Fatalf("query campaign: %v", err)
	}
	if len(mythgart) != 1 || mythgart[0].Date == nil || mythgart[0].Date.String() != "2026-06-20" {
		t.Fatalf("campaign filter broken: %+v", mythgart)
	}

	late, err := s.Query(ctx, Query{Start: time.Date(2026, 7, 1, 20, 1, 30, 0, time.UTC)})
	if err != nil {
		t.Fatalf("query by start: %v", err)
	}
	if len(late) != 1 || late[0].Campaign != "Shadowfen" {
		t.Fatalf("time filter broken: %+v", late)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestJSONLStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "protocol.jsonl")
	s, err := NewJSONLStore(path, 1, 1, 1)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	runStoreTests(t, s)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "protocol.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	runStoreTests(t, s)
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Backend: "sqlite", Path: filepath.Join(dir, "p.db")}
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, ok := s.(*SQLiteStore); !ok {
		t.Fatalf("expected sqlite store got %T", s)
	}
	_ = s.Close()

	cfg = Config{}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Backend != "jsonl" {
		t.Fatalf("default backend %s", cfg.Backend)
	}
	if err := (Config{Backend: "csv", Path: "x"}).Validate(); err == nil {
		t.Fatalf("unknown backend accepted")
	}
}
