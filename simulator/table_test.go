package main

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhaeusler/sessionbot/core/model"
)

func simConfig() Config {
	return Config{
		Participants: []string{"alice", "bob"},
		AcceptRate:   0.5,
		DeclineRate:  0.2,
		Seed:         42,
	}
}

func TestGenerateTableIsDeterministic(t *testing.T) {
	from := model.NewDay(2026, time.January, 1)
	to := from.AddDays(13)
	a := GenerateTable(simConfig(), from, to)
	b := GenerateTable(simConfig(), from, to)
	require.Equal(t, a, b)
	require.Len(t, a, 14)
	for i, rec := range a {
		require.Equal(t, from.AddDays(i), rec.Date)
		total := len(rec.Accepted) + len(rec.Declined) + len(rec.Uncertain)
		require.Equal(t, 2, total)
	}
}

func TestGenerateTableGap(t *testing.T) {
	cfg := simConfig()
	cfg.GapAfterDays = 3
	from := model.NewDay(2026, time.January, 1)
	table := GenerateTable(cfg, from, from.AddDays(9))
	require.Len(t, table, 3)
}

func TestConfigValidate(t *testing.T) {
	cfg := simConfig()
	cfg.Participants = nil
	require.ErrorIs(t, cfg.Validate(), errNoParticipants)

	cfg = simConfig()
	cfg.AcceptRate = 0.9
	cfg.DeclineRate = 0.3
	require.ErrorIs(t, cfg.Validate(), errBadRates)
}

func TestHandler(t *testing.T) {
	h := handler(simConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/?from=2026-01-01&to=2026-01-07", nil))
	require.Equal(t, 200, rec.Code)
	var records []DayRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 7)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/?from=2026-01-07&to=2026-01-01", nil))
	require.Equal(t, 400, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/?from=nope&to=2026-01-01", nil))
	require.Equal(t, 400, rec.Code)
}
