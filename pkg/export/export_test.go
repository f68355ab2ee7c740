package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jhaeusler/sessionbot/core/model"
	"github.com/jhaeusler/sessionbot/core/schedule"
)

func proposals() []schedule.Proposal {
	d := model.NewDay(2026, time.January, 2)
	return schedule.Classify([]model.SchedulingResult{
		{
			Campaign: model.Campaign{Name: "Mythgart"},
			Date:     &d,
			Missing:  []model.Participant{"bob", "carol"},
		},
		{Campaign: model.Campaign{Name: "Shadowfen"}},
	})
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, proposals()); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var entries []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries got %d", len(entries))
	}
	if entries[0]["campaign"] != "Mythgart" || entries[0]["date"] != "2026-01-02" {
		t.Fatalf("bad entry %v", entries[0])
	}
	if entries[1]["tier"] != "not possible" {
		t.Fatalf("bad tier %v", entries[1]["tier"])
	}
	if _, ok := entries[1]["date"]; ok {
		t.Fatalf("dateless entry must omit date")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, proposals()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows got %d", len(lines))
	}
	if lines[0] != "campaign,weekday,date,missing,tier" {
		t.Fatalf("bad header %q", lines[0])
	}
	if !strings.Contains(lines[1], "Mythgart,Friday,2026-01-02") {
		t.Fatalf("bad row %q", lines[1])
	}
	if !strings.Contains(lines[2], "no date found") {
		t.Fatalf("dateless row must carry the marker: %q", lines[2])
	}
}
