// Package export writes classified proposals to machine-readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"github.com/jhaeusler/sessionbot/core/report"
	"github.com/jhaeusler/sessionbot/core/schedule"
)

// entry is the flat JSON shape of one proposal.
type entry struct {
	Campaign string   `json:"campaign"`
	Weekday  string   `json:"weekday,omitempty"`
	Date     string   `json:"date,omitempty"`
	Missing  []string `json:"missing,omitempty"`
	Tier     string   `json:"tier"`
}

func toEntry(p schedule.Proposal) entry {
	e := entry{Campaign: p.Result.Campaign.Name, Tier: p.Tier.String()}
	if d := p.Result.Date; d != nil {
		e.Weekday = d.Weekday().String()
		e.Date = d.String()
	}
	for _, m := range p.Result.Missing {
		e.Missing = append(e.Missing, string(m))
	}
	return e
}

// WriteJSON writes the proposals to w as a JSON array.
func WriteJSON(w io.Writer, proposals []schedule.Proposal) error {
	entries := make([]entry, 0, len(proposals))
	for _, p := range proposals {
		entries = append(entries, toEntry(p))
	}
	enc := json.NewEncoder(w)
	return enc.Encode(entries)
}

// WriteCSV writes the proposals to w as CSV with a header row.
func WriteCSV(w io.Writer, proposals []schedule.Proposal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"campaign", "weekday", "date", "missing", "tier"}); err != nil {
		return err
	}
	for _, p := range proposals {
		e := toEntry(p)
		date := e.Date
		if date == "" {
			date = report.NoDateMarker
		}
		rec := []string{e.Campaign, e.Weekday, date, strings.Join(e.Missing, ", "), e.Tier}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
