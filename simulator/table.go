package main

import (
	"math/rand"

	"github.com/jhaeusler/sessionbot/core/model"
)

// Config holds parameters for table generation.
type Config struct {
	Participants []string
	AcceptRate   float64
	DeclineRate  float64
	// GapAfterDays truncates the table that many days after the requested
	// start, leaving the rest of the range without entries. Zero disables
	// the gap.
	GapAfterDays int
	Seed         int64
}

// Validate checks the generation parameters.
func (c *Config) Validate() error {
	if len(c.Participants) == 0 {
		return errNoParticipants
	}
	if c.AcceptRate < 0 || c.DeclineRate < 0 || c.AcceptRate+c.DeclineRate > 1 {
		return errBadRates
	}
	return nil
}

// DayRecord mirrors the availability service wire format.
type DayRecord struct {
	Date      model.Day `json:"date"`
	Accepted  []string  `json:"accepted"`
	Declined  []string  `json:"declined"`
	Uncertain []string  `json:"uncertain"`
}

// GenerateTable produces one record per day of the closed range [from, to].
// Each participant independently accepts, declines or stays uncertain with
// the configured rates. The same seed and range always yield the same table.
func GenerateTable(cfg Config, from, to model.Day) []DayRecord {
	rng := rand.New(rand.NewSource(cfg.Seed))
	var out []DayRecord
	for i := 0; ; i++ {
		d := from.AddDays(i)
		if d.After(to) {
			break
		}
		if cfg.GapAfterDays > 0 && i >= cfg.GapAfterDays {
			break
		}
		rec := DayRecord{Date: d}
		for _, p := range cfg.Participants {
			switch v := rng.Float64(); {
			case v < cfg.AcceptRate:
				rec.Accepted = append(rec.Accepted, p)
			case v < cfg.AcceptRate+cfg.DeclineRate:
				rec.Declined = append(rec.Declined, p)
			default:
				rec.Uncertain = append(rec.Uncertain, p)
			}
		}
		out = append(out, rec)
	}
	return out
}
