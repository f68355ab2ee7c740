package model

import (
	"errors"
	"fmt"
)

// ErrEmptyRoster marks a campaign without any participants.
var ErrEmptyRoster = errors.New("campaign roster is empty")

// Campaign is a recurring activity with a fixed roster of participants.
type Campaign struct {
	Name string
	// Roster is the set of participants that belong to the campaign.
	Roster ParticipantSet
	// RemoteCapable campaigns can meet on any weekday; in-person-only
	// campaigns are restricted to Friday through Sunday.
	RemoteCapable bool
	// Excluded campaigns are never scheduled (sandbox or paused groups).
	Excluded bool
}

// Validate checks the campaign against the data model invariants.
func (c Campaign) Validate() error {
	if c.Name == "" {
		return errors.New("campaign name is empty")
	}
	if c.Roster.Len() == 0 {
		return fmt.Errorf("campaign %s: %w", c.Name, ErrEmptyRoster)
	}
	return nil
}
