package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/jhaeusler/sessionbot/core/model"
)

// day is a shorthand: 2026-01-01 is a Thursday, 2026-01-02 a Friday.
func day(d int) model.Day { return model.NewDay(2026, time.January, d) }

func campaign(name string, remote bool, roster ...model.Participant) model.Campaign {
	return model.Campaign{Name: name, Roster: model.NewParticipantSet(roster...), RemoteCapable: remote}
}

func accepted(d model.Day, ps ...model.Participant) model.DateStatus {
	return model.DateStatus{Date: d, Accepted: model.NewParticipantSet(ps...)}
}

func single(t *testing.T, c model.Campaign, table model.AvailabilityTable, blackout model.BlackoutSet, today model.Day, horizon int) model.SchedulingResult {
	t.Helper()
	results, violations := Schedule([]model.Campaign{c}, table, blackout, today, horizon)
	if len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result got %d", len(results))
	}
	return results[0]
}

func TestEarliestFullMatchWins(t *testing.T) {
	c := campaign("a", true, "alice", "bob")
	table := model.AvailabilityTable{
		day(1): accepted(day(1), "alice"),
		day(2): accepted(day(2), "alice", "bob"),
		day(3): accepted(day(3), "alice", "bob"),
	}
	res := single(t, c, table, model.NewBlackoutSet(), day(1), 7)
	if res.Date == nil || *res.Date != day(2) {
		t.Fatalf("expected Jan 2 got %v", res.Date)
	}
	if len(res.Missing) != 0 {
		t.Fatalf("full match must have no missing participants, got %v", res.Missing)
	}
	if res.Tier() != model.Possible {
		t.Fatalf("expected possible got %v", res.Tier())
	}
}

func TestFullMatchBeatsEarlierFallback(t *testing.T) {
	// Jan 1 is eligible but partial; the later full match still wins.
	c := campaign("a", true, "alice", "bob", "carol")
	table := model.AvailabilityTable{
		day(1): accepted(day(1), "alice", "bob"),
		day(2): accepted(day(2), "alice", "bob", "carol"),
	}
	res := single(t, c, table, model.NewBlackoutSet(), day(1), 7)
	if res.Date == nil || *res.Date != day(2) {
		t.Fatalf("expected full-match day got %v", res.Date)
	}
}

func TestDeclineWinsOverAccept(t *testing.T) {
	// bob is reported as both accepted and declined on the same day.
	c := campaign("a", true, "alice", "bob")
	table := model.AvailabilityTable{
		day(1): {
			Date:     day(1),
			Accepted: model.NewParticipantSet("alice", "bob"),
			Declined: model.NewParticipantSet("bob"),
		},
	}
	res := single(t, c, table, model.NewBlackoutSet(), day(1), 7)
	if res.Date != nil {
		t.Fatalf("declined day selected: %v", res.Date)
	}
	if res.Tier() != model.NotPossible {
		t.Fatalf("expected not possible got %v", res.Tier())
	}
}

func TestDeclineOnlyAffectsRosterMembers(t *testing.T) {
	// A decline from someone outside the roster must not disqualify the day.
	c := campaign("a", true, "alice")
	table := model.AvailabilityTable{
		day(1): {
			Date:     day(1),
			Accepted: model.NewParticipantSet("alice"),
			Declined: model.NewParticipantSet("mallory"),
		},
	}
	res := single(t, c, table, model.NewBlackoutSet(), day(1), 7)
	if res.Date == nil || *res.Date != day(1) {
		t.Fatalf("expected Jan 1 got %v", res.Date)
	}
}

func TestBlackoutExcluded(t *testing.T) {
	c := campaign("a", true, "alice")
	table := model.AvailabilityTable{
		day(1): accepted(day(1), "alice"),
		day(2): accepted(day(2), "alice"),
	}
	res := single(t, c, table, model.NewBlackoutSet(day(1)), day(1), 7)
	if res.Date == nil || *res.Date != day(2) {
		t.Fatalf("blackout day selected, got %v", res.Date)
	}
}

func TestWeekdayRuleForInPersonCampaigns(t *testing.T) {
	// Jan 1 2026 is a Thursday: fully accepted but off-limits in person.
	c := campaign("a", false, "alice")
	table := model.AvailabilityTable{
		day(1): accepted(day(1), "alice"),
		day(2): accepted(day(2), "alice"),
	}
	res := single(t, c, table, model.NewBlackoutSet(), day(1), 7)
	if res.Date == nil || *res.Date != day(2) {
		t.Fatalf("expected the Friday, got %v", res.Date)
	}

	// The same table is fine for a remote-capable campaign.
	res = single(t, campaign("b", true, "alice"), table, model.NewBlackoutSet(), day(1), 7)
	if res.Date == nil || *res.Date != day(1) {
		t.Fatalf("remote-capable campaign should take the Thursday, got %v", res.Date)
	}
}

func TestFallbackIsEarliestEligible(t *testing.T) {
	// Jan 2 misses two participants, Jan 3 only one. The earlier partial
	// day still wins: partial matches are never optimized.
	c := campaign("a", true, "alice", "bob", "carol")
	table := model.AvailabilityTable{
		day(2): accepted(day(2), "alice"),
		day(3): accepted(day(3), "alice", "bob"),
	}
	res := single(t, c, table, model.NewBlackoutSet(), day(2), 7)
	if res.Date == nil || *res.Date != day(2) {
		t.Fatalf("expected earliest eligible day got %v", res.Date)
	}
	if len(res.Missing) != 2 || res.Missing[0] != "bob" || res.Missing[1] != "carol" {
		t.Fatalf("expected sorted [bob carol] got %v", res.Missing)
	}
	if res.Tier() != model.MaybePossible {
		t.Fatalf("expected maybe possible got %v", res.Tier())
	}
}

func TestGapHaltsScan(t *testing.T) {
	// No entry for Jan 2; the full match on Jan 3 must never be reached.
	c := campaign("a", true, "alice", "bob")
	table := model.AvailabilityTable{
		day(1): accepted(day(1), "alice"),
		day(3): accepted(day(3), "alice", "bob"),
	}
	res := single(t, c, table, model.NewBlackoutSet(), day(1), 7)
	if res.Date == nil || *res.Date != day(1) {
		t.Fatalf("expected the pre-gap fallback got %v", res.Date)
	}
	if res.Tier() != model.MaybePossible {
		t.Fatalf("expected maybe possible got %v", res.Tier())
	}
}

func TestEmptyTableIsNotPossible(t *testing.T) {
	c := campaign("a", true, "alice")
	res := single(t, c, model.AvailabilityTable{}, model.NewBlackoutSet(), day(1), 7)
	if res.Date != nil || len(res.Missing) != 0 {
		t.Fatalf("expected empty result got %+v", res)
	}
	if res.Tier() != model.NotPossible {
		t.Fatalf("expected not possible got %v", res.Tier())
	}
}

func TestHorizonIsClosed(t *testing.T) {
	// The last day of the horizon is included, one past it is not.
	c := campaign("a", true, "alice")
	table := model.AvailabilityTable{}
	for i := 1; i <= 9; i++ {
		d := day(i)
		table[d] = model.DateStatus{Date: d, Declined: model.NewParticipantSet("alice")}
	}
	full := day(8)
	table[full] = accepted(full, "alice")
	res := single(t, c, table, model.NewBlackoutSet(), day(1), 7)
	if res.Date == nil || *res.Date != full {
		t.Fatalf("day at horizon edge not considered, got %v", res.Date)
	}

	table[full] = model.DateStatus{Date: full, Declined: model.NewParticipantSet("alice")}
	table[day(9)] = accepted(day(9), "alice")
	res = single(t, c, table, model.NewBlackoutSet(), day(1), 7)
	if res.Date != nil {
		t.Fatalf("day beyond horizon selected: %v", res.Date)
	}
}

func TestExcludedCampaignProducesNoResult(t *testing.T) {
	c := campaign("sandbox", true, "alice")
	c.Excluded = true
	results, violations := Schedule([]model.Campaign{c}, model.AvailabilityTable{}, model.NewBlackoutSet(), day(1), 7)
	if len(results) != 0 || len(violations) != 0 {
		t.Fatalf("excluded campaign must be silent, got %v / %v", results, violations)
	}
}

func TestDataModelViolations(t *testing.T) {
	table := model.AvailabilityTable{day(2): accepted(day(2), "alice")}
	campaigns := []model.Campaign{
		{Name: "empty", Roster: model.NewParticipantSet()},
		campaign("a", true, "alice"),
		campaign("a", true, "alice"), // duplicate name
	}
	results, violations := Schedule(campaigns, table, model.NewBlackoutSet(), day(2), 7)
	if len(results) != 1 || results[0].Campaign.Name != "a" {
		t.Fatalf("expected only the valid campaign, got %v", results)
	}
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations got %v", violations)
	}
	if !errors.Is(violations[0].Err, model.ErrEmptyRoster) {
		t.Fatalf("expected empty roster violation, got %v", violations[0].Err)
	}
}

// The three worked examples from the scheduling contract.

func TestExampleFullMatchOnSecondDay(t *testing.T) {
	c := campaign("a", true, "alice", "bob")
	table := model.AvailabilityTable{
		day(1): accepted(day(1), "alice"),
		day(2): accepted(day(2), "alice", "bob"),
	}
	res := single(t, c, table, model.NewBlackoutSet(), day(1), 1)
	if res.Date == nil || *res.Date != day(2) || len(res.Missing) != 0 || res.Tier() != model.Possible {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestExampleDeclineThenGap(t *testing.T) {
	c := campaign("a", true, "alice", "bob")
	table := model.AvailabilityTable{
		day(1): {Date: day(1), Declined: model.NewParticipantSet("bob")},
	}
	res := single(t, c, table, model.NewBlackoutSet(), day(1), 1)
	if res.Date != nil || len(res.Missing) != 0 || res.Tier() != model.NotPossible {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestExamplePartialThenGap(t *testing.T) {
	c := campaign("a", true, "alice", "bob")
	table := model.AvailabilityTable{
		day(1): accepted(day(1), "alice"),
	}
	res := single(t, c, table, model.NewBlackoutSet(), day(1), 1)
	if res.Date == nil || *res.Date != day(1) || res.Tier() != model.MaybePossible {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.Missing) != 1 || res.Missing[0] != "bob" {
		t.Fatalf("expected [bob] got %v", res.Missing)
	}
}
