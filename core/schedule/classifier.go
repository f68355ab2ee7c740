package schedule

import (
	"sort"

	"github.com/jhaeusler/sessionbot/core/model"
)

// Proposal pairs a scheduling result with its suggestion tier.
type Proposal struct {
	Result model.SchedulingResult
	Tier   model.SuggestionTier
}

// Classify attaches tiers and orders the proposals by date ascending with
// dateless results last. Ties are broken by campaign name so that identical
// input always yields an identical report.
func Classify(results []model.SchedulingResult) []Proposal {
	out := make([]Proposal, 0, len(results))
	for _, r := range results {
		out = append(out, Proposal{Result: r, Tier: r.Tier()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Result, out[j].Result
		switch {
		case a.Date == nil && b.Date == nil:
			return a.Campaign.Name < b.Campaign.Name
		case a.Date == nil:
			return false
		case b.Date == nil:
			return true
		case *a.Date != *b.Date:
			return a.Date.Before(*b.Date)
		}
		return a.Campaign.Name < b.Campaign.Name
	})
	return out
}
