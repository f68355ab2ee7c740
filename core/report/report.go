// Package report renders classified proposals as wiki table markup.
package report

import (
	"strings"

	"github.com/jhaeusler/sessionbot/core/schedule"
)

// NoDateMarker is printed in place of a date when no usable day was found.
const NoDateMarker = "no date found"

const dateLayout = "02.01.2006"

// Render produces a MediaWiki table with one row per proposal: campaign,
// weekday, date, participants still missing, and the suggestion tier. The
// output is byte-deterministic for identical input.
func Render(proposals []schedule.Proposal) string {
	var b strings.Builder
	b.WriteString("{| class=\"wikitable\"\n")
	b.WriteString("! Campaign !! Weekday !! Date !! Waiting on !! Suggestion\n")
	for _, p := range proposals {
		b.WriteString("|-\n")
		b.WriteString("| ")
		b.WriteString(p.Result.Campaign.Name)
		b.WriteString(" || ")
		if d := p.Result.Date; d != nil {
			b.WriteString(d.Weekday().String())
			b.WriteString(" || ")
			b.WriteString(d.Format(dateLayout))
		} else {
			b.WriteString(" || ")
			b.WriteString(NoDateMarker)
		}
		b.WriteString(" || ")
		b.WriteString(joinParticipants(p))
		b.WriteString(" || ")
		b.WriteString(p.Tier.String())
		b.WriteString("\n")
	}
	b.WriteString("|}\n")
	return b.String()
}

func joinParticipants(p schedule.Proposal) string {
	names := make([]string, 0, len(p.Result.Missing))
	for _, m := range p.Result.Missing {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
