package wiki

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jhaeusler/sessionbot/core/model"
)

// askQuery selects all session records flagged for display, with the
// attributes the bot needs.
const askQuery = `[[SessionVisible::true]]
|mainlabel=-
|?SessionCampaign
|?SessionDate
|?SessionStatus
|?SessionTime
|?SessionLocation
|?SessionWeekday
|?SessionPage`

// sessionDateLayouts are tried in order; pages carry both two- and
// four-digit years.
var sessionDateLayouts = []string{"02.01.06", "02.01.2006"}

type askResponse struct {
	Query struct {
		Results map[string]struct {
			Printouts map[string][]string `json:"printouts"`
		} `json:"results"`
	} `json:"query"`
}

// Sessions queries the announced session records.
func (c *Client) Sessions(ctx context.Context) ([]model.Session, error) {
	var out askResponse
	err := c.getJSON(ctx, url.Values{
		"action": {"ask"},
		"query":  {askQuery},
		"format": {"json"},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("%w: ask sessions: %v", ErrFetch, err)
	}

	sessions := make([]model.Session, 0, len(out.Query.Results))
	for page, res := range out.Query.Results {
		s := model.Session{Page: page}
		if v := first(res.Printouts["SessionCampaign"]); v != "" {
			s.Campaign = v
		}
		if v := first(res.Printouts["SessionPage"]); v != "" {
			s.Page = v
		}
		s.Status = first(res.Printouts["SessionStatus"])
		s.Weekday = first(res.Printouts["SessionWeekday"])
		s.Time = first(res.Printouts["SessionTime"])
		s.Location = first(res.Printouts["SessionLocation"])
		if v := first(res.Printouts["SessionDate"]); v != "" {
			if d, ok := parseSessionDate(v); ok {
				s.Date = d
			}
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func parseSessionDate(v string) (model.Day, bool) {
	for _, layout := range sessionDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return model.DayOf(t), true
		}
	}
	return model.Day{}, false
}
