package wiki

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jhaeusler/sessionbot/core/model"
)

// sessionFields are blanked in order when a past session is cleaned up. The
// patterns follow the session template layout, clearing each value while
// keeping the field itself.
var sessionFields = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?s)(\|Date=)(.*?)(\|Weekday=)`), "$1\n$3"},
	{regexp.MustCompile(`(?s)(\|Weekday=)(.*?)(\|Campaign=)`), "$1\n$3"},
	{regexp.MustCompile(`(?s)(\|Time=)(.*?)(\|Players=)`), "$1\n$3"},
	{regexp.MustCompile(`(?s)(\|Confirmations=)(.*?)(\|Status=)`), "$1\n$3"},
	{regexp.MustCompile(`(?s)(\|Status=)(.*?)(\|)`), "$1\n$3"},
}

// CleanSession blanks the session fields on the session's page so the past
// date disappears from the calendar.
func (c *Client) CleanSession(ctx context.Context, s model.Session) error {
	if s.Page == "" {
		return fmt.Errorf("%w: session for %s has no page", ErrPublish, s.Campaign)
	}
	text, err := c.PageText(ctx, s.Page)
	if err != nil {
		return err
	}
	cleaned := text
	for _, f := range sessionFields {
		cleaned = f.re.ReplaceAllString(cleaned, f.replacement)
	}
	if cleaned == text {
		return nil
	}
	summary := fmt.Sprintf("sessionbot: removed past session of %s", s.Date.Format("02.01.2006"))
	return c.EditPage(ctx, s.Page, cleaned, summary)
}
