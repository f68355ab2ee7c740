package wiki

import "context"

// Outcome describes the result of a report publication.
type Outcome int

const (
	// Unchanged means the published report already matched byte for byte
	// and no edit was made.
	Unchanged Outcome = iota
	// Updated means the page was edited with the new report.
	Updated
)

// String returns the metrics label for the outcome.
func (o Outcome) String() string {
	if o == Updated {
		return "updated"
	}
	return "unchanged"
}

// PublishReport writes the rendered report between the markers of the report
// page. Publication is idempotent: when the rebuilt page equals the current
// page the edit is skipped and Unchanged is returned.
func (c *Client) PublishReport(ctx context.Context, report string) (Outcome, error) {
	current, err := c.PageText(ctx, c.cfg.ReportPage)
	if err != nil {
		return Unchanged, err
	}
	next := replaceSection(current, c.cfg.MarkerStart, c.cfg.MarkerEnd, report)
	if next == current {
		return Unchanged, nil
	}
	if err := c.EditPage(ctx, c.cfg.ReportPage, next, "sessionbot: update session proposals"); err != nil {
		return Unchanged, err
	}
	return Updated, nil
}
