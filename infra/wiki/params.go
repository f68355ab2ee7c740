package wiki

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jhaeusler/sessionbot/core/model"
)

// RunParams are the bot parameters maintained by the operators on the wiki
// itself, embedded as YAML between the configured markers.
type RunParams struct {
	// Active is the kill switch: when false the bot exits without running.
	Active bool `yaml:"active"`
	// HorizonDays bounds the forward scan from today.
	HorizonDays int `yaml:"horizon_days"`
	// CleanupEnabled turns the expired-session maintenance pass on.
	CleanupEnabled bool `yaml:"cleanup_enabled"`
	// RetentionDays is the age at which a past session is cleaned up.
	RetentionDays int `yaml:"retention_days"`
	// Campaigns is the roster registry.
	Campaigns []CampaignParams `yaml:"campaigns"`
}

// CampaignParams describes one campaign roster on the parameter page.
type CampaignParams struct {
	Name     string   `yaml:"name"`
	Players  []string `yaml:"players"`
	Remote   bool     `yaml:"remote"`
	Excluded bool     `yaml:"excluded"`
}

// setDefaults fills unset scan parameters.
func (p *RunParams) setDefaults() {
	if p.HorizonDays <= 0 {
		p.HorizonDays = 60
	}
	if p.RetentionDays <= 0 {
		p.RetentionDays = 7
	}
}

// FetchParams reads and parses the parameter page.
func (c *Client) FetchParams(ctx context.Context) (RunParams, error) {
	text, err := c.PageText(ctx, c.cfg.ParamPage)
	if err != nil {
		return RunParams{}, err
	}
	block, err := extractSection(text, c.cfg.MarkerStart, c.cfg.MarkerEnd)
	if err != nil {
		return RunParams{}, fmt.Errorf("%w: page %s: %v", ErrFetch, c.cfg.ParamPage, err)
	}
	var params RunParams
	if err := yaml.Unmarshal([]byte(block), &params); err != nil {
		return RunParams{}, fmt.Errorf("%w: page %s: %v", ErrFetch, c.cfg.ParamPage, err)
	}
	params.setDefaults()
	return params, nil
}

// Rosters converts the parameter entries to campaigns. Aliases map
// alternative player spellings to canonical names; the campaign whose name
// equals sandbox is always excluded.
func (p RunParams) Rosters(aliases map[string]string, sandbox string) []model.Campaign {
	out := make([]model.Campaign, 0, len(p.Campaigns))
	for _, cp := range p.Campaigns {
		roster := make(model.ParticipantSet, len(cp.Players))
		for _, name := range cp.Players {
			if canonical, ok := aliases[name]; ok {
				name = canonical
			}
			roster.Add(model.Participant(name))
		}
		out = append(out, model.Campaign{
			Name:          cp.Name,
			Roster:        roster,
			RemoteCapable: cp.Remote,
			Excluded:      cp.Excluded || (sandbox != "" && cp.Name == sandbox),
		})
	}
	return out
}

// extractSection returns the text between the first start marker and the
// following end marker, exclusive.
func extractSection(text, start, end string) (string, error) {
	i := strings.Index(text, start)
	if i < 0 {
		return "", fmt.Errorf("start marker %q not found", start)
	}
	rest := text[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return "", fmt.Errorf("end marker %q not found", end)
	}
	return rest[:j], nil
}

// replaceSection swaps the text between the markers for content, keeping the
// markers themselves. When the page has no markers yet, a fresh section is
// appended.
func replaceSection(text, start, end, content string) string {
	i := strings.Index(text, start)
	if i >= 0 {
		rest := text[i+len(start):]
		if j := strings.Index(rest, end); j >= 0 {
			return text[:i] + start + "\n" + content + end + rest[j+len(end):]
		}
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text + start + "\n" + content + end + "\n"
}
