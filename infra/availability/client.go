// Package availability fetches the per-day availability table from the
// availability service.
package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/jhaeusler/sessionbot/core/model"
	"github.com/jhaeusler/sessionbot/infra/logger"
)

// ErrFetch marks an availability fetch failure. A failed fetch aborts the
// scheduling run; it is never treated as an empty table.
var ErrFetch = errors.New("availability fetch failed")

// Config defines the availability service connection.
type Config struct {
	// BaseURL is the service endpoint; the date range is appended as
	// from/to query parameters.
	BaseURL string `json:"base_url"`
	// TimeoutSeconds bounds one fetch.
	TimeoutSeconds int `json:"timeout_seconds"`
	// ClientID and ClientSecret enable OAuth2 client-credentials auth
	// against TokenURL when set.
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	TokenURL     string `json:"token_url"`
	// Aliases maps alternative spellings to canonical participant names,
	// applied once at ingest.
	Aliases map[string]string `json:"aliases"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("availability base_url is required")
	}
	return nil
}

// dayRecord is the wire format of one table entry.
type dayRecord struct {
	Date      model.Day `json:"date"`
	Accepted  []string  `json:"accepted"`
	Declined  []string  `json:"declined"`
	Uncertain []string  `json:"uncertain"`
}

// Client retrieves availability tables over HTTP.
type Client struct {
	cfg     Config
	httpCli *http.Client
	log     logger.Logger
}

// NewClient builds a client. When OAuth2 credentials are configured the
// underlying HTTP client injects bearer tokens on every request.
func NewClient(cfg Config) *Client {
	cfg.SetDefaults()
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCli := &http.Client{Timeout: timeout}
	if cfg.ClientID != "" && cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpCli)
		httpCli = cc.Client(ctx)
		httpCli.Timeout = timeout
	}
	return &Client{cfg: cfg, httpCli: httpCli, log: logger.New("availability-client")}
}

// FetchTable retrieves the availability table for the closed range
// [from, to]. Every failure is wrapped in ErrFetch so the caller can
// distinguish it from an empty table.
func (c *Client) FetchTable(ctx context.Context, from, to model.Day) (model.AvailabilityTable, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base url: %v", ErrFetch, err)
	}
	q := u.Query()
	q.Set("from", from.String())
	q.Set("to", to.String())
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: unexpected status %d: %s", ErrFetch, resp.StatusCode, body)
	}
	var records []dayRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrFetch, err)
	}

	table := make(model.AvailabilityTable, len(records))
	for _, r := range records {
		table[r.Date] = model.DateStatus{
			Date:      r.Date,
			Accepted:  c.normalize(r.Accepted),
			Declined:  c.normalize(r.Declined),
			Uncertain: c.normalize(r.Uncertain),
		}
	}
	c.log.Debugw("availability table fetched", map[string]any{
		"from": from.String(), "to": to.String(), "days": len(table),
	})
	return table, nil
}

// normalize maps aliases to canonical names and builds the set.
func (c *Client) normalize(names []string) model.ParticipantSet {
	set := make(model.ParticipantSet, len(names))
	for _, n := range names {
		if canonical, ok := c.cfg.Aliases[n]; ok {
			n = canonical
		}
		set.Add(model.Participant(n))
	}
	return set
}
