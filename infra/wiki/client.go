// Package wiki talks to the collaboration platform: it reads the parameter
// page, queries session records, publishes the proposal report and cleans up
// expired sessions.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/jhaeusler/sessionbot/infra/logger"
)

// ErrFetch marks a wiki read failure; ErrPublish marks a write failure.
var (
	ErrFetch   = errors.New("wiki fetch failed")
	ErrPublish = errors.New("wiki publish failed")
)

// Config defines the wiki connection and page layout.
type Config struct {
	// BaseURL points at the wiki root, e.g. https://wiki.example.org/mediawiki.
	BaseURL  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
	// ParamPage holds the bot parameters between MarkerStart and MarkerEnd.
	ParamPage string `json:"param_page"`
	// ReportPage receives the rendered proposal table between the markers.
	ReportPage     string `json:"report_page"`
	MarkerStart    string `json:"marker_start"`
	MarkerEnd      string `json:"marker_end"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MarkerStart == "" {
		c.MarkerStart = "<!-- sessionbot:start -->"
	}
	if c.MarkerEnd == "" {
		c.MarkerEnd = "<!-- sessionbot:end -->"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 15
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("wiki base_url is required")
	}
	if c.ParamPage == "" {
		return fmt.Errorf("wiki param_page is required")
	}
	if c.ReportPage == "" {
		return fmt.Errorf("wiki report_page is required")
	}
	return nil
}

// Client is a minimal MediaWiki API client covering the handful of calls the
// bot needs: raw page reads, token-protected edits and ask queries.
type Client struct {
	cfg      Config
	httpCli  *http.Client
	log      logger.Logger
	loggedIn bool
}

// NewClient builds a client with its own cookie jar for the login session.
func NewClient(cfg Config) (*Client, error) {
	cfg.SetDefaults()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg: cfg,
		httpCli: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
			Jar:     jar,
		},
		log: logger.New("wiki-client"),
	}, nil
}

func (c *Client) apiURL() string  { return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/api.php" }
func (c *Client) rawURL() string  { return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/index.php" }
func (c *Client) Markers() (string, string) { return c.cfg.MarkerStart, c.cfg.MarkerEnd }

// PageText fetches the raw wikitext of a page. A missing page yields an
// empty string, not an error.
func (c *Client) PageText(ctx context.Context, title string) (string, error) {
	u := c.rawURL() + "?action=raw&title=" + url.QueryEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := c.httpCli.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: page %s: status %d", ErrFetch, title, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return string(body), nil
}

// EditPage replaces the full wikitext of a page.
func (c *Client) EditPage(ctx context.Context, title, text, summary string) error {
	if err := c.ensureLogin(ctx); err != nil {
		return err
	}
	token, err := c.csrfToken(ctx)
	if err != nil {
		return err
	}
	form := url.Values{
		"action":  {"edit"},
		"format":  {"json"},
		"title":   {title},
		"text":    {text},
		"summary": {summary},
		"bot":     {"1"},
		"token":   {token},
	}
	var out struct {
		Edit struct {
			Result string `json:"result"`
		} `json:"edit"`
		Error *struct {
			Code string `json:"code"`
			Info string `json:"info"`
		} `json:"error"`
	}
	if err := c.postForm(ctx, form, &out); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	if out.Error != nil {
		return fmt.Errorf("%w: %s: %s", ErrPublish, out.Error.Code, out.Error.Info)
	}
	if out.Edit.Result != "Success" {
		return fmt.Errorf("%w: edit result %q", ErrPublish, out.Edit.Result)
	}
	return nil
}

// ensureLogin performs the bot login once per client when credentials are set.
func (c *Client) ensureLogin(ctx context.Context) error {
	if c.loggedIn || c.cfg.Username == "" {
		return nil
	}
	var tok struct {
		Query struct {
			Tokens struct {
				LoginToken string `json:"logintoken"`
			} `json:"tokens"`
		} `json:"query"`
	}
	if err := c.getJSON(ctx, url.Values{
		"action": {"query"}, "meta": {"tokens"}, "type": {"login"}, "format": {"json"},
	}, &tok); err != nil {
		return fmt.Errorf("%w: login token: %v", ErrFetch, err)
	}
	var res struct {
		Login struct {
			Result string `json:"result"`
		} `json:"login"`
	}
	form := url.Values{
		"action":     {"login"},
		"format":     {"json"},
		"lgname":     {c.cfg.Username},
		"lgpassword": {c.cfg.Password},
		"lgtoken":    {tok.Query.Tokens.LoginToken},
	}
	if err := c.postForm(ctx, form, &res); err != nil {
		return fmt.Errorf("%w: login: %v", ErrFetch, err)
	}
	if res.Login.Result != "Success" {
		return fmt.Errorf("%w: login result %q", ErrFetch, res.Login.Result)
	}
	c.loggedIn = true
	return nil
}

func (c *Client) csrfToken(ctx context.Context) (string, error) {
	var out struct {
		Query struct {
			Tokens struct {
				CSRFToken string `json:"csrftoken"`
			} `json:"tokens"`
		} `json:"query"`
	}
	if err := c.getJSON(ctx, url.Values{
		"action": {"query"}, "meta": {"tokens"}, "format": {"json"},
	}, &out); err != nil {
		return "", fmt.Errorf("%w: csrf token: %v", ErrFetch, err)
	}
	return out.Query.Tokens.CSRFToken, nil
}

func (c *Client) getJSON(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL()+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) postForm(ctx context.Context, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpCli.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
