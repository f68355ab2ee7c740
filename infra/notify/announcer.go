// Package notify publishes proposal announcements to an MQTT broker so chat
// bridges and home dashboards can pick them up.
package notify

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/jhaeusler/sessionbot/core/model"
	"github.com/jhaeusler/sessionbot/core/schedule"
	"github.com/jhaeusler/sessionbot/infra/logger"
)

// Config defines the connection parameters for the announcer.
type Config struct {
	Enabled    bool        `json:"enabled"`
	Broker     string      `json:"broker"`
	ClientID   string      `json:"client_id"`
	Username   string      `json:"username"`
	Password   string      `json:"password"`
	Topic      string      `json:"topic"`
	QoS        byte        `json:"qos"`
	Retain     bool        `json:"retain"`
	UseTLS     bool        `json:"use_tls"`
	ClientCert string      `json:"client_cert"`
	ClientKey  string      `json:"client_key"`
	CABundle   string      `json:"ca_bundle"`
	TLSConfig  *tls.Config `json:"-"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "sessionbot"
	}
	if c.Topic == "" {
		c.Topic = "sessionbot/proposals"
	}
}

// Validate checks mandatory fields when the announcer is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("notify broker is required")
	}
	return nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// Message is the JSON payload published per campaign proposal.
type Message struct {
	ID       string              `json:"id"`
	RunID    string              `json:"run_id"`
	Campaign string              `json:"campaign"`
	Tier     string              `json:"tier"`
	Date     *model.Day          `json:"date,omitempty"`
	Weekday  string              `json:"weekday,omitempty"`
	Missing  []model.Participant `json:"missing,omitempty"`
	Time     time.Time           `json:"time"`
}

// pahoClient is the subset of the Paho client the announcer uses.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Announcer publishes proposal messages via Eclipse Paho.
type Announcer struct {
	cli    pahoClient
	cfg    Config
	logger logger.Logger
}

// NewAnnouncer connects to the broker.
func NewAnnouncer(cfg Config) (*Announcer, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	a := &Announcer{cli: newMQTTClient(opts), cfg: cfg, logger: logger.New("notify-announcer")}
	if token := a.cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return a, nil
}

// Announce publishes one message per proposal. The first publish error is
// returned; earlier messages stay published.
func (a *Announcer) Announce(runID string, proposals []schedule.Proposal) error {
	now := time.Now()
	for _, p := range proposals {
		msg := Message{
			ID:       uuid.NewString(),
			RunID:    runID,
			Campaign: p.Result.Campaign.Name,
			Tier:     p.Tier.String(),
			Date:     p.Result.Date,
			Missing:  p.Result.Missing,
			Time:     now,
		}
		if p.Result.Date != nil {
			msg.Weekday = p.Result.Date.Weekday().String()
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		token := a.cli.Publish(a.cfg.Topic, a.cfg.QoS, a.cfg.Retain, payload)
		if token.Wait() && token.Error() != nil {
			return fmt.Errorf("publish proposal for %s: %w", msg.Campaign, token.Error())
		}
		a.logger.Debugw("proposal announced", map[string]any{
			"campaign": msg.Campaign, "tier": msg.Tier,
		})
	}
	return nil
}

// Close disconnects from the broker.
func (a *Announcer) Close() {
	if a.cli.IsConnected() {
		a.cli.Disconnect(250)
	}
}
