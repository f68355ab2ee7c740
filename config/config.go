// Package config loads the bot configuration from YAML or JSON files with
// optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	coremetrics "github.com/jhaeusler/sessionbot/core/metrics"
	"github.com/jhaeusler/sessionbot/core/protocol"
	"github.com/jhaeusler/sessionbot/infra/availability"
	"github.com/jhaeusler/sessionbot/infra/notify"
	"github.com/jhaeusler/sessionbot/infra/wiki"
)

type Config struct {
	Wiki         wiki.Config         `json:"wiki"`
	Availability availability.Config `json:"availability"`
	Schedule     ScheduleConfig      `json:"schedule"`
	Notify       notify.Config       `json:"notify"`
	Metrics      coremetrics.Config  `json:"metrics"`
	Protocol     protocol.Config     `json:"protocol"`
	Sentry       SentryConfig        `json:"sentry"`
}

// ScheduleConfig carries the scheduling knobs that live in the local config
// rather than on the wiki parameter page.
type ScheduleConfig struct {
	// SandboxCampaign names the test campaign that is always excluded.
	SandboxCampaign string `json:"sandbox_campaign"`
}

// SetDefaults applies sane defaults.
func (c *ScheduleConfig) SetDefaults() {
	if c.SandboxCampaign == "" {
		c.SandboxCampaign = "Sandbox"
	}
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. SB_WIKI__PASSWORD.
	if err := k.Load(env.Provider("SB_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sb_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Wiki.SetDefaults()
	cfg.Availability.SetDefaults()
	cfg.Schedule.SetDefaults()
	cfg.Notify.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Protocol.SetDefaults()
	if err := cfg.Wiki.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Availability.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Notify.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Protocol.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
