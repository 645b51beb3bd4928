// Package config assembles runtime settings for the trackdesk client.
// Sources are layered: defaults, then a JSON file (-c/-config), then
// environment variables, then command-line flags. Later sources win.
package config

import "time"

// Config holds every knob the client reads at startup.
//
// DisableStore and DisableRealtime are the explicit degrade switches:
// turning one on replaces the durable store with an in-memory one or skips
// the push connection entirely. Degradation is a configuration decision,
// never a runtime guess.
type Config struct {
	APIBaseURL       string
	RealtimeURL      string
	StorePath        string
	DisableStore     bool
	DisableRealtime  bool
	RequestTimeout   time.Duration
	ReconnectMaxWait time.Duration
}

// LoadDefaults populates c with the local-development defaults matching
// the backend's standard ports.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api"
	c.RealtimeURL = "ws://localhost:8000/ws/issues"
	c.StorePath = "trackdesk.db"
	c.RequestTimeout = 15 * time.Second
	c.ReconnectMaxWait = 30 * time.Second
}

// LoadConfig builds the effective configuration from all sources.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
