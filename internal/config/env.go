package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// envOverlay mirrors Config for envconfig processing. Fields without a
// corresponding variable in the environment keep their pre-populated
// values, which is what makes this an overlay rather than a reset.
type envOverlay struct {
	APIBaseURL       string `env:"TRACKDESK_API_URL"`
	RealtimeURL      string `env:"TRACKDESK_REALTIME_URL"`
	StorePath        string `env:"TRACKDESK_STORE_PATH"`
	DisableStore     bool   `env:"TRACKDESK_DISABLE_STORE"`
	DisableRealtime  bool   `env:"TRACKDESK_DISABLE_REALTIME"`
	RequestTimeout   string `env:"TRACKDESK_REQUEST_TIMEOUT"`
	ReconnectMaxWait string `env:"TRACKDESK_RECONNECT_MAX_WAIT"`
}

// parseEnv overlays cfg with TRACKDESK_* environment variables.
func parseEnv(cfg *Config) {
	overlay := envOverlay{
		APIBaseURL:      cfg.APIBaseURL,
		RealtimeURL:     cfg.RealtimeURL,
		StorePath:       cfg.StorePath,
		DisableStore:    cfg.DisableStore,
		DisableRealtime: cfg.DisableRealtime,
	}
	if err := envconfig.Process(context.Background(), &overlay); err != nil {
		panic(err)
	}

	cfg.APIBaseURL = overlay.APIBaseURL
	cfg.RealtimeURL = overlay.RealtimeURL
	cfg.StorePath = overlay.StorePath
	cfg.DisableStore = overlay.DisableStore
	cfg.DisableRealtime = overlay.DisableRealtime
	if overlay.RequestTimeout != "" {
		cfg.RequestTimeout = mustDuration(overlay.RequestTimeout)
	}
	if overlay.ReconnectMaxWait != "" {
		cfg.ReconnectMaxWait = mustDuration(overlay.ReconnectMaxWait)
	}
}
