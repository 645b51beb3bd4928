package config

import (
	"encoding/json"
	"os"

	"github.com/dkalnins/trackdesk/internal/flagx"
	"github.com/dkalnins/trackdesk/internal/timex"
)

// jsonConfig is the file-format DTO. Durations may be spelled as strings
// ("15s") or integer nanoseconds, courtesy of timex.Duration.
type jsonConfig struct {
	APIBaseURL       *string         `json:"api_base_url"`
	RealtimeURL      *string         `json:"realtime_url"`
	StorePath        *string         `json:"store_path"`
	DisableStore     *bool           `json:"disable_store"`
	DisableRealtime  *bool           `json:"disable_realtime"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	ReconnectMaxWait *timex.Duration `json:"reconnect_max_wait"`
}

// parseJSON overlays cfg with values from the file named by -c/-config.
// Absent file flag means no JSON layer. Fields missing from the file keep
// their current values.
func parseJSON(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.RealtimeURL != nil {
		cfg.RealtimeURL = *jc.RealtimeURL
	}
	if jc.StorePath != nil {
		cfg.StorePath = *jc.StorePath
	}
	if jc.DisableStore != nil {
		cfg.DisableStore = *jc.DisableStore
	}
	if jc.DisableRealtime != nil {
		cfg.DisableRealtime = *jc.DisableRealtime
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ReconnectMaxWait != nil {
		cfg.ReconnectMaxWait = jc.ReconnectMaxWait.Duration
	}
}
