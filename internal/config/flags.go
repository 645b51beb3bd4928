package config

import (
	"flag"
	"os"
	"time"

	"github.com/dkalnins/trackdesk/internal/flagx"
)

// parseFlags overlays selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string       base URL of the REST API
//	-w string       URL of the realtime push endpoint
//	-s string       path of the local sqlite store
//	-no-store       keep all client state in memory only
//	-no-realtime    skip the push connection entirely
//	-t string       per-request timeout (e.g. "15s")
//
// Only the flags named here are parsed, via flagx.FilterArgs, so the
// config-file flags handled elsewhere do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w", "-s", "-no-store", "-no-realtime", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the REST API")
	fs.StringVar(&cfg.RealtimeURL, "w", cfg.RealtimeURL, "URL of the realtime push endpoint")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "path of the local sqlite store")
	fs.BoolVar(&cfg.DisableStore, "no-store", cfg.DisableStore, "keep client state in memory only")
	fs.BoolVar(&cfg.DisableRealtime, "no-realtime", cfg.DisableRealtime, "skip the push connection")
	timeout := fs.String("t", cfg.RequestTimeout.String(), "per-request timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = mustDuration(*timeout)
}

func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}
