// Package config resolves process configuration from an optional TOML
// file plus CLI flags, flags always winning over the file.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is everything the process needs to run a tick loop.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// RenderDir, if non-empty, turns on per-tick DOT rendering of the
	// world into this directory (internal/render).
	RenderDir string `toml:"render_dir"`
	// MetricsAddr, if non-empty, starts the observability side listener
	// (internal/observability) on this address.
	MetricsAddr string `toml:"metrics_addr"`
	// MaxLineBytes bounds a single NDJSON input line (internal/protocol).
	MaxLineBytes int `toml:"max_line_bytes"`
}

// Defaults returns the configuration used when no file and no flags
// override anything.
func Defaults() Config {
	return Config{
		LogLevel:     "info",
		MaxLineBytes: 1 << 20,
	}
}

// Load reads an optional TOML file (path may be empty, meaning "none")
// and then applies CLI flags parsed from args, with flags taking
// precedence over file values. args is normally os.Args[1:].
func Load(args []string) (Config, error) {
	cfg := Defaults()

	fs := flag.NewFlagSet("atlantis", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a TOML config file")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	renderDir := fs.String("render-dir", "", "directory to write per-tick DOT renders into (empty disables rendering)")
	metricsAddr := fs.String("metrics-addr", "", "address for the /healthz and /metrics side listener (empty disables it)")
	maxLineBytes := fs.Int("max-line-bytes", 0, "maximum bytes accepted per NDJSON input line (0 keeps the default)")

	// A config file path may also be supplied before flag parsing even
	// runs, so a first pass just looks for -config among raw args.
	if p := preScanConfigFlag(args); p != "" {
		if err := loadFile(p, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if *configPath != "" {
		if err := loadFile(*configPath, &cfg); err != nil {
			return Config{}, err
		}
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *renderDir != "" {
		cfg.RenderDir = *renderDir
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *maxLineBytes != 0 {
		cfg.MaxLineBytes = *maxLineBytes
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

// preScanConfigFlag finds -config/--config's value without triggering
// flag.Parse's own strictness, so the file can be loaded before flags
// are defined against it (flags must still win afterward).
func preScanConfigFlag(args []string) string {
	for i, a := range args {
		switch {
		case a == "-config" || a == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(a) > 8 && a[:8] == "-config=":
			return a[8:]
		case len(a) > 9 && a[:9] == "--config=":
			return a[9:]
		}
	}
	return ""
}

// EnsureDir creates dir (and parents) if it does not already exist.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
