// Package config loads and validates the TOML configuration file,
// layering user settings over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	configDirName  = ".hlsub"
	configFileName = "config.toml"

	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
)

// General holds application-wide settings.
type General struct {
	// CheckForUpdates controls the startup release check.
	CheckForUpdates bool   `toml:"check-for-updates"`
	LogLevel        string `toml:"log-level"`
	// LogJSON emits log records as JSON lines instead of text.
	LogJSON bool `toml:"log-json"`
}

// Downloads holds output settings.
type Downloads struct {
	// Folder is the destination directory for subtitle files.
	Folder string `toml:"folder"`
	// Languages filters renditions by language code; empty downloads all.
	Languages []string `toml:"languages"`
	// OverwriteExisting replaces files instead of writing "name (n).ext".
	OverwriteExisting bool `toml:"overwrite-existing"`
	// Zip bundles multiple downloaded files of one title into an archive.
	Zip bool `toml:"zip"`
}

// Subtitles holds processing and conversion settings.
type Subtitles struct {
	FixRTL           bool   `toml:"fix-rtl"`
	RemoveDuplicates bool   `toml:"remove-duplicates"`
	Format           string `toml:"format"`
	// SRTTopAlignment tags top-positioned cues during SubRip conversion.
	SRTTopAlignment bool `toml:"srt-top-alignment"`
}

// HTTP holds network settings.
type HTTP struct {
	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int    `toml:"timeout"`
	Proxy          string `toml:"proxy"`
	VerifyTLS      bool   `toml:"verify-tls"`
	UserAgent      string `toml:"user-agent"`
	// Concurrency bounds parallel segment downloads.
	Concurrency int `toml:"concurrency"`
}

// Config is the full application configuration.
type Config struct {
	General   General   `toml:"general"`
	Downloads Downloads `toml:"downloads"`
	Subtitles Subtitles `toml:"subtitles"`
	HTTP      HTTP      `toml:"http"`
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	return &Config{
		General: General{
			CheckForUpdates: true,
			LogLevel:        "info",
		},
		Downloads: Downloads{
			Folder:            ".",
			OverwriteExisting: true,
		},
		Subtitles: Subtitles{
			FixRTL:           false,
			RemoveDuplicates: true,
			Format:           "srt",
			SRTTopAlignment:  false,
		},
		HTTP: HTTP{
			TimeoutSeconds: 10,
			VerifyTLS:      true,
			UserAgent:      defaultUserAgent,
			Concurrency:    8,
		},
	}
}

// DefaultPath returns the expected config file location under the user's
// home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Load reads the config file at path and merges it over the defaults.
// A missing file is not an error: the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %d", c.HTTP.TimeoutSeconds)
	}
	if c.HTTP.Concurrency <= 0 {
		return fmt.Errorf("http.concurrency must be positive, got %d", c.HTTP.Concurrency)
	}

	switch c.Subtitles.Format {
	case "srt", "vtt":
	default:
		return fmt.Errorf("subtitles.format must be \"srt\" or \"vtt\", got %q", c.Subtitles.Format)
	}

	switch c.General.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("general.log-level must be one of debug, info, warn, error; got %q", c.General.LogLevel)
	}

	if c.Downloads.Folder != "" {
		info, err := os.Stat(c.Downloads.Folder)
		if err != nil {
			return fmt.Errorf("downloads.folder: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("downloads.folder %q is not a directory", c.Downloads.Folder)
		}
	}

	return nil
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
