package fetch

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config mirrors the client options that make sense in a config file.
// Load one with [LoadConfig] and hand the result to [Build] via
// [Config.Options].
type Config struct {
	Timeout          string          `toml:"timeout,omitempty"` // Go duration string, e.g. "10s"
	UserAgent        string          `toml:"user_agent,omitempty"`
	Origin           string          `toml:"origin,omitempty"`
	Compression      bool            `toml:"compression,omitempty"`
	HostedAPIPattern string          `toml:"hosted_api_pattern,omitempty"`
	Throttle         *ThrottleConfig `toml:"throttle,omitempty"`
}

// ThrottleConfig holds the token-bucket settings for outbound requests.
type ThrottleConfig struct {
	RPS   int `toml:"rps"`
	Burst int `toml:"burst"`
}

// LoadConfig reads and parses a TOML client configuration from path.
// A missing file returns an empty config (no error).
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Options converts the config into functional options for [Build].
func (c *Config) Options() ([]Option, error) {
	var opts []Option

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parsing timeout: %w", err)
		}
		opts = append(opts, WithTimeout(d))
	}

	if c.UserAgent != "" {
		opts = append(opts, WithUserAgent(c.UserAgent))
	}

	if c.Origin != "" {
		opts = append(opts, WithOrigin(c.Origin))
	}

	if c.Compression {
		opts = append(opts, WithCompression())
	}

	if c.HostedAPIPattern != "" {
		re, err := regexp.Compile(c.HostedAPIPattern)
		if err != nil {
			return nil, fmt.Errorf("compiling hosted_api_pattern: %w", err)
		}
		opts = append(opts, WithHostedAPIPattern(re))
	}

	if c.Throttle != nil {
		opts = append(opts, WithThrottle(c.Throttle.RPS, c.Throttle.Burst))
	}

	return opts, nil
}
