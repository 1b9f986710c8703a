// Package config loads the irtx tool configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sparques/irtx/internal/logging"
)

// MaxCapacity bounds the pulse buffer size, and with it bridge frames.
const MaxCapacity = 4096

var ErrInvalid = errors.New("invalid config")

// Config is everything the irtx command needs to encode and send.
type Config struct {
	// Frequency is the transmitter tick rate in Hz. Pulse durations are
	// counted in ticks of it.
	Frequency uint32
	// Capacity is the number of durations the pulse buffer holds.
	Capacity int
	LogLevel string

	// serial bridge
	Port string
	Baud int

	// WebSocket bridge
	URL         string
	Username    string
	NoSSLVerify bool

	AckTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Frequency:  20_000,
		Capacity:   256,
		LogLevel:   "info",
		Baud:       115200,
		AckTimeout: 2 * time.Second,
	}
}

type fileConfig struct {
	Frequency   uint32 `toml:"frequency"`
	Capacity    int    `toml:"capacity"`
	LogLevel    string `toml:"log_level"`
	Port        string `toml:"port"`
	Baud        int    `toml:"baud"`
	URL         string `toml:"url"`
	Username    string `toml:"username"`
	NoSSLVerify bool   `toml:"no_ssl_verify"`
	AckTimeout  string `toml:"ack_timeout"`
}

// Load reads path over Default. Only keys present in the file override.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
	}

	if meta.IsDefined("frequency") {
		cfg.Frequency = raw.Frequency
	}
	if meta.IsDefined("capacity") {
		cfg.Capacity = raw.Capacity
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("port") {
		cfg.Port = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("baud") {
		cfg.Baud = raw.Baud
	}
	if meta.IsDefined("url") {
		cfg.URL = strings.TrimSpace(raw.URL)
	}
	if meta.IsDefined("username") {
		cfg.Username = strings.TrimSpace(raw.Username)
	}
	if meta.IsDefined("no_ssl_verify") {
		cfg.NoSSLVerify = raw.NoSSLVerify
	}
	if meta.IsDefined("ack_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.AckTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse ack_timeout: %w", err)
		}
		cfg.AckTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values a transmitter can't work without.
func (c Config) Validate() error {
	if c.Frequency == 0 {
		return fmt.Errorf("%w: frequency must be positive", ErrInvalid)
	}
	if c.Capacity < 1 || c.Capacity > MaxCapacity {
		return fmt.Errorf("%w: capacity %d out of range 1..%d", ErrInvalid, c.Capacity, MaxCapacity)
	}
	if c.Baud <= 0 {
		return fmt.Errorf("%w: baud must be positive", ErrInvalid)
	}
	if c.AckTimeout < 0 {
		return fmt.Errorf("%w: ack_timeout must not be negative", ErrInvalid)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
