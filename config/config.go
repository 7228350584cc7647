// Package config holds the settings of a harness run: which assistive technology is under test,
// where the host service is, and how long to wait for the host window.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/launchdarkly/aria-at-harness/hostwindow"
)

// DefaultAT is used when no AT is requested, and in place of an AT that the command table
// does not know.
const DefaultAT = "JAWS"

const (
	DefaultCloseWatchInterval = time.Millisecond * 500
	DefaultWindowSize         = 400
)

// Config represents the harness configuration
type Config struct {
	// AT is the requested assistive technology, as the tester wrote it
	AT string `yaml:"at"`

	// HostServiceURL is the base URL of the service that opens host windows. With no URL, the
	// tester opens the page under test themselves.
	HostServiceURL string `yaml:"hostServiceURL"`

	// CommandsFile replaces the built-in AT command table
	CommandsFile string `yaml:"commandsFile"`

	ReadyTimeout       time.Duration `yaml:"readyTimeout"`
	ReadyPollInterval  time.Duration `yaml:"readyPollInterval"`
	CloseWatchInterval time.Duration `yaml:"closeWatchInterval"`

	// Resync is "inject" or "reload"; see hostwindow.ParseResyncStrategy
	Resync string `yaml:"resync"`

	WindowWidth  int `yaml:"windowWidth"`
	WindowHeight int `yaml:"windowHeight"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		AT:                 DefaultAT,
		ReadyTimeout:       hostwindow.DefaultReadyTimeout,
		ReadyPollInterval:  hostwindow.DefaultReadyPollInterval,
		CloseWatchInterval: DefaultCloseWatchInterval,
		Resync:             "inject",
		WindowWidth:        DefaultWindowSize,
		WindowHeight:       DefaultWindowSize,
	}
}

// Load reads a YAML config file over the defaults. Settings missing from the file keep their
// default values. A missing file is an error, since it was named explicitly.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse is Load for config text that is already in memory.
func Parse(data []byte) (*Config, error) {
	type yamlConfig struct {
		AT                 string `yaml:"at"`
		HostServiceURL     string `yaml:"hostServiceURL"`
		CommandsFile       string `yaml:"commandsFile"`
		ReadyTimeout       string `yaml:"readyTimeout"`
		ReadyPollInterval  string `yaml:"readyPollInterval"`
		CloseWatchInterval string `yaml:"closeWatchInterval"`
		Resync             string `yaml:"resync"`
		WindowWidth        int    `yaml:"windowWidth"`
		WindowHeight       int    `yaml:"windowHeight"`
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := DefaultConfig()
	if yc.AT != "" {
		cfg.AT = yc.AT
	}
	if yc.HostServiceURL != "" {
		cfg.HostServiceURL = yc.HostServiceURL
	}
	if yc.CommandsFile != "" {
		cfg.CommandsFile = yc.CommandsFile
	}
	for _, d := range []struct {
		name  string
		value string
		dest  *time.Duration
	}{
		{"readyTimeout", yc.ReadyTimeout, &cfg.ReadyTimeout},
		{"readyPollInterval", yc.ReadyPollInterval, &cfg.ReadyPollInterval},
		{"closeWatchInterval", yc.CloseWatchInterval, &cfg.CloseWatchInterval},
	} {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s format %q: %w", d.name, d.value, err)
		}
		*d.dest = parsed
	}
	if yc.Resync != "" {
		cfg.Resync = yc.Resync
	}
	if yc.WindowWidth != 0 {
		cfg.WindowWidth = yc.WindowWidth
	}
	if yc.WindowHeight != 0 {
		cfg.WindowHeight = yc.WindowHeight
	}
	return cfg, cfg.Validate()
}

// ApplyQuery applies URL query style options, such as "at=NVDA&resync=reload", the way the
// harness page accepts them. A leading "?" is allowed. Unrecognized keys are ignored.
func (c *Config) ApplyQuery(rawQuery string) error {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return fmt.Errorf("invalid query %q: %w", rawQuery, err)
	}
	if at := values.Get("at"); at != "" {
		c.AT = at
	}
	if resync := values.Get("resync"); resync != "" {
		c.Resync = resync
	}
	return c.Validate()
}

// Validate checks for settings that cannot work. An unknown AT is not one of them; see ResolveAT.
func (c *Config) Validate() error {
	var errs []error
	if c.ReadyTimeout <= 0 {
		errs = append(errs, errors.New("readyTimeout must be positive"))
	}
	if c.ReadyPollInterval <= 0 {
		errs = append(errs, errors.New("readyPollInterval must be positive"))
	}
	if c.CloseWatchInterval <= 0 {
		errs = append(errs, errors.New("closeWatchInterval must be positive"))
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		errs = append(errs, errors.New("window dimensions must be positive"))
	}
	if _, err := hostwindow.ParseResyncStrategy(c.Resync); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ResyncStrategy returns the configured host window resync strategy.
func (c *Config) ResyncStrategy() hostwindow.ResyncStrategy {
	s, err := hostwindow.ParseResyncStrategy(c.Resync)
	if err != nil {
		return hostwindow.InjectSetup{}
	}
	return s
}

// Barrier returns the host window readiness barrier for the configured timeouts.
func (c *Config) Barrier() hostwindow.Barrier {
	return hostwindow.Barrier{Timeout: c.ReadyTimeout, Interval: c.ReadyPollInterval}
}
