// Package file loads the agent's configuration from a TOML file.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
)

// Ensure Config implements the preferences port.
var _ driven.PreferencesSource = (*Config)(nil)

// CalendarToggles enables or disables the synced calendars individually.
type CalendarToggles struct {
	Events    bool `toml:"events"`
	Birthdays bool `toml:"birthdays"`
}

// Config is the agent's on-disk configuration. Missing keys keep their
// defaults; a missing file yields the full default configuration.
type Config struct {
	Account             string          `toml:"account"`
	DataDir             string          `toml:"data_dir"`
	Locale              string          `toml:"locale"`
	Source              string          `toml:"source"`
	SyncIntervalSeconds int             `toml:"sync_interval_seconds"`
	ReminderMinutes     int             `toml:"reminder_minutes"`
	MetricsAddr         string          `toml:"metrics_addr"`
	BypassRateLimit     bool            `toml:"bypass_rate_limit"`
	Calendars           CalendarToggles `toml:"calendars"`

	path string
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Account:             "default",
		Source:              string(domain.SourceICal),
		SyncIntervalSeconds: 3600,
		ReminderMinutes:     30,
		MetricsAddr:         "",
		Calendars: CalendarToggles{
			Events:    true,
			Birthdays: true,
		},
	}
}

// Load reads the configuration from path. If path is empty it defaults to
// ~/.fbeventsync/config.toml. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".fbeventsync", "config.toml")
	}

	cfg := defaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Account == "" {
		return fmt.Errorf("%w: account must not be empty", domain.ErrInvalidInput)
	}
	if !domain.FeedSource(c.Source).Valid() {
		return fmt.Errorf("%w: unknown source %q", domain.ErrInvalidInput, c.Source)
	}
	if c.SyncIntervalSeconds < 0 {
		return fmt.Errorf("%w: sync_interval_seconds must not be negative", domain.ErrInvalidInput)
	}
	if c.ReminderMinutes < 0 {
		return fmt.Errorf("%w: reminder_minutes must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

// Path returns the configuration file path.
func (c *Config) Path() string {
	return c.path
}

// Preferences maps the file configuration onto the sync preferences.
func (c *Config) Preferences() (domain.Preferences, error) {
	return domain.Preferences{
		Locale:           c.Locale,
		Source:           domain.FeedSource(c.Source),
		EventsEnabled:    c.Calendars.Events,
		BirthdaysEnabled: c.Calendars.Birthdays,
		ReminderMinutes:  c.ReminderMinutes,
	}, nil
}
