// Package config handles configuration loading and validation for gantt.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/gantt/internal/core/schedule"
	"github.com/colonyops/gantt/internal/core/styles"
	"github.com/colonyops/gantt/internal/core/timeline"
)

// Config holds the application configuration.
type Config struct {
	Resources   []string   `yaml:"resources"`
	Defaults    Defaults   `yaml:"defaults"`
	Palette     []string   `yaml:"palette"`
	Seed        SeedConfig `yaml:"seed"`
	TUI         TUIConfig  `yaml:"tui"`
	EventBuffer int        `yaml:"event_buffer"`
	DataDir     string     `yaml:"-"` // set by caller, not from config file
}

// Defaults holds the values of the blank task row.
type Defaults struct {
	Start    string `yaml:"start"`    // ISO date
	Resource string `yaml:"resource"` // must be one of Config.Resources
}

// SeedConfig selects the initial task table. Path may be a doublestar glob.
// When both are empty the bundled sample is used.
type SeedConfig struct {
	Path    string        `yaml:"path"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"` // applies to URL fetches
}

// TUIConfig holds editor settings.
type TUIConfig struct {
	Theme    string `yaml:"theme"`
	PageSize int    `yaml:"page_size"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Resources: append([]string(nil), schedule.DefaultResources...),
		Defaults: Defaults{
			Start:    schedule.DefaultStart.Format(schedule.DateLayout),
			Resource: schedule.DefaultResource,
		},
		Palette: append([]string(nil), timeline.AlphabetPalette...),
		Seed: SeedConfig{
			Timeout: 10 * time.Second,
		},
		TUI: TUIConfig{
			Theme:    styles.DefaultTheme,
			PageSize: 10,
		},
		EventBuffer: 64,
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg, err := Read(configPath, dataDir)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation. Only unreadable or malformed files fail.
func Read(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir
	// Resolved against the final resource list in applyDefaults.
	cfg.Defaults.Resource = ""

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if len(c.Resources) == 0 {
		c.Resources = defaults.Resources
	}
	if c.Defaults.Start == "" {
		c.Defaults.Start = defaults.Defaults.Start
	}
	if c.Defaults.Resource == "" {
		c.Defaults.Resource = c.Resources[0]
	}
	if len(c.Palette) == 0 {
		c.Palette = defaults.Palette
	}
	if c.Seed.Timeout == 0 {
		c.Seed.Timeout = defaults.Seed.Timeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.PageSize == 0 {
		c.TUI.PageSize = defaults.TUI.PageSize
	}
	if c.EventBuffer == 0 {
		c.EventBuffer = defaults.EventBuffer
	}
}

// StartDate returns the parsed default start date.
func (c *Config) StartDate() (time.Time, error) {
	return schedule.ParseDate(c.Defaults.Start)
}

// BlankRow returns the template row for reset and added rows.
func (c *Config) BlankRow() (schedule.RawRow, error) {
	start, err := c.StartDate()
	if err != nil {
		return nil, fmt.Errorf("defaults.start: %w", err)
	}
	return schedule.Blank(start, c.Defaults.Resource), nil
}

// TimelinePalette returns the configured resource colors.
func (c *Config) TimelinePalette() timeline.Palette {
	return timeline.Palette(c.Palette)
}
