package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/colonyops/gantt/internal/core/schedule"
	"github.com/colonyops/gantt/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		c.validateResources(),
		criterio.Run("defaults.start", c.Defaults.Start, isDate),
		c.validateDefaultResource(),
		c.validatePalette(),
		c.validateSeed(),
		criterio.Run("tui.theme", c.TUI.Theme, isKnownTheme),
		criterio.Run("tui.page_size", c.TUI.PageSize, isPositive),
		criterio.Run("event_buffer", c.EventBuffer, isPositive),
	)
}

// ValidateDeep performs Validate and then checks the file system: the config
// file itself and that a seed path pattern matches at least one file. The
// configPath argument is the config file location (empty skips that check).
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("seed.path", c.Seed.Path, patternMatches),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if len(c.Palette) < len(c.Resources) {
		msg := fmt.Sprintf("%d colors for %d resources; colors will repeat", len(c.Palette), len(c.Resources))
		warnings = append(warnings, ValidationWarning{
			Category: "Palette",
			Message:  msg,
		})
	}

	if c.Seed.URL != "" && strings.HasPrefix(c.Seed.URL, "http://") {
		warnings = append(warnings, ValidationWarning{
			Category: "Seed",
			Item:     c.Seed.URL,
			Message:  "seed is fetched over plain http",
		})
	}

	return warnings
}

func (c *Config) validateResources() error {
	if len(c.Resources) == 0 {
		return criterio.NewFieldErrors("resources", fmt.Errorf("at least one resource is required"))
	}

	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool, len(c.Resources))
	for i, r := range c.Resources {
		field := fmt.Sprintf("resources[%d]", i)
		switch {
		case strings.TrimSpace(r) == "":
			errs = errs.Append(field, fmt.Errorf("resource name is empty"))
		case seen[r]:
			errs = errs.Append(field, fmt.Errorf("duplicate resource %q", r))
		}
		seen[r] = true
	}
	return errs.ToError()
}

func (c *Config) validateDefaultResource() error {
	if !slices.Contains(c.Resources, c.Defaults.Resource) {
		return criterio.NewFieldErrors("defaults.resource",
			fmt.Errorf("%q is not one of the configured resources", c.Defaults.Resource))
	}
	return nil
}

func (c *Config) validatePalette() error {
	if len(c.Palette) == 0 {
		return criterio.NewFieldErrors("palette", fmt.Errorf("at least one color is required"))
	}

	var errs criterio.FieldErrorsBuilder
	for i, hex := range c.Palette {
		if _, err := colorful.Hex(hex); err != nil {
			errs = errs.Append(fmt.Sprintf("palette[%d]", i), fmt.Errorf("invalid hex color %q", hex))
		}
	}
	return errs.ToError()
}

func (c *Config) validateSeed() error {
	if c.Seed.Path != "" && c.Seed.URL != "" {
		return criterio.NewFieldErrors("seed", fmt.Errorf("path and url are mutually exclusive"))
	}

	var errs criterio.FieldErrorsBuilder
	if c.Seed.Path != "" && !doublestar.ValidatePattern(c.Seed.Path) {
		errs = errs.Append("seed.path", fmt.Errorf("invalid pattern %q", c.Seed.Path))
	}
	if c.Seed.URL != "" {
		u, err := url.Parse(c.Seed.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = errs.Append("seed.url", fmt.Errorf("must be an http(s) URL"))
		}
	}
	if c.Seed.Timeout < 0 {
		errs = errs.Append("seed.timeout", fmt.Errorf("must not be negative"))
	}
	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func isDate(s string) error {
	if _, err := schedule.ParseDate(s); err != nil {
		return fmt.Errorf("not a date: %q", s)
	}
	return nil
}

func isPositive(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

func isKnownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

// patternMatches validates that a seed pattern matches at least one file.
func patternMatches(pattern string) error {
	if pattern == "" {
		return nil
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no files match %q", pattern)
	}
	return nil
}
