package commands

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/gantt/internal/core/config"
	"github.com/colonyops/gantt/internal/gantt"
	"github.com/colonyops/gantt/pkg/utils"
)

var errAppNotLoaded = errors.New("gantt app not initialized")

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// SeedPath and SeedURL override the seed section of the config file.
	SeedPath string
	SeedURL  string

	// Console receives stderr logs when --log-file is "-". The editor holds
	// it while it owns the terminal.
	Console *utils.HoldWriter

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "gantt", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "gantt")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/gantt/gantt.log
// On Linux: $XDG_STATE_HOME/gantt/gantt.log (defaults to ~/.local/state/gantt/gantt.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "gantt", "gantt.log")
	}

	home, _ := os.UserHomeDir()
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "gantt", "gantt.log")
	}
	return filepath.Join(home, ".local", "state", "gantt", "gantt.log")
}

// ApplySeedOverrides copies the seed flags onto cfg. A flag clears the other
// source so that --seed wins over a configured URL and vice versa.
func (f *Flags) ApplySeedOverrides(cfg *config.Config) {
	switch {
	case f.SeedURL != "":
		cfg.Seed.URL = f.SeedURL
		cfg.Seed.Path = ""
	case f.SeedPath != "":
		cfg.Seed.Path = f.SeedPath
		cfg.Seed.URL = ""
	}
}

// loadedApp guards commands against running before the Before hook wired
// the app.
func loadedApp(app *gantt.App) error {
	if app == nil || app.Controller == nil {
		return errAppNotLoaded
	}
	return nil
}
