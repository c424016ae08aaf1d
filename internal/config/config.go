// Package config sets up the host's viper configuration singleton.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jedharris/text-game-sub000/internal/debug"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton.
// Should be called once at application startup.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	// Explicitly locate config.yaml with SetConfigFile.
	// Precedence: project .tif/config.yaml > ~/.config/tif/config.yaml > ~/.tif/config.yaml
	configFileSet := false

	// 1. Walk up from CWD to find a project .tif/config.yaml, so commands
	//    work from subdirectories of a game project.
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			configPath := filepath.Join(dir, ".tif", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
				break
			}
		}
	}

	// 2. User config directory (~/.config/tif/config.yaml)
	if !configFileSet {
		if configDir, err := os.UserConfigDir(); err == nil {
			configPath := filepath.Join(configDir, "tif", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// 3. Home directory (~/.tif/config.yaml)
	if !configFileSet {
		if homeDir, err := os.UserHomeDir(); err == nil {
			configPath := filepath.Join(homeDir, ".tif", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// Environment variables take precedence over the config file:
	// TIF_SAVES_BACKEND, TIF_NARRATE_MODEL, TIF_NO_COLOR, ...
	v.SetEnvPrefix("TIF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("no-color", false)
	v.SetDefault("saves.backend", "file") // "file" or "sqlite"
	v.SetDefault("saves.dir", "")
	v.SetDefault("saves.autosave-keep", 5)
	v.SetDefault("narrate.enabled", false)
	v.SetDefault("narrate.model", "claude-3-5-haiku-20241022")
	v.SetDefault("narrate.timeout", "30s")
	v.SetDefault("serve.socket", "")
	v.SetDefault("serve.log-file", "")
	v.SetDefault("serve.watch", false)

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		debug.Logf("Debug: loaded config from %s\n", v.ConfigFileUsed())
	} else {
		debug.Logf("Debug: no config.yaml found; using defaults and environment variables\n")
	}
	return nil
}

func ensure() {
	if v == nil {
		_ = Initialize()
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	ensure()
	return v.GetString(key)
}

// GetBool returns a boolean config value.
func GetBool(key string) bool {
	ensure()
	return v.GetBool(key)
}

// GetInt returns an integer config value.
func GetInt(key string) int {
	ensure()
	return v.GetInt(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	ensure()
	return v.GetDuration(key)
}

// Set overrides a config value at runtime (used by flag binding).
func Set(key string, value any) {
	ensure()
	v.Set(key, value)
}

// ConfigFileUsed returns the path of the loaded config file, or "".
func ConfigFileUsed() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}
