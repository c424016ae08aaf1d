package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is the optional tif.toml at the root of a game directory. It
// names the world file and per-game host settings; command-line flags and
// config.yaml values override it.
type Manifest struct {
	Title string `toml:"title"`
	World string `toml:"world"`

	Saves struct {
		Backend      string `toml:"backend"` // "file" or "sqlite"
		Dir          string `toml:"dir"`
		AutosaveKeep int    `toml:"autosave_keep"`
	} `toml:"saves"`

	Narrate struct {
		Enabled bool   `toml:"enabled"`
		Model   string `toml:"model"`
	} `toml:"narrate"`
}

// resolveGame accepts either a world file path or a game directory and
// returns the world file path plus the manifest (zero-valued when absent).
func resolveGame(arg string) (string, Manifest, error) {
	var m Manifest

	fi, err := os.Stat(arg)
	if err != nil {
		return "", m, err
	}
	if !fi.IsDir() {
		// A bare world file may still sit next to a manifest.
		if _, err := toml.DecodeFile(filepath.Join(filepath.Dir(arg), "tif.toml"), &m); err != nil && !os.IsNotExist(err) {
			return "", m, fmt.Errorf("reading tif.toml: %w", err)
		}
		return arg, m, nil
	}

	manifestPath := filepath.Join(arg, "tif.toml")
	if _, err := toml.DecodeFile(manifestPath, &m); err != nil {
		if !os.IsNotExist(err) {
			return "", m, fmt.Errorf("reading %s: %w", manifestPath, err)
		}
		// No manifest: fall back to conventional names.
		for _, name := range []string{"world.json", "world.yaml", "world.yml"} {
			candidate := filepath.Join(arg, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, m, nil
			}
		}
		return "", m, fmt.Errorf("no tif.toml or world file in %s", arg)
	}
	if m.World == "" {
		return "", m, fmt.Errorf("%s does not name a world file", manifestPath)
	}
	return filepath.Join(arg, m.World), m, nil
}

// savesDir picks the save directory: manifest first, then config, then a
// saves/ directory next to the world file.
func savesDir(worldPath string, m Manifest) string {
	if m.Saves.Dir != "" {
		if filepath.IsAbs(m.Saves.Dir) {
			return m.Saves.Dir
		}
		return filepath.Join(filepath.Dir(worldPath), m.Saves.Dir)
	}
	return filepath.Join(filepath.Dir(worldPath), "saves")
}
