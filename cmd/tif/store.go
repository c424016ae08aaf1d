package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedharris/text-game-sub000/internal/config"
	"github.com/jedharris/text-game-sub000/internal/storage"
	"github.com/jedharris/text-game-sub000/internal/storage/file"
	"github.com/jedharris/text-game-sub000/internal/storage/sqlite"
)

// openStore builds the save store for a game: backend from the manifest,
// overridable by config (saves.backend) and the --save-backend flag.
func openStore(worldPath string, m Manifest, flagBackend string) (storage.Store, error) {
	backend := m.Saves.Backend
	if cfg := config.GetString("saves.backend"); cfg != "" {
		backend = cfg
	}
	if flagBackend != "" {
		backend = flagBackend
	}
	dir := savesDir(worldPath, m)
	switch backend {
	case "", "file":
		return file.New(dir)
	case "sqlite":
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating save directory: %w", err)
		}
		return sqlite.New(filepath.Join(dir, "saves.db"))
	default:
		return nil, fmt.Errorf("unknown saves backend %q", backend)
	}
}

func autosaveKeep(m Manifest) int {
	if m.Saves.AutosaveKeep > 0 {
		return m.Saves.AutosaveKeep
	}
	if n := config.GetInt("saves.autosave-keep"); n > 0 {
		return n
	}
	return 5
}
