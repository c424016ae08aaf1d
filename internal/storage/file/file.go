// Package file implements save-slot storage as a directory of JSON files.
// Each slot is <name>.json plus a sidecar <name>.info.json; autosaves live
// under autosave/ numbered by sequence. A flock-guarded lock file keeps
// concurrent processes from interleaving writes.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/jedharris/text-game-sub000/internal/storage"
)

var slotName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// Store is a directory-backed save store.
type Store struct {
	dir  string
	lock *flock.Flock
}

// New opens (creating if needed) a save directory.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "autosave"), 0o755); err != nil {
		return nil, fmt.Errorf("creating save directory: %w", err)
	}
	return &Store{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".saves.lock")),
	}, nil
}

func (s *Store) withLock(fn func() error) error {
	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring save lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another process is writing saves")
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

func (s *Store) slotPath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) infoPath(name string) string {
	return filepath.Join(s.dir, name+".info.json")
}

func checkName(name string) error {
	if !slotName.MatchString(name) {
		return fmt.Errorf("invalid slot name %q", name)
	}
	return nil
}

// Put writes the document and its sidecar atomically: temp file then rename.
func (s *Store) Put(ctx context.Context, name string, doc []byte, info storage.SlotInfo) error {
	if err := checkName(name); err != nil {
		return err
	}
	info.Name = name
	if info.UpdatedAt.IsZero() {
		info.UpdatedAt = time.Now().UTC()
	}
	infoData, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding slot info: %w", err)
	}
	return s.withLock(func() error {
		if err := writeAtomic(s.slotPath(name), doc); err != nil {
			return err
		}
		return writeAtomic(s.infoPath(name), infoData)
	})
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	doc, err := os.ReadFile(s.slotPath(name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", storage.ErrSlotNotFound, name)
	}
	return doc, err
}

func (s *Store) List(ctx context.Context) ([]storage.SlotInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading save directory: %w", err)
	}
	var slots []storage.SlotInfo
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok || strings.HasSuffix(e.Name(), ".info.json") || e.IsDir() {
			continue
		}
		info := storage.SlotInfo{Name: name}
		if data, err := os.ReadFile(s.infoPath(name)); err == nil {
			_ = json.Unmarshal(data, &info)
			info.Name = name
		} else if fi, err := e.Info(); err == nil {
			info.UpdatedAt = fi.ModTime().UTC()
		}
		slots = append(slots, info)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].UpdatedAt.After(slots[j].UpdatedAt)
	})
	return slots, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	return s.withLock(func() error {
		if err := os.Remove(s.slotPath(name)); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", storage.ErrSlotNotFound, name)
			}
			return err
		}
		_ = os.Remove(s.infoPath(name))
		return nil
	})
}

// Autosave writes autosave/<seq>.json and prunes the ring down to keep
// entries.
func (s *Store) Autosave(ctx context.Context, doc []byte, keep int) error {
	if keep < 1 {
		keep = 1
	}
	return s.withLock(func() error {
		seqs, err := s.autosaveSeqs()
		if err != nil {
			return err
		}
		next := 1
		if len(seqs) > 0 {
			next = seqs[len(seqs)-1] + 1
		}
		path := filepath.Join(s.dir, "autosave", fmt.Sprintf("%06d.json", next))
		if err := writeAtomic(path, doc); err != nil {
			return err
		}
		seqs = append(seqs, next)
		for len(seqs) > keep {
			old := filepath.Join(s.dir, "autosave", fmt.Sprintf("%06d.json", seqs[0]))
			if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
				return err
			}
			seqs = seqs[1:]
		}
		return nil
	})
}

func (s *Store) LatestAutosave(ctx context.Context) ([]byte, error) {
	seqs, err := s.autosaveSeqs()
	if err != nil {
		return nil, err
	}
	if len(seqs) == 0 {
		return nil, storage.ErrSlotNotFound
	}
	path := filepath.Join(s.dir, "autosave", fmt.Sprintf("%06d.json", seqs[len(seqs)-1]))
	return os.ReadFile(path)
}

func (s *Store) Close() error { return nil }

func (s *Store) autosaveSeqs() ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, "autosave"))
	if err != nil {
		return nil, fmt.Errorf("reading autosave directory: %w", err)
	}
	var seqs []int
	for _, e := range entries {
		base, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(base); err == nil {
			seqs = append(seqs, n)
		}
	}
	sort.Ints(seqs)
	return seqs, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
