// Package memory holds save slots in process memory. It backs tests and
// short-lived hosts that have no reason to touch the filesystem.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jedharris/text-game-sub000/internal/storage"
)

type slot struct {
	doc  []byte
	info storage.SlotInfo
}

// Store implements storage.Store over maps guarded by a mutex.
type Store struct {
	mu        sync.Mutex
	slots     map[string]slot
	autosaves [][]byte
}

func New() *Store {
	return &Store{slots: map[string]slot{}}
}

func (s *Store) Put(_ context.Context, name string, doc []byte, info storage.SlotInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	info.Name = name
	s.slots[name] = slot{doc: append([]byte(nil), doc...), info: info}
	return nil
}

func (s *Store) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[name]
	if !ok {
		return nil, storage.ErrSlotNotFound
	}
	return append([]byte(nil), sl.doc...), nil
}

func (s *Store) List(_ context.Context) ([]storage.SlotInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	infos := make([]storage.SlotInfo, 0, len(s.slots))
	for _, sl := range s.slots {
		infos = append(infos, sl.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})
	return infos, nil
}

func (s *Store) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[name]; !ok {
		return storage.ErrSlotNotFound
	}
	delete(s.slots, name)
	return nil
}

func (s *Store) Autosave(_ context.Context, doc []byte, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autosaves = append(s.autosaves, append([]byte(nil), doc...))
	if keep > 0 && len(s.autosaves) > keep {
		s.autosaves = s.autosaves[len(s.autosaves)-keep:]
	}
	return nil
}

func (s *Store) LatestAutosave(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.autosaves) == 0 {
		return nil, storage.ErrSlotNotFound
	}
	last := s.autosaves[len(s.autosaves)-1]
	return append([]byte(nil), last...), nil
}

func (s *Store) Close() error { return nil }
