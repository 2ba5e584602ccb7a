package scanner

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// StateStore remembers, per symbol, the close time of the last candle whose
// crossover evaluation completed. A nil entry means the symbol has been seen
// but never evaluated. Concurrent scans touch disjoint keys; the mutex only
// guards structural growth of the map and whole-map load/save.
type StateStore struct {
	path string

	mu      sync.RWMutex
	entries map[string]*time.Time
}

func NewStateStore(path string) *StateStore {
	return &StateStore{
		path:    path,
		entries: make(map[string]*time.Time),
	}
}

// Load reads the state file. A missing or corrupt file starts an empty map.
func (s *StateStore) Load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read state file, starting empty", "path", s.path, "error", err)
		}
		return
	}
	entries := make(map[string]*time.Time)
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("failed to parse state file, starting empty", "path", s.path, "error", err)
		return
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
}

// Save rewrites the whole state file. Best effort: not atomic, a crash
// mid-write can corrupt the file and Load will then start empty.
func (s *StateStore) Save() error {
	s.mu.RLock()
	data, err := json.Marshal(s.entries)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal scan state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write scan state: %w", err)
	}
	return nil
}

// Touch seeds an unseen symbol with a null entry so the persisted file
// enumerates the whole universe.
func (s *StateStore) Touch(symbol string) {
	s.mu.Lock()
	if _, ok := s.entries[symbol]; !ok {
		s.entries[symbol] = nil
	}
	s.mu.Unlock()
}

// LastProcessed returns the recorded close time for symbol, or false when the
// symbol has never completed an evaluation.
func (s *StateStore) LastProcessed(symbol string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.entries[symbol]
	if !ok || t == nil {
		return time.Time{}, false
	}
	return *t, true
}

// MarkProcessed records that symbol's candle closing at closedAt has been
// evaluated.
func (s *StateStore) MarkProcessed(symbol string, closedAt time.Time) {
	s.mu.Lock()
	t := closedAt
	s.entries[symbol] = &t
	s.mu.Unlock()
}
