package pagelist

import (
	"context"
	"slices"
	"sync"
)

// MemStore is an in-memory [Store].
// The zero value is an empty store ready for use.
type MemStore struct {
	mu      sync.Mutex
	entries []string
}

var _ Store = (*MemStore)(nil)

// DisabledPages returns a copy of the stored entries.
func (s *MemStore) DisabledPages(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries), nil
}

// SetDisabledPages replaces the stored entries.
func (s *MemStore) SetDisabledPages(_ context.Context, entries []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = slices.Clone(entries)
	return nil
}
