package catalog

import (
	"fmt"
	"strings"
	"sync"

	"datamart-service/internal/models"
)

// Store is the in-memory catalog. It only grows: entries are appended by
// the seed set and by ingestion, never updated or deleted.
type Store struct {
	mu      sync.RWMutex
	entries []models.CatalogEntry
	byID    map[string]int
}

// NewStore creates an empty catalog store
func NewStore() *Store {
	return &Store{
		byID: make(map[string]int),
	}
}

// NewSeededStore creates a catalog store pre-populated with the demo listings
func NewSeededStore() *Store {
	s := NewStore()
	s.Append(SeedEntries())
	return s
}

// Append adds entries to the catalog in order. Entries whose id is already
// present are kept as-is; the first occurrence wins (dedup is the store's
// concern, not the normalizer's).
func (s *Store) Append(entries []models.CatalogEntry) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	appended := 0
	for _, e := range entries {
		if _, ok := s.byID[e.ID]; ok {
			continue
		}
		s.byID[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
		appended++
	}
	return appended
}

// All returns all catalog entries in insertion order
func (s *Store) All() []models.CatalogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CatalogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get retrieves a catalog entry by id
func (s *Store) Get(id string) (models.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return models.CatalogEntry{}, fmt.Errorf("catalog entry not found: %s", id)
	}
	return s.entries[idx], nil
}

// Search returns entries whose name, description or category contains the
// query, case-insensitively. An empty query returns everything.
func (s *Store) Search(query string) []models.CatalogEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.All()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.CatalogEntry
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Description), q) ||
			strings.Contains(strings.ToLower(e.Category), q) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of catalog entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
