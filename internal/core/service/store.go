package service

import (
	"slices"
	"sync"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/pkg/metrics"
)

// Store owns the canonical shipment collection, newest first. Readers only
// ever receive deep copies; all writes go through its methods and are
// serialized by mu.
type Store struct {
	mu    sync.RWMutex
	items []domain.Shipment
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a full snapshot from the source of record, ordered by
// CreatedAt descending. Later duplicates of an id are dropped.
func (s *Store) Replace(items []domain.Shipment) {
	seen := make(map[string]struct{}, len(items))
	next := make([]domain.Shipment, 0, len(items))
	for _, sh := range items {
		if _, dup := seen[sh.ID]; dup {
			continue
		}
		seen[sh.ID] = struct{}{}
		next = append(next, sh.Clone())
	}
	slices.SortStableFunc(next, func(a, b domain.Shipment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	s.mu.Lock()
	s.items = next
	s.mu.Unlock()
	metrics.CollectionSize.Set(float64(len(next)))
}

// Prepend inserts sh at the head unless its id is already present.
func (s *Store) Prepend(sh domain.Shipment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(sh.ID) >= 0 {
		return false
	}
	s.items = slices.Insert(s.items, 0, sh.Clone())
	metrics.CollectionSize.Set(float64(len(s.items)))
	return true
}

// Put replaces the record with the same id wholesale. Absent ids are ignored.
func (s *Store) Put(sh domain.Shipment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(sh.ID)
	if i < 0 {
		return false
	}
	s.items[i] = sh.Clone()
	return true
}

// Mutate applies fn to the record with the given id in place and returns a
// copy of the result.
func (s *Store) Mutate(id string, fn func(*domain.Shipment)) (domain.Shipment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Shipment{}, false
	}
	fn(&s.items[i])
	return s.items[i].Clone(), true
}

// Remove deletes the record with the given id. Absent ids are a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	metrics.CollectionSize.Set(float64(len(s.items)))
	return true
}

func (s *Store) Get(id string) (domain.Shipment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Shipment{}, false
	}
	return s.items[i].Clone(), true
}

// Snapshot returns a deep copy of the collection in store order.
func (s *Store) Snapshot() []domain.Shipment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Shipment, len(s.items))
	for i, sh := range s.items {
		out[i] = sh.Clone()
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(sh domain.Shipment) bool { return sh.ID == id })
}
