package view

import (
	"slices"
	"sync"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
)

// Selection is the set of shipment ids ticked in the table. It is tracked
// independently from the collection: ids that later leave the view stay
// selected until cleared.
type Selection struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewSelection(ids ...string) *Selection {
	s := &Selection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Set adds or removes a single id without touching the others.
func (s *Selection) Set(id string, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selected {
		s.ids[id] = struct{}{}
	} else {
		delete(s.ids, id)
	}
}

// Toggle flips the membership of id.
func (s *Selection) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// SelectAll replaces the selection with exactly the ids of derived.
func (s *Selection) SelectAll(derived []domain.Shipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{}, len(derived))
	for _, sh := range derived {
		s.ids[sh.ID] = struct{}{}
	}
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
}

func (s *Selection) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the selected ids in lexicographic order.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// AllSelected is the state of the "select all" checkbox for derived.
func (s *Selection) AllSelected(derived []domain.Shipment) bool {
	if len(derived) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ids) != len(derived) {
		return false
	}
	for _, sh := range derived {
		if _, ok := s.ids[sh.ID]; !ok {
			return false
		}
	}
	return true
}
