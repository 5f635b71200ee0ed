// Package memstore is an in-memory PersistAdapter used for dry runs and tests.
package memstore

import (
	"sort"
	"sync"

	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
)

// Store keeps documents in a map keyed by id.
type Store[T any] struct {
	mu    sync.RWMutex
	idOf  func(T) string
	docs  map[string]T
	order []string
}

// New returns an empty store. idOf extracts the id of a document.
func New[T any](idOf func(T) string) *Store[T] {
	return &Store[T]{idOf: idOf, docs: make(map[string]T)}
}

// Exists reports whether id is stored.
func (s *Store[T]) Exists(id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[id]
	return ok, nil
}

// Upsert stores doc, replacing any document with the same id.
func (s *Store[T]) Upsert(doc T) (bool, error) {
	id := s.idOf(doc)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.docs[id]
	if !existed {
		s.order = append(s.order, id)
	}
	s.docs[id] = doc
	return existed, nil
}

// Get returns the document stored under id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// Load returns the document stored under id or a NotFoundError.
func (s *Store[T]) Load(id string) (T, error) {
	if doc, ok := s.Get(id); ok {
		return doc, nil
	}
	var zero T
	return zero, apperrors.NewNotFound("document", id)
}

// All returns the stored documents in insertion order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id])
	}
	return out
}

// IDs returns the stored ids sorted.
func (s *Store[T]) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := append([]string(nil), s.order...)
	sort.Strings(ids)
	return ids
}

// Len returns the number of stored documents.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
