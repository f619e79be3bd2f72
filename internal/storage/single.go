// Package storage provides small in-memory holders shared between client components.
package storage

import "sync"

// Single holds at most one value of type T. It is safe for concurrent use.
type Single[T any] struct {
	mu    sync.RWMutex
	value T
	set   bool
}

// NewSingle returns an empty Single.
func NewSingle[T any]() *Single[T] {
	return &Single[T]{}
}

// Update replaces the stored value.
//
// Postcondition: Get returns item until the next Update or Clear.
func (s *Single[T]) Update(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = item
	s.set = true
}

// Get returns the stored value and whether one has been stored.
func (s *Single[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.set
}

// Clear drops the stored value.
func (s *Single[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
	s.set = false
}
