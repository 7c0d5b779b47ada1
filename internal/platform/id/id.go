package id

import "sync"

// Sequence hands out increasing integer ids. It never reuses a value, even
// after the entity holding it is deleted.
type Sequence struct {
	mu   sync.Mutex
	last int
}

func NewSequence(last int) *Sequence {
	return &Sequence{last: last}
}

// Observe advances the sequence past an id seen in storage.
func (s *Sequence) Observe(existing int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing > s.last {
		s.last = existing
	}
}

func (s *Sequence) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return s.last
}
