package application

import (
	"sync"

	"github.com/bnema/bilive-keeper/internal/domain"
)

// inflightSet guards against overlapping claim sequences for the same
// account. Rounds should never overlap at the configured intervals, but the
// guard makes that a property instead of a timing coincidence.
type inflightSet struct {
	mu  sync.Mutex
	ids map[domain.AccountID]struct{}
}

func newInflightSet() *inflightSet {
	return &inflightSet{ids: make(map[domain.AccountID]struct{})}
}

func (s *inflightSet) TryAcquire(id domain.AccountID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, held := s.ids[id]; held {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *inflightSet) Release(id domain.AccountID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.ids, id)
}
