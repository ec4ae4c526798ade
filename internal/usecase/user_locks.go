package usecase

import "sync"

// userLocks serializes every load-mutate-save on one user's record so two
// concurrent tasks for the same user cannot lose writes. Locks are created
// on demand and kept for the process lifetime; the population is bounded by
// the number of distinct users seen.
type userLocks struct {
	m sync.Map // int64 -> *sync.Mutex
}

func (ul *userLocks) lock(tgID int64) (unlock func()) {
	v, _ := ul.m.LoadOrStore(tgID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
