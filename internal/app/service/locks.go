package service

import "sync"

// ContestLocks serializes every state-mutating operation on one contest
// (submit, vote, end) while letting different contests proceed in parallel.
// All mutating services share one instance.
type ContestLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewContestLocks() *ContestLocks {
	return &ContestLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the per-contest mutex and returns its unlock func.
// Lock entries are never removed; contests are never deleted either.
func (c *ContestLocks) Lock(contestID int64) func() {
	c.mu.Lock()
	lock, ok := c.locks[contestID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[contestID] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
