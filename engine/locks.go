package engine

import "sync"

// accountLocks hands out one mutex per account so that the
// read-decide-append sequence serializes per account without making
// unrelated accounts contend.
type accountLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{m: make(map[int64]*sync.Mutex)}
}

// get returns the mutex for the account, creating it on first use.
// Locks are never evicted; one mutex per active account is cheap.
func (l *accountLocks) get(accountID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	am, ok := l.m[accountID]
	if !ok {
		am = &sync.Mutex{}
		l.m[accountID] = am
	}
	return am
}
