package progress

import "sync"

// lockTable hands out one mutex per key and reclaims it when the last
// holder releases. Serializes the upsert-recompute-touch chain for a
// single enrollment without blocking unrelated ones.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*lockEntry)}
}

func (t *lockTable) acquire(key string) {
	t.mu.Lock()
	entry, ok := t.locks[key]
	if !ok {
		entry = &lockEntry{}
		t.locks[key] = entry
	}
	entry.refs++
	t.mu.Unlock()

	entry.mu.Lock()
}

func (t *lockTable) release(key string) {
	t.mu.Lock()
	entry, ok := t.locks[key]
	if ok {
		entry.refs--
		if entry.refs <= 0 {
			delete(t.locks, key)
		}
	}
	t.mu.Unlock()

	if ok {
		entry.mu.Unlock()
	}
}
