package moderation

import "sync"

// keyedMutex serializes mutations per (guild, user) key so two concurrent
// operations cannot interleave their read-modify-write cycles and apply a
// punishment twice for the same point crossing. Entries are reference
// counted and removed once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyLock)}
}

func (km *keyedMutex) lock(key string) {
	km.mu.Lock()
	l, ok := km.locks[key]
	if !ok {
		l = &keyLock{}
		km.locks[key] = l
	}
	l.refs++
	km.mu.Unlock()

	l.mu.Lock()
}

func (km *keyedMutex) unlock(key string) {
	km.mu.Lock()
	l := km.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(km.locks, key)
	}
	km.mu.Unlock()

	l.mu.Unlock()
}

func ledgerKey(guildID, userID string) string {
	return guildID + ":" + userID
}
