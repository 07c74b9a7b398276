package services

import (
	"fmt"
	"sync"
)

// slotLocks serialises the conflict-check-then-insert sequence per
// (hallOwnerId, hallId, date) key so two concurrent requests for the
// same slot cannot both pass the check before either persists. Entries
// are refcounted and removed once the last holder releases.
type slotLocks struct {
	mu    sync.Mutex
	slots map[string]*slotLockEntry
}

type slotLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newSlotLocks() *slotLocks {
	return &slotLocks{slots: make(map[string]*slotLockEntry)}
}

// lock acquires the mutex for the slot key and returns its release func.
func (l *slotLocks) lock(hallOwnerID, hallID, date string) func() {
	key := fmt.Sprintf("%s|%s|%s", hallOwnerID, hallID, date)

	l.mu.Lock()
	entry, ok := l.slots[key]
	if !ok {
		entry = &slotLockEntry{}
		l.slots[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.slots, key)
		}
		l.mu.Unlock()
	}
}
