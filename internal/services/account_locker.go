package services

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// AccountLocker serializes work on individual accounts inside this process.
// Several ids are always taken in ascending order, so two transfers over the
// same pair of accounts cannot deadlock.
type AccountLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

func NewAccountLocker() *AccountLocker {
	return &AccountLocker{
		locks: make(map[uuid.UUID]*accountLock),
	}
}

// Lock blocks until every given account is held and returns the matching unlock.
func (l *AccountLocker) Lock(ids ...uuid.UUID) func() {
	keys := uniqueSorted(ids)

	held := make([]*accountLock, 0, len(keys))
	for _, id := range keys {
		entry := l.acquire(id)
		entry.mu.Lock()
		held = append(held, entry)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				held[i].mu.Unlock()
				l.release(keys[i])
			}
		})
	}
}

// Size reports how many accounts currently have a lock entry.
func (l *AccountLocker) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *AccountLocker) acquire(id uuid.UUID) *accountLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.locks[id]
	if !ok {
		entry = &accountLock{}
		l.locks[id] = entry
	}
	entry.refs++
	return entry
}

func (l *AccountLocker) release(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.locks[id]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, id)
	}
}

func uniqueSorted(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	keys := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, id)
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
