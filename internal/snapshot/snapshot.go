// Package snapshot keeps the errors-and-input snapshot of a failed save
// until the page is shown again. A snapshot is read at most once.
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HendryAvila/apply-wizard/internal/form"
)

// DefaultTTL bounds how long an untaken snapshot is kept.
const DefaultTTL = 10 * time.Minute

// Store holds snapshots between the failed save and the next show.
type Store interface {
	Put(ctx context.Context, key string, snap form.Snapshot) error
	// Take returns and deletes the snapshot under key.
	Take(ctx context.Context, key string) (form.Snapshot, bool, error)
}

// Key scopes a snapshot to one actor session and one page of one form.
func Key(formName, sessionID, applicationID, task, page string) string {
	return fmt.Sprintf("snapshot:%s:%s:%s:%s:%s", formName, sessionID, applicationID, task, page)
}

var timeNow = time.Now

type entry struct {
	snap    form.Snapshot
	expires time.Time
}

// MemoryStore is an in-process Store. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
}

// NewMemoryStore returns an empty store. A non-positive ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, entries: map[string]entry{}}
}

func (m *MemoryStore) Put(_ context.Context, key string, snap form.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	m.entries[key] = entry{snap: snap, expires: timeNow().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Take(_ context.Context, key string) (form.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return form.Snapshot{}, false, nil
	}
	delete(m.entries, key)
	if timeNow().After(e.expires) {
		return form.Snapshot{}, false, nil
	}
	return e.snap, true, nil
}

// Len reports how many snapshots are held, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// sweep drops expired entries. Callers hold mu.
func (m *MemoryStore) sweep() {
	now := timeNow()
	for k, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, k)
		}
	}
}
