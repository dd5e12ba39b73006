package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	username  string
	expiresAt time.Time
}

// Memory is an in-process Store. Sessions live at most ttl and do not survive
// a restart.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

var _ Store = (*Memory)(nil)

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (m *Memory) Create(username string) string {
	id := uuid.NewString()

	m.mu.Lock()
	m.entries[id] = memoryEntry{
		username:  username,
		expiresAt: time.Now().Add(m.ttl),
	}
	m.mu.Unlock()

	return id
}

func (m *Memory) Get(id string) (string, bool) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return "", false
	}

	return e.username, true
}

func (m *Memory) Delete(id string) {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
}

// StartCleanup launches a janitor that drops expired entries every interval.
// The returned stop function terminates it.
func (m *Memory) StartCleanup(interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				ticker.Stop()
				return
			case <-ticker.C:
				m.purgeExpired()
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func (m *Memory) purgeExpired() {
	now := time.Now()

	m.mu.Lock()
	for id, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, id)
		}
	}
	m.mu.Unlock()
}
