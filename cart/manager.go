package cart

import (
	"sync"
	"time"

	"carvewood-storefront/storage"
)

const (
	// storeIdleTTL is how long an untouched store stays cached. Evicted
	// stores rehydrate from the port on next use, so nothing is lost.
	storeIdleTTL = 30 * time.Minute
	// sweepInterval throttles eviction so the map is not walked on every
	// request.
	sweepInterval = 5 * time.Minute
)

type managedStore struct {
	store    *Store
	lastUsed time.Time
}

// Manager hands out one Store per visitor. A store is constructed (and
// hydrated) on first use and cached while the visitor stays active, so
// every surface that resolves the same session id shares the same
// instance. Stores idle past the TTL are dropped; cookieless clients that
// mint a fresh session id per request would otherwise grow the cache
// without bound.
type Manager struct {
	mu        sync.Mutex
	port      storage.Port
	stores    map[string]*managedStore
	lastSweep time.Time
}

func NewManager(port storage.Port) *Manager {
	return &Manager{
		port:      port,
		stores:    make(map[string]*managedStore),
		lastSweep: time.Now(),
	}
}

// Store returns the cart store for the given session id.
func (m *Manager) Store(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.evictIdleLocked(now)

	if ms, ok := m.stores[sessionID]; ok {
		ms.lastUsed = now
		return ms.store
	}
	ms := &managedStore{
		store:    NewStore(m.port, "cart:"+sessionID),
		lastUsed: now,
	}
	m.stores[sessionID] = ms
	return ms.store
}

func (m *Manager) evictIdleLocked(now time.Time) {
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now
	for id, ms := range m.stores {
		if now.Sub(ms.lastUsed) > storeIdleTTL {
			delete(m.stores, id)
		}
	}
}
