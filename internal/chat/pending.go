// Package chat provides the client-side orchestration around generation
// calls: pending-state tracking with TTL persistence, read-endpoint polling
// with a hard ceiling, and interpretation of server usage counters.
package chat

import (
	"sync"
	"time"
)

// DefaultPendingTTL bounds how long a persisted pending flag survives.
// A flag older than this is treated as stale and evicted on read, so an
// interrupted generation never wedges the UI in a waiting state.
const DefaultPendingTTL = 2 * time.Minute

// Flag records one in-flight generation for a resource.
type Flag struct {
	ResourceID string    `json:"resourceId"`
	Feature    string    `json:"feature"`
	StartedAt  time.Time `json:"startedAt"`
}

// FlagStore persists pending flags across process restarts. Implementations
// must be safe for use from a single PendingStore only; the PendingStore
// serializes access.
type FlagStore interface {
	Load() (map[string]Flag, error)
	Save(flags map[string]Flag) error
}

// PendingStore tracks per-resource pending flags with TTL eviction, backed
// by an injected FlagStore rather than ambient global state.
type PendingStore struct {
	mu    sync.Mutex
	flags map[string]Flag
	store FlagStore
	ttl   time.Duration
	now   func() time.Time
}

// NewPendingStore builds a store over the given backend. A nil backend keeps
// flags in memory only.
func NewPendingStore(store FlagStore, ttl time.Duration) *PendingStore {
	if store == nil {
		store = NewMemoryFlagStore()
	}
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}

	flags, err := store.Load()
	if err != nil || flags == nil {
		flags = map[string]Flag{}
	}

	return &PendingStore{
		flags: flags,
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Begin marks a resource as pending for a feature and persists the flag.
func (p *PendingStore) Begin(resourceID, feature string) Flag {
	p.mu.Lock()
	defer p.mu.Unlock()

	flag := Flag{ResourceID: resourceID, Feature: feature, StartedAt: p.now()}
	p.flags[key(resourceID, feature)] = flag
	p.persist()
	return flag
}

// Resolve clears the pending flag for a resource.
func (p *PendingStore) Resolve(resourceID, feature string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.flags, key(resourceID, feature))
	p.persist()
}

// Pending reports whether a non-expired flag exists for the resource, and
// returns it. Expired flags are evicted on the way out.
func (p *PendingStore) Pending(resourceID, feature string) (Flag, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	k := key(resourceID, feature)
	flag, ok := p.flags[k]
	if !ok {
		return Flag{}, false
	}
	if p.now().Sub(flag.StartedAt) > p.ttl {
		delete(p.flags, k)
		p.persist()
		return Flag{}, false
	}
	return flag, true
}

// Sweep evicts every expired flag and persists the result.
func (p *PendingStore) Sweep() {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := p.now().Add(-p.ttl)
	changed := false
	for k, flag := range p.flags {
		if flag.StartedAt.Before(cutoff) {
			delete(p.flags, k)
			changed = true
		}
	}
	if changed {
		p.persist()
	}
}

// persist writes through to the backend. Persistence is best effort: a flag
// that fails to save still works in memory for this process.
func (p *PendingStore) persist() {
	snapshot := make(map[string]Flag, len(p.flags))
	for k, v := range p.flags {
		snapshot[k] = v
	}
	_ = p.store.Save(snapshot) //nolint:errcheck // best effort write-through
}

func key(resourceID, feature string) string {
	return resourceID + "|" + feature
}

// MemoryFlagStore is an in-memory FlagStore for tests and single-process use.
type MemoryFlagStore struct {
	mu    sync.Mutex
	flags map[string]Flag
}

// NewMemoryFlagStore creates an empty in-memory store.
func NewMemoryFlagStore() *MemoryFlagStore {
	return &MemoryFlagStore{flags: map[string]Flag{}}
}

// Load returns a copy of the stored flags.
func (m *MemoryFlagStore) Load() (map[string]Flag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Flag, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out, nil
}

// Save replaces the stored flags.
func (m *MemoryFlagStore) Save(flags map[string]Flag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.flags = make(map[string]Flag, len(flags))
	for k, v := range flags {
		m.flags[k] = v
	}
	return nil
}
