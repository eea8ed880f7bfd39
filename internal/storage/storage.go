// Package storage provides the key-value storage port the cart persists to,
// and the two change-notification channels that keep tabs in sync: a
// cross-tab watch on the storage itself and a same-tab event Bus.
package storage

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrUnavailable is returned by a tab that has no backing storage.
var ErrUnavailable = errors.New("storage unavailable")

// Storage is one tab's view of storage shared by every tab of a profile.
type Storage interface {
	// GetItem returns the value stored under key. The boolean is false when
	// no value is stored.
	GetItem(ctx context.Context, key string) (string, bool, error)

	// SetItem overwrites the value stored under key.
	SetItem(ctx context.Context, key, value string) error

	// Watch calls fn whenever another tab writes key. Writes made through
	// this Storage never trigger its own watchers, and fn never runs inside
	// another tab's SetItem call.
	Watch(key string, fn func()) (unsubscribe func())
}

// registry is a set of callbacks grouped by topic.
type registry struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]func()
}

func (r *registry) add(topic string, fn func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.subs == nil {
		r.subs = make(map[string]map[int]func())
	}
	if r.subs[topic] == nil {
		r.subs[topic] = make(map[int]func())
	}
	id := r.next
	r.next++
	r.subs[topic][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subs[topic], id)
		})
	}
}

// notify calls every callback for topic. Callbacks run without the lock
// held so they may subscribe, unsubscribe or publish.
func (r *registry) notify(topic string) {
	r.mu.Lock()
	ids := make([]int, 0, len(r.subs[topic]))
	for id := range r.subs[topic] {
		ids = append(ids, id)
	}
	fns := make([]func(), 0, len(ids))
	// Registration order, so notifications are deterministic.
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, r.subs[topic][id])
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (r *registry) count(topic string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[topic])
}
