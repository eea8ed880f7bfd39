package storage

import (
	"context"
	"sync"
)

// MemoryProfile is an in-process storage profile shared by any number of
// tabs. It mirrors browser local storage: every tab reads and writes the
// same items, and a write is announced to every tab except the writer.
// Announcements are delivered after the write returns, on a goroutine owned
// by the receiving tab, in the order the writes happened.
type MemoryProfile struct {
	mu    sync.RWMutex
	items map[string]string
	tabs  map[*MemoryTab]struct{}

	pending pendingCount
}

// NewMemoryProfile creates an empty profile.
func NewMemoryProfile() *MemoryProfile {
	p := &MemoryProfile{
		items: make(map[string]string),
		tabs:  make(map[*MemoryTab]struct{}),
	}
	p.pending.cond = sync.NewCond(&p.pending.mu)
	return p
}

// Open attaches a new tab to the profile.
func (p *MemoryProfile) Open() *MemoryTab {
	tab := &MemoryTab{
		profile: p,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go tab.deliver()

	p.mu.Lock()
	p.tabs[tab] = struct{}{}
	p.mu.Unlock()

	return tab
}

// Seed writes a raw value without notifying any tab, as if it had been left
// behind by an earlier session.
func (p *MemoryProfile) Seed(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items[key] = value
}

// Raw returns the stored value for key.
func (p *MemoryProfile) Raw(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.items[key]
	return v, ok
}

// Settle blocks until every announcement queued so far has been delivered
// or dropped by a closed tab.
func (p *MemoryProfile) Settle() {
	p.pending.wait()
}

// MemoryTab is one tab's Storage view of a MemoryProfile.
type MemoryTab struct {
	profile  *MemoryProfile
	watchers registry

	mu     sync.Mutex
	queue  []string
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

// GetItem returns the value stored under key.
func (t *MemoryTab) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	v, ok := t.profile.Raw(key)
	return v, ok, nil
}

// SetItem stores value and queues a notification for every other open tab.
// It never runs another tab's watchers itself.
func (t *MemoryTab) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.profile.mu.Lock()
	defer t.profile.mu.Unlock()

	t.profile.items[key] = value
	for tab := range t.profile.tabs {
		if tab != t {
			tab.enqueue(key)
		}
	}
	return nil
}

// Watch calls fn when another tab writes key.
func (t *MemoryTab) Watch(key string, fn func()) (unsubscribe func()) {
	return t.watchers.add(key, fn)
}

// Close detaches the tab. Queued notifications are dropped and no new ones
// arrive.
func (t *MemoryTab) Close() {
	t.profile.mu.Lock()
	delete(t.profile.tabs, t)
	t.profile.mu.Unlock()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	dropped := len(t.queue)
	t.queue = nil
	t.mu.Unlock()

	close(t.done)
	t.profile.pending.add(-dropped)
}

func (t *MemoryTab) enqueue(key string) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.queue = append(t.queue, key)
	t.profile.pending.add(1)
	t.mu.Unlock()

	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// deliver runs the tab's watchers for queued keys, one at a time.
func (t *MemoryTab) deliver() {
	for {
		select {
		case <-t.done:
			return
		case <-t.wake:
		}

		for {
			t.mu.Lock()
			if t.closed || len(t.queue) == 0 {
				t.mu.Unlock()
				break
			}
			key := t.queue[0]
			t.queue = t.queue[1:]
			t.mu.Unlock()

			t.watchers.notify(key)
			t.profile.pending.add(-1)
		}
	}
}

// pendingCount counts queued announcements across all tabs of a profile.
type pendingCount struct {
	mu   sync.Mutex
	cond *sync.Cond
	n    int
}

func (c *pendingCount) add(delta int) {
	if delta == 0 {
		return
	}
	c.mu.Lock()
	c.n += delta
	if c.n == 0 {
		c.cond.Broadcast()
	}
	c.mu.Unlock()
}

func (c *pendingCount) wait() {
	c.mu.Lock()
	for c.n > 0 {
		c.cond.Wait()
	}
	c.mu.Unlock()
}
