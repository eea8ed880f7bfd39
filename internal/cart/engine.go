package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"hope-store/internal/catalog"
	"hope-store/internal/model"

	"github.com/rs/zerolog"
)

// syncTimeout bounds a reload triggered by a change notification.
const syncTimeout = 5 * time.Second

// Engine owns one tab's cart selection and drawer state. All readers and
// writers in the tab go through it; nothing else writes the Store.
type Engine struct {
	store   *Store
	catalog catalog.Resolver
	logger  zerolog.Logger

	mu   sync.Mutex
	ids  []string
	open bool

	readersMu  sync.Mutex
	readers    map[int]func(ids []string)
	nextReader int

	stopSync func()
}

// NewEngine loads the stored selection and starts following changes made
// by other tabs and other components of this tab.
func NewEngine(ctx context.Context, store *Store, resolver catalog.Resolver, logger zerolog.Logger) *Engine {
	e := &Engine{
		store:   store,
		catalog: resolver,
		logger:  logger.With().Str("component", "cart-engine").Logger(),
		ids:     store.Load(ctx),
		readers: make(map[int]func([]string)),
	}

	e.stopSync = store.OnChange(func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		e.Reload(ctx)
	})

	e.logger.Debug().Int("items", len(e.ids)).Msg("cart engine started")

	return e
}

// Close stops following storage changes. The engine stays readable.
func (e *Engine) Close() {
	e.stopSync()
}

// IDs returns the selected product ids in insertion order.
func (e *Engine) IDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.ids)
}

// Len returns the number of selected ids.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.ids)
}

// Contains reports whether id is selected.
func (e *Engine) Contains(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Contains(e.ids, id)
}

// Selection resolves the selected ids against the catalogue, in insertion
// order. Ids with no catalogue entry are skipped.
func (e *Engine) Selection() []model.Product {
	ids := e.IDs()

	items := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := e.catalog.Lookup(id); ok {
			items = append(items, p)
		}
	}
	return items
}

// Toggle removes id if it is selected and appends it otherwise.
func (e *Engine) Toggle(ctx context.Context, id string) error {
	if !e.catalog.Has(id) {
		return model.ErrProductNotFound
	}

	return e.mutate(ctx, "toggle", id, func(ids []string) []string {
		if i := slices.Index(ids, id); i >= 0 {
			return slices.Delete(slices.Clone(ids), i, i+1)
		}
		return append(slices.Clone(ids), id)
	})
}

// Remove deselects id. Removing an id that is not selected is a no-op.
func (e *Engine) Remove(ctx context.Context, id string) error {
	return e.mutate(ctx, "remove", id, func(ids []string) []string {
		if i := slices.Index(ids, id); i >= 0 {
			return slices.Delete(slices.Clone(ids), i, i+1)
		}
		return ids
	})
}

// mutate applies fn to the committed selection and persists the result
// before returning. The in-memory change stands even if the write fails.
func (e *Engine) mutate(ctx context.Context, op, id string, fn func([]string) []string) error {
	e.mu.Lock()
	next := fn(e.ids)
	if slices.Equal(next, e.ids) {
		e.mu.Unlock()
		return nil
	}
	e.ids = next
	err := e.store.Write(ctx, next)
	e.mu.Unlock()

	if err != nil {
		e.logger.Error().Err(err).Str("op", op).Str("product_id", id).Msg("failed to persist cart")
		e.notifyReaders()
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	e.logger.Debug().Str("op", op).Str("product_id", id).Int("items", len(next)).Msg("cart updated")

	// Announcing runs this tab's own OnChange handlers, so the lock must
	// already be released.
	e.store.Announce()
	e.notifyReaders()
	return nil
}

// Reload replaces the selection with the stored one. It is the single
// handler for both sync channels and is idempotent.
func (e *Engine) Reload(ctx context.Context) {
	e.mu.Lock()
	ids := e.store.Load(ctx)
	if slices.Equal(ids, e.ids) {
		e.mu.Unlock()
		return
	}
	e.ids = ids
	e.mu.Unlock()

	e.logger.Debug().Int("items", len(ids)).Msg("cart reloaded from storage")
	e.notifyReaders()
}

// OpenCart opens the cart drawer.
func (e *Engine) OpenCart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = true
}

// CloseCart closes the cart drawer.
func (e *Engine) CloseCart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = false
}

// ToggleCart flips the cart drawer.
func (e *Engine) ToggleCart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = !e.open
}

// IsCartOpen reports whether the cart drawer is open.
func (e *Engine) IsCartOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// Subscribe calls fn with the current ids after every change to the
// selection, whether made here or picked up from storage.
func (e *Engine) Subscribe(fn func(ids []string)) (unsubscribe func()) {
	e.readersMu.Lock()
	id := e.nextReader
	e.nextReader++
	e.readers[id] = fn
	e.readersMu.Unlock()

	return func() {
		e.readersMu.Lock()
		defer e.readersMu.Unlock()
		delete(e.readers, id)
	}
}

// notifyReaders reads the selection at call time, so the last reader
// notification always carries the latest state.
func (e *Engine) notifyReaders() {
	e.readersMu.Lock()
	keys := make([]int, 0, len(e.readers))
	for k := range e.readers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	fns := make([]func([]string), 0, len(keys))
	for _, k := range keys {
		fns = append(fns, e.readers[k])
	}
	e.readersMu.Unlock()

	for _, fn := range fns {
		fn(e.IDs())
	}
}
