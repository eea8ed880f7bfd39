package cart

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Badge is a read-only item counter for components that do not hold the
// tab's Engine, such as the navigation bar. It re-reads the Store on every
// change notification and on Focus.
type Badge struct {
	store  *Store
	logger zerolog.Logger

	mu    sync.Mutex
	count int

	stop func()
}

// NewBadge reads the current count and starts following changes.
func NewBadge(ctx context.Context, store *Store, logger zerolog.Logger) *Badge {
	b := &Badge{
		store:  store,
		logger: logger.With().Str("component", "cart-badge").Logger(),
	}
	b.refresh(ctx)

	b.stop = store.OnChange(func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		b.refresh(ctx)
	})

	return b
}

// Count returns the number of items last read from storage.
func (b *Badge) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Focus re-reads the count, for when the tab regains focus.
func (b *Badge) Focus(ctx context.Context) {
	b.refresh(ctx)
}

// Close stops following changes.
func (b *Badge) Close() {
	b.stop()
}

func (b *Badge) refresh(ctx context.Context) {
	n := len(b.store.Load(ctx))

	b.mu.Lock()
	defer b.mu.Unlock()
	if n != b.count {
		b.logger.Debug().Int("from", b.count).Int("to", n).Msg("badge count changed")
	}
	b.count = n
}
