// Package cart implements the shopper's cart (also called the wishlist):
// the persisted selection of product ids, the per-tab Engine that owns it,
// and the sync protocol that keeps every open tab consistent.
//
// Tabs are kept in step by two channels that both end in a reload from
// storage. The storage watch reports writes from other tabs; the same-tab
// Bus event reports writes from this tab to components that do not share
// its Engine. Concurrent edits in two tabs are not merged: whichever tab
// writes last wins and the other tab's change is lost.
package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"hope-store/internal/catalog"
	"hope-store/internal/storage"

	"github.com/rs/zerolog"
)

const (
	// DefaultKey is the storage key holding the JSON array of product ids.
	DefaultKey = "hope:wishlist:item-ids"

	// UpdatedEvent is published on the tab's Bus after every successful write.
	UpdatedEvent = "wishlist-updated"
)

// Store persists the cart selection under a single storage key.
type Store struct {
	storage storage.Storage
	bus     *storage.Bus
	catalog catalog.Resolver
	key     string
	logger  zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) StoreOption {
	return func(s *Store) {
		s.key = key
	}
}

// NewStore creates a store. A nil storage behaves as an environment without
// persistent storage: Load is always empty and Save fails.
func NewStore(st storage.Storage, bus *storage.Bus, resolver catalog.Resolver, logger zerolog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		storage: st,
		bus:     bus,
		catalog: resolver,
		key:     DefaultKey,
		logger:  logger.With().Str("component", "cart-store").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key.
func (s *Store) Key() string {
	return s.key
}

// Load returns the stored selection. Anything unreadable - a missing key,
// a storage error, invalid JSON, a value that is not an array - yields an
// empty selection. Elements that are not strings, are not in the catalogue,
// or repeat an earlier element are dropped.
func (s *Store) Load(ctx context.Context) []string {
	ids := []string{}

	if s.storage == nil {
		return ids
	}

	raw, ok, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("unable to read cart from storage")
		return ids
	}
	if !ok || raw == "" {
		return ids
	}

	var decoded []any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.logger.Debug().Err(err).Str("key", s.key).Msg("discarding unreadable cart value")
		return ids
	}

	seen := make(map[string]struct{}, len(decoded))
	for _, v := range decoded {
		id, ok := v.(string)
		if !ok || !s.catalog.Has(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}

// Save overwrites the stored selection and announces the change on the Bus.
func (s *Store) Save(ctx context.Context, ids []string) error {
	if err := s.Write(ctx, ids); err != nil {
		return err
	}
	s.Announce()
	return nil
}

// Write overwrites the stored selection without announcing it. Callers
// must follow a successful Write with Announce.
func (s *Store) Write(ctx context.Context, ids []string) error {
	if s.storage == nil {
		return storage.ErrUnavailable
	}
	if ids == nil {
		ids = []string{}
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.storage.SetItem(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}

// Announce publishes UpdatedEvent on the same-tab Bus.
func (s *Store) Announce() {
	if s.bus != nil {
		s.bus.Publish(UpdatedEvent)
	}
}

// OnChange calls fn when the stored selection may have changed: when
// another tab writes the key, and when this tab announces a write.
func (s *Store) OnChange(fn func()) (unsubscribe func()) {
	var stops []func()
	if s.storage != nil {
		stops = append(stops, s.storage.Watch(s.key, fn))
	}
	if s.bus != nil {
		stops = append(stops, s.bus.Subscribe(UpdatedEvent, fn))
	}
	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}
