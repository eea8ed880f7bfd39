package cart

import (
	"context"
	"errors"
	"testing"

	"hope-store/internal/catalog"
	"hope-store/internal/model"
	"hope-store/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	return catalog.MustNew([]model.Product{
		{ID: "p1", Model: "Apple iPhone 12", StorageOptions: []string{"64GB", "128GB"}, Price: "R 3000", Image: "/"},
		{ID: "p2", Model: "Apple iPhone 13", StorageOptions: []string{"128GB"}, Price: "R 5200", Image: "/"},
		{ID: "p3", Model: "Apple iPhone 14", StorageOptions: []string{"128GB"}, Price: "R 6500", Image: "/"},
	})
}

// failingStorage is a Storage whose reads and/or writes fail.
type failingStorage struct {
	getErr error
	setErr error
	value  string
	has    bool
}

func (f *failingStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.value, f.has, nil
}

func (f *failingStorage) SetItem(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.value, f.has = value, true
	return nil
}

func (f *failingStorage) Watch(key string, fn func()) func() { return func() {} }

func TestStore_Load(t *testing.T) {
	tests := []struct {
		name     string
		seed     *string
		expected []string
	}{
		{name: "Absent key", seed: nil, expected: []string{}},
		{name: "Empty string", seed: strPtr(""), expected: []string{}},
		{name: "Empty array", seed: strPtr(`[]`), expected: []string{}},
		{name: "JSON null", seed: strPtr(`null`), expected: []string{}},
		{name: "Corrupt JSON", seed: strPtr(`["p1"`), expected: []string{}},
		{name: "Not an array", seed: strPtr(`{"p1":true}`), expected: []string{}},
		{name: "String value", seed: strPtr(`"p1"`), expected: []string{}},
		{name: "Valid ids in order", seed: strPtr(`["p2","p1"]`), expected: []string{"p2", "p1"}},
		{name: "Unknown ids dropped", seed: strPtr(`["p1","unknown-id"]`), expected: []string{"p1"}},
		{name: "Non-string elements dropped", seed: strPtr(`[1,"p3",null,{"id":"p2"},["p2"],true]`), expected: []string{"p3"}},
		{name: "Duplicates dropped", seed: strPtr(`["p1","p2","p1"]`), expected: []string{"p1", "p2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := storage.NewMemoryProfile()
			if tt.seed != nil {
				profile.Seed(DefaultKey, *tt.seed)
			}
			store := NewStore(profile.Open(), storage.NewBus(), testCatalog(), zerolog.Nop())

			assert.Equal(t, tt.expected, store.Load(context.Background()))
		})
	}
}

func TestStore_Load_Unavailable(t *testing.T) {
	ctx := context.Background()

	noStorage := NewStore(nil, nil, testCatalog(), zerolog.Nop())
	assert.Equal(t, []string{}, noStorage.Load(ctx))

	broken := NewStore(&failingStorage{getErr: errors.New("quota exceeded")}, nil, testCatalog(), zerolog.Nop())
	assert.Equal(t, []string{}, broken.Load(ctx))
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	profile := storage.NewMemoryProfile()
	store := NewStore(profile.Open(), storage.NewBus(), testCatalog(), zerolog.Nop())

	require.NoError(t, store.Save(ctx, []string{"p3", "ghost", "p1"}))

	raw, ok := profile.Raw(DefaultKey)
	require.True(t, ok)
	assert.JSONEq(t, `["p3","ghost","p1"]`, raw)

	// Load returns the known subset, order preserved.
	assert.Equal(t, []string{"p3", "p1"}, store.Load(ctx))
}

func TestStore_SaveNilWritesEmptyArray(t *testing.T) {
	profile := storage.NewMemoryProfile()
	store := NewStore(profile.Open(), nil, testCatalog(), zerolog.Nop())

	require.NoError(t, store.Save(context.Background(), nil))

	raw, _ := profile.Raw(DefaultKey)
	assert.Equal(t, `[]`, raw)
}

func TestStore_SaveAnnouncesAfterWrite(t *testing.T) {
	ctx := context.Background()
	profile := storage.NewMemoryProfile()
	bus := storage.NewBus()
	store := NewStore(profile.Open(), bus, testCatalog(), zerolog.Nop())

	var seenAtNotify string
	bus.Subscribe(UpdatedEvent, func() {
		seenAtNotify, _ = profile.Raw(DefaultKey)
	})

	require.NoError(t, store.Save(ctx, []string{"p2"}))
	assert.Equal(t, `["p2"]`, seenAtNotify, "notification must fire after the write completes")
}

func TestStore_SaveErrors(t *testing.T) {
	ctx := context.Background()

	bus := storage.NewBus()
	announced := 0
	bus.Subscribe(UpdatedEvent, func() { announced++ })

	noStorage := NewStore(nil, bus, testCatalog(), zerolog.Nop())
	assert.ErrorIs(t, noStorage.Save(ctx, []string{"p1"}), storage.ErrUnavailable)

	writeErr := errors.New("quota exceeded")
	broken := NewStore(&failingStorage{setErr: writeErr}, bus, testCatalog(), zerolog.Nop())
	err := broken.Save(ctx, []string{"p1"})
	assert.ErrorIs(t, err, writeErr)

	assert.Equal(t, 0, announced, "failed writes must not be announced")
}

func TestStore_WithKey(t *testing.T) {
	ctx := context.Background()
	profile := storage.NewMemoryProfile()
	store := NewStore(profile.Open(), nil, testCatalog(), zerolog.Nop(), WithKey("other:key"))

	assert.Equal(t, "other:key", store.Key())
	require.NoError(t, store.Save(ctx, []string{"p1"}))

	_, ok := profile.Raw(DefaultKey)
	assert.False(t, ok)
	raw, ok := profile.Raw("other:key")
	assert.True(t, ok)
	assert.Equal(t, `["p1"]`, raw)
}

func TestStore_OnChange(t *testing.T) {
	ctx := context.Background()
	profile := storage.NewMemoryProfile()

	busA := storage.NewBus()
	storeA := NewStore(profile.Open(), busA, testCatalog(), zerolog.Nop())
	storeB := NewStore(profile.Open(), storage.NewBus(), testCatalog(), zerolog.Nop())

	callsA, callsB := 0, 0
	stopA := storeA.OnChange(func() { callsA++ })
	storeB.OnChange(func() { callsB++ })

	// Tab A writes: A hears its own bus event, B hears the storage watch.
	require.NoError(t, storeA.Save(ctx, []string{"p1"}))
	profile.Settle()
	assert.Equal(t, 1, callsA)
	assert.Equal(t, 1, callsB)

	// Tab B writes: A hears the storage watch only.
	require.NoError(t, storeB.Save(ctx, []string{"p2"}))
	profile.Settle()
	assert.Equal(t, 2, callsA)
	assert.Equal(t, 2, callsB)

	stopA()
	require.NoError(t, storeB.Save(ctx, []string{"p3"}))
	require.NoError(t, storeA.Save(ctx, []string{"p1"}))
	profile.Settle()
	assert.Equal(t, 2, callsA)
	assert.Equal(t, 0, busA.Subscribers(UpdatedEvent))
}

func strPtr(s string) *string {
	return &s
}
