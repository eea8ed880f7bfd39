package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTab_GetSetItem(t *testing.T) {
	ctx := context.Background()
	profile := NewMemoryProfile()
	tab := profile.Open()

	_, ok, err := tab.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tab.SetItem(ctx, "k", `["p1"]`))

	v, ok, err := tab.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["p1"]`, v)

	// Another tab of the same profile sees the same item.
	other := profile.Open()
	v, ok, err = other.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["p1"]`, v)
}

func TestMemoryTab_WatchFiresInOtherTabsOnly(t *testing.T) {
	ctx := context.Background()
	profile := NewMemoryProfile()
	writer := profile.Open()
	reader := profile.Open()

	writerCalls, readerCalls, otherKeyCalls := 0, 0, 0
	writer.Watch("k", func() { writerCalls++ })
	reader.Watch("k", func() { readerCalls++ })
	reader.Watch("unrelated", func() { otherKeyCalls++ })

	require.NoError(t, writer.SetItem(ctx, "k", "v1"))
	profile.Settle()

	assert.Equal(t, 0, writerCalls, "the writing tab must not be notified")
	assert.Equal(t, 1, readerCalls)
	assert.Equal(t, 0, otherKeyCalls)
}

func TestMemoryTab_UnsubscribeAndClose(t *testing.T) {
	ctx := context.Background()
	profile := NewMemoryProfile()
	writer := profile.Open()
	reader := profile.Open()

	calls := 0
	unsubscribe := reader.Watch("k", func() { calls++ })

	require.NoError(t, writer.SetItem(ctx, "k", "v1"))
	profile.Settle()
	unsubscribe()
	require.NoError(t, writer.SetItem(ctx, "k", "v2"))
	profile.Settle()
	assert.Equal(t, 1, calls)

	reader.Watch("k", func() { calls++ })
	reader.Close()
	require.NoError(t, writer.SetItem(ctx, "k", "v3"))
	profile.Settle()
	assert.Equal(t, 1, calls)
}

func TestMemoryProfile_SeedDoesNotNotify(t *testing.T) {
	profile := NewMemoryProfile()
	tab := profile.Open()

	calls := 0
	tab.Watch("k", func() { calls++ })
	profile.Seed("k", "not json")
	profile.Settle()

	assert.Equal(t, 0, calls)
	v, ok := profile.Raw("k")
	assert.True(t, ok)
	assert.Equal(t, "not json", v)
}

func TestMemoryTab_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tab := NewMemoryProfile().Open()

	_, _, err := tab.GetItem(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, tab.SetItem(ctx, "k", "v"), context.Canceled)
}

func TestMemoryTab_ImplementsStorage(t *testing.T) {
	var _ Storage = NewMemoryProfile().Open()
}

func TestMemoryTab_SetItemDoesNotWaitForWatchers(t *testing.T) {
	ctx := context.Background()
	profile := NewMemoryProfile()
	writer := profile.Open()
	reader := profile.Open()

	release := make(chan struct{})
	var got []string
	reader.Watch("k", func() {
		<-release
		v, _ := profile.Raw("k")
		got = append(got, v)
	})

	written := make(chan struct{})
	go func() {
		defer close(written)
		assert.NoError(t, writer.SetItem(ctx, "k", "v1"))
		assert.NoError(t, writer.SetItem(ctx, "k", "v2"))
	}()

	select {
	case <-written:
	case <-time.After(5 * time.Second):
		t.Fatal("SetItem waited for another tab's watcher")
	}

	close(release)
	profile.Settle()
	assert.Equal(t, []string{"v2", "v2"}, got, "one notification per write, each reading the latest value")
}

func TestMemoryProfile_SettleWithClosedTab(t *testing.T) {
	ctx := context.Background()
	profile := NewMemoryProfile()
	writer := profile.Open()
	reader := profile.Open()

	block := make(chan struct{})
	reader.Watch("k", func() { <-block })

	require.NoError(t, writer.SetItem(ctx, "k", "v1"))
	require.NoError(t, writer.SetItem(ctx, "k", "v2"))
	reader.Close()
	close(block)

	settled := make(chan struct{})
	go func() {
		profile.Settle()
		close(settled)
	}()

	select {
	case <-settled:
	case <-time.After(5 * time.Second):
		t.Fatal("Settle did not return after the tab was closed")
	}
}
