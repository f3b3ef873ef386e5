package draft

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/doc-editor-system/internal/cache"
	"github.com/fyerfyer/doc-editor-system/internal/eventbus"
)

func newTestStore(t *testing.T) (*Store, eventbus.Bus) {
	c, err := cache.NewMemoryCache(cache.DefaultConfig())
	require.NoError(t, err)

	bus, err := eventbus.NewMemoryBus(eventbus.DefaultConfig())
	require.NoError(t, err)

	return NewStore(c, bus, WithTTL(time.Minute)), bus
}

// TestDraftSaveAndLoad 测试草稿的保存与读取
func TestDraftSaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t)

	saved, err := store.Save(context.Background(), "doc-1", "<p>正在编辑的内容</p>")
	require.NoError(t, err)
	assert.False(t, saved.SavedAt.IsZero())

	got, found, err := store.Load("doc-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "<p>正在编辑的内容</p>", got.ContentHTML)
	assert.Equal(t, "doc-1", got.DocumentID)
}

// TestDraftSaveEmitsEvent 测试保存草稿时的事件广播
func TestDraftSaveEmitsEvent(t *testing.T) {
	store, bus := newTestStore(t)

	received := make(chan eventbus.Event, 1)
	unsub, err := bus.Subscribe(eventbus.TopicDraftSaved, func(evt eventbus.Event) {
		received <- evt
	})
	require.NoError(t, err)
	defer unsub()

	_, err = store.Save(context.Background(), "doc-2", "<p>x</p>")
	require.NoError(t, err)

	select {
	case evt := <-received:
		assert.Equal(t, "doc-2", evt.DocumentID, "另一个视图应能通过总线拿到草稿更新")
	default:
		t.Fatal("未收到draft.saved事件")
	}
}

// TestDraftMissingAndDiscard 测试草稿不存在与丢弃
func TestDraftMissingAndDiscard(t *testing.T) {
	store, _ := newTestStore(t)

	_, found, err := store.Load("never-saved")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = store.Save(context.Background(), "doc-3", "<p>temp</p>")
	require.NoError(t, err)
	require.NoError(t, store.Discard("doc-3"))

	_, found, err = store.Load("doc-3")
	require.NoError(t, err)
	assert.False(t, found, "丢弃后草稿不应再存在")
}
