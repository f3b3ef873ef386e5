package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryCache 测试内存缓存的基本功能
func TestMemoryCache(t *testing.T) {
	config := Config{
		Type:            "memory",
		DefaultTTL:      time.Second * 2,
		CleanupInterval: time.Second,
	}
	c, err := NewMemoryCache(config)
	require.NoError(t, err)

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, c.Set("key1", "value1", 0))

		val, found, err := c.Get("key1")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "value1", val)
	})

	t.Run("missing key", func(t *testing.T) {
		val, found, err := c.Get("non-existent")
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, val)
	})

	t.Run("expiration", func(t *testing.T) {
		require.NoError(t, c.Set("expire-soon", "temp", time.Millisecond*100))
		time.Sleep(time.Millisecond * 200)

		_, found, err := c.Get("expire-soon")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set("to-delete", "x", 0))
		require.NoError(t, c.Delete("to-delete"))

		_, found, _ := c.Get("to-delete")
		assert.False(t, found)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, c.Set("key2", "value2", 0))
		require.NoError(t, c.Clear())

		_, found, _ := c.Get("key2")
		assert.False(t, found)
	})
}

// TestRedisCache 用miniredis测试Redis缓存
func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(Config{
		Type:      "redis",
		RedisAddr: mr.Addr(),
	})
	require.NoError(t, err)

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, c.Set("draft:doc-1", `{"content":"<p>x</p>"}`, time.Minute))

		val, found, err := c.Get("draft:doc-1")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Contains(t, val, "content")
	})

	t.Run("expiration", func(t *testing.T) {
		require.NoError(t, c.Set("expiring", "v", time.Second))
		mr.FastForward(2 * time.Second)

		_, found, err := c.Get("expiring")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set("gone", "v", 0))
		require.NoError(t, c.Delete("gone"))

		_, found, _ := c.Get("gone")
		assert.False(t, found)
	})
}

// TestCacheFactory 测试缓存工厂
func TestCacheFactory(t *testing.T) {
	c, err := NewCache(Config{Type: "memory"})
	assert.NoError(t, err)
	assert.NotNil(t, c)

	// 未知类型回退到内存实现
	c, err = NewCache(Config{Type: "unknown"})
	assert.NoError(t, err)
	assert.NotNil(t, c)
}

// TestKey 测试缓存键生成
func TestKey(t *testing.T) {
	assert.Equal(t, "draft", Key("draft"))
	assert.Equal(t, "draft:doc-1", Key("draft", "doc-1"))
	assert.Equal(t, "a:b:c", Key("a", "b", "c"))
}
