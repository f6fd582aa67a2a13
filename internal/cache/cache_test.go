package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetSetStats(t *testing.T) {
	c := NewCache(10, time.Minute)

	_, found := c.Get("missing")
	assert.False(t, found)

	c.Set("table:users", []string{"a", "b"})
	v, found := c.Get("table:users")
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, v)

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.False(t, stats.LastAccess.IsZero())
}

func TestEvictsWhenFull(t *testing.T) {
	c := NewCache(2, time.Minute)

	c.Set("a", 1)
	time.Sleep(5 * time.Millisecond)
	c.Set("b", 2)
	c.Set("c", 3)

	assert.Equal(t, 2, c.Stats().Size)
	_, found := c.Get("c")
	assert.True(t, found, "newest entry must survive eviction")
}

func TestOverwriteDoesNotEvict(t *testing.T) {
	c := NewCache(2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("b", 3)

	_, foundA := c.Get("a")
	v, _ := c.Get("b")
	assert.True(t, foundA)
	assert.Equal(t, 3, v)
}

func TestExpiry(t *testing.T) {
	c := NewCache(10, 20*time.Millisecond)

	c.Set("k", "v")
	time.Sleep(40 * time.Millisecond)

	_, found := c.Get("k")
	assert.False(t, found)
}

func TestDeleteAndClear(t *testing.T) {
	c := NewCache(10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	_, found := c.Get("a")
	assert.False(t, found)

	c.Clear()
	assert.Equal(t, CacheStats{}, c.Stats())
}

func TestGenerateCacheKey(t *testing.T) {
	assert.Equal(t, "table:payments", GenerateCacheKey("table", "payments"))
}
