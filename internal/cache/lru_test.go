package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestLRU(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestLRU(10, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", "alpha")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "alpha", v)

	c.Set("a", "again")
	v, _ = c.Get("a")
	assert.Equal(t, "again", v)
	assert.Equal(t, 1, c.Size())
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestLRU(2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)

	c.Set("a", "1")
	clock.t = clock.t.Add(30 * time.Second)
	c.Set("b", "2")

	clock.t = clock.t.Add(45 * time.Second)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Size())

	clock.t = clock.t.Add(time.Minute)
	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 0, c.Size())
}

func TestLRUCache_Delete(t *testing.T) {
	c, _ := newTestLRU(10, time.Minute)

	c.Set("a", "1")
	c.Delete("a")
	c.Delete("never-set")

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestManager_CleanNow(t *testing.T) {
	first, clock1 := newTestLRU(10, time.Minute)
	second, clock2 := newTestLRU(10, time.Minute)
	first.Set("a", "1")
	second.Set("b", "2")
	second.Set("c", "3")
	clock1.t = clock1.t.Add(2 * time.Minute)
	clock2.t = clock2.t.Add(2 * time.Minute)

	m := NewManager()
	m.Register(first)
	m.Register(second)

	assert.Equal(t, 3, m.CleanNow())
}

func TestManager_StartStop(t *testing.T) {
	m := NewManager()
	m.Register(NewLRUCache[int](4, time.Minute))

	m.StartCleanup(10 * time.Millisecond)
	m.StartCleanup(10 * time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	m.Stop()
	m.Stop()
}
