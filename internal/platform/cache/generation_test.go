package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGet(t *testing.T) {
	c := New[int](0)
	c.Set("a", 1)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestInvalidateAllRetiresOutstandingEntries(t *testing.T) {
	c := New[string](0)
	c.Set("a", "one")
	c.Set("b", "two")

	c.InvalidateAll()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)

	// Entries stored after the swap belong to the fresh generation.
	c.Set("c", "three")
	v, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "three", v)
}

func TestTTLExpiry(t *testing.T) {
	c := New[int](10 * time.Millisecond)
	c.Set("a", 1)

	_, ok := c.Get("a")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestConcurrentReadersDuringInvalidation(t *testing.T) {
	c := New[int](0)
	c.Set("a", 1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Get("a")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Set("a", j)
				c.InvalidateAll()
			}
		}()
	}
	wg.Wait()
}
