package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGetExpire(t *testing.T) {
	c := NewCache()
	defer c.Close()

	c.Set("a", 1, time.Hour)
	c.Set("b", 2, -time.Second)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("b")
	assert.False(t, ok)

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestCache_SetIfAbsent(t *testing.T) {
	c := NewCache()
	defer c.Close()

	assert.True(t, c.SetIfAbsent("k", true, time.Hour))
	assert.False(t, c.SetIfAbsent("k", true, time.Hour))

	c.Set("old", true, -time.Second)
	assert.True(t, c.SetIfAbsent("old", true, time.Hour))
}

func TestCache_SetIfAbsentConcurrent(t *testing.T) {
	c := NewCache()
	defer c.Close()

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.SetIfAbsent("once", true, time.Minute) {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

func TestCache_Sweep(t *testing.T) {
	c := NewCacheWithInterval(time.Hour)
	defer c.Close()

	c.Set("gone", 1, -time.Second)
	c.Set("kept", 1, time.Hour)
	c.sweep()
	assert.Equal(t, 1, c.Len())
}
