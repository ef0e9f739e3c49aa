package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetDelete(t *testing.T) {
	store := NewStore[string](time.Minute, time.Minute)
	defer store.Stop()

	key := store.NewKey()
	require.NotEmpty(t, key)

	_, ok := store.Get(key)
	assert.False(t, ok)

	store.Put(key, []string{"a", "b"})

	records, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, records)
	assert.Equal(t, 1, store.Len())

	store.Delete(key)
	_, ok = store.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestStore_KeysAreUnique(t *testing.T) {
	store := NewStore[int](time.Minute, time.Minute)
	defer store.Stop()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := store.NewKey()
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestStore_PutReplaces(t *testing.T) {
	store := NewStore[int](time.Minute, time.Minute)
	defer store.Stop()

	key := store.NewKey()
	store.Put(key, []int{1})
	store.Put(key, []int{2, 3})

	records, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, records)
	assert.Equal(t, 1, store.Len())
}

func TestStore_GetExpiresIdleEntries(t *testing.T) {
	store := NewStore[int](10*time.Millisecond, time.Hour)
	defer store.Stop()

	key := store.NewKey()
	store.Put(key, []int{1})

	time.Sleep(30 * time.Millisecond)

	_, ok := store.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestStore_GetRefreshesIdleClock(t *testing.T) {
	store := NewStore[int](50*time.Millisecond, time.Hour)
	defer store.Stop()

	key := store.NewKey()
	store.Put(key, []int{1})

	// repeated access keeps the entry alive past its original TTL
	for i := 0; i < 4; i++ {
		time.Sleep(25 * time.Millisecond)
		_, ok := store.Get(key)
		require.True(t, ok)
	}
}

func TestStore_SweepRemovesIdleEntries(t *testing.T) {
	store := NewStore[int](10*time.Millisecond, 10*time.Millisecond)
	defer store.Stop()

	key := store.NewKey()
	store.Put(key, []int{1})

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestStore_StopIsClean(t *testing.T) {
	store := NewStore[int](time.Minute, time.Millisecond)
	store.Put(store.NewKey(), []int{1})
	store.Stop()
}
