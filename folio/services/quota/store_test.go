package quota

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores_PutGetUpdate(t *testing.T) {
	lruStore, err := NewLRUStore(16)
	require.NoError(t, err)

	stores := map[string]QuotaStore{
		"memory": NewMemoryStore(),
		"lru":    lruStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

			_, ok, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Put(ctx, SessionRecord{SessionID: "s1", QuestionsAsked: 2, WindowStart: start}))
			rec, ok, err := store.Get(ctx, "s1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 2, rec.QuestionsAsked)

			rec, err = store.Update(ctx, "s1", func(rec *SessionRecord, exists bool) {
				assert.True(t, exists)
				rec.QuestionsAsked++
			})
			require.NoError(t, err)
			assert.Equal(t, 3, rec.QuestionsAsked)
			assert.Equal(t, start, rec.WindowStart)

			rec, err = store.Update(ctx, "s2", func(rec *SessionRecord, exists bool) {
				assert.False(t, exists)
			})
			require.NoError(t, err)
			assert.Equal(t, "s2", rec.SessionID)
			assert.Equal(t, 2, store.Len())
		})
	}
}

func TestStores_PutWaitsForUpdate(t *testing.T) {
	lruStore, err := NewLRUStore(16)
	require.NoError(t, err)

	stores := map[string]QuotaStore{
		"memory": NewMemoryStore(),
		"lru":    lruStore,
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			inUpdate := make(chan struct{})
			release := make(chan struct{})
			putDone := make(chan struct{})

			go func() {
				_, _ = store.Update(ctx, "s1", func(rec *SessionRecord, exists bool) {
					close(inUpdate)
					<-release
					rec.QuestionsAsked = 1
				})
			}()
			<-inUpdate

			go func() {
				_ = store.Put(ctx, SessionRecord{SessionID: "s1", QuestionsAsked: 3})
				close(putDone)
			}()

			select {
			case <-putDone:
				t.Fatal("Put finished while Update held the record")
			case <-time.After(50 * time.Millisecond):
			}

			close(release)
			<-putDone

			rec, ok, err := store.Get(ctx, "s1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 3, rec.QuestionsAsked)
		})
	}
}

func TestLRUStore_Evicts(t *testing.T) {
	ctx := context.Background()
	store, err := NewLRUStore(2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Put(ctx, SessionRecord{SessionID: fmt.Sprintf("s%d", i)}))
	}
	assert.Equal(t, 2, store.Len())
	_, ok, _ := store.Get(ctx, "s0")
	assert.False(t, ok)
}

func TestNewStore(t *testing.T) {
	s, err := NewStore("", 0)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = NewStore("lru", 8)
	require.NoError(t, err)
	assert.IsType(t, &LRUStore{}, s)

	_, err = NewStore("redis", 8)
	assert.Error(t, err)

	_, err = NewStore("lru", 0)
	assert.Error(t, err)
}
