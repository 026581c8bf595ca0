package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/apply-wizard/internal/form"
)

func sample() form.Snapshot {
	return form.NewSnapshot(
		form.Errors{"sentenceType": "You must choose a sentence type"},
		form.Input{"sentenceType": ""},
	)
}

func TestMemoryStore_TakeIsOneShot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	key := Key("apply", "sess", "app", "basic-information", "sentence-type")

	require.NoError(t, s.Put(ctx, key, sample()))
	got, ok, err := s.Take(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sample(), got)

	_, ok, err = s.Take(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "a snapshot survives one redirect only")
}

func TestMemoryStore_KeysAreScoped(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	require.NoError(t, s.Put(ctx, Key("apply", "a", "app", "t", "p"), sample()))

	_, ok, _ := s.Take(ctx, Key("apply", "b", "app", "t", "p"))
	assert.False(t, ok, "another session sees nothing")
	_, ok, _ = s.Take(ctx, Key("apply", "a", "app", "t", "other"))
	assert.False(t, ok)
	_, ok, _ = s.Take(ctx, Key("assess", "a", "app", "t", "p"))
	assert.False(t, ok, "another form sees nothing")
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = time.Now })

	s := NewMemoryStore(time.Minute)
	require.NoError(t, s.Put(ctx, "k1", sample()))

	now = now.Add(2 * time.Minute)
	_, ok, err := s.Take(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "k2", sample()))
	now = now.Add(2 * time.Minute)
	require.NoError(t, s.Put(ctx, "k3", sample()))
	assert.Equal(t, 1, s.Len(), "expired entries are swept on put")
}

// TestRedisStore_Integration requires a running Redis.
// We skip if connection fails.
func TestRedisStore_Integration(t *testing.T) {
	ctx := context.Background()
	s := NewRedisStore("localhost:6379", "", 0, time.Minute)
	defer s.Close()
	if err := s.Ping(ctx); err != nil {
		t.Skip("Skipping Redis integration test: redis not available")
	}

	key := Key("apply", "sess", "app-redis-test", "basic-information", "sentence-type")
	require.NoError(t, s.Put(ctx, key, sample()))

	got, ok, err := s.Take(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sample().Errors, got.Errors)
	assert.Equal(t, sample().ErrorSummary, got.ErrorSummary)

	_, ok, err = s.Take(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
