package user

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_InsertAndFind(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Insert(ctx, "A@B.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "a@b.com", created.Email)

	found, err := store.FindByEmail(ctx, " a@b.COM ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "hash", found.PasswordHash)
}

func TestMemoryStore_FindUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Insert(ctx, "a@b.com", "h1")
	require.NoError(t, err)

	_, err = store.Insert(ctx, "A@B.COM", "h2")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_ConcurrentInsertSameEmail(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const writers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Insert(ctx, "race@example.com", "hash")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrDuplicateEmail):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, writers-1, dupes)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Insert(ctx, "a@b.com", "hash")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUser_PublicStripsHash(t *testing.T) {
	u := &User{ID: 7, Email: "a@b.com", PasswordHash: "secret"}

	pub := u.Public()
	assert.Equal(t, int64(7), pub.ID)
	assert.Equal(t, "a@b.com", pub.Email)
	assert.Empty(t, pub.PasswordHash)
	assert.Equal(t, "secret", u.PasswordHash)

	var nilUser *User
	assert.Nil(t, nilUser.Public())
}
