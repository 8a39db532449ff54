package store

import (
	"context"
	"testing"
	"time"

	"github.com/go-shop-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationRepo_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewVerificationRepo(db)
	ctx := context.Background()

	u := seedUser(t, db, "jane@example.com")
	vt := &domain.VerificationToken{
		Token:     "tok-abc",
		UserID:    u.ID,
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}
	require.NoError(t, repo.Create(ctx, vt))

	got, err := repo.GetByToken(ctx, "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)

	_, err = repo.GetByToken(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerificationRepo_DeleteByToken(t *testing.T) {
	db := newTestDB(t)
	repo := NewVerificationRepo(db)
	ctx := context.Background()

	u := seedUser(t, db, "jane@example.com")
	require.NoError(t, repo.Create(ctx, &domain.VerificationToken{
		Token: "tok-abc", UserID: u.ID, ExpiresAt: time.Now().UTC().Add(time.Hour),
	}))

	deleted, err := repo.DeleteByToken(ctx, "tok-abc")
	require.NoError(t, err)
	assert.True(t, deleted)

	// Second delete is a no-op, not an error.
	deleted, err = repo.DeleteByToken(ctx, "tok-abc")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestVerificationRepo_DeleteByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewVerificationRepo(db)
	ctx := context.Background()

	u := seedUser(t, db, "jane@example.com")
	other := seedUser(t, db, "other@example.com")
	for _, token := range []string{"tok-1", "tok-2"} {
		require.NoError(t, repo.Create(ctx, &domain.VerificationToken{
			Token: token, UserID: u.ID, ExpiresAt: time.Now().UTC().Add(time.Hour),
		}))
	}
	require.NoError(t, repo.Create(ctx, &domain.VerificationToken{
		Token: "tok-other", UserID: other.ID, ExpiresAt: time.Now().UTC().Add(time.Hour),
	}))

	n, err := repo.DeleteByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.GetByToken(ctx, "tok-other")
	assert.NoError(t, err)
}

func TestVerificationRepo_DeleteExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewVerificationRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	u := seedUser(t, db, "jane@example.com")
	require.NoError(t, repo.Create(ctx, &domain.VerificationToken{
		Token: "tok-old", UserID: u.ID, ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, repo.Create(ctx, &domain.VerificationToken{
		Token: "tok-live", UserID: u.ID, ExpiresAt: now.Add(time.Hour),
	}))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByToken(ctx, "tok-old")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetByToken(ctx, "tok-live")
	assert.NoError(t, err)
}

func TestVerificationRepo_CascadeOnUserDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewVerificationRepo(db)
	ctx := context.Background()

	u := seedUser(t, db, "stale@example.com")
	require.NoError(t, repo.Create(ctx, &domain.VerificationToken{
		Token: "tok-abc", UserID: u.ID, ExpiresAt: time.Now().UTC().Add(time.Hour),
	}))

	n, err := NewUserRepo(db).DeleteUnverifiedBefore(ctx, time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = repo.GetByToken(ctx, "tok-abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
