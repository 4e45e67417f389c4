package memstore

import (
	"context"
	"testing"

	"github.com/No0oD/Stajh2Test/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationRepo_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	r := NewVerificationRepo()
	require.NoError(t, r.Put(ctx, &domain.VerificationRecord{Email: "a@b.com", Code: "1111"}))
	require.NoError(t, r.Put(ctx, &domain.VerificationRecord{Email: "a@b.com", Code: "2222"}))

	got, err := r.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "2222", got.Code)
	assert.Equal(t, 1, r.Len())
}

func TestVerificationRepo_GetMissing(t *testing.T) {
	_, err := NewVerificationRepo().Get(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerificationRepo_MarkVerified_MissingIsNoop(t *testing.T) {
	r := NewVerificationRepo()
	require.NoError(t, r.MarkVerified(context.Background(), "nobody@x.com", 5))
	assert.Equal(t, 0, r.Len())
}

func TestVerificationRepo_MarkVerified(t *testing.T) {
	ctx := context.Background()
	r := NewVerificationRepo()
	require.NoError(t, r.Put(ctx, &domain.VerificationRecord{Email: "a@b.com", Code: "1234"}))
	require.NoError(t, r.MarkVerified(ctx, "a@b.com", 42))

	got, err := r.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, got.Verified)
	require.NotNil(t, got.VerifiedAt)
	assert.Equal(t, int64(42), *got.VerifiedAt)
}

func TestVerificationRepo_QueryExpiredBefore_StrictlyLess(t *testing.T) {
	ctx := context.Background()
	r := NewVerificationRepo()
	require.NoError(t, r.Put(ctx, &domain.VerificationRecord{Email: "old@x.com", ExpirationTime: 99}))
	require.NoError(t, r.Put(ctx, &domain.VerificationRecord{Email: "edge@x.com", ExpirationTime: 100}))
	require.NoError(t, r.Put(ctx, &domain.VerificationRecord{Email: "new@x.com", ExpirationTime: 101}))

	got, err := r.QueryExpiredBefore(ctx, 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "old@x.com", got[0].Email)

	n, err := r.DeleteExpired(ctx, []string{"old@x.com", "missing@x.com"}, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, r.Len())
}

func TestVerificationRepo_DeleteExpired_SkipsReissued(t *testing.T) {
	ctx := context.Background()
	r := NewVerificationRepo()
	require.NoError(t, r.Put(ctx, &domain.VerificationRecord{Email: "a@x.com", Code: "4821", ExpirationTime: 600_000}))

	n, err := r.DeleteExpired(ctx, []string{"a@x.com"}, 10)

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, r.Len())
}
