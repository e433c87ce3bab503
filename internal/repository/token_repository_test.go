package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PJH6029/waffle-assignment-2/internal/utils"
)

func TestRefreshTokenLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	tokens := NewTokenRepo(db)
	uid := createParticipant(t, db, "token_user", true)

	hash := utils.HashRefreshRaw("raw-token-1")
	exp := time.Now().UTC().Add(24 * time.Hour)
	require.NoError(t, tokens.StoreRefresh(ctx, uid, hash, exp))

	got, err := tokens.ValidateRefresh(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, uid, got)

	require.NoError(t, tokens.RevokeByHash(ctx, hash))
	_, err = tokens.ValidateRefresh(ctx, hash)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRefreshTokenExpired(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	tokens := NewTokenRepo(db)
	uid := createParticipant(t, db, "token_exp_user", true)

	hash := utils.HashRefreshRaw("raw-token-expired")
	require.NoError(t, tokens.StoreRefresh(ctx, uid, hash, time.Now().UTC().Add(-time.Minute)))

	_, err := tokens.ValidateRefresh(ctx, hash)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRevokeAllForUser(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	tokens := NewTokenRepo(db)
	uid := createParticipant(t, db, "token_all_user", true)
	other := createParticipant(t, db, "token_other_user", true)

	exp := time.Now().UTC().Add(24 * time.Hour)
	h1 := utils.HashRefreshRaw("all-1")
	h2 := utils.HashRefreshRaw("all-2")
	hOther := utils.HashRefreshRaw("other-1")
	require.NoError(t, tokens.StoreRefresh(ctx, uid, h1, exp))
	require.NoError(t, tokens.StoreRefresh(ctx, uid, h2, exp))
	require.NoError(t, tokens.StoreRefresh(ctx, other, hOther, exp))

	require.NoError(t, tokens.RevokeAllForUser(ctx, uid))

	_, err := tokens.ValidateRefresh(ctx, h1)
	require.ErrorIs(t, err, sql.ErrNoRows)
	_, err = tokens.ValidateRefresh(ctx, h2)
	require.ErrorIs(t, err, sql.ErrNoRows)

	// Other users' sessions survive.
	got, err := tokens.ValidateRefresh(ctx, hOther)
	require.NoError(t, err)
	require.Equal(t, other, got)
}
