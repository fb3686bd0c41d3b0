package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/backend/internal/types"
)

const testSecret = "test-secret"

func registerRequest(username string) *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  username,
		Password:  "s3cretpass",
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	db := testDB(t)
	auth := NewAuthService(db, testSecret)
	ctx := context.Background()

	token, err := auth.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)

	profile, err := auth.Me(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "Test", profile.FirstName)
	assert.False(t, profile.IsSubscribed)

	loginToken, err := auth.Login(ctx, "alice@example.com", "s3cretpass")
	require.NoError(t, err)
	loginClaims, err := auth.ValidateToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, loginClaims.UserID)
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	db := testDB(t)
	auth := NewAuthService(db, testSecret)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	// Same email, different username.
	dup := registerRequest("bob")
	dup.Email = "alice@example.com"
	_, err = auth.Register(ctx, dup)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	// Same username, different email.
	dup = registerRequest("alice")
	dup.Email = "alice2@example.com"
	_, err = auth.Register(ctx, dup)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestLoginBadCredentials(t *testing.T) {
	db := testDB(t)
	auth := NewAuthService(db, testSecret)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerRequest("alice"))
	require.NoError(t, err)

	_, err = auth.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsForgery(t *testing.T) {
	db := testDB(t)
	auth := NewAuthService(db, testSecret)

	token, err := auth.Register(context.Background(), registerRequest("alice"))
	require.NoError(t, err)

	_, err = auth.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// A token signed with a different secret fails verification.
	other := NewAuthService(db, "other-secret")
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
