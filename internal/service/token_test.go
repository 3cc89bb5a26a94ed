package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenLifetime(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	token, err := s.tokens.IssueAccessToken("user-1")
	require.NoError(t, err)

	userID, err := s.tokens.ValidateAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	s.clock.Advance(15*time.Minute - time.Second)
	_, err = s.tokens.ValidateAccessToken(ctx, token)
	require.NoError(t, err)

	s.clock.Advance(time.Second)
	_, err = s.tokens.ValidateAccessToken(ctx, token)
	require.ErrorIs(t, err, ErrTokenExpired)

	s.clock.Advance(time.Hour)
	_, err = s.tokens.ValidateAccessToken(ctx, token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateAccessTokenRejects(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	refresh, err := s.tokens.IssueRefreshToken("user-1")
	require.NoError(t, err)

	other := NewTokenService(testTokenConfig(), s.revoked)
	other.jwtSecretKey = []byte("another-secret")
	other.now = s.clock.Now
	foreign, err := other.IssueAccessToken("user-1")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"_id":     "user-1",
		"purpose": PurposeAccess,
		"exp":     s.clock.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: "", want: ErrTokenMissing},
		{name: "garbage", token: "not-a-jwt", want: ErrTokenMalformed},
		{name: "refresh token", token: refresh, want: ErrTokenInvalid},
		{name: "wrong secret", token: foreign, want: ErrTokenInvalid},
		{name: "alg none", token: none, want: ErrTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.tokens.ValidateAccessToken(ctx, tt.token)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRefreshTokensAreDistinct(t *testing.T) {
	s := newTestServices(t)

	a, err := s.tokens.IssueRefreshToken("user-1")
	require.NoError(t, err)
	b, err := s.tokens.IssueRefreshToken("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestRevokeAccessToken(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)

	token, err := s.tokens.IssueAccessToken("user-1")
	require.NoError(t, err)

	require.NoError(t, s.tokens.RevokeAccessToken(ctx, token))

	_, err = s.tokens.ValidateAccessToken(ctx, token)
	require.ErrorIs(t, err, ErrTokenRevoked)

	fresh, err := s.tokens.IssueAccessToken("user-1")
	require.NoError(t, err)
	_, err = s.tokens.ValidateAccessToken(ctx, fresh)
	require.NoError(t, err)
}

func TestAccessTokenExpiryIsWholeTTLAfterIssue(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	s.clock.Advance(900 * time.Millisecond)

	token, err := s.tokens.IssueAccessToken("user-1")
	require.NoError(t, err)

	claims := &jwtClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	issuedSecond := s.clock.Now().Truncate(time.Second)
	assert.Equal(t, issuedSecond, claims.IssuedAt.Time.UTC())

	s.clock.Advance(15*time.Minute - time.Second)
	_, err = s.tokens.ValidateAccessToken(ctx, token)
	require.NoError(t, err)

	s.clock.now = issuedSecond.Add(15 * time.Minute)
	_, err = s.tokens.ValidateAccessToken(ctx, token)
	require.ErrorIs(t, err, ErrTokenExpired)
}
