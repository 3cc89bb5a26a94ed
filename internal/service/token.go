package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rryowa/taskmanager/internal/storage"
	"github.com/rryowa/taskmanager/internal/util"
)

const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
)

type TokenService struct {
	jwtSecretKey []byte
	accessTTL    time.Duration
	tokenStorage storage.TokenStorage
	now          func() time.Time
}

func NewTokenService(cfg util.TokenConfig, tokenStorage storage.TokenStorage) *TokenService {
	return &TokenService{
		jwtSecretKey: cfg.JwtSecretKey(),
		accessTTL:    cfg.AccessTTL,
		tokenStorage: tokenStorage,
		now:          time.Now,
	}
}

type jwtClaims struct {
	UserID  string `json:"_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs {userID, purpose: access} valid for the configured access TTL.
// Claims carry whole seconds, so iat is truncated first and exp - iat equals the TTL.
func (ts *TokenService) IssueAccessToken(userID string) (string, error) {
	now := ts.now().Truncate(time.Second)
	return ts.sign(&jwtClaims{
		UserID:  userID,
		Purpose: PurposeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTTL)),
		},
	})
}

// IssueRefreshToken signs {userID, purpose: refresh} without an expiry; the session
// record that stores the token carries it instead. The jti keeps every token distinct.
func (ts *TokenService) IssueRefreshToken(userID string) (string, error) {
	return ts.sign(&jwtClaims{
		UserID:  userID,
		Purpose: PurposeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(ts.now()),
		},
	})
}

func (ts *TokenService) sign(claims *jwtClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signedToken, err := token.SignedString(ts.jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("signed string: %w", err)
	}
	return signedToken, nil
}

// ValidateAccessToken checks signature, expiry, purpose and the revocation list,
// and returns the subject user id.
func (ts *TokenService) ValidateAccessToken(ctx context.Context, token string) (string, error) {
	claims, err := ts.parseAccessToken(token)
	if err != nil {
		return "", err
	}

	isInvalidated, err := ts.tokenStorage.IsTokenInvalidated(ctx, token)
	if err != nil {
		return "", fmt.Errorf("is token invalidated: %w", err)
	}
	if isInvalidated {
		return "", ErrTokenRevoked
	}

	return claims.UserID, nil
}

// RevokeAccessToken keeps token on the revocation list until it expires.
func (ts *TokenService) RevokeAccessToken(ctx context.Context, token string) error {
	claims, err := ts.parseAccessToken(token)
	if err != nil {
		return err
	}

	expiration := claims.ExpiresAt.Time.Sub(ts.now())
	if err := ts.tokenStorage.InvalidateToken(ctx, token, expiration); err != nil {
		return fmt.Errorf("invalidate token: %w", err)
	}
	return nil
}

func (ts *TokenService) parseAccessToken(token string) (*jwtClaims, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	parsedToken, err := jwt.ParseWithClaims(
		token,
		&jwtClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
				return nil, ErrInvalidSigningMethod
			}
			return ts.jwtSecretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
		}
	}

	claims, ok := parsedToken.Claims.(*jwtClaims)
	if !ok || !parsedToken.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	if claims.Purpose != PurposeAccess {
		return nil, fmt.Errorf("%w: purpose %q", ErrTokenInvalid, claims.Purpose)
	}

	return claims, nil
}
