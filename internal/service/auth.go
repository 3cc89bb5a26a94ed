package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/storage"
	"github.com/rryowa/taskmanager/internal/util"
)

const minPasswordLength = 8

type AuthService struct {
	tokens     *TokenService
	users      storage.UserRepository
	sessionTTL time.Duration
	bcryptCost int
	log        *zap.SugaredLogger
	now        func() time.Time
}

// AuthResult is what a successful register or login hands back to the client.
type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

func NewAuthService(
	tokens *TokenService,
	users storage.UserRepository,
	cfg util.TokenConfig,
	log *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		tokens:     tokens,
		users:      users,
		sessionTTL: cfg.SessionTTL,
		bcryptCost: cfg.BcryptCost,
		log:        log,
		now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "service.AuthService.Register"

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidArgument, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%s: hash password: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, models.User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: %w", ErrEmailTaken, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Infow("user registered", "userID", user.ID)
	return s.startSession(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "service.AuthService.Login"

	user, err := s.users.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	refreshToken, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &AuthResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// CreateSession issues a refresh token and appends it to the user's session ledger.
func (s *AuthService) CreateSession(ctx context.Context, userID string) (string, error) {
	refreshToken, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return "", fmt.Errorf("issue refresh token: %w", err)
	}

	session := models.NewSession(refreshToken, s.now(), s.sessionTTL)
	if err := s.users.AppendSession(ctx, userID, session); err != nil {
		return "", fmt.Errorf("append session: %w", err)
	}

	return refreshToken, nil
}

// VerifySession resolves the user and checks that refreshToken is one of its live sessions.
// An unknown token and an expired one are reported the same way.
func (s *AuthService) VerifySession(ctx context.Context, userID, refreshToken string) (*models.User, error) {
	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user by id: %w", err)
	}

	session, ok := user.FindSession(refreshToken)
	if !ok || !session.Active(s.now()) {
		return nil, ErrSessionExpired
	}

	return user, nil
}

func (s *AuthService) RefreshAccessToken(_ context.Context, user *models.User) (string, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}

// Logout drops the session holding refreshToken. A still valid accessToken is revoked as well;
// an empty, expired or otherwise unusable one is ignored.
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken, accessToken string) error {
	if err := s.users.RemoveSession(ctx, userID, refreshToken); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}

	if accessToken == "" {
		return nil
	}
	if err := s.tokens.RevokeAccessToken(ctx, accessToken); err != nil {
		if isTokenError(err) {
			s.log.Debugw("access token not revoked", "userID", userID, "error", err)
			return nil
		}
		return err
	}

	return nil
}

func isTokenError(err error) bool {
	return errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenMissing)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidArgument)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email %q", ErrInvalidArgument, email)
	}
	return email, nil
}
