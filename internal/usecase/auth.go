package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/config"
	"github.com/arklim/social-platform-accounts/internal/infra/security"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided username or password are
	// incorrect, or a refresh token failed validation. Lookup failures and
	// password mismatches collapse into this one error so responses never
	// reveal whether a username exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates a missing or unusable access token.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrInactiveAccount indicates the account is disabled.
	ErrInactiveAccount = errors.New("account is not active")
	// ErrInsufficientPrivilege indicates the caller lacks superuser rights.
	ErrInsufficientPrivilege = errors.New("insufficient privilege")
)

// AuthService coordinates login, token refresh, and logout flows.
type AuthService struct {
	auth      config.AuthSettings
	users     port.UserRepository
	codec     *security.TokenCodec
	hasher    port.PasswordHasher
	publisher port.EventPublisher
	clock     port.Clock
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	auth config.AuthSettings,
	users port.UserRepository,
	codec *security.TokenCodec,
	hasher port.PasswordHasher,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *zap.Logger,
) *AuthService {
	if clock == nil {
		clock = port.SystemClock()
	}
	return &AuthService{
		auth:      auth,
		users:     users,
		codec:     codec,
		hasher:    hasher,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Login validates credentials and issues a fresh token pair. The last_login
// timestamp is updated before issuance.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	now := s.clock.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("touch last login: %w", err)
	}

	pair, err := s.issuePair(user.Username)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.UserLoggedInEvent{
			UserID:     user.ID,
			Username:   user.Username,
			LoggedInAt: now,
		}
		if err := s.publisher.PublishUserLoggedIn(ctx, event); err != nil {
			s.logger.Warn("publish user logged in event failed",
				zap.Int64("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))

	return pair, nil
}

// Refresh validates a refresh token and issues a new pair. The presented
// refresh token stays valid until its own expiry; there is no server-side
// invalidation of previously issued tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.codec.Parse(refreshToken, domain.TokenKindRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	user, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tokens refreshed", zap.Int64("user_id", user.ID))

	return pair, nil
}

// Logout acknowledges the client's intent to end the session. Tokens are
// stateless, so nothing is invalidated server-side. The endpoint requires
// no authentication and always succeeds.
func (s *AuthService) Logout(_ context.Context) {
	s.logger.Info("user logged out")
}

func (s *AuthService) issuePair(username string) (*domain.TokenPair, error) {
	access, err := s.codec.Issue(username, domain.TokenKindAccess, s.auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.codec.Issue(username, domain.TokenKindRefresh, s.auth.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.auth.AccessTokenTTL.Seconds()),
	}, nil
}
