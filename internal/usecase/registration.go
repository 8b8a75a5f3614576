package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

// ErrPasswordPolicyViolation indicates the chosen password fails the
// strength policy. The wrapped error carries the specific violation.
var ErrPasswordPolicyViolation = errors.New("password does not meet policy")

// RegisterInput carries the fields accepted at self-service registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName *string
	Avatar   *string
	Bio      *string
}

// RegistrationService handles self-service account creation. New accounts
// start active and without superuser rights.
type RegistrationService struct {
	users     port.UserRepository
	hasher    port.PasswordHasher
	passwords port.PasswordPolicyValidator
	publisher port.EventPublisher
	clock     port.Clock
	logger    *zap.Logger
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(
	users port.UserRepository,
	hasher port.PasswordHasher,
	passwords port.PasswordPolicyValidator,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *zap.Logger,
) *RegistrationService {
	if clock == nil {
		clock = port.SystemClock()
	}
	return &RegistrationService{
		users:     users,
		hasher:    hasher,
		passwords: passwords,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Register creates a new account. Username and email must both be unused.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if s.passwords != nil {
		if err := s.passwords.Validate(input.Password, input.Username, input.Email); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPasswordPolicyViolation, err)
		}
	}

	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, repository.ErrDuplicateUsername
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, repository.ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.NewUser{
		Username:     input.Username,
		Email:        input.Email,
		FullName:     input.FullName,
		Avatar:       input.Avatar,
		Bio:          input.Bio,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		// The pre-checks race with concurrent registrations; the constraint
		// is the source of truth.
		if errors.Is(err, repository.ErrDuplicateUsername) || errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.publisher != nil {
		event := domain.UserRegisteredEvent{
			UserID:       user.ID,
			Username:     user.Username,
			Email:        user.Email,
			RegisteredAt: s.clock.Now().UTC(),
		}
		if err := s.publisher.PublishUserRegistered(ctx, event); err != nil {
			s.logger.Warn("publish user registered event failed",
				zap.Int64("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))

	return user, nil
}
