package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/config"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

// CreateUserInput carries the fields accepted at administrative creation.
type CreateUserInput struct {
	Username    string
	Email       string
	Password    string
	FullName    *string
	Avatar      *string
	Bio         *string
	IsActive    *bool
	IsSuperuser bool
}

// UpdateUserInput captures a partial administrative or profile update. A
// nil field is left untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	FullName *string
	Avatar   *string
	Bio      *string
	IsActive *bool
}

// UserService implements account administration and profile management.
type UserService struct {
	pagination config.PaginationSettings
	users      port.UserRepository
	hasher     port.PasswordHasher
	passwords  port.PasswordPolicyValidator
	publisher  port.EventPublisher
	clock      port.Clock
	logger     *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(
	pagination config.PaginationSettings,
	users port.UserRepository,
	hasher port.PasswordHasher,
	passwords port.PasswordPolicyValidator,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *zap.Logger,
) *UserService {
	if clock == nil {
		clock = port.SystemClock()
	}
	return &UserService{
		pagination: pagination,
		users:      users,
		hasher:     hasher,
		passwords:  passwords,
		publisher:  publisher,
		clock:      clock,
		logger:     logger,
	}
}

// List returns a page of users. Negative offsets are clamped to zero and
// the limit is clamped into [1, max], defaulting when unset.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = s.pagination.DefaultPageSize
	}
	if limit > s.pagination.MaxPageSize {
		limit = s.pagination.MaxPageSize
	}

	users, err := s.users.List(ctx, port.UserFilter{Limit: limit, Offset: skip})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// Get retrieves a single user by identifier.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Create provisions an account on behalf of an administrator.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
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

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	user, err := s.users.Create(ctx, domain.NewUser{
		Username:     input.Username,
		Email:        input.Email,
		FullName:     input.FullName,
		Avatar:       input.Avatar,
		Bio:          input.Bio,
		PasswordHash: hash,
		IsActive:     active,
		IsSuperuser:  input.IsSuperuser,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) || errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", zap.Int64("user_id", user.ID))

	return user, nil
}

// Update applies a partial update to the identified user. Username and
// email changes are rejected when another account already holds the value.
func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if input.Password != nil && s.passwords != nil {
		username := current.Username
		if input.Username != nil {
			username = *input.Username
		}
		email := current.Email
		if input.Email != nil {
			email = *input.Email
		}
		if err := s.passwords.Validate(*input.Password, username, email); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPasswordPolicyViolation, err)
		}
	}

	if input.Username != nil {
		existing, err := s.users.GetByUsername(ctx, *input.Username)
		if err == nil && existing.ID != id {
			return nil, repository.ErrDuplicateUsername
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("check username: %w", err)
		}
	}

	if input.Email != nil {
		existing, err := s.users.GetByEmail(ctx, *input.Email)
		if err == nil && existing.ID != id {
			return nil, repository.ErrDuplicateEmail
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
	}

	update := domain.UserUpdate{
		Username: input.Username,
		Email:    input.Email,
		FullName: input.FullName,
		Avatar:   input.Avatar,
		Bio:      input.Bio,
		IsActive: input.IsActive,
	}

	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		update.PasswordHash = &hash
	}

	user, err := s.users.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) ||
			errors.Is(err, repository.ErrDuplicateUsername) ||
			errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("user updated", zap.Int64("user_id", user.ID))

	return user, nil
}

// Delete removes the identified user permanently.
func (s *UserService) Delete(ctx context.Context, id int64, deletedBy string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("get user: %w", err)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if s.publisher != nil {
		event := domain.UserDeletedEvent{
			UserID:    user.ID,
			Username:  user.Username,
			DeletedAt: s.clock.Now().UTC(),
			DeletedBy: deletedBy,
		}
		if err := s.publisher.PublishUserDeleted(ctx, event); err != nil {
			s.logger.Warn("publish user deleted event failed",
				zap.Int64("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("user deleted", zap.Int64("user_id", id))

	return nil
}
