package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// UserFilter narrows list and count queries.
type UserFilter struct {
	IsActive *bool
	Limit    int
	Offset   int
}

// UserRepository exposes persistence behavior for users. Implementations
// return repository.ErrNotFound for missing rows and
// repository.ErrDuplicateUsername / repository.ErrDuplicateEmail when a
// unique constraint is violated.
type UserRepository interface {
	Create(ctx context.Context, user domain.NewUser) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id int64, update domain.UserUpdate) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int, error)
}
