package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

// fakeUserRepo is an in-memory port.UserRepository for service tests.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.NewUser) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return nil, repository.ErrDuplicateUsername
		}
		if existing.Email == user.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}

	now := time.Now().UTC()
	stored := &domain.User{
		ID:           r.nextID,
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		Avatar:       user.Avatar,
		Bio:          user.Bio,
		PasswordHash: user.PasswordHash,
		IsActive:     user.IsActive,
		IsSuperuser:  user.IsSuperuser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[stored.ID] = stored
	r.nextID++

	clone := *stored
	return &clone, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, id int64, update domain.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.FullName != nil {
		user.FullName = update.FullName
	}
	if update.Avatar != nil {
		user.Avatar = update.Avatar
	}
	if update.Bio != nil {
		user.Bio = update.Bio
	}
	if update.PasswordHash != nil {
		user.PasswordHash = *update.PasswordHash
	}
	if update.IsActive != nil {
		user.IsActive = *update.IsActive
	}
	user.UpdatedAt = time.Now().UTC()

	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	stamp := at.UTC()
	user.LastLogin = &stamp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filter port.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]domain.User, 0, len(r.users))
	for id := int64(1); id < r.nextID; id++ {
		user, ok := r.users[id]
		if !ok {
			continue
		}
		if filter.IsActive != nil && user.IsActive != *filter.IsActive {
			continue
		}
		users = append(users, *user)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(users) {
			return []domain.User{}, nil
		}
		users = users[filter.Offset:]
	}
	if filter.Limit > 0 && len(users) > filter.Limit {
		users = users[:filter.Limit]
	}

	return users, nil
}

func (r *fakeUserRepo) Count(_ context.Context, filter port.UserFilter) (int, error) {
	users, err := r.List(context.Background(), port.UserFilter{IsActive: filter.IsActive})
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

var _ port.UserRepository = (*fakeUserRepo)(nil)

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	mu         sync.Mutex
	registered []domain.UserRegisteredEvent
	loggedIn   []domain.UserLoggedInEvent
	deleted    []domain.UserDeletedEvent
}

func (p *capturingPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, event)
	return nil
}

func (p *capturingPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loggedIn = append(p.loggedIn, event)
	return nil
}

func (p *capturingPublisher) PublishUserDeleted(_ context.Context, event domain.UserDeletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, event)
	return nil
}

var _ port.EventPublisher = (*capturingPublisher)(nil)
