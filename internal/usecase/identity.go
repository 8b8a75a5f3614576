package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

// ResolveIdentity maps an access token to the user it asserts. The token
// must be a valid access token and the user must still exist. Activity is
// deliberately not checked here; callers that need an active account apply
// RequireActive on top.
func (s *AuthService) ResolveIdentity(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.codec.Parse(accessToken, domain.TokenKindAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return user, nil
}

// ResolveOptionalIdentity resolves a caller when a usable token is present
// and swallows every failure, returning (nil, nil) for anonymous access.
// Unlike ResolveIdentity it also suppresses inactive accounts, so an
// optional identity is always an active one.
func (s *AuthService) ResolveOptionalIdentity(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, nil
	}

	user, err := s.ResolveIdentity(ctx, accessToken)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return nil, nil
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, nil
	}

	return user, nil
}
