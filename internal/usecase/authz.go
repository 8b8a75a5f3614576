package usecase

import "github.com/arklim/social-platform-accounts/internal/core/domain"

// RequireActive gates endpoints on an enabled account.
func RequireActive(user *domain.User) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if !user.IsActive {
		return ErrInactiveAccount
	}
	return nil
}

// RequireSuperuser gates endpoints on the superuser flag. It does not imply
// RequireActive; the two checks are applied independently by callers.
func RequireSuperuser(user *domain.User) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if !user.IsSuperuser {
		return ErrInsufficientPrivilege
	}
	return nil
}
