package usecase

import (
	"errors"
	"testing"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

func TestRequireActive(t *testing.T) {
	if err := RequireActive(&domain.User{IsActive: true}); err != nil {
		t.Fatalf("expected nil for active user, got %v", err)
	}
	if err := RequireActive(&domain.User{IsActive: false}); !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
	if err := RequireActive(nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for nil user, got %v", err)
	}
}

func TestRequireSuperuser(t *testing.T) {
	if err := RequireSuperuser(&domain.User{IsSuperuser: true}); err != nil {
		t.Fatalf("expected nil for superuser, got %v", err)
	}
	if err := RequireSuperuser(&domain.User{IsSuperuser: false}); !errors.Is(err, ErrInsufficientPrivilege) {
		t.Fatalf("expected ErrInsufficientPrivilege, got %v", err)
	}
	if err := RequireSuperuser(nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for nil user, got %v", err)
	}
}

// An inactive superuser still passes the superuser gate; the two checks are
// applied independently by the transport layer.
func TestRequireSuperuserIgnoresActivity(t *testing.T) {
	user := &domain.User{IsActive: false, IsSuperuser: true}

	if err := RequireSuperuser(user); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := RequireActive(user); !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
}
