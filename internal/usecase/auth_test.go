package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/infra/config"
	"github.com/arklim/social-platform-accounts/internal/infra/security"
)

const testSigningSecret = "unit-test-signing-secret-32-chars!!"

type authFixture struct {
	service   *AuthService
	repo      *fakeUserRepo
	publisher *capturingPublisher
	hasher    *security.BcryptHasher
	clock     *fakeClock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	clock := newFakeClock()
	codec, err := security.NewTokenCodec(testSigningSecret, clock)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}

	hasher, err := security.NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcryptHasher returned error: %v", err)
	}

	repo := newFakeUserRepo()
	publisher := &capturingPublisher{}

	service := NewAuthService(
		config.AuthSettings{
			Secret:          testSigningSecret,
			AccessTokenTTL:  30 * time.Minute,
			RefreshTokenTTL: 168 * time.Hour,
		},
		repo,
		codec,
		hasher,
		publisher,
		clock,
		zap.NewNop(),
	)

	return &authFixture{
		service:   service,
		repo:      repo,
		publisher: publisher,
		hasher:    hasher,
		clock:     clock,
	}
}

func (f *authFixture) seedUser(t *testing.T, username, password string, active, superuser bool) *domain.User {
	t.Helper()

	hash, err := f.hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	user, err := f.repo.Create(context.Background(), domain.NewUser{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsActive:     active,
		IsSuperuser:  superuser,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return user
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	seeded := f.seedUser(t, "alice", "str0ng-Passw0rd", true, false)

	pair, err := f.service.Login(context.Background(), "alice", "str0ng-Passw0rd")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if pair.ExpiresIn != int((30 * time.Minute).Seconds()) {
		t.Fatalf("unexpected expires_in: %d", pair.ExpiresIn)
	}

	stored, err := f.repo.GetByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.LastLogin == nil || !stored.LastLogin.Equal(f.clock.Now()) {
		t.Fatal("expected last login to be touched")
	}

	if len(f.publisher.loggedIn) != 1 {
		t.Fatalf("expected one logged-in event, got %d", len(f.publisher.loggedIn))
	}
	if f.publisher.loggedIn[0].Username != "alice" {
		t.Fatalf("unexpected event username: %s", f.publisher.loggedIn[0].Username)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "alice", "str0ng-Passw0rd", true, false)
	f.seedUser(t, "mallory", "an0ther-Passw0rd", false, false)

	cases := map[string]struct {
		username string
		password string
	}{
		"unknown user":     {username: "ghost", password: "whatever"},
		"wrong password":   {username: "alice", password: "wrong"},
		"inactive account": {username: "mallory", password: "an0ther-Passw0rd"},
		"empty password":   {username: "alice", password: ""},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := f.service.Login(context.Background(), tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLoginFailureDoesNotTouchLastLogin(t *testing.T) {
	f := newAuthFixture(t)
	seeded := f.seedUser(t, "alice", "str0ng-Passw0rd", true, false)

	if _, err := f.service.Login(context.Background(), "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	stored, err := f.repo.GetByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.LastLogin != nil {
		t.Fatal("expected last login to remain unset")
	}
}

func TestRefreshIssuesNewPair(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "alice", "str0ng-Passw0rd", true, false)

	pair, err := f.service.Login(context.Background(), "alice", "str0ng-Passw0rd")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	f.clock.Advance(time.Minute)

	refreshed, err := f.service.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Fatal("expected a complete token pair")
	}
	if refreshed.AccessToken == pair.AccessToken {
		t.Fatal("expected a new access token")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "alice", "str0ng-Passw0rd", true, false)

	pair, err := f.service.Login(context.Background(), "alice", "str0ng-Passw0rd")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	_, err = f.service.Refresh(context.Background(), pair.AccessToken)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if !errors.Is(err, security.ErrTokenTypeMismatch) {
		t.Fatalf("expected wrapped ErrTokenTypeMismatch, got %v", err)
	}
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "alice", "str0ng-Passw0rd", true, false)

	pair, err := f.service.Login(context.Background(), "alice", "str0ng-Passw0rd")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	f.clock.Advance(168*time.Hour + time.Second)

	_, err = f.service.Refresh(context.Background(), pair.RefreshToken)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if !errors.Is(err, security.ErrTokenExpired) {
		t.Fatalf("expected wrapped ErrTokenExpired, got %v", err)
	}
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	f := newAuthFixture(t)
	seeded := f.seedUser(t, "alice", "str0ng-Passw0rd", true, false)

	pair, err := f.service.Login(context.Background(), "alice", "str0ng-Passw0rd")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	inactive := false
	if _, err := f.repo.Update(context.Background(), seeded.ID, domain.UserUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if _, err := f.service.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestResolveIdentityDoesNotCheckActivity(t *testing.T) {
	f := newAuthFixture(t)
	seeded := f.seedUser(t, "alice", "str0ng-Passw0rd", true, false)

	pair, err := f.service.Login(context.Background(), "alice", "str0ng-Passw0rd")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	inactive := false
	if _, err := f.repo.Update(context.Background(), seeded.ID, domain.UserUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	user, err := f.service.ResolveIdentity(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("ResolveIdentity returned error: %v", err)
	}
	if user.IsActive {
		t.Fatal("expected resolved user to be inactive")
	}
}

func TestResolveIdentityFailures(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "alice", "str0ng-Passw0rd", true, false)

	pair, err := f.service.Login(context.Background(), "alice", "str0ng-Passw0rd")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if _, err := f.service.ResolveIdentity(context.Background(), "garbage"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for garbage token, got %v", err)
	}

	// A refresh token must not grant access.
	_, err = f.service.ResolveIdentity(context.Background(), pair.RefreshToken)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for refresh token, got %v", err)
	}
	if !errors.Is(err, security.ErrTokenTypeMismatch) {
		t.Fatalf("expected wrapped ErrTokenTypeMismatch, got %v", err)
	}

	f.clock.Advance(31 * time.Minute)
	_, err = f.service.ResolveIdentity(context.Background(), pair.AccessToken)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for expired token, got %v", err)
	}
	if !errors.Is(err, security.ErrTokenExpired) {
		t.Fatalf("expected wrapped ErrTokenExpired, got %v", err)
	}
}

func TestResolveOptionalIdentity(t *testing.T) {
	f := newAuthFixture(t)
	seeded := f.seedUser(t, "alice", "str0ng-Passw0rd", true, false)

	pair, err := f.service.Login(context.Background(), "alice", "str0ng-Passw0rd")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	user, err := f.service.ResolveOptionalIdentity(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("ResolveOptionalIdentity returned error: %v", err)
	}
	if user == nil || user.Username != "alice" {
		t.Fatal("expected resolved user for valid token")
	}

	user, err = f.service.ResolveOptionalIdentity(context.Background(), "")
	if err != nil || user != nil {
		t.Fatalf("expected anonymous result for missing token, got %v / %v", user, err)
	}

	user, err = f.service.ResolveOptionalIdentity(context.Background(), "garbage")
	if err != nil || user != nil {
		t.Fatalf("expected anonymous result for garbage token, got %v / %v", user, err)
	}

	// Optional resolution suppresses inactive accounts entirely.
	inactive := false
	if _, err := f.repo.Update(context.Background(), seeded.ID, domain.UserUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	user, err = f.service.ResolveOptionalIdentity(context.Background(), pair.AccessToken)
	if err != nil || user != nil {
		t.Fatalf("expected anonymous result for inactive account, got %v / %v", user, err)
	}
}
