package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yourorg/rentledger/internal/domain"
	"github.com/yourorg/rentledger/internal/security/auth"
	"github.com/yourorg/rentledger/internal/validation"
)

func newAuthService() (*AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	tokens := auth.NewTokenManager("test-secret", "rentledger-test")
	return NewAuthService(repo, tokens, nil), repo
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	refID := int64(4)
	user, err := svc.Signup(ctx, "olive", "correct-horse", domain.RoleOwner, &refID)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected assigned user id")
	}
	if user.PasswordHash == "correct-horse" {
		t.Error("password stored in the clear")
	}

	result, err := svc.Login(ctx, "olive", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" || result.TokenType != "Bearer" {
		t.Errorf("unexpected login result: %+v", result)
	}
	if result.Role != "owner" || result.RefID == nil || *result.RefID != 4 {
		t.Errorf("role or ref id lost: %+v", result)
	}
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "olive", "correct-horse", domain.RoleOwner, nil); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	_, err := svc.Signup(ctx, "olive", "other-password", domain.RoleTenant, nil)
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
		role     domain.Role
		field    string
	}{
		{"blank username", "   ", "correct-horse", domain.RoleAdmin, "username"},
		{"short password", "olive", "short", domain.RoleAdmin, "password"},
		{"unknown role", "olive", "correct-horse", domain.Role("landgrabber"), "role"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, c.username, c.password, c.role, nil)
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != c.field {
				t.Errorf("error field = %q, want %q", verr.Field, c.field)
			}
		})
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "olive", "correct-horse", domain.RoleOwner, nil); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	_, unknownErr := svc.Login(ctx, "nobody", "correct-horse")
	_, wrongErr := svc.Login(ctx, "olive", "wrong-password")

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Errorf("unknown username: got %v", unknownErr)
	}
	if !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", wrongErr)
	}
	// The two failure modes must not be tellable apart by message.
	if unknownErr.Error() != wrongErr.Error() {
		t.Error("login failures leak which part was wrong")
	}
}

func TestLoginTokenCarriesActor(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "root", "correct-horse", domain.RoleAdmin, nil); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	result, err := svc.Login(ctx, "root", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := auth.NewTokenManager("test-secret", "rentledger-test").ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("token did not validate: %v", err)
	}
	actor := claims.Actor()
	if actor.Username != "root" || actor.Role != domain.RoleAdmin {
		t.Errorf("token actor mismatch: %+v", actor)
	}
	if !strings.HasPrefix(result.Token, "ey") {
		t.Errorf("token does not look like a JWT: %q", result.Token[:10])
	}
}
