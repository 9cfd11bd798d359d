package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"familyhub/internal/models"
	"familyhub/internal/security"
	"familyhub/internal/testutil"
)

func TestSignupAndLogin(t *testing.T) {
	s := newTestServices(t, 0)
	ctx := context.Background()

	first, err := s.auth.Signup(ctx, registration("first@x.com"))
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if !first.IsAdmin {
		t.Error("first account should be an administrator")
	}
	second, err := s.auth.Signup(ctx, registration("second@x.com"))
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if second.IsAdmin {
		t.Error("second account should not be an administrator")
	}
	if _, err := s.auth.Signup(ctx, registration("FIRST@x.com")); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate Signup() error = %v, want ErrEmailTaken", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "first@x.com", "correct-horse", nil},
		{"email case", " First@X.com ", "correct-horse", nil},
		{"wrong password", "first@x.com", "battery-staple", ErrInvalidCredentials},
		{"unknown email", "nobody@x.com", "correct-horse", ErrInvalidCredentials},
		{"empty", "", "", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _, user, err := s.auth.Login(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if user.ID != first.ID {
				t.Errorf("Login() user = %d, want %d", user.ID, first.ID)
			}

			id, err := s.auth.ResolveToken(ctx, token)
			if err != nil {
				t.Fatalf("ResolveToken() error = %v", err)
			}
			if id.UserID != first.ID || !id.IsAdmin || id.Persona != models.PersonaParent {
				t.Errorf("ResolveToken() = %+v", id)
			}
		})
	}
}

func TestConcurrentFirstSignup(t *testing.T) {
	s := newTestServices(t, 0)
	ctx := context.Background()

	const attempts = 8
	var admins, failures int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := s.auth.Signup(ctx, registration(fmt.Sprintf("founder%d@x.com", i)))
			if err != nil {
				atomic.AddInt32(&failures, 1)
				t.Errorf("Signup() error = %v", err)
				return
			}
			if user.IsAdmin {
				atomic.AddInt32(&admins, 1)
			}
		}(i)
	}
	wg.Wait()

	if admins != 1 {
		t.Errorf("administrators = %d, want exactly 1", admins)
	}
	if n := testutil.Count(t, s.db, "users", "is_admin = ?", true); n != 1 {
		t.Errorf("stored administrators = %d, want 1", n)
	}
	if n := testutil.Count(t, s.db, "users", ""); n != attempts-int(failures) {
		t.Errorf("users = %d, want %d", n, attempts-int(failures))
	}
}

func TestInviteOnlySignup(t *testing.T) {
	s := newTestServices(t, 0)
	ctx := context.Background()

	admin, err := s.auth.Signup(ctx, registration("admin@x.com"))
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	member, err := s.auth.Signup(ctx, registration("member@x.com"))
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if err := s.auth.SetInviteOnly(ctx, member.Identity(), true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("SetInviteOnly() by member error = %v, want ErrForbidden", err)
	}
	if err := s.auth.SetInviteOnly(ctx, admin.Identity(), true); err != nil {
		t.Fatalf("SetInviteOnly() error = %v", err)
	}
	if _, err := s.auth.Signup(ctx, registration("late@x.com")); !errors.Is(err, ErrSignupClosed) {
		t.Errorf("Signup() while invite-only error = %v, want ErrSignupClosed", err)
	}

	// Invites still work
	family, err := s.families.CreateFamily(ctx, admin.Identity(), "Admins")
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}
	invite, err := s.invites.CreateInvite(ctx, family.ID, &admin.ID)
	if err != nil {
		t.Fatalf("CreateInvite() error = %v", err)
	}
	if _, err := s.invites.RegisterWithInvite(ctx, registration("late@x.com"), invite.InviteToken); err != nil {
		t.Errorf("RegisterWithInvite() while invite-only error = %v", err)
	}

	if err := s.auth.SetInviteOnly(ctx, admin.Identity(), false); err != nil {
		t.Fatalf("SetInviteOnly(false) error = %v", err)
	}
	if _, err := s.auth.Signup(ctx, registration("open@x.com")); err != nil {
		t.Errorf("Signup() after reopening error = %v", err)
	}
}

func TestResolveTokenReflectsCurrentState(t *testing.T) {
	s := newTestServices(t, 0)
	ctx := context.Background()

	user, err := s.auth.Signup(ctx, registration("member@x.com"))
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	token, _, err := s.auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	family, err := s.families.CreateFamily(ctx, user.Identity(), "Fresh")
	if err != nil {
		t.Fatalf("CreateFamily() error = %v", err)
	}

	id, err := s.auth.ResolveToken(ctx, token)
	if err != nil {
		t.Fatalf("ResolveToken() error = %v", err)
	}
	if id.FamilyID != family.ID {
		t.Errorf("ResolveToken() family = %d, want %d", id.FamilyID, family.ID)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", user.ID); err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}
	if _, err := s.auth.ResolveToken(ctx, token); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("ResolveToken() for deleted user error = %v, want ErrUserNotFound", err)
	}
	if _, err := s.auth.ResolveToken(ctx, "garbage"); !errors.Is(err, security.ErrInvalidToken) {
		t.Errorf("ResolveToken(garbage) error = %v, want ErrInvalidToken", err)
	}
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{security.ErrInvalidToken, true},
		{ErrUserNotFound, true},
		{ErrInvalidCredentials, true},
		{ErrForbidden, false},
		{errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := IsAuthError(tt.err); got != tt.want {
			t.Errorf("IsAuthError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
