package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/auth/store"
	platformerrors "github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/logging"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := storage.Migrate(db, &User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger, err := logging.New(logging.Config{Level: "error"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	sessions := store.NewMemory(store.Config{TTL: time.Hour})
	t.Cleanup(func() {
		_ = sessions.Close(context.Background())
	})

	tokens := NewTokenManager("test-secret").WithTTL(time.Hour)
	return NewService(db, tokens, sessions, logger)
}

func TestRegisterIssuesValidCredential(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	token, identity, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}
	if identity.Name != "alice" || identity.Email != "alice@example.com" {
		t.Errorf("unexpected identity: %+v", identity)
	}

	claims, err := svc.Validate(ctx, token)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if claims.UserID != identity.ID || claims.Email != identity.Email {
		t.Errorf("claims do not match identity: %+v vs %+v", claims, identity)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	_, _, err := svc.Register(ctx, "other", "alice@example.com", "different")
	if err == nil {
		t.Fatal("expected duplicate email error")
	}
	if !platformerrors.IsKind(err, platformerrors.KindValidation) {
		t.Errorf("error kind = %v, want validation", err)
	}
}

func TestRegisterRequiresAllFields(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Register(context.Background(), "", "a@b.c", "pw")
	if !platformerrors.IsKind(err, platformerrors.KindValidation) {
		t.Errorf("error kind = %v, want validation", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, _, err := svc.Login(ctx, "alice@example.com", "wrong")
	if !platformerrors.IsKind(err, platformerrors.KindAuth) {
		t.Errorf("error kind = %v, want auth", err)
	}

	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	if !platformerrors.IsKind(err, platformerrors.KindAuth) {
		t.Errorf("unknown email error kind = %v, want auth", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, registered, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	token, identity, err := svc.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if identity != registered {
		t.Errorf("login identity %+v differs from registration %+v", identity, registered)
	}
	if _, err := svc.Validate(ctx, token); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "not-a-jwt"},
		{"wrong secret", func() string {
			other := NewTokenManager("other-secret")
			tok, _, _ := other.Issue(Identity{ID: 1, Name: "x", Email: "x@y.z"})
			return tok
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(ctx, tt.token)
			if !platformerrors.IsKind(err, platformerrors.KindAuth) {
				t.Errorf("error kind = %v, want auth", err)
			}
		})
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := storage.Migrate(db, &User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	logger, err := logging.New(logging.Config{Level: "error"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	sessions := store.NewMemory(store.Config{TTL: time.Hour})
	t.Cleanup(func() {
		_ = sessions.Close(context.Background())
	})

	tokens := NewTokenManager("test-secret").WithTTL(time.Millisecond)
	svc := NewService(db, tokens, sessions, logger)

	token, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := svc.Validate(context.Background(), token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	token, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	// Token still carries a valid signature but the session is gone.
	_, err = svc.Validate(ctx, token)
	if !platformerrors.IsKind(err, platformerrors.KindAuth) {
		t.Errorf("post-logout Validate error kind = %v, want auth", err)
	}

	// Logging out twice is harmless.
	if err := svc.Logout(ctx, token); err != nil {
		t.Errorf("second Logout error: %v", err)
	}
}
