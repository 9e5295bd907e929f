package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domainauth "trailblaze/internal/domain/auth"
	domainuser "trailblaze/internal/domain/user"
)

func newUser(t *testing.T, username, email string) *domainuser.User {
	t.Helper()
	u, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("build user: %v", err)
	}
	return u
}

func TestUserRepository_UsernameUniquenessIsCaseInsensitive(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	if err := repo.Save(ctx, newUser(t, "Frida", "frida@example.com")); err != nil {
		t.Fatalf("first save: %v", err)
	}

	err := repo.Save(ctx, newUser(t, "frida", "other@example.com"))
	if !errors.Is(err, domainuser.ErrUsernameAlreadyUsed) {
		t.Fatalf("expected ErrUsernameAlreadyUsed, got %v", err)
	}
	err = repo.Save(ctx, newUser(t, "someone", "FRIDA@example.com"))
	if !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
	}
}

func TestUserRepository_ResavingSameUserIsAllowed(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	u := newUser(t, "frida", "frida@example.com")
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("save: %v", err)
	}
	u.PasswordHash = "rotated"
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("resave of the same user rejected: %v", err)
	}
}

func TestUserRepository_ByUsernameIgnoresCase(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	u := newUser(t, "Frida", "frida@example.com")
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("save: %v", err)
	}
	found, err := repo.ByUsername(ctx, "fRiDa")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found.ID != u.ID {
		t.Fatal("lookup resolved the wrong user")
	}
}

func TestSessionStore_ExpiredSessionIsGoneOnGet(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  "tok-expired",
		UserID: domainuser.NewID(),
		TTL:    time.Millisecond,
		Now:    time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("build session: %v", err)
	}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, err = store.Get(ctx, "tok-expired")
	if !errors.Is(err, domainauth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for expired session, got %v", err)
	}
}

func TestSessionStore_DeleteByUserDropsEverySession(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	userID := domainuser.NewID()
	for _, token := range []domainauth.Token{"tok-a", "tok-b"} {
		session, err := domainauth.NewSession(domainauth.CreateSessionParams{
			Token:  token,
			UserID: userID,
			TTL:    time.Hour,
			Now:    time.Now(),
		})
		if err != nil {
			t.Fatalf("build session: %v", err)
		}
		if err := store.Save(ctx, session); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	if err := store.DeleteByUser(ctx, userID); err != nil {
		t.Fatalf("DeleteByUser: %v", err)
	}
	for _, token := range []domainauth.Token{"tok-a", "tok-b"} {
		if _, err := store.Get(ctx, token); !errors.Is(err, domainauth.ErrSessionNotFound) {
			t.Fatalf("session %s survived DeleteByUser: %v", token, err)
		}
	}
}
