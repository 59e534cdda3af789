package repository

import (
	"context"
	"errors"
	"testing"
)

func TestUserCreateAndGet(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	u := &User{Email: "Admin@Example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatal(err)
	}
	if u.ID == 0 {
		t.Fatal("ID not assigned")
	}

	// Lookup is case-insensitive; the stored email is lowercased.
	got, err := repo.GetByEmail(ctx, "ADMIN@example.COM")
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != "admin@example.com" {
		t.Errorf("stored email = %q", got.Email)
	}
	if got.PasswordHash != "hash" {
		t.Errorf("password hash = %q", got.PasswordHash)
	}
}

func TestUserGetNotFound(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	if _, err := repo.GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &User{Email: "a@example.com", PasswordHash: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, &User{Email: "A@Example.com", PasswordHash: "y"}); err == nil {
		t.Fatal("duplicate email accepted")
	}
}
