package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ender778/recipe-management-app/internal/domain"
	"github.com/Ender778/recipe-management-app/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	user := &domain.User{
		Syncable: domain.Syncable{
			ID:        "user-1",
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$salt$hash",
		DisplayName:  "Alice",
	}

	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != user.Email {
		t.Errorf("Email: got %q, want %q", got.Email, user.Email)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("PasswordHash: got %q, want %q", got.PasswordHash, user.PasswordHash)
	}
	if got.DisplayName != user.DisplayName {
		t.Errorf("DisplayName: got %q, want %q", got.DisplayName, user.DisplayName)
	}
	if !got.LastLoginAt.IsZero() {
		t.Errorf("LastLoginAt: expected zero, got %v", got.LastLoginAt)
	}
	if got.CreatedAt.Unix() != user.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, user.CreatedAt)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "nonexistent")
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error, got %T: %v", err, err)
	}
	if storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("expected status %d, got %d", store.ErrNotFound.Code, storeErr.Code)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "dup-1")

	now := time.Now()
	clone := &domain.User{
		Syncable: domain.Syncable{
			ID:        "dup-2",
			CreatedAt: now,
			UpdatedAt: now,
		},
		// Same address as dup-1, different casing. COLLATE NOCASE on the
		// email column makes this a duplicate.
		Email:        "DUP-1@Example.Com",
		PasswordHash: "$argon2id$fake",
	}

	err := s.CreateUser(ctx, clone)
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error, got %T: %v", err, err)
	}
	if storeErr.Code != store.ErrAlreadyExists.Code {
		t.Errorf("expected status %d, got %d", store.ErrAlreadyExists.Code, storeErr.Code)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "casey")

	got, err := s.GetUserByEmail(ctx, "CASEY@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != "casey" {
		t.Errorf("ID: got %q, want %q", got.ID, "casey")
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := insertTestUser(t, s, "update-1")

	user.DisplayName = "Updated Name"
	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "update-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.DisplayName != "Updated Name" {
		t.Errorf("DisplayName: got %q, want %q", got.DisplayName, "Updated Name")
	}
	if got.LastLoginAt.IsZero() {
		t.Error("LastLoginAt: expected non-zero after update")
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	user := &domain.User{
		Syncable: domain.Syncable{
			ID:        "ghost",
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        "ghost@example.com",
		PasswordHash: "$argon2id$fake",
	}
	err := s.UpdateUser(context.Background(), user)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
