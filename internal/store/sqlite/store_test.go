package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ender778/recipe-management-app/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestUser(t *testing.T, s *Store, id string) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        id + "@example.com",
		PasswordHash: "$argon2id$fake",
		DisplayName:  id,
	}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("insert test user %s: %v", id, err)
	}
	return user
}

func insertTestBook(t *testing.T, s *Store, id, ownerID string) *domain.RecipeBook {
	t.Helper()
	now := time.Now()
	book := &domain.RecipeBook{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID: ownerID,
		Name:    "Book " + id,
	}
	if err := s.CreateBook(context.Background(), book); err != nil {
		t.Fatalf("insert test book %s: %v", id, err)
	}
	return book
}

func insertTestInvitation(t *testing.T, s *Store, id, bookID, inviterID, email string, perm domain.Permission, expiresAt time.Time) *domain.Invitation {
	t.Helper()
	now := time.Now()
	inv := &domain.Invitation{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookID:           bookID,
		InvitedByUserID:  inviterID,
		InvitedUserEmail: email,
		Permission:       perm,
		Status:           domain.InvitationPending,
		ExpiresAt:        expiresAt,
	}
	if err := s.CreateInvitation(context.Background(), inv); err != nil {
		t.Fatalf("insert test invitation %s: %v", id, err)
	}
	return inv
}

func timeInFuture() time.Time {
	return time.Now().Add(72 * time.Hour)
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	tables := []string{
		"users", "sessions", "recipe_books", "recipes", "memberships", "invitations",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}

	// Verify the pending-invitation unique index exists.
	var idx string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_invitations_pending_unique'").Scan(&idx)
	if err != nil {
		t.Errorf("pending unique index not found: %v", err)
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent).
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	defer s2.Close()
}
