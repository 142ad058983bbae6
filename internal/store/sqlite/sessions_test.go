package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ender778/recipe-management-app/internal/domain"
	"github.com/Ender778/recipe-management-app/internal/store"
)

func insertTestSession(t *testing.T, s *Store, id, userID, tokenHash string, expiresAt time.Time) *domain.Session {
	t.Helper()
	sess := &domain.Session{
		Syncable:         domain.Syncable{ID: id},
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		DeviceType:       "phone",
		DeviceName:       "Test Device",
		ClientName:       "recipes-test",
		IPAddress:        "127.0.0.1",
		LastUsedAt:       time.Now(),
		ExpiresAt:        expiresAt,
	}
	sess.InitTimestamps()
	if err := s.CreateSession(context.Background(), sess); err != nil {
		t.Fatalf("insert test session %s: %v", id, err)
	}
	return sess
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "sess-user-1")
	insertTestSession(t, s, "sess-1", "sess-user-1", "hash-1", timeInFuture())

	got, err := s.GetSessionByRefreshToken(ctx, "hash-1")
	if err != nil {
		t.Fatalf("GetSessionByRefreshToken: %v", err)
	}
	if got.ID != "sess-1" {
		t.Errorf("ID: got %q", got.ID)
	}
	if got.UserID != "sess-user-1" {
		t.Errorf("UserID: got %q", got.UserID)
	}
	if got.DeviceName != "Test Device" {
		t.Errorf("DeviceName: got %q", got.DeviceName)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "wrong-hash"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAllUserSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "sess-user-2")
	insertTestSession(t, s, "sess-2a", "sess-user-2", "hash-2a", timeInFuture())
	insertTestSession(t, s, "sess-2b", "sess-user-2", "hash-2b", timeInFuture())

	if err := s.DeleteAllUserSessions(ctx, "sess-user-2"); err != nil {
		t.Fatalf("DeleteAllUserSessions: %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-2a"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("session 2a should be gone, got %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-2b"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("session 2b should be gone, got %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "sess-user-3")
	insertTestSession(t, s, "sess-3-old", "sess-user-3", "hash-3-old", time.Now().Add(-time.Hour))
	insertTestSession(t, s, "sess-3-new", "sess-user-3", "hash-3-new", timeInFuture())

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 session removed, got %d", n)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-3-new"); err != nil {
		t.Errorf("fresh session should survive: %v", err)
	}
}
