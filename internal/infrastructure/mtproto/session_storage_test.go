package mtproto

import (
	"context"
	"errors"
	"testing"

	"github.com/gotd/td/session"
)

func TestSessionFileName(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		phone  string
		want   string
	}{
		{"plain", 42, "+919876543210", "42_919876543210.json"},
		{"with spaces", 42, "+91 98765 43210", "42_919876543210.json"},
		{"no plus", 7, "123456", "7_123456.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionFileName(tt.userID, tt.phone); got != tt.want {
				t.Errorf("SessionFileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileSessionStorage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	storage, err := NewFileSessionStorage(dir, "42_123456.json")
	if err != nil {
		t.Fatalf("NewFileSessionStorage failed: %v", err)
	}

	// Missing file reports no session
	if _, err := storage.LoadSession(ctx); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Expected session.ErrNotFound, got: %v", err)
	}

	data := []byte(`{"auth_key":"secret"}`)
	if err := storage.StoreSession(ctx, data); err != nil {
		t.Fatalf("StoreSession failed: %v", err)
	}

	loaded, err := storage.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if string(loaded) != string(data) {
		t.Errorf("Expected stored data back, got: %q", loaded)
	}

	if err := storage.Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := storage.LoadSession(ctx); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Expected session.ErrNotFound after delete, got: %v", err)
	}

	// Deleting a missing file is not an error
	if err := storage.Delete(); err != nil {
		t.Errorf("Expected idempotent delete, got: %v", err)
	}
}

func TestFileSessionStorage_EmptyFileIsNoSession(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	storage, err := NewFileSessionStorage(dir, "7_1.json")
	if err != nil {
		t.Fatalf("NewFileSessionStorage failed: %v", err)
	}
	if err := storage.StoreSession(ctx, nil); err != nil {
		t.Fatalf("StoreSession failed: %v", err)
	}
	if _, err := storage.LoadSession(ctx); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Expected session.ErrNotFound for empty file, got: %v", err)
	}
}
