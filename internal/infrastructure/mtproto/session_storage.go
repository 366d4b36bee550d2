// Package mtproto contains gotd/td based per-user Telegram clients
package mtproto

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gotd/td/session"
)

// FileSessionStorage implements session.Storage for one user's credential
// file. One file per (user, phone) pair lives under the session directory.
type FileSessionStorage struct {
	fileName string
	filePath string
}

// SessionFileName derives the credential file name for a user and phone
func SessionFileName(userID int64, phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return fmt.Sprintf("%d_%s.json", userID, digits.String())
}

// NewFileSessionStorage creates a session storage for the named file
func NewFileSessionStorage(sessionDir, fileName string) (*FileSessionStorage, error) {
	if err := os.MkdirAll(sessionDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	return &FileSessionStorage{
		fileName: fileName,
		filePath: filepath.Join(sessionDir, fileName),
	}, nil
}

// LoadSession loads session data from file
func (s *FileSessionStorage) LoadSession(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	// Empty file is the same as no session
	if len(data) == 0 {
		return nil, session.ErrNotFound
	}

	return data, nil
}

// StoreSession stores session data to file with restricted permissions
func (s *FileSessionStorage) StoreSession(_ context.Context, data []byte) error {
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// FileName returns the bare credential file name persisted in the session row
func (s *FileSessionStorage) FileName() string {
	return s.fileName
}

// Delete removes the credential file
func (s *FileSessionStorage) Delete() error {
	if err := os.Remove(s.filePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// Ensure FileSessionStorage implements session.Storage interface
var _ session.Storage = (*FileSessionStorage)(nil)
