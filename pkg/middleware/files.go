package middleware

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/renameio/v2"
)

// FileStore is the file access used by the middlewares
type FileStore interface {
	Read(path string) (string, error)
	Write(path, content string) error
	// Touch creates the file with initial content if it does not exist
	Touch(path, initial string) error
}

// OSFileStore uses the local filesystem
type OSFileStore struct{}

func (OSFileStore) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write replaces the file atomically. The content is synced before the rename
// and an existing file keeps its permissions.
func (OSFileStore) Write(path, content string) error {
	err := renameio.WriteFile(path, []byte(content), 0644, renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (OSFileStore) Touch(path, initial string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
