// Package file stores credential secrets as plain files under a private
// root directory, one file per bilibili://<uid>/<kind> ref.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/bilive-keeper/internal/domain"
	"github.com/bnema/bilive-keeper/internal/ports"
)

const (
	refScheme     = "bilibili://"
	storeDirMode  = 0o700
	secretFileMod = 0o600
)

type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), storeDirMode); err != nil {
		return fmt.Errorf("create file secret directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(value), secretFileMod); err != nil {
		return fmt.Errorf("write file secret %q: %w", key, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("file secret %q: %w", key, domain.ErrSecretNotFound)
		}
		return "", fmt.Errorf("read file secret %q: %w", key, err)
	}

	return string(data), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete file secret %q: %w", key, err)
	}

	return nil
}

func (s *Store) pathForKey(key string) (string, error) {
	uid, kind, err := splitRef(key)
	if err != nil {
		return "", err
	}

	return filepath.Join(s.root, uid, kind), nil
}

// splitRef validates a bilibili://<uid>/<kind> ref and returns its parts.
// Both parts become path elements, so neither may escape the store root.
func splitRef(key string) (string, string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", "", errors.New("secret key is empty")
	}

	rest, ok := strings.CutPrefix(trimmed, refScheme)
	if !ok {
		return "", "", fmt.Errorf("invalid secret key %q", key)
	}

	uid, kind, ok := strings.Cut(rest, "/")
	if !ok || uid == "" || kind == "" || strings.Contains(kind, "/") {
		return "", "", fmt.Errorf("invalid secret key %q", key)
	}
	if uid == "." || uid == ".." || kind == "." || kind == ".." {
		return "", "", fmt.Errorf("invalid secret key %q", key)
	}

	return uid, kind, nil
}
