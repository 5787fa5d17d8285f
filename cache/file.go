package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
)

// File stores one JSON document per key under a directory.
// An unreadable or unparseable document is treated as absent: the
// session must survive a corrupted cache.
type File[S any] struct {
	dir string
}

func NewFile[S any](dir string) *File[S] {
	return &File[S]{dir: dir}
}

func (f *File[S]) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.dir, safe+".json")
}

func (f *File[S]) Set(ctx context.Context, key string, val S) error {
	data, err := sonic.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(f.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

func (f *File[S]) Get(ctx context.Context, key string) (S, bool, error) {
	var zero S
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("read cache file: %w", err)
	}
	var val S
	if err := sonic.Unmarshal(data, &val); err != nil {
		slog.Warn("discarding corrupted cache entry", "key", key, "error", err)
		return zero, false, nil
	}
	return val, true, nil
}

func (f *File[S]) Del(ctx context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	return nil
}
