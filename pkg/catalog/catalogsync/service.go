// Package catalogsync fetches a catalog from a file or URL, validates it and
// stores it in the workspace cache.
package catalogsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/vulntor/fingerbank/pkg/catalog"
)

// ErrDowngrade indicates the fetched catalog is older than the cached one.
var ErrDowngrade = errors.New("fetched catalog is older than the cached catalog")

// Source loads the raw catalog text from a backing store.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
}

// Store persists the catalog text to a destination (e.g., workspace cache).
type Store interface {
	Save(ctx context.Context, data []byte) error
}

// Service orchestrates catalog synchronization.
type Service struct {
	Source   Source
	Store    Store
	CacheDir string
	// Force replaces a cached catalog even when it declares a newer version.
	Force  bool
	Logger zerolog.Logger
}

// Result describes a completed sync.
type Result struct {
	Catalog  *catalog.Catalog
	Path     string
	Previous *semver.Version
	Bytes    int
}

// Sync fetches the catalog from Source, validates it by building it, refuses a
// version downgrade unless Force is set, and writes it using Store.
func (s Service) Sync(ctx context.Context) (*Result, error) {
	if s.Source == nil {
		return nil, errors.New("catalog source is not configured")
	}
	if s.Store == nil {
		return nil, errors.New("catalog store is not configured")
	}
	if s.CacheDir == "" {
		return nil, errors.New("cache directory is not configured")
	}

	data, err := s.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	fetched, err := catalog.Load(string(data), catalog.WithLogger(s.Logger))
	if err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	previous, err := s.cachedVersion()
	if err != nil {
		return nil, err
	}
	if err := checkDowngrade(previous, fetched.Version(), s.Force); err != nil {
		return nil, err
	}

	if err := s.Store.Save(ctx, data); err != nil {
		return nil, fmt.Errorf("save catalog: %w", err)
	}

	s.Logger.Info().
		Str("path", catalog.CachePath(s.CacheDir)).
		Int("entries", len(fetched.Entries())).
		Int("bytes", len(data)).
		Msg("catalog synced")

	return &Result{
		Catalog:  fetched,
		Path:     catalog.CachePath(s.CacheDir),
		Previous: previous,
		Bytes:    len(data),
	}, nil
}

// cachedVersion reports the version of the catalog currently in the cache. An
// absent or unreadable cache has no version.
func (s Service) cachedVersion() (*semver.Version, error) {
	cached, err := catalog.LoadCached(s.CacheDir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.Logger.Warn().Err(err).Msg("ignoring unreadable cached catalog")
		}
		return nil, nil
	}
	return cached.Version(), nil
}

func checkDowngrade(previous, next *semver.Version, force bool) error {
	if force || previous == nil || next == nil {
		return nil
	}
	if next.LessThan(previous) {
		return fmt.Errorf("%w: fetched %s, cached %s", ErrDowngrade, next, previous)
	}
	return nil
}

// FileSource loads the catalog from a local file path.
type FileSource struct {
	Path string
}

func (f FileSource) Load(_ context.Context) ([]byte, error) {
	if f.Path == "" {
		return nil, errors.New("file path is empty")
	}
	return os.ReadFile(f.Path)
}

// HTTPSource downloads the catalog from a URL using the provided http.Client (or default).
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (h HTTPSource) Load(ctx context.Context) ([]byte, error) {
	if h.URL == "" {
		return nil, errors.New("url is empty")
	}
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status from catalog source: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog body: %w", err)
	}
	return data, nil
}

// FileStore writes the catalog bytes to a path on disk. Concurrent syncs are
// serialised with a lock file next to the target, and the catalog is replaced
// by rename so readers never see a partial file.
type FileStore struct {
	Path string
	// LockTimeout bounds the wait for the lock file. Zero means 10 seconds.
	LockTimeout time.Duration
}

func (f FileStore) Save(ctx context.Context, data []byte) error {
	if f.Path == "" {
		return errors.New("file store path is empty")
	}
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	timeout := f.LockTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lock := flock.New(f.Path + ".lock")
	locked, err := lock.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("lock catalog: %w", err)
	}
	if !locked {
		return errors.New("lock catalog: lock is held by another process")
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod catalog: %w", err)
	}
	return os.Rename(tmpName, f.Path)
}
