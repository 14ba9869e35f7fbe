package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// CacheFileName is the file name used for synced catalogs inside a cache directory.
const CacheFileName = "dhcp_fingerprints.conf"

//go:embed data/dhcp_fingerprints.conf
var embeddedCatalog []byte

var (
	builtinOnce    sync.Once
	builtinCatalog *Catalog
	builtinErr     error
)

// Builtin returns the catalog embedded in the binary, built on first use.
func Builtin() (*Catalog, error) {
	builtinOnce.Do(func() {
		builtinCatalog, builtinErr = Load(string(embeddedCatalog))
	})
	return builtinCatalog, builtinErr
}

// BuiltinText returns the raw text of the embedded catalog.
func BuiltinText() []byte {
	return append([]byte(nil), embeddedCatalog...)
}

// CachePath returns the location of the synced catalog in cacheDir.
func CachePath(cacheDir string) string {
	return filepath.Join(cacheDir, CacheFileName)
}

// LoadCached builds the catalog previously synced into cacheDir. A missing cache
// file is reported with fs.ErrNotExist so callers can fall back to Builtin.
func LoadCached(cacheDir string, opts ...Option) (*Catalog, error) {
	if cacheDir == "" {
		return nil, errors.New("cache directory not specified")
	}
	path := CachePath(cacheDir)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("stat cache: %w", err)
	}
	c, err := LoadFile(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("load cached catalog: %w", err)
	}
	return c, nil
}

// Resolve picks the catalog to use: an explicit path wins, then a synced copy in
// cacheDir, then the embedded catalog.
func Resolve(path, cacheDir string, opts ...Option) (*Catalog, string, error) {
	if path != "" {
		c, err := LoadFile(path, opts...)
		return c, path, err
	}
	if cacheDir != "" {
		c, err := LoadCached(cacheDir, opts...)
		if err == nil {
			return c, CachePath(cacheDir), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", err
		}
	}
	if len(opts) == 0 {
		c, err := Builtin()
		return c, "builtin", err
	}
	c, err := Load(string(embeddedCatalog), opts...)
	return c, "builtin", err
}
