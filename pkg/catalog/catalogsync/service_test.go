package catalogsync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vulntor/fingerbank/pkg/catalog"
)

const (
	catalogV1 = "version = 1.0.0\n[os 1]\ndescription = one\nfingerprints = 1,2,3\n"
	catalogV2 = "version = 2.0.0\n[os 1]\ndescription = one\nfingerprints = 1,2,3\n[os 2]\ndescription = two\nfingerprints = 4,5\n"
)

type bytesSource []byte

func (b bytesSource) Load(context.Context) ([]byte, error) { return b, nil }

type failingSource struct{}

func (failingSource) Load(context.Context) ([]byte, error) { return nil, errors.New("boom") }

func newService(t *testing.T, cacheDir string, src Source) Service {
	t.Helper()
	return Service{
		Source:   src,
		Store:    FileStore{Path: catalog.CachePath(cacheDir)},
		CacheDir: cacheDir,
		Logger:   zerolog.Nop(),
	}
}

func TestFileSource_Load(t *testing.T) {
	_, err := FileSource{Path: ""}.Load(context.Background())
	require.Error(t, err)

	p := filepath.Join(t.TempDir(), "c.conf")
	require.NoError(t, os.WriteFile(p, []byte(catalogV1), 0o644))

	b, err := FileSource{Path: p}.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, catalogV1, string(b))
}

func TestFileStore_Save(t *testing.T) {
	err := FileStore{Path: ""}.Save(context.Background(), []byte("x"))
	require.Error(t, err)

	p := filepath.Join(t.TempDir(), "out", "c.conf")
	require.NoError(t, FileStore{Path: p}.Save(context.Background(), []byte(catalogV1)))

	got, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, catalogV1, string(got))

	require.NoError(t, FileStore{Path: p}.Save(context.Background(), []byte(catalogV2)))
	got, err = os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, catalogV2, string(got))

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(p), "*.tmp"))
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestFileStore_SaveWaitsForLock(t *testing.T) {
	p := filepath.Join(t.TempDir(), "c.conf")

	held := flock.New(p + ".lock")
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer func() { _ = held.Unlock() }()

	err = FileStore{Path: p, LockTimeout: 100 * time.Millisecond}.Save(context.Background(), []byte(catalogV1))
	require.Error(t, err)
	require.NoFileExists(t, p)
}

func TestHTTPSource_Load(t *testing.T) {
	_, err := HTTPSource{URL: ""}.Load(context.Background())
	require.Error(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(catalogV1))
	}))
	defer ts.Close()

	b, err := HTTPSource{URL: ts.URL}.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, catalogV1, string(b))

	ts2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts2.Close()

	_, err = HTTPSource{URL: ts2.URL}.Load(context.Background())
	require.Error(t, err)
}

func TestService_Sync(t *testing.T) {
	cacheDir := t.TempDir()

	res, err := newService(t, cacheDir, bytesSource(catalogV1)).Sync(context.Background())
	require.NoError(t, err)
	require.Nil(t, res.Previous)
	require.Equal(t, catalog.CachePath(cacheDir), res.Path)
	require.Len(t, res.Catalog.Entries(), 1)

	cached, err := catalog.LoadCached(cacheDir)
	require.NoError(t, err)
	require.Equal(t, "1.0.0", cached.Version().String())

	res, err = newService(t, cacheDir, bytesSource(catalogV2)).Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1.0.0", res.Previous.String())
	require.Len(t, res.Catalog.Entries(), 2)
}

func TestService_SyncRefusesDowngrade(t *testing.T) {
	cacheDir := t.TempDir()

	_, err := newService(t, cacheDir, bytesSource(catalogV2)).Sync(context.Background())
	require.NoError(t, err)

	_, err = newService(t, cacheDir, bytesSource(catalogV1)).Sync(context.Background())
	require.ErrorIs(t, err, ErrDowngrade)

	cached, err := catalog.LoadCached(cacheDir)
	require.NoError(t, err)
	require.Equal(t, "2.0.0", cached.Version().String())

	svc := newService(t, cacheDir, bytesSource(catalogV1))
	svc.Force = true
	_, err = svc.Sync(context.Background())
	require.NoError(t, err)

	cached, err = catalog.LoadCached(cacheDir)
	require.NoError(t, err)
	require.Equal(t, "1.0.0", cached.Version().String())
}

func TestService_SyncRejectsInvalidCatalog(t *testing.T) {
	cacheDir := t.TempDir()

	_, err := newService(t, cacheDir, bytesSource("[os 1]\nfingerprints = <<EOT\n")).Sync(context.Background())
	require.Error(t, err)
	require.Equal(t, "CATALOG_GRAMMAR", catalog.ErrorCode(err))
	require.NoFileExists(t, catalog.CachePath(cacheDir))
}

func TestService_SyncConfiguration(t *testing.T) {
	_, err := Service{}.Sync(context.Background())
	require.Error(t, err)

	_, err = Service{Source: bytesSource(catalogV1)}.Sync(context.Background())
	require.Error(t, err)

	_, err = Service{Source: bytesSource(catalogV1), Store: FileStore{Path: "x"}}.Sync(context.Background())
	require.Error(t, err)

	_, err = newService(t, t.TempDir(), failingSource{}).Sync(context.Background())
	require.ErrorContains(t, err, "boom")
}

func TestCheckDowngrade(t *testing.T) {
	v1, v2 := mustVersion(t, "1.0.0"), mustVersion(t, "1.2.0")

	require.NoError(t, checkDowngrade(nil, v1, false))
	require.NoError(t, checkDowngrade(v1, nil, false))
	require.NoError(t, checkDowngrade(v1, v2, false))
	require.NoError(t, checkDowngrade(v1, v1, false))
	require.ErrorIs(t, checkDowngrade(v2, v1, false), ErrDowngrade)
	require.NoError(t, checkDowngrade(v2, v1, true))
}

func mustVersion(t *testing.T, s string) *semver.Version {
	t.Helper()
	v, err := semver.NewVersion(s)
	require.NoError(t, err)
	return v
}
