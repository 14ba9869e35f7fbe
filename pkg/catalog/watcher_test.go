package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestHolder(t *testing.T) {
	first := loadSample(t)
	h := NewHolder(first)
	require.Same(t, first, h.Current())

	second, err := Load("[os 1]\ndescription = x\nfingerprints = 1\n")
	require.NoError(t, err)

	prev := h.Swap(second)
	require.Same(t, first, prev)
	require.Same(t, second, h.Current())
}

func TestWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.conf")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	initial, err := LoadFile(path)
	require.NoError(t, err)
	h := NewHolder(initial)

	w, err := NewWatcher(path, h, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	// a broken file keeps the previous catalog
	require.NoError(t, os.WriteFile(path, []byte("[os 1]\nfingerprints = <<EOT\n"), 0o644))
	require.Error(t, w.Reload())
	require.Same(t, initial, h.Current())

	require.NoError(t, os.WriteFile(path, []byte("[os 1]\ndescription = x\nfingerprints = 1\n"), 0o644))
	require.NoError(t, w.Reload())
	require.Len(t, h.Current().Entries(), 1)
}

func TestWatcher_StartReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.conf")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	initial, err := LoadFile(path)
	require.NoError(t, err)
	h := NewHolder(initial)

	w, err := NewWatcher(path, h, zerolog.Nop())
	require.NoError(t, err)
	w.debounceDelay = 10 * time.Millisecond

	reloaded := make(chan error, 8)
	w.OnReload = func(_ *Catalog, err error) { reloaded <- err }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("[os 1]\ndescription = x\nfingerprints = 1\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for ok := false; !ok; {
		select {
		case err := <-reloaded:
			// a reload may observe the file mid-write; wait for a good one
			ok = err == nil
		case <-deadline:
			t.Fatal("catalog was not reloaded")
		}
	}
	require.Len(t, h.Current().Entries(), 1)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
