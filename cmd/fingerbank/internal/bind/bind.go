// Package bind turns command flags and arguments into validated option structs.
package bind

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/vulntor/fingerbank/pkg/catalog"
	"github.com/vulntor/fingerbank/pkg/fingerprint"
)

// SyncOptions holds configuration options for the catalog sync command.
type SyncOptions struct {
	FilePath string
	URL      string
	CacheDir string
	Force    bool
}

// BindSyncOptions extracts and validates catalog sync flags.
//
// Flags read:
//   - --file: Load the catalog from a local file
//   - --url: Download the catalog from a remote URL (falls back to defaultURL)
//   - --cache-dir: Override the cache destination directory
//   - --force: Replace a cached catalog that declares a newer version
//
// Returns an error if validation fails.
func BindSyncOptions(cmd *cobra.Command, defaultURL string) (SyncOptions, error) {
	filePath, _ := cmd.Flags().GetString("file")
	url, _ := cmd.Flags().GetString("url")
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	force, _ := cmd.Flags().GetBool("force")

	if filePath != "" && url != "" {
		return SyncOptions{}, catalog.NewSourceConflictError()
	}
	if filePath == "" && url == "" {
		url = defaultURL
	}

	opts := SyncOptions{
		FilePath: filePath,
		URL:      url,
		CacheDir: cacheDir,
		Force:    force,
	}

	if opts.FilePath == "" && opts.URL == "" {
		return opts, catalog.NewSourceRequiredError()
	}

	return opts, nil
}

// ParseID reads a non-negative decimal entry or class id. Leading zeros are
// accepted and never switch the base.
func ParseID(arg string) (int, error) {
	s := strings.TrimSpace(arg)
	if s == "" || strings.Trim(s, "0123456789") != "" {
		return 0, fmt.Errorf("invalid id %q: must be a non-negative decimal integer", arg)
	}
	if trimmed := strings.TrimLeft(s, "0"); trimmed != "" {
		s = trimmed
	} else {
		s = "0"
	}
	id, err := cast.ToIntE(s)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return id, nil
}

// ParseFingerprint reads a fingerprint argument. Several arguments are joined
// with commas so "1 3 6" and "1,3,6" are equivalent.
func ParseFingerprint(args []string) (fingerprint.Fingerprint, error) {
	joined := strings.Join(args, ",")
	fp, err := fingerprint.Parse(joined)
	if err != nil {
		return nil, err
	}
	if len(fp) == 0 {
		return nil, fingerprint.ErrEmptyCode
	}
	return fp, nil
}
