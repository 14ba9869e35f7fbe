package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/fingerbank/pkg/appctx"
	"github.com/vulntor/fingerbank/pkg/catalog"
	"github.com/vulntor/fingerbank/pkg/config"
	"github.com/vulntor/fingerbank/pkg/workspace"
)

const exitNotFound = 4

var errNotFound = errors.New("not found")

// currentConfig returns the configuration loaded by the root command, or the
// defaults when a command runs on its own (e.g. in tests).
func currentConfig(cmd *cobra.Command) config.Config {
	if mgr, ok := appctx.Config(cmd.Context()); ok {
		return mgr.Get()
	}
	return config.DefaultConfig()
}

// cacheDir resolves the synced catalog directory: explicit configuration first,
// then the workspace cache. An empty result means no cache is available.
func cacheDir(cmd *cobra.Command, cfg config.Config) string {
	if cfg.Catalog.CacheDir != "" {
		return cfg.Catalog.CacheDir
	}
	if ws, ok := workspace.FromContext(cmd.Context()); ok {
		return workspace.CacheDir(ws)
	}
	return ""
}

func catalogOptions(cfg config.Config) []catalog.Option {
	return []catalog.Option{
		catalog.WithLogger(log.Logger),
		catalog.WithWorkers(cfg.Match.Workers),
	}
}

// loadCatalog returns the catalog for the command: the published one when a
// holder is on the context, otherwise the configured file, the synced cache or
// the builtin catalog, in that order.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, string, error) {
	if h, ok := appctx.Catalog(cmd.Context()); ok {
		return h.Current(), "", nil
	}

	cfg := currentConfig(cmd)
	c, source, err := catalog.Resolve(cfg.Catalog.Path, cacheDir(cmd, cfg), catalogOptions(cfg)...)
	if err != nil {
		return nil, "", fmt.Errorf("load catalog: %w", err)
	}
	if skipped := len(c.Skipped()); skipped > 0 {
		log.Warn().Int("skipped", skipped).Str("source", source).Msg("catalog has malformed entries; run 'fingerbank catalog validate' for details")
	}
	log.Debug().Str("source", source).Int("entries", len(c.Entries())).Msg("catalog ready")
	return c, source, nil
}
