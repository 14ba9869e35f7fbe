// Package appctx carries process wide command state on a context.
package appctx

import (
	"context"

	"github.com/vulntor/fingerbank/pkg/catalog"
	"github.com/vulntor/fingerbank/pkg/config"
)

type key string

const (
	configKey  key = "fingerbank.config.manager"
	catalogKey key = "fingerbank.catalog.holder"
)

// WithConfig stores the shared config manager on context.
func WithConfig(ctx context.Context, manager *config.Manager) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey, manager)
}

// Config retrieves the shared config manager from context.
func Config(ctx context.Context) (*config.Manager, bool) {
	if ctx == nil {
		return nil, false
	}
	mgr, ok := ctx.Value(configKey).(*config.Manager)
	return mgr, ok && mgr != nil
}

// WithCatalog stores the catalog holder on context.
func WithCatalog(ctx context.Context, holder *catalog.Holder) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, catalogKey, holder)
}

// Catalog retrieves the catalog holder from context.
func Catalog(ctx context.Context) (*catalog.Holder, bool) {
	if ctx == nil {
		return nil, false
	}
	h, ok := ctx.Value(catalogKey).(*catalog.Holder)
	return h, ok && h != nil
}
