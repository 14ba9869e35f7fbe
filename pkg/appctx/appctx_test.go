package appctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulntor/fingerbank/pkg/catalog"
	"github.com/vulntor/fingerbank/pkg/config"
)

func TestWithConfig(t *testing.T) {
	t.Run("stores config manager in context", func(t *testing.T) {
		manager := config.NewManager()
		ctx := WithConfig(context.Background(), manager)

		retrieved, ok := Config(ctx)
		require.True(t, ok)
		assert.Same(t, manager, retrieved)
	})

	t.Run("handles nil context", func(t *testing.T) {
		manager := config.NewManager()
		//nolint:staticcheck
		ctx := WithConfig(nil, manager)

		retrieved, ok := Config(ctx)
		require.True(t, ok)
		assert.Same(t, manager, retrieved)
	})

	t.Run("missing or nil manager", func(t *testing.T) {
		_, ok := Config(context.Background())
		assert.False(t, ok)

		_, ok = Config(WithConfig(context.Background(), nil))
		assert.False(t, ok)

		//nolint:staticcheck
		_, ok = Config(nil)
		assert.False(t, ok)
	})
}

func TestWithCatalog(t *testing.T) {
	c, err := catalog.Builtin()
	require.NoError(t, err)
	holder := catalog.NewHolder(c)

	ctx := WithCatalog(context.Background(), holder)
	got, ok := Catalog(ctx)
	require.True(t, ok)
	assert.Same(t, holder, got)

	_, ok = Catalog(context.Background())
	assert.False(t, ok)
}
