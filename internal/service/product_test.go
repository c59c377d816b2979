package service

import (
	"context"
	"testing"

	"github.com/dkochetov/storefront/internal/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *memCache) Set(key string, value []byte) { c.data[key] = value }
func (c *memCache) Delete(key string)            { delete(c.data, key) }

func TestProductService_Get(t *testing.T) {
	product := entities.Product{ID: uuid.NewString(), Name: "keyboard", Price: 79.9}

	t.Run("miss fills the cache", func(t *testing.T) {
		cache := newMemCache()
		svc := NewProductService(testLogger(), newFakeProductRepo(product), cache)

		got, err := svc.Get(context.Background(), product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.Name, got.Name)
		assert.Contains(t, cache.data, product.ID)
	})

	t.Run("hit skips the repo", func(t *testing.T) {
		cache := newMemCache()
		data, err := product.Marshal()
		require.NoError(t, err)
		cache.Set(product.ID, data)

		// empty repo: a cache miss would fail
		svc := NewProductService(testLogger(), newFakeProductRepo(), cache)

		got, err := svc.Get(context.Background(), product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, got.ID)
	})

	t.Run("broken entry falls through to the repo", func(t *testing.T) {
		cache := newMemCache()
		cache.Set(product.ID, []byte("not gob"))

		svc := NewProductService(testLogger(), newFakeProductRepo(product), cache)

		got, err := svc.Get(context.Background(), product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.Name, got.Name)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc := NewProductService(testLogger(), newFakeProductRepo(), newMemCache())
		_, err := svc.Get(context.Background(), uuid.NewString())
		assert.ErrorIs(t, err, entities.ErrProductNotFound)
	})
}

func TestProductService_Mutations_InvalidateCache(t *testing.T) {
	product := entities.Product{ID: uuid.NewString(), Name: "mouse", Price: 25}

	setup := func(t *testing.T) (*productService, *memCache) {
		t.Helper()
		cache := newMemCache()
		svc := NewProductService(testLogger(), newFakeProductRepo(product), cache)

		_, err := svc.Get(context.Background(), product.ID)
		require.NoError(t, err)
		require.Contains(t, cache.data, product.ID)
		return svc, cache
	}

	t.Run("update", func(t *testing.T) {
		svc, cache := setup(t)
		require.NoError(t, svc.Update(context.Background(), product.ID, ProductInput{Price: 30}))
		assert.NotContains(t, cache.data, product.ID)
	})

	t.Run("status change", func(t *testing.T) {
		svc, cache := setup(t)
		require.NoError(t, svc.UpdateStatus(context.Background(), product.ID, entities.ProductStatusInactive))
		assert.NotContains(t, cache.data, product.ID)
	})

	t.Run("delete", func(t *testing.T) {
		svc, cache := setup(t)
		require.NoError(t, svc.Delete(context.Background(), product.ID))
		assert.NotContains(t, cache.data, product.ID)
	})
}
