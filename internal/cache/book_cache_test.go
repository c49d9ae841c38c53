package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productdigest/content-api/internal/models"
)

func TestBookCacheGetSet(t *testing.T) {
	c := NewBookCache(10 * time.Minute)

	_, ok := c.Get(20, 0)
	assert.False(t, ok)

	books := []*models.Book{{ID: 1, Title: "Inspired"}}
	c.Set(20, 0, books)

	got, ok := c.Get(20, 0)
	require.True(t, ok)
	assert.Equal(t, books, got)

	// Same limit with a different offset is a different page.
	_, ok = c.Get(20, 20)
	assert.False(t, ok)
}

func TestBookCacheExpiry(t *testing.T) {
	c := NewBookCache(10 * time.Minute)
	now := time.Now()
	c.nowFunc = func() time.Time { return now }

	c.Set(20, 0, []*models.Book{{ID: 1}})

	now = now.Add(9 * time.Minute)
	_, ok := c.Get(20, 0)
	assert.True(t, ok, "entry inside the TTL window must be served")

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(20, 0)
	assert.False(t, ok, "entry past the TTL must expire")
}

func TestBookCacheInvalidateDropsEveryPage(t *testing.T) {
	c := NewBookCache(10 * time.Minute)
	c.Set(20, 0, []*models.Book{{ID: 1}})
	c.Set(20, 20, []*models.Book{{ID: 2}})

	c.Invalidate()

	_, ok := c.Get(20, 0)
	assert.False(t, ok)
	_, ok = c.Get(20, 20)
	assert.False(t, ok)
}
