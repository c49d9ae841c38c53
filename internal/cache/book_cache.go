package cache

import (
	"sync"
	"time"

	"github.com/productdigest/content-api/internal/models"
)

type pageKey struct {
	limit  int
	offset int
}

type pageEntry struct {
	books     []*models.Book
	expiresAt time.Time
}

// BookCache is a coarse accelerator for the books listing: entries are keyed
// by (limit, offset) and live for at most TTL. It is never the source of
// truth; every successful write to the books collection must call Invalidate
// before the write's response is sent.
type BookCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	pages   map[pageKey]pageEntry
	nowFunc func() time.Time
}

func NewBookCache(ttl time.Duration) *BookCache {
	return &BookCache{
		ttl:     ttl,
		pages:   make(map[pageKey]pageEntry),
		nowFunc: time.Now,
	}
}

func (c *BookCache) TTL() time.Duration {
	return c.ttl
}

func (c *BookCache) Get(limit, offset int) ([]*models.Book, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.pages[pageKey{limit, offset}]
	if !ok {
		return nil, false
	}
	if c.nowFunc().After(entry.expiresAt) {
		delete(c.pages, pageKey{limit, offset})
		return nil, false
	}
	return entry.books, true
}

func (c *BookCache) Set(limit, offset int, books []*models.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[pageKey{limit, offset}] = pageEntry{books: books, expiresAt: c.nowFunc().Add(c.ttl)}
}

// Invalidate drops every page, not just the one a write touched: writes are
// rare and pagination makes per-page eviction unreliable.
func (c *BookCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = make(map[pageKey]pageEntry)
}
