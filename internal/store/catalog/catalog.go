// Package catalog fronts the public book listing with a version-keyed Redis
// cache. Every write to catalog rows bumps one version counter, which orphans
// all cached pages instead of tracking them per key.
package catalog

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/shelfswap/marketplace-api/internal/store/books"
)

// List serves a catalog page from cache when possible, falling back to the
// database and back-filling the cache on a miss. Redis being down only costs
// the cache; the query still runs.
func List(ctx context.Context, db *sql.DB, rdb *redis.Client, f books.ListFilters) ([]books.CatalogBook, int, error) {
	c := newCache(rdb)
	key := c.key(f)

	if p, ok := c.get(ctx, key); ok {
		return p.Books, p.Total, nil
	}

	rows, total, err := books.List(ctx, db, f)
	if err != nil {
		return nil, 0, err
	}
	c.set(ctx, key, page{Books: rows, Total: total})
	return rows, total, nil
}
