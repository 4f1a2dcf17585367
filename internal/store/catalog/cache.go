package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfswap/marketplace-api/internal/store/books"
)

// Request-scoped cache guard: no PINGs, warn once per request, no retry storms.
type cache struct {
	rdb     *redis.Client
	enabled bool
	warned  bool
	prefix  string
	ttl     time.Duration
	shortTO time.Duration // short timeout per cache op
}

const versionKey = "cat:ver" // global version counter in Redis

// cacheTTL reads CATALOG_CACHE_TTL as a Go duration ("10m", "90s"), the same
// contract startup validation enforces. Default 5m; catalog rows churn faster
// than a feed.
func cacheTTL() time.Duration {
	if v := os.Getenv("CATALOG_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 5 * time.Minute
}

// page is the cached shape of one catalog result page.
type page struct {
	Books []books.CatalogBook `json:"books"`
	Total int                 `json:"total"`
}

// newCache builds a request-scoped cache wrapper.
// Prefix resolution rules (in order):
//  1. CATALOG_CACHE_PREFIX (if set) — e.g., "cat:v42:" for forced manual control
//  2. "cat:v{N}:" where N comes from cat:ver (default 1 on miss)
//     If Redis read fails, we fail-open to "cat:v1:".
func newCache(rdb *redis.Client) *cache {
	if rdb == nil || os.Getenv("CATALOG_DISABLE_CACHE") == "1" {
		return &cache{enabled: false}
	}

	ttl := cacheTTL()

	shortTO := 150 * time.Millisecond
	if v := os.Getenv("CATALOG_CACHE_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			shortTO = time.Duration(ms) * time.Millisecond
		}
	}

	if p := os.Getenv("CATALOG_CACHE_PREFIX"); p != "" {
		return &cache{rdb: rdb, enabled: true, prefix: p, ttl: ttl, shortTO: shortTO}
	}

	prefix := "cat:v1:"
	{
		ctx, cancel := context.WithTimeout(context.Background(), shortTO)
		defer cancel()
		ver, err := rdb.Get(ctx, versionKey).Int64()
		if err != nil {
			// fail-open default v1; warnOnce will catch on first real op
			ver = 1
		}
		prefix = fmt.Sprintf("cat:v%d:", ver)
	}

	return &cache{rdb: rdb, enabled: true, prefix: prefix, ttl: ttl, shortTO: shortTO}
}

// key folds a filter set into one compact cache key under the current
// version prefix.
func (c *cache) key(f books.ListFilters) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s|%d|%d",
		strings.ToLower(f.Search), f.Genre, f.ListingType, f.Sort, f.Limit, f.Offset)
	return fmt.Sprintf("%slist:%x", c.prefix, h.Sum64())
}

func (c *cache) get(ctx context.Context, key string) (page, bool) {
	if !c.enabled {
		return page{}, false
	}
	var cancel context.CancelFunc
	ctx, cancel = context.WithTimeout(ctx, c.shortTO)
	defer cancel()

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return page{}, false
	}
	if err != nil {
		c.warnOnce("cache get failed: %v; bypassing cache for this request", err)
		return page{}, false
	}
	var p page
	if err := json.Unmarshal(raw, &p); err != nil {
		c.warnOnce("cache payload corrupt: %v; bypassing", err)
		return page{}, false
	}
	return p, true
}

func (c *cache) set(ctx context.Context, key string, p page) {
	if !c.enabled {
		return
	}
	var cancel context.CancelFunc
	ctx, cancel = context.WithTimeout(ctx, c.shortTO)
	defer cancel()

	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.SetEx(ctx, key, raw, c.ttl).Err(); err != nil {
		c.warnOnce("cache set failed: %v (muted next)", err)
	}
}

func (c *cache) warnOnce(format string, args ...any) {
	if c.warned {
		return
	}
	c.warned = true
	log.Printf("[catalog][cache] "+format, args...)
}

// BumpVersion increments the global version key (cat:ver), invalidating every
// cached page at once. Call AFTER a successful commit of a write that changes
// catalog rows. Safe no-op when rdb is nil.
func BumpVersion(ctx context.Context, rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}
	shortTO := 150 * time.Millisecond
	if v := os.Getenv("CATALOG_CACHE_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			shortTO = time.Duration(ms) * time.Millisecond
		}
	}
	cctx, cancel := context.WithTimeout(ctx, shortTO)
	defer cancel()
	if _, err := rdb.Incr(cctx, versionKey).Result(); err != nil {
		return fmt.Errorf("bump version failed: %w", err)
	}
	return nil
}
