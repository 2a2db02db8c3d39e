package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"swag-quiz-service/internal/app"
	"swag-quiz-service/internal/catalog"
)

const catalogKey = "catalog"

// CatalogCache keeps the loaded catalog for a TTL to avoid repeated DB hits.
type CatalogCache struct {
	loader app.CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu        sync.RWMutex
	cached    catalog.Catalog
	expiresAt time.Time
	loaded    bool
}

func NewCatalogCache(loader app.CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogCache) Catalog(ctx context.Context) (catalog.Catalog, error) {
	if c, ok := r.fresh(r.clock()); ok {
		return c, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		now := r.clock()
		if c, ok := r.fresh(now); ok {
			return c, nil
		}

		c, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return catalog.Catalog{}, err
		}

		r.mu.Lock()
		r.cached = c
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.loaded = true
		r.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return catalog.Catalog{}, err
	}
	return result.(catalog.Catalog), nil
}

func (r *CatalogCache) fresh(now time.Time) (catalog.Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.loaded && r.expiresAt.After(now) {
		return r.cached, true
	}
	return catalog.Catalog{}, false
}

func (r *CatalogCache) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCatalog serves a fixed catalog (the built-in one, or test fixtures).
type StaticCatalog struct {
	catalog catalog.Catalog
}

func NewStaticCatalog(c catalog.Catalog) *StaticCatalog {
	return &StaticCatalog{catalog: c}
}

func (s *StaticCatalog) LoadCatalog(_ context.Context) (catalog.Catalog, error) {
	return s.catalog, nil
}

func (s *StaticCatalog) Catalog(ctx context.Context) (catalog.Catalog, error) {
	return s.LoadCatalog(ctx)
}
