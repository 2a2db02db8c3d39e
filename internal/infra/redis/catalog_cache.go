package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"swag-quiz-service/internal/app"
	"swag-quiz-service/internal/catalog"
	"swag-quiz-service/internal/domain"
)

// CatalogCache keeps the catalog as a JSON document in Redis, shared by every
// instance, and falls back to the loader on a miss.
// Stored as: SET quiz:catalog <json questions> EX <ttl>
type CatalogCache struct {
	client *redis.Client
	loader app.CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewCatalogCache(client *redis.Client, loader app.CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const catalogKey = "quiz:catalog"

// Catalog serves the cached catalog. A non-positive ttl disables caching and
// every call goes to the loader.
func (r *CatalogCache) Catalog(ctx context.Context) (catalog.Catalog, error) {
	if r.ttl <= 0 {
		return r.loader.LoadCatalog(ctx)
	}
	if c, ok := r.cached(ctx); ok {
		return c, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if c, ok := r.cached(ctx); ok {
			return c, nil
		}

		c, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return catalog.Catalog{}, err
		}

		data, err := json.Marshal(c.Questions())
		if err == nil {
			_ = r.client.Set(ctx, catalogKey, data, r.ttlWithJitter()).Err()
		}
		return c, nil
	})
	if err != nil {
		return catalog.Catalog{}, err
	}
	return result.(catalog.Catalog), nil
}

// cached treats unreadable or invalid cache content as a miss.
func (r *CatalogCache) cached(ctx context.Context) (catalog.Catalog, bool) {
	data, err := r.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		return catalog.Catalog{}, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return catalog.Catalog{}, false
	}
	c, err := catalog.New(questions)
	if err != nil {
		return catalog.Catalog{}, false
	}
	return c, true
}

func (r *CatalogCache) ttlWithJitter() time.Duration {
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
