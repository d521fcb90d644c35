package service

import (
	"context"
	"time"

	"github.com/scentvault/scentvault-backend/internal/metrics"
	"github.com/scentvault/scentvault-backend/pkg/logger"
)

const searchCacheTimeout = 500 * time.Millisecond

// SearchCache 자동완성 결과 캐시 (Redis 구현: pkg/redis.SearchCache)
type SearchCache interface {
	Get(ctx context.Context, query string, dest interface{}) (bool, error)
	Set(ctx context.Context, query string, value interface{}) error
	Invalidate(ctx context.Context) error
}

// cacheGuard 캐시가 없거나 실패해도 요청은 DB 로 계속 처리됨
type cacheGuard struct {
	cache SearchCache
}

func cacheOrNoop(cache SearchCache) *cacheGuard {
	return &cacheGuard{cache: cache}
}

func (g *cacheGuard) lookup(query string, dest interface{}) bool {
	if g.cache == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchCacheTimeout)
	defer cancel()

	hit, err := g.cache.Get(ctx, query, dest)
	switch {
	case err != nil:
		metrics.RecordSearchCache("error")
		logger.Warn("Search cache lookup failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return false
	case hit:
		metrics.RecordSearchCache("hit")
		return true
	default:
		metrics.RecordSearchCache("miss")
		return false
	}
}

func (g *cacheGuard) store(query string, value interface{}) {
	if g.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchCacheTimeout)
	defer cancel()

	if err := g.cache.Set(ctx, query, value); err != nil {
		logger.Warn("Search cache store failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
	}
}

func (g *cacheGuard) invalidate(reason string) {
	if g.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchCacheTimeout)
	defer cancel()

	if err := g.cache.Invalidate(ctx); err != nil {
		logger.Warn("Search cache invalidation failed", map[string]interface{}{
			"reason": reason,
			"error":  err.Error(),
		})
	}
}
