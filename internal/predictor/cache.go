package predictor

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/richxcame/review-guard/internal/scoring"
	"github.com/richxcame/review-guard/pkg/logger"
	"github.com/richxcame/review-guard/pkg/models"
	redisclient "github.com/richxcame/review-guard/pkg/redis"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "predictor:v1:"

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "reviewguard",
	Name:      "predictor_cache_lookups_total",
	Help:      "Predictor cache lookups by result (hit, miss, error)",
}, []string{"result"})

// CacheStore is the subset of *redis.Client the cache needs.
type CacheStore interface {
	GetString(ctx context.Context, key string) (string, error)
	SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// CachedPredictor memoises an inner predictor in Redis, keyed on kind and the exact vector.
type CachedPredictor struct {
	inner scoring.Predictor
	store CacheStore
	ttl   time.Duration
}

// NewCachedPredictor wraps inner with a Redis cache.
func NewCachedPredictor(inner scoring.Predictor, store CacheStore, ttl time.Duration) *CachedPredictor {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedPredictor{inner: inner, store: store, ttl: ttl}
}

// Score implements scoring.Predictor. Redis errors fall through to the inner predictor.
func (c *CachedPredictor) Score(ctx context.Context, kind models.PatternKind, vector models.FeatureVector) (float64, error) {
	key := CacheKey(kind, vector)

	cached, err := c.store.GetString(ctx, key)
	switch {
	case err == nil:
		if p, perr := strconv.ParseFloat(cached, 64); perr == nil {
			cacheLookups.WithLabelValues("hit").Inc()
			return p, nil
		}
		cacheLookups.WithLabelValues("error").Inc()
	case redisclient.IsMiss(err):
		cacheLookups.WithLabelValues("miss").Inc()
	default:
		cacheLookups.WithLabelValues("error").Inc()
		logger.WithContext(ctx).Debug("predictor cache read failed", zap.Error(err))
	}

	p, err := c.inner.Score(ctx, kind, vector)
	if err != nil {
		return 0, err
	}

	if err := c.store.SetWithExpiration(ctx, key, strconv.FormatFloat(p, 'g', -1, 64), c.ttl); err != nil {
		logger.WithContext(ctx).Debug("predictor cache write failed", zap.Error(err))
	}
	return p, nil
}

// CacheKey derives the cache key from kind and the SHA-256 of the vector's IEEE-754 bits.
func CacheKey(kind models.PatternKind, vector models.FeatureVector) string {
	h := sha256.New()
	buf := make([]byte, 8)
	for _, v := range vector {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		h.Write(buf)
	}
	return cacheKeyPrefix + string(kind) + ":" + hex.EncodeToString(h.Sum(nil))
}
