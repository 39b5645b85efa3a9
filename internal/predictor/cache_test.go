package predictor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/richxcame/review-guard/pkg/models"
	redisclient "github.com/richxcame/review-guard/pkg/redis"
	"github.com/richxcame/review-guard/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCachedPredictor(t *testing.T) (*CachedPredictor, *mocks.MockPredictor, redismock.ClientMock) {
	t.Helper()
	db, redisMock := redismock.NewClientMock()
	inner := new(mocks.MockPredictor)
	return NewCachedPredictor(inner, &redisclient.Client{Client: db}, time.Minute), inner, redisMock
}

func TestCachedPredictor_Hit(t *testing.T) {
	cached, inner, redisMock := newCachedPredictor(t)
	vector := models.FeatureVector{1, 2, 3}
	key := CacheKey(models.PatternBot, vector)

	redisMock.ExpectGet(key).SetVal("0.42")

	prob, err := cached.Score(context.Background(), models.PatternBot, vector)
	require.NoError(t, err)
	assert.Equal(t, 0.42, prob)
	inner.AssertNotCalled(t, "Score", mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachedPredictor_MissStoresResult(t *testing.T) {
	cached, inner, redisMock := newCachedPredictor(t)
	vector := models.FeatureVector{4, 5}
	key := CacheKey(models.PatternFake, vector)

	redisMock.ExpectGet(key).RedisNil()
	inner.On("Score", mock.Anything, models.PatternFake, vector).Return(0.7, nil).Once()
	redisMock.ExpectSet(key, "0.7", time.Minute).SetVal("OK")

	prob, err := cached.Score(context.Background(), models.PatternFake, vector)
	require.NoError(t, err)
	assert.Equal(t, 0.7, prob)
	inner.AssertExpectations(t)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCachedPredictor_RedisErrorFallsThrough(t *testing.T) {
	cached, inner, redisMock := newCachedPredictor(t)
	vector := models.FeatureVector{9}
	key := CacheKey(models.PatternBurst, vector)

	redisMock.ExpectGet(key).SetErr(errors.New("connection refused"))
	inner.On("Score", mock.Anything, models.PatternBurst, vector).Return(0.1, nil).Once()
	redisMock.ExpectSet(key, "0.1", time.Minute).SetErr(errors.New("connection refused"))

	prob, err := cached.Score(context.Background(), models.PatternBurst, vector)
	require.NoError(t, err)
	assert.Equal(t, 0.1, prob)
	inner.AssertExpectations(t)
}

func TestCachedPredictor_InnerErrorNotCached(t *testing.T) {
	cached, inner, redisMock := newCachedPredictor(t)
	vector := models.FeatureVector{9}
	key := CacheKey(models.PatternCopyPaste, vector)

	redisMock.ExpectGet(key).RedisNil()
	inner.On("Score", mock.Anything, models.PatternCopyPaste, vector).Return(0.0, errors.New("model down")).Once()

	_, err := cached.Score(context.Background(), models.PatternCopyPaste, vector)
	require.Error(t, err)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCacheKey(t *testing.T) {
	a := CacheKey(models.PatternBot, models.FeatureVector{1, 2, 3})

	assert.Equal(t, a, CacheKey(models.PatternBot, models.FeatureVector{1, 2, 3}))
	assert.NotEqual(t, a, CacheKey(models.PatternFake, models.FeatureVector{1, 2, 3}))
	assert.NotEqual(t, a, CacheKey(models.PatternBot, models.FeatureVector{1, 2, 4}))
	assert.Contains(t, a, "predictor:v1:bot:")
}
