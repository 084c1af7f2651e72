package repository

import (
	"context"
	"testing"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCacheRepository_Disabled(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheRepository(nil, zap.NewNop())

	_, err := cache.GetPublished(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, cache.SetPublished(ctx, []model.Lesson{{ID: 1}}, 0))
	assert.NoError(t, cache.Invalidate(ctx))
	assert.NoError(t, cache.Close())

	_, err = cache.GetPublished(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss, "nothing is stored without a client")
}
