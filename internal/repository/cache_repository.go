package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const publishedLessonsKey = "catalog:published_lessons"

// ErrCacheMiss значения нет в кеше или кеш выключен
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository кеш опубликованных занятий в Redis. Без клиента всегда промах.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	return &CacheRepository{client: client, logger: logger}
}

// GetPublished читает закешированный список занятий
func (r *CacheRepository) GetPublished(ctx context.Context) ([]model.Lesson, error) {
	if r.client == nil {
		return nil, ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, publishedLessonsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", publishedLessonsKey, err)
	}

	var lessons []model.Lesson
	if err := json.Unmarshal(raw, &lessons); err != nil {
		return nil, fmt.Errorf("unmarshal cached lessons: %w", err)
	}

	return lessons, nil
}

// SetPublished сохраняет список занятий на ttl
func (r *CacheRepository) SetPublished(ctx context.Context, lessons []model.Lesson, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(lessons)
	if err != nil {
		return fmt.Errorf("marshal lessons for cache: %w", err)
	}

	if err := r.client.Set(ctx, publishedLessonsKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", publishedLessonsKey, err)
	}

	return nil
}

// Invalidate сбрасывает кеш выдачи
func (r *CacheRepository) Invalidate(ctx context.Context) error {
	if r.client == nil {
		return nil
	}

	if err := r.client.Del(ctx, publishedLessonsKey).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", publishedLessonsKey, err)
	}

	r.logger.Debug("Catalog cache invalidated")
	return nil
}

// Close закрывает соединение с Redis
func (r *CacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
