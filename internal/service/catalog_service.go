package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/catalog"
	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/repository"
	"go.uber.org/zap"
)

// CatalogService выдача занятий ученикам
type CatalogService struct {
	lessonRepo LessonRepository
	cache      CatalogCache
	cacheTTL   time.Duration
	engine     *catalog.Engine
	metrics    Metrics
	logger     *zap.Logger
}

func NewCatalogService(
	lessonRepo LessonRepository,
	cache CatalogCache,
	cacheTTL time.Duration,
	engine *catalog.Engine,
	metrics Metrics,
	logger *zap.Logger,
) *CatalogService {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &CatalogService{
		lessonRepo: lessonRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
		engine:     engine,
		metrics:    metrics,
		logger:     logger,
	}
}

// Location зона, в которой показываются даты
func (s *CatalogService) Location() *time.Location {
	return s.engine.Location()
}

// BrowseResult страница выдачи и фильтры, собранные по тому же списку занятий
type BrowseResult struct {
	catalog.Page
	Categories []catalog.Category
	Areas      []string
}

// Browse возвращает страницу выдачи для запроса вместе с категориями и районами
func (s *CatalogService) Browse(ctx context.Context, q catalog.Query) (BrowseResult, error) {
	started := time.Now()

	lessons, err := s.published(ctx)
	if err != nil {
		return BrowseResult{}, err
	}

	page := s.engine.Browse(lessons, q)
	s.metrics.ObserveBrowse(time.Since(started), page.TotalItems)

	s.logger.Debug("Catalog browsed",
		zap.String("sort", string(q.Sort)),
		zap.Int("page", page.Page),
		zap.Int("total_items", page.TotalItems),
	)

	return BrowseResult{
		Page:       page,
		Categories: catalog.Categories(lessons),
		Areas:      catalog.Areas(lessons),
	}, nil
}

// LessonDetail возвращает опубликованное занятие и слоты, доступные для записи
func (s *CatalogService) LessonDetail(ctx context.Context, lessonID int64) (*model.Lesson, []model.BookingSlot, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, nil, fmt.Errorf("get lesson: %w", err)
	}

	if lesson == nil || lesson.Status != model.StatusPublished {
		return nil, nil, ErrLessonNotFound
	}

	s.localize(lesson)
	return lesson, catalog.UpcomingSlots(*lesson, s.engine.Now()), nil
}

// Invalidate сбрасывает кеш выдачи
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate catalog cache", zap.Error(err))
	}
}

// published загружает опубликованные занятия: сначала кеш, потом база
func (s *CatalogService) published(ctx context.Context) ([]model.Lesson, error) {
	if s.cache != nil {
		lessons, err := s.cache.GetPublished(ctx)
		switch {
		case err == nil:
			s.metrics.CacheHit()
			for i := range lessons {
				s.localize(&lessons[i])
			}
			return lessons, nil
		case errors.Is(err, repository.ErrCacheMiss):
			s.metrics.CacheMiss()
		default:
			s.metrics.CacheMiss()
			s.logger.Warn("Catalog cache read failed", zap.Error(err))
		}
	}

	loaded, err := s.lessonRepo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published lessons: %w", err)
	}

	lessons := make([]model.Lesson, 0, len(loaded))
	for i := range loaded {
		if err := loaded[i].Validate(); err != nil {
			s.logger.Warn("Skipping invalid lesson record",
				zap.Int64("lesson_id", loaded[i].ID),
				zap.Error(err),
			)
			continue
		}
		s.localize(&loaded[i])
		lessons = append(lessons, loaded[i])
	}

	if s.cache != nil {
		if err := s.cache.SetPublished(ctx, lessons, s.cacheTTL); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}

	return lessons, nil
}

// localize переводит все времена занятия в зону выдачи
func (s *CatalogService) localize(l *model.Lesson) {
	loc := s.engine.Location()
	l.CreatedAt = l.CreatedAt.In(loc)
	l.UpdatedAt = l.UpdatedAt.In(loc)
	for i := range l.Slots {
		slot := &l.Slots[i]
		slot.DateTimeStart = slot.DateTimeStart.In(loc)
		slot.DateTimeEnd = slot.DateTimeEnd.In(loc)
		slot.BookingDeadline = slot.BookingDeadline.In(loc)
		slot.CreatedAt = slot.CreatedAt.In(loc)
	}
}
