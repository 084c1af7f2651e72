package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/schedule"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleService планирование слотов занятия по календарю
type ScheduleService struct {
	tx         TxRunner
	lessonRepo LessonRepository
	slotRepo   SlotRepository
	catalog    *CatalogService
	metrics    Metrics
	location   *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

func NewScheduleService(
	tx TxRunner,
	lessonRepo LessonRepository,
	slotRepo SlotRepository,
	catalog *CatalogService,
	metrics Metrics,
	location *time.Location,
	now func() time.Time,
	logger *zap.Logger,
) *ScheduleService {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{
		tx:         tx,
		lessonRepo: lessonRepo,
		slotRepo:   slotRepo,
		catalog:    catalog,
		metrics:    metrics,
		location:   location,
		now:        now,
		logger:     logger,
	}
}

// DefaultTemplate шаблон по умолчанию из параметров занятия
func DefaultTemplate(lesson *model.Lesson) schedule.Template {
	discount := 0
	if lesson.DiscountPercentage != nil {
		discount = *lesson.DiscountPercentage
	}
	duration := lesson.Duration
	if duration <= 0 {
		duration = 60
	}
	return schedule.Template{
		Start:              schedule.Clock{Hour: 10},
		DurationMinutes:    duration,
		Capacity:           lesson.Capacity,
		Price:              lesson.Price,
		DiscountPercentage: discount,
		DeadlineDays:       1,
		DeadlineTime:       schedule.Clock{Hour: 18},
	}
}

// NewDraft открывает пустой черновик расписания для своего занятия
func (s *ScheduleService) NewDraft(ctx context.Context, instructorID, lessonID int64) (*schedule.Draft, error) {
	lesson, err := ownedLesson(ctx, s.lessonRepo, instructorID, lessonID)
	if err != nil {
		return nil, err
	}

	if lesson.Status.IsTerminal() {
		return nil, ErrLessonClosed
	}

	return schedule.NewDraft(DefaultTemplate(lesson), s.location, s.now), nil
}

// UpdateTemplate проверяет и подменяет шаблон черновика
func (s *ScheduleService) UpdateTemplate(draft *schedule.Draft, t schedule.Template) error {
	if err := ValidateTemplate(t); err != nil {
		return err
	}
	draft.SetTemplate(t)
	return nil
}

// Commit сохраняет слоты черновика одной транзакцией и публикует занятие,
// если оно было черновиком. Слоты, совпадающие по началу с уже
// существующими, пропускаются.
func (s *ScheduleService) Commit(ctx context.Context, instructorID, lessonID int64, draftID uuid.UUID, draft *schedule.Draft) (int, error) {
	if draft == nil || draft.Len() == 0 {
		return 0, ErrNothingToCommit
	}

	for _, slot := range draft.Slots() {
		if err := ValidateSlot(slot); err != nil {
			return 0, fmt.Errorf("slot %s: %w", slot.Date, err)
		}
	}

	lesson, err := ownedLesson(ctx, s.lessonRepo, instructorID, lessonID)
	if err != nil {
		return 0, err
	}

	if lesson.Status.IsTerminal() {
		return 0, ErrLessonClosed
	}

	existing, err := s.slotRepo.StartTimes(ctx, lesson.ID)
	if err != nil {
		return 0, fmt.Errorf("get existing slots: %w", err)
	}

	records := skipExisting(draft.WriteRecords(lesson.ID), existing)
	if len(records) == 0 {
		return 0, ErrNothingToCommit
	}

	err = s.tx.InTx(ctx, func(ctx context.Context, repos Repos) error {
		if _, err := repos.Slots.CreateBatch(ctx, records); err != nil {
			return fmt.Errorf("create slots: %w", err)
		}

		if lesson.Status == model.StatusDraft {
			if err := repos.Lessons.UpdateStatus(ctx, lesson.ID, model.StatusPublished); err != nil {
				return fmt.Errorf("publish lesson: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Slots committed",
		zap.String("draft_id", draftID.String()),
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("instructor_id", instructorID),
		zap.Int("created", len(records)),
		zap.Int("skipped", draft.Len()-len(records)),
	)

	s.metrics.SlotsCommitted(len(records))
	s.catalog.Invalidate(ctx)
	draft.Clear()

	return len(records), nil
}

func skipExisting(records []model.SlotWriteRecord, existing []time.Time) []model.SlotWriteRecord {
	if len(existing) == 0 {
		return records
	}

	out := make([]model.SlotWriteRecord, 0, len(records))
	for _, rec := range records {
		duplicate := false
		for _, t := range existing {
			if rec.DateTimeStart.Equal(t) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, rec)
		}
	}
	return out
}
