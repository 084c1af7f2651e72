package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/schedule"
	"go.uber.org/zap"
)

// LessonService управление занятиями инструктора
type LessonService struct {
	tx         TxRunner
	lessonRepo LessonRepository
	catalog    *CatalogService
	now        func() time.Time
	logger     *zap.Logger
}

func NewLessonService(
	tx TxRunner,
	lessonRepo LessonRepository,
	catalog *CatalogService,
	now func() time.Time,
	logger *zap.Logger,
) *LessonService {
	if now == nil {
		now = time.Now
	}
	return &LessonService{
		tx:         tx,
		lessonRepo: lessonRepo,
		catalog:    catalog,
		now:        now,
		logger:     logger,
	}
}

// CreateLesson создаёт занятие в статусе draft
func (s *LessonService) CreateLesson(ctx context.Context, instructor *model.User, in LessonInput) (*model.Lesson, error) {
	if instructor == nil || !instructor.IsInstructor {
		return nil, ErrNotInstructor
	}

	if err := validateLesson(in); err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		InstructorID:       instructor.ID,
		Title:              in.Title,
		Description:        in.Description,
		Category:           in.Category,
		Subcategory:        in.Subcategory,
		LocationType:       in.LocationType,
		LessonType:         in.LessonType,
		Price:              in.Price,
		Duration:           in.Duration,
		Capacity:           in.Capacity,
		DiscountPercentage: in.DiscountPercentage,
		Status:             model.StatusDraft,
		ClassroomArea:      in.ClassroomArea,
		ClassroomCity:      in.ClassroomCity,
		Instructor:         instructor.InstructorSummary(),
	}

	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}

	s.logger.Info("Lesson created",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("instructor_id", instructor.ID),
		zap.String("title", lesson.Title),
	)

	return lesson, nil
}

// GetInstructorLessons занятия инструктора
func (s *LessonService) GetInstructorLessons(ctx context.Context, instructorID int64) ([]model.Lesson, error) {
	lessons, err := s.lessonRepo.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("list instructor lessons: %w", err)
	}
	return lessons, nil
}

// GetOwnedLesson возвращает занятие, если оно принадлежит инструктору
func (s *LessonService) GetOwnedLesson(ctx context.Context, instructorID, lessonID int64) (*model.Lesson, error) {
	return ownedLesson(ctx, s.lessonRepo, instructorID, lessonID)
}

// ChangeStatus переводит занятие в новый статус по таблице переходов.
// Отмена занятия отменяет его опубликованные слоты и записи на них.
func (s *LessonService) ChangeStatus(ctx context.Context, instructorID, lessonID int64, to model.Status) (*model.Lesson, error) {
	lesson, err := ownedLesson(ctx, s.lessonRepo, instructorID, lessonID)
	if err != nil {
		return nil, err
	}

	next, err := model.Transition(lesson.Status, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, lesson.Status, to)
	}

	err = s.tx.InTx(ctx, func(ctx context.Context, repos Repos) error {
		if err := repos.Lessons.UpdateStatus(ctx, lesson.ID, next); err != nil {
			return fmt.Errorf("update lesson status: %w", err)
		}

		if next != model.StatusCancelled {
			return nil
		}

		for _, slot := range lesson.Slots {
			if slot.Status.IsTerminal() {
				continue
			}
			if err := repos.Slots.UpdateStatus(ctx, slot.ID, model.StatusCancelled); err != nil {
				return fmt.Errorf("cancel slot %d: %w", slot.ID, err)
			}
			if _, err := repos.Bookings.CancelBySlot(ctx, slot.ID); err != nil {
				return fmt.Errorf("cancel bookings for slot %d: %w", slot.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lesson status changed",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("instructor_id", instructorID),
		zap.String("from", string(lesson.Status)),
		zap.String("to", string(next)),
	)

	lesson.Status = next
	s.catalog.Invalidate(ctx)

	return lesson, nil
}

// UpdateCapacity меняет вместимость занятия и всех его незавершённых слотов.
// Нельзя опустить ниже числа записанных на самый заполненный из них.
func (s *LessonService) UpdateCapacity(ctx context.Context, instructorID, lessonID int64, capacity int) (*model.Lesson, error) {
	if err := validateCapacity(capacity); err != nil {
		return nil, err
	}

	var lesson *model.Lesson
	err := s.tx.InTx(ctx, func(ctx context.Context, repos Repos) error {
		var err error
		lesson, err = ownedLesson(ctx, repos.Lessons, instructorID, lessonID)
		if err != nil {
			return err
		}

		if lesson.Status.IsTerminal() {
			return ErrLessonClosed
		}

		open, busiest := 0, 0
		for _, slot := range lesson.Slots {
			if slot.Status.IsTerminal() {
				continue
			}
			open++
			busiest = max(busiest, slot.CurrentParticipantsCount)
		}

		if capacity < busiest {
			return fmt.Errorf("%w: %d participants in one slot, capacity %d", ErrCapacityBelowParticipants, busiest, capacity)
		}

		if err := repos.Lessons.UpdateCapacity(ctx, lesson.ID, capacity); err != nil {
			return fmt.Errorf("update capacity: %w", err)
		}

		updated, err := repos.Slots.UpdateOpenCapacity(ctx, lesson.ID, capacity)
		if err != nil {
			return err
		}
		// за время транзакции в какой-то слот успели записаться сверх новой вместимости
		if updated < int64(open) {
			return fmt.Errorf("%w: participants changed, try again", ErrCapacityBelowParticipants)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lesson.Capacity = capacity
	for i := range lesson.Slots {
		if !lesson.Slots[i].Status.IsTerminal() {
			lesson.Slots[i].Capacity = capacity
		}
	}

	s.logger.Info("Lesson capacity updated",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int("capacity", capacity),
	)

	s.catalog.Invalidate(ctx)

	return lesson, nil
}

// Reconcile завершает прошедшие слоты и занятия
func (s *LessonService) Reconcile(ctx context.Context) (schedule.ReconcileResult, error) {
	lessons, err := s.lessonRepo.ListPublished(ctx)
	if err != nil {
		return schedule.ReconcileResult{}, fmt.Errorf("list published lessons: %w", err)
	}

	result := schedule.Reconcile(lessons, s.now())
	if result.Empty() {
		return result, nil
	}

	var bookingsCompleted int64
	err = s.tx.InTx(ctx, func(ctx context.Context, repos Repos) error {
		for _, change := range result.Slots {
			if err := repos.Slots.UpdateStatus(ctx, change.SlotID, change.To); err != nil {
				return fmt.Errorf("complete slot %d: %w", change.SlotID, err)
			}
			n, err := repos.Bookings.CompleteBySlot(ctx, change.SlotID)
			if err != nil {
				return fmt.Errorf("complete bookings for slot %d: %w", change.SlotID, err)
			}
			bookingsCompleted += n
		}
		for _, change := range result.Lessons {
			if err := repos.Lessons.UpdateStatus(ctx, change.LessonID, change.To); err != nil {
				return fmt.Errorf("complete lesson %d: %w", change.LessonID, err)
			}
		}
		return nil
	})
	if err != nil {
		return schedule.ReconcileResult{}, err
	}

	s.logger.Info("Lesson statuses reconciled",
		zap.Int("slots_completed", len(result.Slots)),
		zap.Int("lessons_completed", len(result.Lessons)),
		zap.Int64("bookings_completed", bookingsCompleted),
	)

	s.catalog.Invalidate(ctx)
	return result, nil
}

func ownedLesson(ctx context.Context, repo LessonRepository, instructorID, lessonID int64) (*model.Lesson, error) {
	lesson, err := repo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	if lesson.InstructorID != instructorID {
		return nil, ErrNotLessonOwner
	}

	return lesson, nil
}
