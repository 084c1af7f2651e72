package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"go.uber.org/zap"
)

type BookingService struct {
	tx          TxRunner
	lessonRepo  LessonRepository
	bookingRepo BookingRepository
	catalog     *CatalogService
	metrics     Metrics
	now         func() time.Time
	logger      *zap.Logger
}

func NewBookingService(
	tx TxRunner,
	lessonRepo LessonRepository,
	bookingRepo BookingRepository,
	catalog *CatalogService,
	metrics Metrics,
	now func() time.Time,
	logger *zap.Logger,
) *BookingService {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		tx:          tx,
		lessonRepo:  lessonRepo,
		bookingRepo: bookingRepo,
		catalog:     catalog,
		metrics:     metrics,
		now:         now,
		logger:      logger,
	}
}

// BookSlot записывает ученика на слот. Слот блокируется до конца транзакции.
func (s *BookingService) BookSlot(ctx context.Context, learnerID, slotID int64) (*model.Booking, error) {
	var booking *model.Booking

	err := s.tx.InTx(ctx, func(ctx context.Context, repos Repos) error {
		slot, err := repos.Slots.GetByIDForUpdate(ctx, slotID)
		if err != nil {
			return fmt.Errorf("get slot: %w", err)
		}

		if slot == nil {
			return ErrSlotNotFound
		}

		now := s.now()
		switch {
		case slot.Status != model.StatusPublished || !slot.DateTimeStart.After(now):
			return ErrSlotUnavailable
		case now.After(slot.BookingDeadline):
			return ErrBookingClosed
		case slot.IsFull():
			return ErrSlotFull
		}

		existing, err := repos.Bookings.GetActive(ctx, learnerID, slotID)
		if err != nil {
			return fmt.Errorf("check existing booking: %w", err)
		}
		if existing != nil {
			return ErrAlreadyBooked
		}

		booking = &model.Booking{
			LearnerID:     learnerID,
			LessonID:      slot.LessonID,
			SlotID:        slot.ID,
			Status:        model.BookingStatusConfirmed,
			PaymentStatus: model.PaymentStatusUnpaid,
		}

		if err := repos.Bookings.Create(ctx, booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		if err := repos.Slots.AddParticipants(ctx, slot.ID, 1); err != nil {
			return fmt.Errorf("increment slot participants: %w", err)
		}

		if err := repos.Lessons.AddParticipants(ctx, slot.LessonID, 1); err != nil {
			return fmt.Errorf("increment lesson participants: %w", err)
		}

		slot.CurrentParticipantsCount++
		booking.Slot = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("learner_id", learnerID),
		zap.Int64("slot_id", slotID),
		zap.Int64("lesson_id", booking.LessonID),
	)

	s.metrics.BookingCreated()
	s.catalog.Invalidate(ctx)

	return booking, nil
}

// CancelBooking отменяет запись. Отменить может ученик или инструктор занятия.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}

	if booking == nil {
		return ErrBookingNotFound
	}

	lesson, err := s.lessonRepo.GetByID(ctx, booking.LessonID)
	if err != nil {
		return fmt.Errorf("get lesson: %w", err)
	}

	if lesson == nil {
		return ErrLessonNotFound
	}

	// Проверяем что пользователь имеет право отменить
	if booking.LearnerID != userID && lesson.InstructorID != userID {
		return ErrNoPermission
	}

	if !booking.IsActive() {
		return ErrBookingNotActive
	}

	// Повторная проверка статуса в UPDATE: счётчики уменьшает только одна отмена
	err = s.tx.InTx(ctx, func(ctx context.Context, repos Repos) error {
		cancelled, err := repos.Bookings.CancelActive(ctx, booking.ID)
		if err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}
		if !cancelled {
			return ErrBookingNotActive
		}

		if err := repos.Slots.AddParticipants(ctx, booking.SlotID, -1); err != nil {
			return fmt.Errorf("decrement slot participants: %w", err)
		}

		if err := repos.Lessons.AddParticipants(ctx, booking.LessonID, -1); err != nil {
			return fmt.Errorf("decrement lesson participants: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Booking cancelled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("user_id", userID),
	)

	s.metrics.BookingCancelled()
	s.catalog.Invalidate(ctx)

	return nil
}

// MarkPaid отмечает запись оплаченной. Доступно только инструктору занятия.
func (s *BookingService) MarkPaid(ctx context.Context, bookingID, instructorID int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}

	if booking == nil {
		return ErrBookingNotFound
	}

	if _, err := ownedLesson(ctx, s.lessonRepo, instructorID, booking.LessonID); err != nil {
		return err
	}

	if booking.Status == model.BookingStatusCancelled {
		return ErrBookingNotActive
	}

	if booking.PaymentStatus == model.PaymentStatusPaid {
		return nil
	}

	if err := s.bookingRepo.UpdatePaymentStatus(ctx, booking.ID, model.PaymentStatusPaid); err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}

	s.logger.Info("Booking marked as paid",
		zap.Int64("booking_id", bookingID),
		zap.Int64("instructor_id", instructorID),
	)

	return nil
}

// GetLearnerBookings записи ученика, ближайшие первыми
func (s *BookingService) GetLearnerBookings(ctx context.Context, learnerID int64) ([]*model.Booking, error) {
	bookings, err := s.bookingRepo.GetByLearnerID(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("get learner bookings: %w", err)
	}
	return bookings, nil
}
