package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/repository/base"
)

type BookingRepository struct {
	db base.Querier
}

func NewBookingRepository(db base.Querier) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (learner_id, lesson_id, slot_id, status, payment_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		booking.LearnerID,
		booking.LessonID,
		booking.SlotID,
		booking.Status,
		booking.PaymentStatus,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `
		SELECT id, learner_id, lesson_id, slot_id, status, payment_status, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking model.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.LearnerID,
		&booking.LessonID,
		&booking.SlotID,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// GetActive получает активное бронирование ученика на слот
func (r *BookingRepository) GetActive(ctx context.Context, learnerID, slotID int64) (*model.Booking, error) {
	query := `
		SELECT id, learner_id, lesson_id, slot_id, status, payment_status, created_at, updated_at
		FROM bookings
		WHERE learner_id = $1 AND slot_id = $2 AND status = 'confirmed'
		LIMIT 1
	`

	var booking model.Booking
	err := r.db.QueryRow(ctx, query, learnerID, slotID).Scan(
		&booking.ID,
		&booking.LearnerID,
		&booking.LessonID,
		&booking.SlotID,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active booking: %w", err)
	}

	return &booking, nil
}

// GetByLearnerID получает бронирования ученика вместе со слотами, ближайшие первыми
func (r *BookingRepository) GetByLearnerID(ctx context.Context, learnerID int64) ([]*model.Booking, error) {
	query := `
		SELECT b.id, b.learner_id, b.lesson_id, b.slot_id, b.status, b.payment_status, b.created_at, b.updated_at,
			s.id, s.lesson_id, s.date_time_start, s.date_time_end, s.booking_deadline, s.capacity,
			s.current_participants_count, s.price, s.discount_percentage, s.status, s.notes, s.venue_details, s.created_at
		FROM bookings b
		JOIN booking_slots s ON s.id = b.slot_id
		WHERE b.learner_id = $1
		ORDER BY s.date_time_start
	`

	rows, err := r.db.Query(ctx, query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by learner: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var (
			booking model.Booking
			slot    model.BookingSlot
		)
		err := rows.Scan(
			&booking.ID,
			&booking.LearnerID,
			&booking.LessonID,
			&booking.SlotID,
			&booking.Status,
			&booking.PaymentStatus,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&slot.ID,
			&slot.LessonID,
			&slot.DateTimeStart,
			&slot.DateTimeEnd,
			&slot.BookingDeadline,
			&slot.Capacity,
			&slot.CurrentParticipantsCount,
			&slot.Price,
			&slot.DiscountPercentage,
			&slot.Status,
			&slot.Notes,
			&slot.VenueDetails,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		booking.Slot = &slot
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// CancelActive отменяет бронирование, только если оно ещё подтверждено.
// false означает, что запись уже отменена или завершена.
func (r *BookingRepository) CancelActive(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'confirmed'
	`

	affected, err := base.NewRepository(r.db).ExecAffected(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}

	return affected == 1, nil
}

// UpdatePaymentStatus отмечает оплату бронирования
func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id int64, status model.PaymentStatus) error {
	query := `
		UPDATE bookings
		SET payment_status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

// CompleteBySlot переводит подтверждённые бронирования прошедшего слота в completed
func (r *BookingRepository) CompleteBySlot(ctx context.Context, slotID int64) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', updated_at = NOW()
		WHERE slot_id = $1 AND status = 'confirmed'
	`

	affected, err := base.NewRepository(r.db).ExecAffected(ctx, query, slotID)
	if err != nil {
		return 0, fmt.Errorf("complete bookings by slot: %w", err)
	}

	return affected, nil
}

// CancelBySlot отменяет подтверждённые бронирования отменённого слота
func (r *BookingRepository) CancelBySlot(ctx context.Context, slotID int64) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = NOW()
		WHERE slot_id = $1 AND status = 'confirmed'
	`

	affected, err := base.NewRepository(r.db).ExecAffected(ctx, query, slotID)
	if err != nil {
		return 0, fmt.Errorf("cancel bookings by slot: %w", err)
	}

	return affected, nil
}
