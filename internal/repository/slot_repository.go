package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const slotSelect = `
	SELECT id, lesson_id, date_time_start, date_time_end, booking_deadline, capacity,
		current_participants_count, price, discount_percentage, status, notes, venue_details, created_at
	FROM booking_slots
`

type SlotRepository struct {
	db base.Querier
}

func NewSlotRepository(db base.Querier) *SlotRepository {
	return &SlotRepository{db: db}
}

func scanSlot(row pgx.Row) (*model.BookingSlot, error) {
	var slot model.BookingSlot
	err := row.Scan(
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
		return nil, err
	}
	return &slot, nil
}

// CreateBatch вставляет слоты одним батчем и возвращает их ID в том же порядке
func (r *SlotRepository) CreateBatch(ctx context.Context, records []model.SlotWriteRecord) ([]int64, error) {
	if len(records) == 0 {
		return nil, nil
	}

	query := `
		INSERT INTO booking_slots (lesson_id, date_time_start, date_time_end, booking_deadline, capacity,
			current_participants_count, price, discount_percentage, status, notes, venue_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query,
			rec.LessonID,
			rec.DateTimeStart,
			rec.DateTimeEnd,
			rec.BookingDeadline,
			rec.Capacity,
			rec.CurrentParticipantsCount,
			rec.Price,
			rec.DiscountPercentage,
			rec.Status,
			rec.Notes,
			rec.VenueDetails,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	ids := make([]int64, 0, len(records))
	for i := range records {
		var id int64
		if err := results.QueryRow().Scan(&id); err != nil {
			return nil, fmt.Errorf("create slot %d of %d: %w", i+1, len(records), err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.BookingSlot, error) {
	return r.get(ctx, slotSelect+` WHERE id = $1`, id)
}

// GetByIDForUpdate получает слот и блокирует строку до конца транзакции
func (r *SlotRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.BookingSlot, error) {
	return r.get(ctx, slotSelect+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *SlotRepository) get(ctx context.Context, query string, id int64) (*model.BookingSlot, error) {
	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}
	return slot, nil
}

// StartTimes возвращает начала неотменённых слотов занятия
func (r *SlotRepository) StartTimes(ctx context.Context, lessonID int64) ([]time.Time, error) {
	query := `
		SELECT date_time_start
		FROM booking_slots
		WHERE lesson_id = $1 AND status <> 'cancelled'
	`

	rows, err := r.db.Query(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get slot start times: %w", err)
	}
	defer rows.Close()

	var starts []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan slot start: %w", err)
		}
		starts = append(starts, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slot starts: %w", err)
	}

	return starts, nil
}

// UpdateStatus обновляет статус слота
func (r *SlotRepository) UpdateStatus(ctx context.Context, slotID int64, status model.Status) error {
	query := `
		UPDATE booking_slots
		SET status = $1
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, status, slotID)
	if err != nil {
		return fmt.Errorf("update slot status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot not found")
	}

	return nil
}

// UpdateOpenCapacity меняет вместимость незавершённых слотов занятия.
// Слоты, где записано больше участников, не трогаются. Возвращает число изменённых слотов.
func (r *SlotRepository) UpdateOpenCapacity(ctx context.Context, lessonID int64, capacity int) (int64, error) {
	query := `
		UPDATE booking_slots
		SET capacity = $2
		WHERE lesson_id = $1
			AND status IN ('draft', 'published')
			AND current_participants_count <= $2
	`

	affected, err := base.NewRepository(r.db).ExecAffected(ctx, query, lessonID, capacity)
	if err != nil {
		return 0, fmt.Errorf("update slot capacity: %w", err)
	}

	return affected, nil
}

// AddParticipants меняет счётчик участников слота на delta, не выходя за вместимость
func (r *SlotRepository) AddParticipants(ctx context.Context, slotID int64, delta int) error {
	query := `
		UPDATE booking_slots
		SET current_participants_count = current_participants_count + $1
		WHERE id = $2
			AND current_participants_count + $1 >= 0
			AND current_participants_count + $1 <= capacity
	`

	result, err := r.db.Exec(ctx, query, delta, slotID)
	if err != nil {
		return fmt.Errorf("update slot participants: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot not found or capacity exceeded")
	}

	return nil
}
