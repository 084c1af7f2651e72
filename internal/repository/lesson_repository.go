package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const lessonSelect = `
	SELECT l.id, l.instructor_id, l.title, l.description, l.category, l.subcategory, l.subcategories,
		l.location_type, l.lesson_type, l.price, l.duration, l.capacity, l.current_participants_count,
		l.discount_percentage, l.status, l.is_featured, l.review_count, l.classroom_area, l.classroom_city,
		l.created_at, l.updated_at,
		u.id, TRIM(u.first_name || ' ' || u.last_name), u.average_rating, u.is_verified, u.profile_image_url
	FROM lessons l
	JOIN users u ON u.id = l.instructor_id
`

type LessonRepository struct {
	db base.Querier
}

func NewLessonRepository(db base.Querier) *LessonRepository {
	return &LessonRepository{db: db}
}

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var l model.Lesson
	err := row.Scan(
		&l.ID,
		&l.InstructorID,
		&l.Title,
		&l.Description,
		&l.Category,
		&l.Subcategory,
		&l.Subcategories,
		&l.LocationType,
		&l.LessonType,
		&l.Price,
		&l.Duration,
		&l.Capacity,
		&l.CurrentParticipantsCount,
		&l.DiscountPercentage,
		&l.Status,
		&l.IsFeatured,
		&l.ReviewCount,
		&l.ClassroomArea,
		&l.ClassroomCity,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.Instructor.ID,
		&l.Instructor.Name,
		&l.Instructor.AverageRating,
		&l.Instructor.IsVerified,
		&l.Instructor.ProfileImageURL,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create создаёт занятие в статусе draft
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (instructor_id, title, description, category, subcategory, subcategories,
			location_type, lesson_type, price, duration, capacity, discount_percentage, status,
			classroom_area, classroom_city)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`

	subcategories := lesson.Subcategories
	if subcategories == nil {
		subcategories = []string{}
	}

	err := r.db.QueryRow(
		ctx, query,
		lesson.InstructorID,
		lesson.Title,
		lesson.Description,
		lesson.Category,
		lesson.Subcategory,
		subcategories,
		lesson.LocationType,
		lesson.LessonType,
		lesson.Price,
		lesson.Duration,
		lesson.Capacity,
		lesson.DiscountPercentage,
		lesson.Status,
		lesson.ClassroomArea,
		lesson.ClassroomCity,
	).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// GetByID получает занятие вместе с инструктором и всеми слотами
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	lesson, err := scanLesson(r.db.QueryRow(ctx, lessonSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson by id: %w", err)
	}

	slots, err := r.slotsByLessons(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	lesson.Slots = slots[id]

	return lesson, nil
}

// ListPublished получает опубликованные занятия с инструкторами и слотами
func (r *LessonRepository) ListPublished(ctx context.Context) ([]model.Lesson, error) {
	return r.list(ctx, lessonSelect+` WHERE l.status = 'published' ORDER BY l.id`)
}

// ListByInstructor получает все занятия инструктора, новые первыми
func (r *LessonRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]model.Lesson, error) {
	return r.list(ctx, lessonSelect+` WHERE l.instructor_id = $1 ORDER BY l.created_at DESC`, instructorID)
}

func (r *LessonRepository) list(ctx context.Context, query string, args ...any) ([]model.Lesson, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var (
		lessons []model.Lesson
		ids     []int64
	)
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, *lesson)
		ids = append(ids, lesson.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	slots, err := r.slotsByLessons(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range lessons {
		lessons[i].Slots = slots[lessons[i].ID]
	}

	return lessons, nil
}

func (r *LessonRepository) slotsByLessons(ctx context.Context, ids []int64) (map[int64][]model.BookingSlot, error) {
	result := make(map[int64][]model.BookingSlot, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, slotSelect+` WHERE lesson_id = ANY($1) ORDER BY date_time_start`, ids)
	if err != nil {
		return nil, fmt.Errorf("get slots by lessons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		result[slot.LessonID] = append(result[slot.LessonID], *slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return result, nil
}

// UpdateStatus обновляет статус занятия
func (r *LessonRepository) UpdateStatus(ctx context.Context, id int64, status model.Status) error {
	query := `
		UPDATE lessons
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update lesson status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("lesson not found")
	}

	return nil
}

// UpdateCapacity меняет вместимость занятия
func (r *LessonRepository) UpdateCapacity(ctx context.Context, id int64, capacity int) error {
	query := `
		UPDATE lessons
		SET capacity = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.Exec(ctx, query, capacity, id)
	if err != nil {
		return fmt.Errorf("update lesson capacity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("lesson not found")
	}

	return nil
}

// AddParticipants меняет счётчик участников занятия на delta
func (r *LessonRepository) AddParticipants(ctx context.Context, id int64, delta int) error {
	query := `
		UPDATE lessons
		SET current_participants_count = GREATEST(current_participants_count + $1, 0)
		WHERE id = $2
	`

	if _, err := r.db.Exec(ctx, query, delta, id); err != nil {
		return fmt.Errorf("update lesson participants: %w", err)
	}

	return nil
}
