package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/model"
)

// Интерфейсы хранилища, которые нужны сервисам. Реализации - в repository.

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	SetInstructor(ctx context.Context, userID int64, isInstructor bool) error
}

type LessonRepository interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByID(ctx context.Context, id int64) (*model.Lesson, error)
	ListPublished(ctx context.Context) ([]model.Lesson, error)
	ListByInstructor(ctx context.Context, instructorID int64) ([]model.Lesson, error)
	UpdateStatus(ctx context.Context, id int64, status model.Status) error
	UpdateCapacity(ctx context.Context, id int64, capacity int) error
	AddParticipants(ctx context.Context, id int64, delta int) error
}

type SlotRepository interface {
	CreateBatch(ctx context.Context, records []model.SlotWriteRecord) ([]int64, error)
	GetByID(ctx context.Context, id int64) (*model.BookingSlot, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*model.BookingSlot, error)
	StartTimes(ctx context.Context, lessonID int64) ([]time.Time, error)
	UpdateStatus(ctx context.Context, slotID int64, status model.Status) error
	UpdateOpenCapacity(ctx context.Context, lessonID int64, capacity int) (int64, error)
	AddParticipants(ctx context.Context, slotID int64, delta int) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetActive(ctx context.Context, learnerID, slotID int64) (*model.Booking, error)
	GetByLearnerID(ctx context.Context, learnerID int64) ([]*model.Booking, error)
	CancelActive(ctx context.Context, id int64) (bool, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status model.PaymentStatus) error
	CompleteBySlot(ctx context.Context, slotID int64) (int64, error)
	CancelBySlot(ctx context.Context, slotID int64) (int64, error)
}

// CatalogCache кеш опубликованных занятий. Промах - repository.ErrCacheMiss.
type CatalogCache interface {
	GetPublished(ctx context.Context) ([]model.Lesson, error)
	SetPublished(ctx context.Context, lessons []model.Lesson, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// Repos репозитории, привязанные к одной транзакции
type Repos struct {
	Lessons  LessonRepository
	Slots    SlotRepository
	Bookings BookingRepository
}

// TxRunner выполняет fn в одной транзакции базы
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}

// Metrics счётчики, которые пишут сервисы
type Metrics interface {
	ObserveBrowse(d time.Duration, items int)
	CacheHit()
	CacheMiss()
	SlotsCommitted(n int)
	BookingCreated()
	BookingCancelled()
}

// NopMetrics ничего не считает
type NopMetrics struct{}

func (NopMetrics) ObserveBrowse(time.Duration, int) {}
func (NopMetrics) CacheHit()                        {}
func (NopMetrics) CacheMiss()                       {}
func (NopMetrics) SlotsCommitted(int)               {}
func (NopMetrics) BookingCreated()                  {}
func (NopMetrics) BookingCancelled()                {}
