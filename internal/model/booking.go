package model

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed" // Место занято
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено учеником или инструктором
	BookingStatusCompleted BookingStatus = "completed" // Занятие прошло
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

type Booking struct {
	ID            int64         `json:"id"`
	LearnerID     int64         `json:"learner_id"`
	LessonID      int64         `json:"lesson_id"`
	SlotID        int64         `json:"slot_id"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Slot *BookingSlot `json:"slot,omitempty"`
}

// IsActive проверяет, занимает ли запись место в слоте
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusConfirmed
}
