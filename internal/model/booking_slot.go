package model

import (
	"fmt"
	"time"
)

// BookingSlot конкретное занятие урока в определённое время
type BookingSlot struct {
	ID                       int64     `json:"id"`
	LessonID                 int64     `json:"lesson_id"`
	DateTimeStart            time.Time `json:"date_time_start"`
	DateTimeEnd              time.Time `json:"date_time_end"`
	BookingDeadline          time.Time `json:"booking_deadline"`
	Capacity                 int       `json:"capacity"`
	CurrentParticipantsCount int       `json:"current_participants_count"`
	Price                    int       `json:"price"`
	DiscountPercentage       *int      `json:"discount_percentage"`
	Status                   Status    `json:"status"`
	Notes                    string    `json:"notes"`
	VenueDetails             string    `json:"venue_details"`
	CreatedAt                time.Time `json:"created_at"`
}

// IsFull проверяет, заняты ли все места
func (s *BookingSlot) IsFull() bool {
	return s.CurrentParticipantsCount >= s.Capacity
}

// IsBookable проверяет, можно ли записаться на слот в момент now
func (s *BookingSlot) IsBookable(now time.Time) bool {
	return s.Status == StatusPublished &&
		s.DateTimeStart.After(now) &&
		!now.After(s.BookingDeadline) &&
		!s.IsFull()
}

// Validate проверяет инварианты слота
func (s *BookingSlot) Validate() error {
	if !s.DateTimeEnd.After(s.DateTimeStart) {
		return fmt.Errorf("slot %d: end must be after start", s.ID)
	}
	if s.BookingDeadline.After(s.DateTimeStart) {
		return fmt.Errorf("slot %d: booking deadline after start", s.ID)
	}
	if s.CurrentParticipantsCount > s.Capacity {
		return fmt.Errorf("slot %d: participants exceed capacity", s.ID)
	}
	if !s.Status.Valid() {
		return fmt.Errorf("slot %d: unknown status %q", s.ID, s.Status)
	}
	return nil
}

// SlotWriteRecord запись слота, отправляемая в хранилище при сохранении
type SlotWriteRecord struct {
	LessonID                 int64     `json:"lesson_id"`
	DateTimeStart            time.Time `json:"date_time_start"`
	DateTimeEnd              time.Time `json:"date_time_end"`
	BookingDeadline          time.Time `json:"booking_deadline"`
	Capacity                 int       `json:"capacity"`
	CurrentParticipantsCount int       `json:"current_participants_count"`
	Price                    int       `json:"price"`
	DiscountPercentage       int       `json:"discount_percentage"`
	VenueDetails             string    `json:"venue_details"`
	Notes                    string    `json:"notes"`
	Status                   Status    `json:"status"`
}
