package model

import (
	"fmt"
	"time"
)

// LessonFormat формат проведения занятия
type LessonFormat string

const (
	FormatOnline   LessonFormat = "online"
	FormatInPerson LessonFormat = "in_person"
	FormatHybrid   LessonFormat = "hybrid"
)

// PricingMode способ оплаты занятия
type PricingMode string

const (
	PricingMonthly PricingMode = "monthly"
	PricingOneTime PricingMode = "one_time"
	PricingCourse  PricingMode = "course"
)

// IsMonthly возвращает true для помесячной оплаты
func (p PricingMode) IsMonthly() bool {
	return p == PricingMonthly
}

// Lesson представляет предложение инструктора со слотами
type Lesson struct {
	ID                       int64        `json:"id"`
	InstructorID             int64        `json:"instructor_id"`
	Title                    string       `json:"title"`
	Description              string       `json:"description"`
	Category                 string       `json:"category"`
	Subcategory              string       `json:"subcategory"`   // уже разрешённое имя подкатегории
	Subcategories            []string     `json:"subcategories"` // дополнительные теги
	LocationType             LessonFormat `json:"location_type"`
	LessonType               PricingMode  `json:"lesson_type"`
	Price                    int          `json:"price"`    // в иенах
	Duration                 int          `json:"duration"` // в минутах
	Capacity                 int          `json:"capacity"`
	CurrentParticipantsCount int          `json:"current_participants_count"`
	DiscountPercentage       *int         `json:"discount_percentage"`
	Status                   Status       `json:"status"`
	IsFeatured               bool         `json:"is_featured"`
	ReviewCount              int          `json:"review_count"`
	ClassroomArea            string       `json:"classroom_area"`
	ClassroomCity            string       `json:"classroom_city"`
	CreatedAt                time.Time    `json:"created_at"`
	UpdatedAt                time.Time    `json:"updated_at"`

	Instructor Instructor    `json:"instructor"`
	Slots      []BookingSlot `json:"slots"`
}

// Instructor краткая информация об инструкторе, приходящая вместе с занятием
type Instructor struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	AverageRating   float64 `json:"average_rating"`
	IsVerified      bool    `json:"is_verified"`
	ProfileImageURL string  `json:"profile_image_url"`
}

// Validate проверяет запись на границе с хранилищем
func (l *Lesson) Validate() error {
	switch l.LocationType {
	case FormatOnline, FormatInPerson, FormatHybrid:
	default:
		return fmt.Errorf("lesson %d: unknown location type %q", l.ID, l.LocationType)
	}

	switch l.LessonType {
	case PricingMonthly, PricingOneTime, PricingCourse:
	default:
		return fmt.Errorf("lesson %d: unknown lesson type %q", l.ID, l.LessonType)
	}

	if !l.Status.Valid() {
		return fmt.Errorf("lesson %d: unknown status %q", l.ID, l.Status)
	}

	if l.Capacity < 1 {
		return fmt.Errorf("lesson %d: capacity must be at least 1", l.ID)
	}

	if l.DiscountPercentage != nil && (*l.DiscountPercentage < 0 || *l.DiscountPercentage > 100) {
		return fmt.Errorf("lesson %d: discount out of range", l.ID)
	}

	for i := range l.Slots {
		if err := l.Slots[i].Validate(); err != nil {
			return fmt.Errorf("lesson %d: %w", l.ID, err)
		}
	}

	return nil
}
