package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/schedule"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LessonInput данные нового занятия от инструктора
type LessonInput struct {
	Title              string             `validate:"required,max=200"`
	Description        string             `validate:"max=4000"`
	Category           string             `validate:"required,max=100"`
	Subcategory        string             `validate:"max=100"`
	LocationType       model.LessonFormat `validate:"oneof=online in_person hybrid"`
	LessonType         model.PricingMode  `validate:"oneof=monthly one_time course"`
	Price              int                `validate:"gte=0"`
	Duration           int                `validate:"gte=5,lte=720"`
	Capacity           int                `validate:"gte=1,lte=1000"`
	DiscountPercentage *int               `validate:"omitempty,gte=0,lte=100"`
	ClassroomArea      string             `validate:"required_unless=LocationType online,max=100"`
	ClassroomCity      string             `validate:"max=100"`
}

// ValidateTemplate проверяет шаблон расписания
func ValidateTemplate(t schedule.Template) error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTemplate, describe(err))
	}
	return nil
}

// ValidateSlot проверяет отдельный слот черновика теми же правилами, что и шаблон
func ValidateSlot(s schedule.Slot) error {
	return ValidateTemplate(slotTemplate(s))
}

func validateLesson(in LessonInput) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidLesson, describe(err))
	}
	return nil
}

func validateCapacity(capacity int) error {
	if err := validate.Var(capacity, "gte=1,lte=1000"); err != nil {
		return fmt.Errorf("%w: capacity must be between 1 and 1000", ErrInvalidLesson)
	}
	return nil
}

// slotTemplate собирает шаблон из значений слота, чтобы проверить их теми же правилами
func slotTemplate(s schedule.Slot) schedule.Template {
	return schedule.Template{
		Start:              s.StartClock,
		DurationMinutes:    s.DurationMinutes,
		Capacity:           s.Capacity,
		Price:              s.Price,
		DiscountPercentage: s.DiscountPercentage,
		DeadlineDays:       s.DeadlineDays,
		DeadlineTime:       s.DeadlineTime,
		Notes:              s.Notes,
		VenueDetails:       s.VenueDetails,
	}
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s must satisfy %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
