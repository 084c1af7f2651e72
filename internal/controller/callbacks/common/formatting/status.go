package formatting

import "github.com/Freeeeeet/lessonmarket/internal/model"

// StatusDisplay представляет отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// String emoji и текст через пробел
func (d StatusDisplay) String() string {
	return d.Emoji + " " + d.Text
}

// GetStatusDisplay возвращает emoji и текст для статуса занятия или слота
func GetStatusDisplay(status model.Status) StatusDisplay {
	displays := map[model.Status]StatusDisplay{
		model.StatusDraft:     {"📝", "Черновик"},
		model.StatusPublished: {"🟢", "Опубликовано"},
		model.StatusCancelled: {"⚫️", "Отменено"},
		model.StatusCompleted: {"✔️", "Завершено"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetBookingStatusDisplay возвращает emoji и текст для статуса записи
func GetBookingStatusDisplay(status model.BookingStatus) StatusDisplay {
	displays := map[model.BookingStatus]StatusDisplay{
		model.BookingStatusConfirmed: {"✅", "Подтверждена"},
		model.BookingStatusCompleted: {"✔️", "Завершена"},
		model.BookingStatusCancelled: {"❌", "Отменена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetFormatLabel подпись формата проведения
func GetFormatLabel(format model.LessonFormat) string {
	switch format {
	case model.FormatOnline:
		return "💻 Онлайн"
	case model.FormatInPerson:
		return "🏫 Очно"
	case model.FormatHybrid:
		return "🔀 Онлайн и очно"
	default:
		return string(format)
	}
}
