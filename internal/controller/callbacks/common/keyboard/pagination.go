package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// PaginationButtons создаёт ряд кнопок пагинации
// prefix - префикс для callback (например "br_page:")
// currentPage - текущая страница (1-based)
// totalPages - всего страниц
func PaginationButtons(prefix string, currentPage, totalPages int) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton

	if currentPage > 1 {
		buttons = append(buttons, Button("⬅️", fmt.Sprintf("%s%d", prefix, currentPage-1)))
	}

	buttons = append(buttons, Button(
		fmt.Sprintf("📄 %d/%d", currentPage, totalPages),
		"noop",
	))

	if currentPage < totalPages {
		buttons = append(buttons, Button("➡️", fmt.Sprintf("%s%d", prefix, currentPage+1)))
	}

	return buttons
}

// AddPagination добавляет пагинацию к builder
func (b *Builder) AddPagination(prefix string, currentPage, totalPages int) *Builder {
	buttons := PaginationButtons(prefix, currentPage, totalPages)
	if len(buttons) > 0 {
		b.Row(buttons...)
	}
	return b
}

// CalendarPagination создаёт пагинацию для календаря (месяц:год).
// Переход через границу года уже учтён в callback data.
func CalendarPagination(prefix string, currentMonth, currentYear int) []models.InlineKeyboardButton {
	prevMonth, prevYear := currentMonth-1, currentYear
	if prevMonth < 1 {
		prevMonth, prevYear = 12, currentYear-1
	}
	nextMonth, nextYear := currentMonth+1, currentYear
	if nextMonth > 12 {
		nextMonth, nextYear = 1, currentYear+1
	}

	return []models.InlineKeyboardButton{
		Button("◀️", fmt.Sprintf("%s%d:%d", prefix, prevMonth, prevYear)),
		Button(fmt.Sprintf("📅 %02d/%d", currentMonth, currentYear), "noop"),
		Button("▶️", fmt.Sprintf("%s%d:%d", prefix, nextMonth, nextYear)),
	}
}

// Check подпись переключателя с отметкой
func Check(on bool, label string) string {
	if on {
		return "✅ " + label
	}
	return "▫️ " + label
}
