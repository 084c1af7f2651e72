package common

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/go-telegram/bot/models"
)

const (
	maxSlotButtons     = 10
	maxDescriptionRune = 600
)

// LessonScreen карточка занятия со слотами для записи
func LessonScreen(l *model.Lesson, slots []model.BookingSlot, loc *time.Location) Screen {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📚 <b>%s</b>\n", html.EscapeString(l.Title))

	instructor := html.EscapeString(l.Instructor.Name)
	if l.Instructor.IsVerified {
		instructor += " ✔️"
	}
	if l.Instructor.AverageRating > 0 {
		instructor += fmt.Sprintf(" · ⭐ %.1f", l.Instructor.AverageRating)
	}
	fmt.Fprintf(&sb, "👤 %s\n", instructor)

	category := html.EscapeString(l.Category)
	if l.Subcategory != "" {
		category += " / " + html.EscapeString(l.Subcategory)
	}
	fmt.Fprintf(&sb, "🏷 %s\n", category)

	place := formatting.GetFormatLabel(l.LocationType)
	if l.LocationType != model.FormatOnline {
		if where := strings.Trim(l.ClassroomArea+", "+l.ClassroomCity, ", "); where != "" {
			place += " · " + html.EscapeString(where)
		}
	}
	fmt.Fprintf(&sb, "%s\n", place)

	price := formatting.FormatLessonPrice(l.Price, l.LessonType)
	if discount := formatting.FormatDiscount(l.DiscountPercentage); discount != "" {
		price += " (" + discount + ")"
	}
	fmt.Fprintf(&sb, "💰 %s · ⏱ %s\n", price, formatting.FormatDuration(l.Duration))

	if l.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", html.EscapeString(Truncate(l.Description, maxDescriptionRune)))
	}

	kb := keyboard.NewBuilder()

	if len(slots) == 0 {
		sb.WriteString("\n⏳ Нет слотов, доступных для записи")
	} else {
		fmt.Fprintf(&sb, "\n🗓 Свободные слоты: %d", len(slots))
	}

	for i, slot := range slots {
		if i == maxSlotButtons {
			break
		}
		label := fmt.Sprintf("%s · %d мест · %s",
			formatting.FormatSlotTime(slot.DateTimeStart, slot.DateTimeEnd, loc),
			slot.Capacity-slot.CurrentParticipantsCount,
			formatting.FormatPrice(formatting.DiscountedPrice(slot.Price, slot.DiscountPercentage)),
		)
		kb.Row(keyboard.Button(label, fmt.Sprintf("%s%d", BookSlot, slot.ID)))
	}

	kb.Row(keyboard.Button("⬅️ К списку", BrowseBack))

	return Screen{Text: sb.String(), Keyboard: kb.Build()}
}

// BookingsScreen записи ученика. Отменить можно только активную запись на будущий слот.
func BookingsScreen(bookings []*model.Booking, loc *time.Location, now time.Time) Screen {
	kb := keyboard.NewBuilder()

	if len(bookings) == 0 {
		return Screen{
			Text:     "📋 У вас пока нет записей.\n\nНайти занятие: /lessons",
			Keyboard: kb.Build(),
		}
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Мои записи</b>\n")

	for _, b := range bookings {
		status := formatting.GetBookingStatusDisplay(b.Status)
		paid := ""
		if b.PaymentStatus == model.PaymentStatusPaid {
			paid = " · 💳 оплачено"
		}

		when := fmt.Sprintf("слот #%d", b.SlotID)
		if b.Slot != nil {
			when = formatting.FormatSlotTime(b.Slot.DateTimeStart, b.Slot.DateTimeEnd, loc)
		}
		fmt.Fprintf(&sb, "\n%s #%d · %s%s", status.Emoji, b.ID, when, paid)

		if b.IsActive() && b.Slot != nil && b.Slot.DateTimeStart.After(now) {
			kb.Row(keyboard.Button(
				fmt.Sprintf("❌ Отменить #%d", b.ID),
				fmt.Sprintf("%s%d", CancelBooking, b.ID),
			))
		}
	}

	return Screen{Text: sb.String(), Keyboard: kb.Build()}
}

var statusActions = []struct {
	to    model.Status
	label string
}{
	{model.StatusPublished, "🟢 Опубликовать"},
	{model.StatusCompleted, "✔️ Завершить"},
	{model.StatusCancelled, "⚫️ Отменить"},
}

// MyLessonsScreen занятия инструктора с переходами статуса
func MyLessonsScreen(lessons []model.Lesson) Screen {
	kb := keyboard.NewBuilder()

	if len(lessons) == 0 {
		return Screen{
			Text:     "📚 У вас пока нет занятий.\n\nСоздать: /newlesson title=\"...\" category=...",
			Keyboard: kb.Build(),
		}
	}

	var sb strings.Builder
	sb.WriteString("📚 <b>Мои занятия</b>\n")

	for _, l := range lessons {
		fmt.Fprintf(&sb, "\n%s <b>%s</b>\n   слотов: %d · участников: %d/%d",
			formatting.GetStatusDisplay(l.Status).Emoji,
			html.EscapeString(l.Title),
			len(l.Slots),
			l.CurrentParticipantsCount,
			l.Capacity,
		)

		if l.Status.IsTerminal() {
			continue
		}

		buttons := []models.InlineKeyboardButton{
			keyboard.Button("📅 "+Truncate(l.Title, 20), fmt.Sprintf("%s%d", PlanOpen, l.ID)),
		}
		for _, action := range statusActions {
			if model.CanTransition(l.Status, action.to) {
				buttons = append(buttons, keyboard.Button(action.label, fmt.Sprintf("%s%d:%s", LessonStatus, l.ID, action.to)))
			}
		}
		kb.AddRows(chunk(buttons, buttonsPerRow))
	}

	return Screen{Text: sb.String(), Keyboard: kb.Build()}
}
