package common

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/lessonmarket/internal/schedule"
	"github.com/go-telegram/bot/models"
)

// Дни недели в порядке колонок календаря
var calendarWeekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

const maxListedSlots = 8

// PlannerView данные для экрана планировщика
type PlannerView struct {
	LessonTitle string
	Draft       *schedule.Draft
	Month       time.Month
	Year        int
}

// PlannerScreen календарь месяца с выбранными датами и действиями над черновиком
func PlannerScreen(v PlannerView) Screen {
	var sb strings.Builder
	t := v.Draft.Template()

	fmt.Fprintf(&sb, "🗓 <b>Расписание: %s</b>\n", html.EscapeString(v.LessonTitle))
	fmt.Fprintf(&sb, "Шаблон: %s\n", TemplateSummary(t))
	fmt.Fprintf(&sb, "Выбрано дат: %d\n", v.Draft.Len())

	slots := v.Draft.Slots()
	for i, s := range slots {
		if i == maxListedSlots {
			fmt.Fprintf(&sb, " … и ещё %d\n", len(slots)-maxListedSlots)
			break
		}
		fmt.Fprintf(&sb, " • %s · %d мест · %s\n",
			formatting.FormatSlotTime(s.Start, s.End, v.Draft.Location()),
			s.Capacity,
			formatting.FormatPrice(s.Price),
		)
	}

	sb.WriteString("\nНажмите на дату, чтобы выбрать её. День недели выбирает все такие дни месяца.\n")
	sb.WriteString("<code>/template start=11:00 capacity=8</code> меняет шаблон\n")
	sb.WriteString("<code>/slot 2025-06-10 start=12:00</code> меняет один слот")

	kb := keyboard.NewBuilder()
	kb.Row(keyboard.CalendarPagination(PlanMonth, int(v.Month), v.Year)...)
	kb.AddRows(CalendarRows(v.Draft, v.Month, v.Year))
	kb.Row(
		keyboard.Button("🔁 Применить шаблон", PlanApply),
		keyboard.Button("🖼 Превью", PlanPreview),
	)
	kb.Row(
		keyboard.Button("⚙️ Шаблон", PlanTemplate),
		keyboard.Button("🧹 Очистить", PlanClear),
	)
	kb.Row(
		keyboard.Button(fmt.Sprintf("💾 Сохранить (%d)", v.Draft.Len()), PlanCommit),
		keyboard.Button("✖️ Закрыть", PlanClose),
	)

	return Screen{Text: sb.String(), Keyboard: kb.Build()}
}

// CalendarRows шапка с днями недели и недели месяца, начиная с понедельника
func CalendarRows(d *schedule.Draft, month time.Month, year int) [][]models.InlineKeyboardButton {
	header := make([]models.InlineKeyboardButton, 0, len(calendarWeekdays))
	for _, wd := range calendarWeekdays {
		header = append(header, keyboard.Button(
			formatting.GetWeekdayShort(int(wd)),
			PlanWeekday+strconv.Itoa(int(wd)),
		))
	}
	rows := [][]models.InlineKeyboardButton{header}

	days := schedule.DaysIn(month, year)
	offset := (int(days[0].Weekday()) + 6) % 7

	week := make([]models.InlineKeyboardButton, 0, 7)
	for i := 0; i < offset; i++ {
		week = append(week, keyboard.Button(" ", Noop))
	}

	for _, date := range days {
		week = append(week, dayButton(d, date))
		if len(week) == 7 {
			rows = append(rows, week)
			week = make([]models.InlineKeyboardButton, 0, 7)
		}
	}

	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, keyboard.Button(" ", Noop))
		}
		rows = append(rows, week)
	}

	return rows
}

func dayButton(d *schedule.Draft, date schedule.Date) models.InlineKeyboardButton {
	day := strconv.Itoa(date.Day)
	switch {
	case d.IsPast(date):
		return keyboard.Button("·", Noop)
	case d.IsSelected(date):
		return keyboard.Button("✓"+day, PlanDay+date.String())
	default:
		return keyboard.Button(day, PlanDay+date.String())
	}
}

// TemplateSummary шаблон одной строкой
func TemplateSummary(t schedule.Template) string {
	parts := []string{
		t.Start.String(),
		formatting.FormatDuration(t.DurationMinutes),
		fmt.Sprintf("%d мест", t.Capacity),
		formatting.FormatPrice(t.Price),
	}
	if t.DiscountPercentage > 0 {
		parts = append(parts, fmt.Sprintf("скидка %d%%", t.DiscountPercentage))
	}
	parts = append(parts, fmt.Sprintf("запись до %s за %d дн.", t.DeadlineTime, t.DeadlineDays))
	if t.VenueDetails != "" {
		parts = append(parts, "📍 "+html.EscapeString(t.VenueDetails))
	}
	return strings.Join(parts, " · ")
}
