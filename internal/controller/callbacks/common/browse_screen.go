package common

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/catalog"
	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot/models"
)

// Screen текст сообщения и клавиатура к нему
type Screen struct {
	Text     string
	Keyboard *models.InlineKeyboardMarkup
}

// BrowseView данные для экрана выдачи
type BrowseView struct {
	Page       catalog.Page
	Query      catalog.Query
	Categories []catalog.Category
	Areas      []string
	Location   *time.Location
	Now        time.Time
}

const (
	buttonsPerRow  = 3
	maxAreaButtons = 9
)

var sortLabels = map[catalog.SortMode]string{
	catalog.SortRecommended: "⭐ Рекомендуемые",
	catalog.SortPopular:     "🔥 Популярные",
	catalog.SortNew:         "🆕 Новые",
	catalog.SortDate:        "📅 По дате",
}

// BrowseScreen формирует страницу выдачи с панелью фильтров
func BrowseScreen(v BrowseView) Screen {
	var sb strings.Builder
	c := v.Query.Criteria

	fmt.Fprintf(&sb, "🔎 <b>Занятия</b>: найдено %d\n", v.Page.TotalItems)
	fmt.Fprintf(&sb, "Фильтры: %s\n", FiltersSummary(c))
	fmt.Fprintf(&sb, "Сортировка: %s\n", sortLabels[v.Query.Sort])

	if len(v.Page.Items) == 0 {
		sb.WriteString("\nНичего не найдено. Измените фильтры или нажмите «Сбросить».")
	}

	offset := (v.Page.Page - 1) * catalog.PageSize
	for i, l := range v.Page.Items {
		fmt.Fprintf(&sb, "\n%d. <b>%s</b>\n", offset+i+1, html.EscapeString(l.Title))
		fmt.Fprintf(&sb, "   %s · %s", formatting.GetFormatLabel(l.LocationType), formatting.FormatLessonPrice(l.Price, l.LessonType))
		if l.Instructor.AverageRating > 0 {
			fmt.Fprintf(&sb, " · ⭐ %.1f", l.Instructor.AverageRating)
		}
		sb.WriteString("\n")
		if slot, ok := catalog.NextUpcomingSlot(l, v.Now); ok {
			fmt.Fprintf(&sb, "   📅 Ближайшее: %s\n", formatting.FormatSlotTime(slot.DateTimeStart, slot.DateTimeEnd, v.Location))
		}
	}

	kb := keyboard.NewBuilder()

	var lessonRow []models.InlineKeyboardButton
	for i, l := range v.Page.Items {
		label := fmt.Sprintf("%d. %s", offset+i+1, Truncate(l.Title, 24))
		lessonRow = append(lessonRow, keyboard.Button(label, fmt.Sprintf("%s%d", ViewLesson, l.ID)))
		if len(lessonRow) == 2 {
			kb.Row(lessonRow...)
			lessonRow = nil
		}
	}
	kb.Row(lessonRow...)
	kb.AddPagination(BrowsePage, v.Page.Page, v.Page.TotalPages)

	sortRow := make([]models.InlineKeyboardButton, 0, len(catalog.SortModes))
	for _, mode := range catalog.SortModes {
		sortRow = append(sortRow, keyboard.Button(
			keyboard.Check(v.Query.Sort == mode, sortLabels[mode]),
			BrowseSort+string(mode),
		))
	}
	kb.AddRows(chunk(sortRow, 2))

	online, inPerson := c.Location.Flags()
	kb.Row(
		keyboard.Button(keyboard.Check(online, "Онлайн"), BrowseLocation+"a"),
		keyboard.Button(keyboard.Check(inPerson, "Очно"), BrowseLocation+"b"),
	)

	monthly, single := c.PricingMode.Flags()
	kb.Row(
		keyboard.Button(keyboard.Check(monthly, "Помесячно"), BrowseType+"a"),
		keyboard.Button(keyboard.Check(single, "Разово/курс"), BrowseType+"b"),
	)

	if single {
		kb.AddRows(bucketRows(catalog.SingleBuckets, c.Buckets))
	}
	if monthly {
		kb.AddRows(bucketRows(catalog.MonthlyBuckets, c.Buckets))
	}

	catRow := []models.InlineKeyboardButton{
		keyboard.Button(keyboard.Check(c.Category == "", "Все"), BrowseCategory+AllCategories),
	}
	var subs []string
	for _, cat := range v.Categories {
		data := BrowseCategory + cat.Name
		if !FitsCallback(data) {
			continue
		}
		catRow = append(catRow, keyboard.Button(keyboard.Check(c.Category == cat.Name, cat.Name), data))
		if c.Category == cat.Name {
			subs = cat.Subcategories
		}
	}
	kb.AddRows(chunk(catRow, buttonsPerRow))

	var subRow []models.InlineKeyboardButton
	for _, sub := range subs {
		data := BrowseSub + sub
		if !FitsCallback(data) {
			continue
		}
		subRow = append(subRow, keyboard.Button(keyboard.Check(contains(c.Subcategories, sub), sub), data))
	}
	kb.AddRows(chunk(subRow, buttonsPerRow))

	if inPerson {
		var areaRow []models.InlineKeyboardButton
		for _, area := range v.Areas {
			data := BrowseArea + area
			if !FitsCallback(data) {
				continue
			}
			areaRow = append(areaRow, keyboard.Button(keyboard.Check(contains(c.Areas, area), "📍 "+area), data))
			if len(areaRow) == maxAreaButtons {
				break
			}
		}
		kb.AddRows(chunk(areaRow, buttonsPerRow))
	}

	if c.DateFrom != nil && c.DateTo != nil {
		label := fmt.Sprintf("📅 %s – %s", c.DateFrom, c.DateTo)
		kb.Row(keyboard.Button(keyboard.Check(!c.AllDates, label), BrowseAllDates))
	}

	kb.Row(
		keyboard.Button("🔍 Поиск", BrowseSearch),
		keyboard.Button("♻️ Сбросить", BrowseReset),
	)

	return Screen{Text: sb.String(), Keyboard: kb.Build()}
}

// FiltersSummary краткое описание активных фильтров
func FiltersSummary(c catalog.Criteria) string {
	if c.IsZero() {
		return "не заданы"
	}

	var parts []string
	if kw := strings.TrimSpace(c.Keyword); kw != "" {
		parts = append(parts, "«"+html.EscapeString(kw)+"»")
	}
	if c.Category != "" {
		parts = append(parts, html.EscapeString(c.Category))
	}
	if len(c.Subcategories) > 0 {
		parts = append(parts, html.EscapeString(strings.Join(c.Subcategories, ", ")))
	}
	if label := pairLabel(c.Location, "только онлайн", "только очно"); label != "" {
		parts = append(parts, label)
	}
	if label := pairLabel(c.PricingMode, "только помесячно", "только разово"); label != "" {
		parts = append(parts, label)
	}
	if len(c.Areas) > 0 {
		parts = append(parts, "📍 "+html.EscapeString(strings.Join(c.Areas, ", ")))
	}
	if c.DateFrom != nil && c.DateTo != nil && !c.AllDates {
		parts = append(parts, fmt.Sprintf("%s – %s", c.DateFrom, c.DateTo))
	}
	if c.MinPrice != nil || c.MaxPrice != nil {
		parts = append(parts, priceRangeLabel(c.MinPrice, c.MaxPrice))
	}
	for _, id := range c.Buckets {
		if b, ok := catalog.BucketByID(id); ok {
			parts = append(parts, b.Label)
		}
	}
	return strings.Join(parts, "; ")
}

func pairLabel(p catalog.Pair, onlyA, onlyB string) string {
	switch p {
	case catalog.PairOnlyA:
		return onlyA
	case catalog.PairOnlyB:
		return onlyB
	case catalog.PairNeither:
		return "ничего не выбрано"
	default:
		return ""
	}
}

func priceRangeLabel(lo, hi *int) string {
	switch {
	case lo != nil && hi != nil:
		return fmt.Sprintf("%s – %s", formatting.FormatPrice(*lo), formatting.FormatPrice(*hi))
	case lo != nil:
		return "от " + formatting.FormatPrice(*lo)
	default:
		return "до " + formatting.FormatPrice(*hi)
	}
}

func bucketRows(table []catalog.PriceBucket, selected []string) [][]models.InlineKeyboardButton {
	row := make([]models.InlineKeyboardButton, 0, len(table))
	for _, b := range table {
		row = append(row, keyboard.Button(keyboard.Check(contains(selected, b.ID), b.Label), BrowseBucket+b.ID))
	}
	return chunk(row, buttonsPerRow)
}

func chunk(buttons []models.InlineKeyboardButton, size int) [][]models.InlineKeyboardButton {
	var rows [][]models.InlineKeyboardButton
	for len(buttons) > size {
		rows = append(rows, buttons[:size])
		buttons = buttons[size:]
	}
	if len(buttons) > 0 {
		rows = append(rows, buttons)
	}
	return rows
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
