package catalog

import (
	"strings"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/schedule"
)

// Filter возвращает занятия, прошедшие все активные фильтры, сохраняя порядок
func Filter(lessons []model.Lesson, c Criteria, loc *time.Location) []model.Lesson {
	out := make([]model.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if Match(l, c, loc) {
			out = append(out, l)
		}
	}
	return out
}

// Match проверяет занятие по всем активным фильтрам (логическое И)
func Match(l model.Lesson, c Criteria, loc *time.Location) bool {
	return matchKeyword(l, c) &&
		matchCategory(l, c) &&
		matchSubcategory(l, c) &&
		matchLocation(l, c) &&
		matchPricingMode(l, c) &&
		matchArea(l, c) &&
		matchDateRange(l, c, loc) &&
		matchBuckets(l, c) &&
		matchPriceRange(l, c)
}

func matchKeyword(l model.Lesson, c Criteria) bool {
	keyword := strings.ToLower(strings.TrimSpace(c.Keyword))
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Title), keyword) ||
		strings.Contains(strings.ToLower(l.Description), keyword)
}

func matchCategory(l model.Lesson, c Criteria) bool {
	return c.Category == "" || l.Category == c.Category
}

func matchSubcategory(l model.Lesson, c Criteria) bool {
	if len(c.Subcategories) == 0 {
		return true
	}
	if contains(c.Subcategories, l.Subcategory) {
		return true
	}
	for _, sub := range l.Subcategories {
		if contains(c.Subcategories, sub) {
			return true
		}
	}
	return false
}

// matchLocation: гибридное занятие относится к обеим сторонам
func matchLocation(l model.Lesson, c Criteria) bool {
	online := l.LocationType == model.FormatOnline || l.LocationType == model.FormatHybrid
	inPerson := l.LocationType == model.FormatInPerson || l.LocationType == model.FormatHybrid
	return c.Location.allows(online, inPerson)
}

func matchPricingMode(l model.Lesson, c Criteria) bool {
	monthly := l.LessonType.IsMonthly()
	return c.PricingMode.allows(monthly, !monthly)
}

// matchArea: при выбранных районах онлайн-занятия исключаются всегда
func matchArea(l model.Lesson, c Criteria) bool {
	if len(c.Areas) == 0 {
		return true
	}
	if l.LocationType == model.FormatOnline {
		return false
	}
	return contains(c.Areas, l.ClassroomArea) || contains(c.Areas, l.ClassroomCity)
}

func matchDateRange(l model.Lesson, c Criteria, loc *time.Location) bool {
	if !c.dateRangeActive() {
		return true
	}

	from := c.DateFrom.At(schedule.Clock{}, loc)
	to := time.Date(c.DateTo.Year, c.DateTo.Month, c.DateTo.Day, 23, 59, 59, 0, loc)

	for _, slot := range l.Slots {
		if slot.Status == model.StatusCancelled {
			continue
		}
		start := slot.DateTimeStart
		if !start.Before(from) && !start.After(to) {
			return true
		}
	}
	return false
}

func matchBuckets(l model.Lesson, c Criteria) bool {
	table := SingleBuckets
	if l.LessonType.IsMonthly() {
		table = MonthlyBuckets
	}

	selected := selectedIn(table, c.Buckets)
	if len(selected) == 0 {
		return true
	}

	for _, b := range selected {
		if b.Contains(l.Price) {
			return true
		}
	}
	return false
}

func matchPriceRange(l model.Lesson, c Criteria) bool {
	if c.MinPrice != nil && l.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && l.Price > *c.MaxPrice {
		return false
	}
	return true
}
