package catalog

import (
	"sort"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/model"
)

// SortMode режим сортировки списка
type SortMode string

const (
	SortRecommended SortMode = "recommended"
	SortPopular     SortMode = "popular"
	SortNew         SortMode = "new"
	SortDate        SortMode = "date"
)

// SortModes все режимы в порядке показа
var SortModes = []SortMode{SortRecommended, SortPopular, SortNew, SortDate}

// ParseSortMode разбирает режим, неизвестные значения отклоняются
func ParseSortMode(s string) (SortMode, bool) {
	for _, m := range SortModes {
		if string(m) == s {
			return m, true
		}
	}
	return SortRecommended, false
}

// Sort возвращает отсортированную копию. Сортировка стабильная.
func Sort(lessons []model.Lesson, mode SortMode, now time.Time) []model.Lesson {
	out := make([]model.Lesson, len(lessons))
	copy(out, lessons)

	switch mode {
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ReviewCount > out[j].ReviewCount
		})

	case SortNew:
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		})

	case SortDate:
		next := make(map[int64]time.Time, len(out))
		for _, l := range out {
			if t, ok := NextUpcomingSlot(l, now); ok {
				next[l.ID] = t.DateTimeStart
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			ti, okI := next[out[i].ID]
			tj, okJ := next[out[j].ID]
			switch {
			case okI && okJ:
				return ti.Before(tj)
			case okI:
				return true
			default:
				return false
			}
		})

	default:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].IsFeatured != out[j].IsFeatured {
				return out[i].IsFeatured
			}
			return out[i].Instructor.AverageRating > out[j].Instructor.AverageRating
		})
	}

	return out
}

// NextUpcomingSlot ближайший слот, на который ещё можно записаться
func NextUpcomingSlot(l model.Lesson, now time.Time) (model.BookingSlot, bool) {
	var (
		best  model.BookingSlot
		found bool
	)
	for _, slot := range l.Slots {
		if !slot.IsBookable(now) {
			continue
		}
		if !found || slot.DateTimeStart.Before(best.DateTimeStart) {
			best = slot
			found = true
		}
	}
	return best, found
}

// UpcomingSlots слоты, доступные для записи, по возрастанию начала
func UpcomingSlots(l model.Lesson, now time.Time) []model.BookingSlot {
	var out []model.BookingSlot
	for _, slot := range l.Slots {
		if slot.IsBookable(now) {
			out = append(out, slot)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateTimeStart.Before(out[j].DateTimeStart)
	})
	return out
}
