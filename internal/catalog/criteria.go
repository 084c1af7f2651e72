package catalog

import (
	"strings"

	"github.com/Freeeeeet/lessonmarket/internal/schedule"
)

// Pair состояние фильтра из двух переключателей (A и B).
// Нулевое значение - оба включены, то есть фильтр не ограничивает.
type Pair int

const (
	PairBoth Pair = iota
	PairOnlyA
	PairOnlyB
	// PairNeither оба выключены: не проходит ни одно занятие
	PairNeither
)

// PairFromFlags строит Pair из двух флагов
func PairFromFlags(a, b bool) Pair {
	switch {
	case a && b:
		return PairBoth
	case a:
		return PairOnlyA
	case b:
		return PairOnlyB
	default:
		return PairNeither
	}
}

// Flags раскладывает Pair обратно на флаги
func (p Pair) Flags() (a, b bool) {
	switch p {
	case PairBoth:
		return true, true
	case PairOnlyA:
		return true, false
	case PairOnlyB:
		return false, true
	default:
		return false, false
	}
}

// ToggleA переключает сторону A
func (p Pair) ToggleA() Pair {
	a, b := p.Flags()
	return PairFromFlags(!a, b)
}

// ToggleB переключает сторону B
func (p Pair) ToggleB() Pair {
	a, b := p.Flags()
	return PairFromFlags(a, !b)
}

// allows проверяет значение, которое относится к стороне A, B или к обеим
func (p Pair) allows(isA, isB bool) bool {
	a, b := p.Flags()
	return (a && isA) || (b && isB)
}

// Criteria набор активных фильтров ученика
type Criteria struct {
	Keyword       string
	Category      string
	Subcategories []string

	// A - онлайн, B - очно
	Location Pair
	// A - помесячно, B - разово или курсом
	PricingMode Pair
	Areas       []string

	DateFrom *schedule.Date
	DateTo   *schedule.Date
	AllDates bool

	MinPrice *int
	MaxPrice *int
	Buckets  []string
}

// IsZero проверяет, что ни один фильтр не активен
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Keyword) == "" &&
		c.Category == "" &&
		len(c.Subcategories) == 0 &&
		c.Location == PairBoth &&
		c.PricingMode == PairBoth &&
		len(c.Areas) == 0 &&
		!c.dateRangeActive() &&
		c.MinPrice == nil &&
		c.MaxPrice == nil &&
		len(c.Buckets) == 0
}

func (c Criteria) dateRangeActive() bool {
	return !c.AllDates && c.DateFrom != nil && c.DateTo != nil
}

func (c Criteria) clone() Criteria {
	out := c
	out.Subcategories = cloneStrings(c.Subcategories)
	out.Areas = cloneStrings(c.Areas)
	out.Buckets = cloneStrings(c.Buckets)
	if c.DateFrom != nil {
		from := *c.DateFrom
		out.DateFrom = &from
	}
	if c.DateTo != nil {
		to := *c.DateTo
		out.DateTo = &to
	}
	if c.MinPrice != nil {
		lo := *c.MinPrice
		out.MinPrice = &lo
	}
	if c.MaxPrice != nil {
		hi := *c.MaxPrice
		out.MaxPrice = &hi
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// toggle добавляет значение или убирает его, если оно уже есть
func toggle(list []string, value string) []string {
	for i, v := range list {
		if v == value {
			out := make([]string, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...)
		}
	}
	out := cloneStrings(list)
	return append(out, value)
}
