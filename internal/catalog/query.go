package catalog

import (
	"strings"

	"github.com/Freeeeeet/lessonmarket/internal/schedule"
)

// Query состояние выдачи в сессии: фильтры, сортировка, страница.
// Любое изменение фильтров или сортировки возвращает запрос на первой странице.
type Query struct {
	Criteria Criteria
	Sort     SortMode
	Page     int
}

// NewQuery пустой запрос: без фильтров, рекомендуемые, первая страница
func NewQuery() Query {
	return Query{Sort: SortRecommended, Page: 1}
}

func (q Query) with(fn func(c *Criteria)) Query {
	out := Query{Criteria: q.Criteria.clone(), Sort: q.Sort, Page: 1}
	fn(&out.Criteria)
	return out
}

func (q Query) WithKeyword(keyword string) Query {
	return q.with(func(c *Criteria) { c.Keyword = strings.TrimSpace(keyword) })
}

// WithCategory меняет категорию и сбрасывает подкатегории. Пустая строка - все категории.
func (q Query) WithCategory(category string) Query {
	return q.with(func(c *Criteria) {
		if c.Category != category {
			c.Subcategories = nil
		}
		c.Category = category
	})
}

func (q Query) ToggleSubcategory(sub string) Query {
	return q.with(func(c *Criteria) { c.Subcategories = toggle(c.Subcategories, sub) })
}

// ToggleOnline переключает онлайн-сторону фильтра формата
func (q Query) ToggleOnline() Query {
	return q.with(func(c *Criteria) { c.Location = c.Location.ToggleA() })
}

// ToggleInPerson переключает очную сторону. Без очных занятий районы не имеют смысла и сбрасываются.
func (q Query) ToggleInPerson() Query {
	return q.with(func(c *Criteria) {
		c.Location = c.Location.ToggleB()
		if _, inPerson := c.Location.Flags(); !inPerson {
			c.Areas = nil
		}
	})
}

func (q Query) ToggleMonthly() Query {
	return q.with(func(c *Criteria) { c.PricingMode = c.PricingMode.ToggleA() })
}

func (q Query) ToggleSingle() Query {
	return q.with(func(c *Criteria) { c.PricingMode = c.PricingMode.ToggleB() })
}

func (q Query) ToggleArea(area string) Query {
	return q.with(func(c *Criteria) { c.Areas = toggle(c.Areas, area) })
}

// WithDateRange задаёт диапазон дат, границы меняются местами при обратном порядке
func (q Query) WithDateRange(from, to schedule.Date) Query {
	if to.Before(from) {
		from, to = to, from
	}
	return q.with(func(c *Criteria) {
		c.DateFrom = &from
		c.DateTo = &to
		c.AllDates = false
	})
}

// WithAllDates отключает фильтр по датам, сохраняя выбранный диапазон
func (q Query) WithAllDates(all bool) Query {
	return q.with(func(c *Criteria) { c.AllDates = all })
}

// WithPriceRange задаёт произвольные границы цены, nil - без границы
func (q Query) WithPriceRange(lo, hi *int) Query {
	return q.with(func(c *Criteria) {
		c.MinPrice = nil
		c.MaxPrice = nil
		if lo != nil {
			v := *lo
			c.MinPrice = &v
		}
		if hi != nil {
			v := *hi
			c.MaxPrice = &v
		}
	})
}

func (q Query) ToggleBucket(id string) Query {
	if _, ok := BucketByID(id); !ok {
		return q
	}
	return q.with(func(c *Criteria) { c.Buckets = toggle(c.Buckets, id) })
}

func (q Query) WithSort(mode SortMode) Query {
	out := q.with(func(*Criteria) {})
	out.Sort = mode
	return out
}

// WithPage переходит на страницу, фильтры не меняются
func (q Query) WithPage(page int) Query {
	out := q
	out.Criteria = q.Criteria.clone()
	out.Page = page
	return out
}

// Reset сбрасывает фильтры, сортировку и страницу
func (q Query) Reset() Query {
	return NewQuery()
}
