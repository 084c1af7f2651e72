package catalog

import (
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/model"
)

// Engine фильтр, сортировка и пагинация в одной зоне и с одними часами
type Engine struct {
	location *time.Location
	now      func() time.Time
}

// NewEngine создаёт движок выдачи. now == nil - time.Now.
func NewEngine(loc *time.Location, now func() time.Time) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{location: loc, now: now}
}

// Location зона, в которой сравниваются даты
func (e *Engine) Location() *time.Location {
	return e.location
}

// Now текущее время в зоне движка
func (e *Engine) Now() time.Time {
	return e.now().In(e.location)
}

// Browse возвращает страницу выдачи для запроса
func (e *Engine) Browse(lessons []model.Lesson, q Query) Page {
	filtered := Filter(lessons, q.Criteria, e.location)
	sorted := Sort(filtered, q.Sort, e.Now())
	return Paginate(sorted, q.Page)
}
