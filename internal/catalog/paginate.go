package catalog

import "github.com/Freeeeeet/lessonmarket/internal/model"

// PageSize количество занятий на странице
const PageSize = 10

// Page одна страница выдачи
type Page struct {
	Items      []model.Lesson
	Page       int
	TotalItems int
	TotalPages int
}

// HasPrev есть ли предыдущая страница
func (p Page) HasPrev() bool {
	return p.Page > 1
}

// HasNext есть ли следующая страница
func (p Page) HasNext() bool {
	return p.Page < p.TotalPages
}

// Paginate режет список на страницы. Номер страницы начинается с 1 и
// приводится к диапазону [1, TotalPages]. Пустой список даёт TotalPages = 0.
func Paginate(lessons []model.Lesson, page int) Page {
	total := len(lessons)
	totalPages := (total + PageSize - 1) / PageSize

	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	result := Page{
		Items:      []model.Lesson{},
		Page:       page,
		TotalItems: total,
		TotalPages: totalPages,
	}
	if total == 0 {
		return result
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > total {
		end = total
	}
	result.Items = append(result.Items, lessons[start:end]...)
	return result
}
