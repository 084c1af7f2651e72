package catalog

import (
	"sort"

	"github.com/Freeeeeet/lessonmarket/internal/model"
)

// Category категория и её подкатегории, встречающиеся в выдаче
type Category struct {
	Name          string
	Subcategories []string
	Count         int
}

// Categories собирает уникальные категории и подкатегории, по алфавиту
func Categories(lessons []model.Lesson) []Category {
	byName := make(map[string]*Category)
	subs := make(map[string]map[string]struct{})

	for _, l := range lessons {
		if l.Category == "" {
			continue
		}
		cat, ok := byName[l.Category]
		if !ok {
			cat = &Category{Name: l.Category}
			byName[l.Category] = cat
			subs[l.Category] = make(map[string]struct{})
		}
		cat.Count++

		if l.Subcategory != "" {
			subs[l.Category][l.Subcategory] = struct{}{}
		}
		for _, s := range l.Subcategories {
			if s != "" {
				subs[l.Category][s] = struct{}{}
			}
		}
	}

	out := make([]Category, 0, len(byName))
	for name, cat := range byName {
		for s := range subs[name] {
			cat.Subcategories = append(cat.Subcategories, s)
		}
		sort.Strings(cat.Subcategories)
		out = append(out, *cat)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Areas собирает районы и города очных занятий, по алфавиту
func Areas(lessons []model.Lesson) []string {
	seen := make(map[string]struct{})
	for _, l := range lessons {
		if l.LocationType == model.FormatOnline {
			continue
		}
		if l.ClassroomArea != "" {
			seen[l.ClassroomArea] = struct{}{}
		}
		if l.ClassroomCity != "" {
			seen[l.ClassroomCity] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
