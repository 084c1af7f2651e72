package common

import (
	"context"
	"reflect"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/catalog"
	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lessonmarket/internal/controller/state"
)

// RenderBrowse строит экран выдачи по запросу из сессии.
// Номер страницы, приведённый к допустимому диапазону, сохраняется обратно.
func RenderBrowse(ctx context.Context, h *callbacktypes.Handler, telegramID int64) (Screen, error) {
	q := h.StateManager.Query(telegramID)

	result, err := h.CatalogService.Browse(ctx, q)
	if err != nil {
		return Screen{}, err
	}

	if result.Page.Page != q.Page {
		h.StateManager.Update(telegramID, func(s *state.Session) {
			storeClampedPage(s, q, result.Page.Page)
		})
		q = q.WithPage(result.Page.Page)
	}

	return BrowseScreen(BrowseView{
		Page:       result.Page,
		Query:      q,
		Categories: result.Categories,
		Areas:      result.Areas,
		Location:   h.CatalogService.Location(),
		Now:        h.Clock(),
	}), nil
}

// storeClampedPage записывает в сессию только номер страницы.
// Если запрос успели сменить, пока строилась выдача, сессия не трогается.
func storeClampedPage(s *state.Session, requested catalog.Query, page int) {
	if !reflect.DeepEqual(s.Query, requested) {
		return
	}
	s.Query = s.Query.WithPage(page)
}

// RenderPlanner строит экран планировщика. Вызывается под блокировкой сессии.
func RenderPlanner(s *state.Session) Screen {
	return PlannerScreen(PlannerView{
		LessonTitle: s.LessonTitle,
		Draft:       s.Draft,
		Month:       time.Month(s.PlanMonth),
		Year:        s.PlanYear,
	})
}
