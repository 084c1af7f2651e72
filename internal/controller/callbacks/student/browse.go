package student

import (
	"strconv"
	"strings"

	"github.com/Freeeeeet/lessonmarket/internal/catalog"
	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lessonmarket/internal/controller/state"
	"go.uber.org/zap"
)

// HandleBrowse обрабатывает переходы по выдаче: страницы, сортировку и фильтры
func HandleBrowse(hc *common.HandlerContext) {
	var applyErr error
	hc.Session(func(s *state.Session) {
		next, err := ApplyBrowse(s.Query, hc.Data())
		if err != nil {
			applyErr = err
			return
		}
		s.Query = next
	})
	if applyErr != nil {
		hc.Fail(applyErr)
		return
	}

	ShowBrowse(hc)
}

// ShowBrowse перерисовывает экран выдачи по запросу из сессии
func ShowBrowse(hc *common.HandlerContext) {
	screen, err := common.RenderBrowse(hc.Ctx, hc.Handler, hc.TelegramID)
	if err != nil {
		hc.Fail(err)
		return
	}
	hc.Show(screen)
}

// HandleSearch ждёт ключевое слово следующим сообщением
func HandleSearch(hc *common.HandlerContext) {
	hc.Handler.StateManager.SetState(hc.TelegramID, state.StateSearchKeyword)
	hc.Answer("")

	if err := hc.SendMessage("🔍 Введите слово для поиска по названию и описанию.\n\nОтмена: /cancel", nil); err != nil {
		hc.Logger().Error("Failed to send search prompt", zap.Error(err))
	}
}

// ApplyBrowse применяет callback выдачи к запросу
func ApplyBrowse(q catalog.Query, data string) (catalog.Query, error) {
	switch {
	case strings.HasPrefix(data, common.BrowsePage):
		page, err := strconv.Atoi(strings.TrimPrefix(data, common.BrowsePage))
		if err != nil {
			return q, common.ErrInvalidFormat
		}
		return q.WithPage(page), nil

	case strings.HasPrefix(data, common.BrowseSort):
		mode, ok := catalog.ParseSortMode(strings.TrimPrefix(data, common.BrowseSort))
		if !ok {
			return q, common.ErrInvalidFormat
		}
		return q.WithSort(mode), nil

	case strings.HasPrefix(data, common.BrowseLocation):
		switch strings.TrimPrefix(data, common.BrowseLocation) {
		case "a":
			return q.ToggleOnline(), nil
		case "b":
			return q.ToggleInPerson(), nil
		}
		return q, common.ErrInvalidFormat

	case strings.HasPrefix(data, common.BrowseType):
		switch strings.TrimPrefix(data, common.BrowseType) {
		case "a":
			return q.ToggleMonthly(), nil
		case "b":
			return q.ToggleSingle(), nil
		}
		return q, common.ErrInvalidFormat

	case strings.HasPrefix(data, common.BrowseCategory):
		category := strings.TrimPrefix(data, common.BrowseCategory)
		if category == common.AllCategories {
			category = ""
		}
		return q.WithCategory(category), nil

	case strings.HasPrefix(data, common.BrowseSub):
		return toggleNamed(q, data, common.BrowseSub, catalog.Query.ToggleSubcategory)

	case strings.HasPrefix(data, common.BrowseArea):
		return toggleNamed(q, data, common.BrowseArea, catalog.Query.ToggleArea)

	case strings.HasPrefix(data, common.BrowseBucket):
		id := strings.TrimPrefix(data, common.BrowseBucket)
		if _, ok := catalog.BucketByID(id); !ok {
			return q, common.ErrInvalidFormat
		}
		return q.ToggleBucket(id), nil

	case data == common.BrowseAllDates:
		return q.WithAllDates(!q.Criteria.AllDates), nil

	case data == common.BrowseReset:
		return q.Reset(), nil

	case data == common.BrowseBack:
		return q, nil
	}

	return q, common.ErrInvalidFormat
}

func toggleNamed(q catalog.Query, data, prefix string, fn func(catalog.Query, string) catalog.Query) (catalog.Query, error) {
	name := strings.TrimPrefix(data, prefix)
	if name == "" {
		return q, common.ErrInvalidFormat
	}
	return fn(q, name), nil
}
