package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/student"
	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/teacher"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// browsePrefixes callback'и, меняющие запрос выдачи
var browsePrefixes = []string{
	common.BrowsePage,
	common.BrowseSort,
	common.BrowseLocation,
	common.BrowseType,
	common.BrowseCategory,
	common.BrowseSub,
	common.BrowseArea,
	common.BrowseBucket,
}

// planPrefixes callback'и, меняющие открытый черновик
var planPrefixes = []string{
	common.PlanDay,
	common.PlanWeekday,
	common.PlanMonth,
}

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	hc := common.NewHandlerContext(ctx, b, callback, h)

	switch {
	case data == common.Noop:
		hc.Answer("")

	// ===== Student: выдача =====
	case hasPrefix(data, browsePrefixes),
		data == common.BrowseAllDates,
		data == common.BrowseReset,
		data == common.BrowseBack:
		student.HandleBrowse(hc)
	case data == common.BrowseSearch:
		student.HandleSearch(hc)

	// ===== Student: карточка и запись =====
	case strings.HasPrefix(data, common.ViewLesson):
		student.HandleViewLesson(hc)
	case strings.HasPrefix(data, common.BookSlot):
		student.HandleBookSlot(hc)
	case strings.HasPrefix(data, common.CancelBooking):
		student.HandleCancelBooking(hc)

	// ===== Teacher: планировщик =====
	case hasPrefix(data, planPrefixes),
		data == common.PlanApply,
		data == common.PlanClear:
		teacher.HandlePlanEdit(hc)
	case data == common.PlanTemplate:
		teacher.HandlePlanTemplate(hc)
	case data == common.PlanPreview:
		teacher.HandlePlanPreview(hc)
	case data == common.PlanCommit:
		teacher.HandlePlanCommit(hc)
	case data == common.PlanClose:
		teacher.HandlePlanClose(hc)
	case strings.HasPrefix(data, common.PlanOpen):
		teacher.HandlePlanOpen(hc)

	// ===== Teacher: занятия =====
	case data == common.MyLessons:
		teacher.ShowMyLessons(hc)
	case strings.HasPrefix(data, common.LessonStatus):
		teacher.HandleLessonStatus(hc)

	default:
		h.Logger.Warn("Unknown callback", zap.String("data", data))
		hc.Answer("")
	}
}

func hasPrefix(data string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(data, p) {
			return true
		}
	}
	return false
}
