package callbacks

import (
	"context"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lessonmarket/internal/controller/state"
	"github.com/Freeeeeet/lessonmarket/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	userService *service.UserService,
	catalogService *service.CatalogService,
	lessonService *service.LessonService,
	scheduleService *service.ScheduleService,
	bookingService *service.BookingService,
	stateManager *state.Manager,
	now func() time.Time,
	logger *zap.Logger,
) *Handler {
	inner := &callbacktypes.Handler{
		UserService:     userService,
		CatalogService:  catalogService,
		LessonService:   lessonService,
		ScheduleService: scheduleService,
		BookingService:  bookingService,
		StateManager:    stateManager,
		Logger:          logger,
		Now:             now,
	}
	return &Handler{Handler: inner}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	Route(ctx, b, update.CallbackQuery, h.Handler)
}
