package handlers

import (
	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lessonmarket/internal/controller/state"
	"github.com/Freeeeeet/lessonmarket/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	shared *callbacktypes.Handler

	userService     *service.UserService
	catalogService  *service.CatalogService
	lessonService   *service.LessonService
	scheduleService *service.ScheduleService
	bookingService  *service.BookingService
	stateManager    *state.Manager
	logger          *zap.Logger
}

// NewHandlers создаёт обработчик команд поверх тех же зависимостей, что и у callbacks
func NewHandlers(shared *callbacktypes.Handler) *Handlers {
	return &Handlers{
		shared:          shared,
		userService:     shared.UserService,
		catalogService:  shared.CatalogService,
		lessonService:   shared.LessonService,
		scheduleService: shared.ScheduleService,
		bookingService:  shared.BookingService,
		stateManager:    shared.StateManager,
		logger:          shared.Logger,
	}
}
