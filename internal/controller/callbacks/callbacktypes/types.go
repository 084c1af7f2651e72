package callbacktypes

import (
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/controller/state"
	"github.com/Freeeeeet/lessonmarket/internal/service"
	"go.uber.org/zap"
)

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	UserService     *service.UserService
	CatalogService  *service.CatalogService
	LessonService   *service.LessonService
	ScheduleService *service.ScheduleService
	BookingService  *service.BookingService
	StateManager    *state.Manager
	Logger          *zap.Logger

	// Now источник времени для экранов
	Now func() time.Time
}

// Clock возвращает текущее время
func (h *Handler) Clock() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}
