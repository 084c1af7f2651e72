package student

import (
	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common"
	"go.uber.org/zap"
)

// HandleViewLesson показывает карточку занятия со слотами
func HandleViewLesson(hc *common.HandlerContext) {
	lessonID, err := common.ParseIDFromCallback(hc.Data(), common.ViewLesson)
	if err != nil {
		hc.Fail(err)
		return
	}

	showLesson(hc, lessonID)
}

func showLesson(hc *common.HandlerContext, lessonID int64) {
	lesson, slots, err := hc.Handler.CatalogService.LessonDetail(hc.Ctx, lessonID)
	if err != nil {
		hc.Fail(err)
		return
	}

	hc.Show(common.LessonScreen(lesson, slots, hc.Handler.CatalogService.Location()))
}

// HandleBookSlot записывает ученика на слот
func HandleBookSlot(hc *common.HandlerContext) {
	slotID, err := common.ParseIDFromCallback(hc.Data(), common.BookSlot)
	if err != nil {
		hc.Fail(err)
		return
	}

	if err := hc.RequireUser(); err != nil {
		hc.Fail(err)
		return
	}

	booking, err := hc.Handler.BookingService.BookSlot(hc.Ctx, hc.User.ID, slotID)
	if err != nil {
		hc.Fail(err)
		return
	}

	hc.Logger().Info("Slot booked via bot",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("slot_id", slotID),
	)

	hc.AnswerAlert("✅ Вы записаны! Ваши записи: /mybookings")

	lesson, slots, err := hc.Handler.CatalogService.LessonDetail(hc.Ctx, booking.LessonID)
	if err != nil {
		hc.Logger().Warn("Failed to refresh lesson after booking", zap.Error(err))
		return
	}
	screen := common.LessonScreen(lesson, slots, hc.Handler.CatalogService.Location())
	if err := hc.EditMessage(screen.Text, screen.Keyboard); err != nil {
		hc.Logger().Error("Failed to edit message", zap.Error(err))
	}
}

// HandleCancelBooking отменяет запись ученика
func HandleCancelBooking(hc *common.HandlerContext) {
	bookingID, err := common.ParseIDFromCallback(hc.Data(), common.CancelBooking)
	if err != nil {
		hc.Fail(err)
		return
	}

	if err := hc.RequireUser(); err != nil {
		hc.Fail(err)
		return
	}

	if err := hc.Handler.BookingService.CancelBooking(hc.Ctx, bookingID, hc.User.ID); err != nil {
		hc.Fail(err)
		return
	}

	bookings, err := hc.Handler.BookingService.GetLearnerBookings(hc.Ctx, hc.User.ID)
	if err != nil {
		hc.Fail(err)
		return
	}

	screen := common.BookingsScreen(bookings, hc.Handler.CatalogService.Location(), hc.Handler.Clock())
	if err := hc.EditMessage(screen.Text, screen.Keyboard); err != nil {
		hc.Logger().Error("Failed to edit message", zap.Error(err))
	}
	hc.Answer("Запись отменена")
}
