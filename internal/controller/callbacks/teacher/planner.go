package teacher

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lessonmarket/internal/controller/preview"
	"github.com/Freeeeeet/lessonmarket/internal/controller/state"
	"github.com/Freeeeeet/lessonmarket/internal/schedule"
	"go.uber.org/zap"
)

// HandlePlanOpen открывает планировщик для занятия инструктора
func HandlePlanOpen(hc *common.HandlerContext) {
	lessonID, err := common.ParseIDFromCallback(hc.Data(), common.PlanOpen)
	if err != nil {
		hc.Fail(err)
		return
	}

	if err := hc.RequireInstructor(); err != nil {
		hc.Fail(err)
		return
	}

	lesson, err := hc.Handler.LessonService.GetOwnedLesson(hc.Ctx, hc.User.ID, lessonID)
	if err != nil {
		hc.Fail(err)
		return
	}

	draft, err := hc.Handler.ScheduleService.NewDraft(hc.Ctx, hc.User.ID, lessonID)
	if err != nil {
		hc.Fail(err)
		return
	}

	var screen common.Screen
	hc.Session(func(s *state.Session) {
		s.OpenDraft(lesson.ID, lesson.Title, draft)
		screen = common.RenderPlanner(s)
	})

	hc.Logger().Info("Planner opened", zap.Int64("lesson_id", lesson.ID))
	hc.Show(screen)
}

// HandlePlanEdit действия над черновиком: выбор дат, месяца, применение шаблона
func HandlePlanEdit(hc *common.HandlerContext) {
	var (
		screen common.Screen
		notice string
		failed error
	)

	hc.Session(func(s *state.Session) {
		if !s.HasDraft() {
			failed = common.ErrNoDraft
			return
		}

		notice, failed = ApplyPlan(s, hc.Data())
		if failed != nil {
			return
		}
		screen = common.RenderPlanner(s)
	})

	if failed != nil {
		hc.Fail(failed)
		return
	}

	if err := hc.EditMessage(screen.Text, screen.Keyboard); err != nil {
		hc.Logger().Error("Failed to edit message", zap.Error(err))
	}
	hc.Answer(notice)
}

// ApplyPlan применяет callback планировщика к сессии с открытым черновиком.
// Возвращает короткое уведомление для пользователя.
func ApplyPlan(s *state.Session, data string) (string, error) {
	d := s.Draft

	switch {
	case strings.HasPrefix(data, common.PlanDay):
		date, err := schedule.ParseDate(strings.TrimPrefix(data, common.PlanDay))
		if err != nil {
			return "", common.ErrInvalidFormat
		}
		if !d.ToggleDate(date) {
			return "Прошедшую дату выбрать нельзя", nil
		}
		return "", nil

	case strings.HasPrefix(data, common.PlanWeekday):
		wd, err := strconv.Atoi(strings.TrimPrefix(data, common.PlanWeekday))
		if err != nil || wd < 0 || wd > 6 {
			return "", common.ErrInvalidFormat
		}
		changed := d.ToggleWeekday(time.Weekday(wd), time.Month(s.PlanMonth), s.PlanYear)
		if changed == 0 {
			return "В этом месяце таких дней больше нет", nil
		}
		return fmt.Sprintf("Изменено дат: %d", changed), nil

	case strings.HasPrefix(data, common.PlanMonth):
		args, err := common.CallbackArgs(data, common.PlanMonth, 2)
		if err != nil {
			return "", err
		}
		month, errM := strconv.Atoi(args[0])
		year, errY := strconv.Atoi(args[1])
		if errM != nil || errY != nil || month < 1 || month > 12 {
			return "", common.ErrInvalidFormat
		}
		s.PlanMonth = month
		s.PlanYear = year
		return "", nil

	case data == common.PlanApply:
		if !d.ApplyTemplateToAll() {
			return "Нет выбранных дат", nil
		}
		return "Шаблон применён ко всем датам", nil

	case data == common.PlanClear:
		d.Clear()
		return "Выбор снят", nil
	}

	return "", common.ErrInvalidFormat
}

// HandlePlanTemplate ждёт параметры шаблона следующим сообщением
func HandlePlanTemplate(hc *common.HandlerContext) {
	var (
		current  schedule.Template
		hasDraft bool
	)
	hc.Session(func(s *state.Session) {
		if !s.HasDraft() {
			return
		}
		hasDraft = true
		current = s.Draft.Template()
		s.State = state.StatePlanTemplate
	})

	if !hasDraft {
		hc.Fail(common.ErrNoDraft)
		return
	}
	hc.Answer("")

	text := "⚙️ Отправьте параметры шаблона в виде key=value.\n\n" +
		"Сейчас: " + common.TemplateSummary(current) + "\n\n" +
		"Ключи: start, duration, capacity, price, discount, deadline_days, deadline_time, notes, venue\n" +
		"<code>start=11:00 duration=90 capacity=6 price=3500</code>\n\nОтмена: /cancel"
	if err := hc.SendMessage(text, nil); err != nil {
		hc.Logger().Error("Failed to send template prompt", zap.Error(err))
	}
}

// HandlePlanPreview отправляет картинку месяца с выбранными слотами
func HandlePlanPreview(hc *common.HandlerContext) {
	var (
		image  []byte
		failed error
	)
	hc.Session(func(s *state.Session) {
		if !s.HasDraft() {
			failed = common.ErrNoDraft
			return
		}
		image, failed = preview.RenderMonth(s.Draft, time.Month(s.PlanMonth), s.PlanYear)
	})

	if failed != nil {
		hc.Fail(failed)
		return
	}
	hc.Answer("")

	if err := hc.SendPhoto("schedule.png", image, "🖼 Превью расписания"); err != nil {
		hc.Logger().Error("Failed to send preview", zap.Error(err))
	}
}

// HandlePlanCommit сохраняет черновик одной транзакцией.
// Сохранение идёт под блокировкой сессии, чтобы черновик не менялся во время записи.
func HandlePlanCommit(hc *common.HandlerContext) {
	if err := hc.RequireInstructor(); err != nil {
		hc.Fail(err)
		return
	}

	var (
		saved  int
		screen common.Screen
		failed error
	)
	hc.Session(func(s *state.Session) {
		if !s.HasDraft() {
			failed = common.ErrNoDraft
			return
		}
		saved, failed = hc.Handler.ScheduleService.Commit(hc.Ctx, hc.User.ID, s.LessonID, s.DraftID, s.Draft)
		if failed != nil {
			return
		}
		screen = common.RenderPlanner(s)
	})

	if failed != nil {
		hc.Fail(failed)
		return
	}

	if err := hc.EditMessage(screen.Text, screen.Keyboard); err != nil {
		hc.Logger().Error("Failed to edit message", zap.Error(err))
	}
	hc.AnswerAlert(fmt.Sprintf("✅ Сохранено слотов: %d", saved))
}

// HandlePlanClose закрывает планировщик и возвращает к списку занятий
func HandlePlanClose(hc *common.HandlerContext) {
	hc.Session(func(s *state.Session) {
		s.CloseDraft()
	})

	ShowMyLessons(hc)
}
