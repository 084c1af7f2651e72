package teacher

import (
	"strconv"

	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lessonmarket/internal/model"
	"go.uber.org/zap"
)

// ShowMyLessons перерисовывает список занятий инструктора
func ShowMyLessons(hc *common.HandlerContext) {
	if err := hc.RequireInstructor(); err != nil {
		hc.Fail(err)
		return
	}

	lessons, err := hc.Handler.LessonService.GetInstructorLessons(hc.Ctx, hc.User.ID)
	if err != nil {
		hc.Fail(err)
		return
	}

	hc.Show(common.MyLessonsScreen(lessons))
}

// HandleLessonStatus меняет статус занятия: lesson_status:<id>:<status>
func HandleLessonStatus(hc *common.HandlerContext) {
	args, err := common.CallbackArgs(hc.Data(), common.LessonStatus, 2)
	if err != nil {
		hc.Fail(err)
		return
	}

	lessonID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		hc.Fail(common.ErrInvalidFormat)
		return
	}

	to := model.Status(args[1])
	if !to.Valid() {
		hc.Fail(common.ErrInvalidFormat)
		return
	}

	if err := hc.RequireInstructor(); err != nil {
		hc.Fail(err)
		return
	}

	lesson, err := hc.Handler.LessonService.ChangeStatus(hc.Ctx, hc.User.ID, lessonID, to)
	if err != nil {
		hc.Fail(err)
		return
	}

	hc.Logger().Info("Lesson status changed via bot",
		zap.Int64("lesson_id", lesson.ID),
		zap.String("status", string(lesson.Status)),
	)

	ShowMyLessons(hc)
}
