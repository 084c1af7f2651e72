package schedule

import (
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/model"
)

// SlotChange новый статус слота
type SlotChange struct {
	SlotID   int64
	LessonID int64
	To       model.Status
}

// LessonChange новый статус занятия
type LessonChange struct {
	LessonID int64
	To       model.Status
}

// ReconcileResult изменения, которые нужно записать в хранилище
type ReconcileResult struct {
	Slots   []SlotChange
	Lessons []LessonChange
}

// Empty возвращает true, если менять нечего
func (r ReconcileResult) Empty() bool {
	return len(r.Slots) == 0 && len(r.Lessons) == 0
}

// Reconcile завершает прошедшие опубликованные слоты и занятия,
// у которых все слоты завершены или отменены (хотя бы один завершён)
func Reconcile(lessons []model.Lesson, now time.Time) ReconcileResult {
	var result ReconcileResult

	for _, lesson := range lessons {
		if len(lesson.Slots) == 0 {
			continue
		}

		allTerminal := true
		anyCompleted := false

		for _, slot := range lesson.Slots {
			status := slot.Status
			if status == model.StatusPublished && !slot.DateTimeEnd.After(now) {
				status = model.StatusCompleted
				result.Slots = append(result.Slots, SlotChange{
					SlotID:   slot.ID,
					LessonID: lesson.ID,
					To:       status,
				})
			}

			if !status.IsTerminal() {
				allTerminal = false
			}
			if status == model.StatusCompleted {
				anyCompleted = true
			}
		}

		if lesson.Status == model.StatusPublished && allTerminal && anyCompleted {
			result.Lessons = append(result.Lessons, LessonChange{
				LessonID: lesson.ID,
				To:       model.StatusCompleted,
			})
		}
	}

	return result
}
