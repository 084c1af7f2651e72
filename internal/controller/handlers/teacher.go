package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lessonmarket/internal/controller/state"
	"github.com/Freeeeeet/lessonmarket/internal/schedule"
	"github.com/Freeeeeet/lessonmarket/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const newLessonUsage = "📝 Создание занятия:\n\n" +
	"<code>/newlesson title=\"Фортепиано для начинающих\" category=Музыка subcategory=Фортепиано " +
	"format=in_person area=Shibuya price=3000 duration=60 capacity=4</code>\n\n" +
	"Ключи: title, description, category, subcategory, format (online, in_person, hybrid), " +
	"type (one_time, monthly, course), price, duration, capacity, discount, area, city"

// HandleBecomeInstructor обрабатывает команду /becomeinstructor
func (h *Handlers) HandleBecomeInstructor(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	if user.IsInstructor {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Вы уже инструктор.\n\nВаши занятия: /mylessons")
		return
	}

	if _, err := h.userService.BecomeInstructor(ctx, user.TelegramID); err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.logger.Info("User became instructor", zap.Int64("user_id", user.ID))
	h.sendMessage(ctx, b, update.Message.Chat.ID, "🎉 Теперь вы инструктор!\n\n"+newLessonUsage)
}

// HandleNewLesson обрабатывает команду /newlesson key=value ...
func (h *Handlers) HandleNewLesson(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireInstructor(ctx, b, update)
	if !ok {
		return
	}

	raw := CommandArgs(update.Message.Text)
	if raw == "" {
		h.sendMessage(ctx, b, update.Message.Chat.ID, newLessonUsage)
		return
	}

	args, err := ParseArgs(raw)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, err)
		return
	}
	in, err := ParseLessonInput(args.Values)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	lesson, err := h.lessonService.CreateLesson(ctx, user, in)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"✅ Занятие «%s» создано как черновик.\n\nОткройте /mylessons, чтобы добавить расписание и опубликовать его.",
		html.EscapeString(lesson.Title),
	))
}

// HandleMyLessons обрабатывает команду /mylessons
func (h *Handlers) HandleMyLessons(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireInstructor(ctx, b, update)
	if !ok {
		return
	}

	lessons, err := h.lessonService.GetInstructorLessons(ctx, user.ID)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendScreen(ctx, b, update.Message.Chat.ID, common.MyLessonsScreen(lessons))
}

// HandleCapacity обрабатывает команду /capacity <id занятия> <мест>
func (h *Handlers) HandleCapacity(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireInstructor(ctx, b, update)
	if !ok {
		return
	}

	fields := strings.Fields(CommandArgs(update.Message.Text))
	if len(fields) != 2 {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Формат: /capacity <id занятия> <мест>")
		return
	}
	lessonID, errID := strconv.ParseInt(fields[0], 10, 64)
	capacity, errCap := strconv.Atoi(fields[1])
	if errID != nil || errCap != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Формат: /capacity <id занятия> <мест>")
		return
	}

	lesson, err := h.lessonService.UpdateCapacity(ctx, user.ID, lessonID, capacity)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"✅ «%s»: мест %d", html.EscapeString(lesson.Title), lesson.Capacity))
}

// HandleTemplate обрабатывает команду /template key=value ... для открытого планировщика
func (h *Handlers) HandleTemplate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	raw := CommandArgs(update.Message.Text)
	if raw == "" {
		var hasDraft bool
		h.stateManager.Update(update.Message.From.ID, func(s *state.Session) {
			if hasDraft = s.HasDraft(); hasDraft {
				s.State = state.StatePlanTemplate
			}
		})
		if !hasDraft {
			h.replyError(ctx, b, update.Message.Chat.ID, common.ErrNoDraft)
			return
		}
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			"⚙️ Отправьте параметры шаблона: <code>start=11:00 duration=90 price=3500</code>\n\nОтмена: /cancel")
		return
	}

	h.applyTemplate(ctx, b, update.Message.Chat.ID, update.Message.From.ID, raw)
}

// applyTemplate меняет шаблон черновика и показывает планировщик заново
func (h *Handlers) applyTemplate(ctx context.Context, b *bot.Bot, chatID, telegramID int64, raw string) {
	args, err := ParseArgs(raw)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	var (
		screen common.Screen
		failed error
	)
	h.stateManager.Update(telegramID, func(s *state.Session) {
		if !s.HasDraft() {
			failed = common.ErrNoDraft
			return
		}
		t, err := ApplyTemplateArgs(s.Draft.Template(), args.Values)
		if err != nil {
			failed = err
			return
		}
		if err := h.scheduleService.UpdateTemplate(s.Draft, t); err != nil {
			failed = err
			return
		}
		s.State = state.StateNone
		screen = common.RenderPlanner(s)
	})

	if failed != nil {
		h.replyError(ctx, b, chatID, failed)
		return
	}

	h.sendMessage(ctx, b, chatID, "✅ Шаблон обновлён. Чтобы переписать уже выбранные даты, нажмите «Применить ко всем».")
	h.sendScreen(ctx, b, chatID, screen)
}

// HandleSlot обрабатывает команду /slot <дата> key=value ... или /slot <дата> remove
func (h *Handlers) HandleSlot(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := ParseArgs(CommandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}
	if len(args.Positional) == 0 {
		h.sendError(ctx, b, chatID, "❌ Формат: /slot 2025-06-12 start=11:00 capacity=3 или /slot 2025-06-12 remove")
		return
	}
	date, err := schedule.ParseDate(args.Positional[0])
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Дата должна быть в формате ГГГГ-ММ-ДД")
		return
	}
	remove := len(args.Positional) > 1 && args.Positional[1] == "remove"

	overrides, err := ParseOverrides(args.Values)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}

	var (
		screen  common.Screen
		failed  error
		applied bool
	)
	h.stateManager.Update(update.Message.From.ID, func(s *state.Session) {
		if !s.HasDraft() {
			failed = common.ErrNoDraft
			return
		}
		if remove {
			applied = s.Draft.RemoveSlot(date)
		} else {
			applied = s.Draft.EditSlot(date, overrides)
			if slot, ok := s.Draft.Slot(date); ok {
				failed = service.ValidateSlot(slot)
			}
		}
		s.PlanMonth = int(date.Month)
		s.PlanYear = date.Year
		screen = common.RenderPlanner(s)
	})

	if failed != nil {
		h.replyError(ctx, b, chatID, failed)
		if errors.Is(failed, common.ErrNoDraft) {
			return
		}
	} else if !applied {
		h.sendError(ctx, b, chatID, "❌ Слот на эту дату нельзя изменить")
		return
	}

	h.sendScreen(ctx, b, chatID, screen)
}
