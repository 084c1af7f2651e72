package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/lessonmarket/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"Для учеников:\n" +
	"/lessons - Каталог занятий с фильтрами\n" +
	"/search <текст> - Поиск по названию и описанию\n" +
	"/dates <с> <по> - Даты занятий, например /dates 2025-06-01 2025-06-30\n" +
	"/price <от> <до> - Цена, «-» без границы, /price off - сбросить\n" +
	"/reset - Сбросить фильтры\n" +
	"/mybookings - Мои записи\n\n" +
	"Для инструкторов:\n" +
	"/becomeinstructor - Стать инструктором\n" +
	"/newlesson key=value ... - Создать занятие\n" +
	"/mylessons - Мои занятия и расписание\n" +
	"/template key=value ... - Шаблон расписания\n" +
	"/slot <дата> key=value ... - Изменить один слот\n\n" +
	"/cancel - Отменить текущее действие"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := update.Message.From

	registeredUser, err := h.userService.RegisterUser(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
	)

	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Здесь можно найти занятие и записаться на удобное время.\n\n%s",
		html.EscapeString(registeredUser.FirstName),
		helpText,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, html.EscapeString(helpText))
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога и черновика
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	var cancelled bool
	h.stateManager.Update(update.Message.From.ID, func(s *state.Session) {
		cancelled = s.State != state.StateNone || s.HasDraft()
		s.State = state.StateNone
		s.CloseDraft()
	})

	if !cancelled {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateSearchKeyword:
		h.stateManager.SetState(telegramID, state.StateNone)
		h.applySearch(ctx, b, update.Message.Chat.ID, telegramID, update.Message.Text)

	case state.StatePlanTemplate:
		h.applyTemplate(ctx, b, update.Message.Chat.ID, telegramID, update.Message.Text)

	default:
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
	}
}
