package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireUser проверяет что пользователь существует
// Возвращает user и true если OK, nil и false если нет
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	if update.Message == nil {
		return nil, false
	}

	telegramID := update.Message.From.ID
	user, err := h.userService.GetByTelegramID(ctx, telegramID)

	if err != nil {
		h.logger.Error("Failed to get user", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil, false
	}

	if user == nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Пользователь не найден. Используйте /start для регистрации.")
		return nil, false
	}

	return user, true
}

// requireInstructor проверяет что пользователь является инструктором
func (h *Handlers) requireInstructor(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return nil, false
	}

	if !user.IsInstructor {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Эта команда доступна только инструкторам.\n\nСтать инструктором: /becomeinstructor")
		return nil, false
	}

	return user, true
}

// replyError отвечает пользовательским текстом для ошибки сервиса
func (h *Handlers) replyError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	text := common.ErrorMessage(err)
	switch {
	case errors.Is(err, ErrBadArgs):
		text = "❌ " + err.Error()
	case common.IsUserError(err):
		h.logger.Info("Command rejected", zap.Int64("chat_id", chatID), zap.Error(err))
	default:
		h.logger.Error("Command failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	// подробности валидации полезны инструктору
	if detail := validationDetail(err); detail != "" {
		text += "\n" + detail
	}

	h.sendError(ctx, b, chatID, text)
}

func validationDetail(err error) string {
	if errors.Is(err, service.ErrInvalidLesson) || errors.Is(err, service.ErrInvalidTemplate) {
		return err.Error()
	}
	return ""
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendScreen отправляет экран новым сообщением
func (h *Handlers) sendScreen(ctx context.Context, b *bot.Bot, chatID int64, screen common.Screen) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        screen.Text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: screen.Keyboard,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
