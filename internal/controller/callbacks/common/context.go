package common

import (
	"bytes"
	"context"

	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/lessonmarket/internal/controller/state"
	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	User       *model.User
	TelegramID int64
	ChatID     int64
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// Data callback data
func (hc *HandlerContext) Data() string {
	return hc.Callback.Data
}

// Logger логгер с полями пользователя
func (hc *HandlerContext) Logger() *zap.Logger {
	return hc.Handler.Logger.With(
		zap.Int64("telegram_id", hc.TelegramID),
		zap.String("data", hc.Callback.Data),
	)
}

// LoadUser загружает пользователя в контекст
func (hc *HandlerContext) LoadUser() error {
	user, err := hc.Handler.UserService.GetByTelegramID(hc.Ctx, hc.TelegramID)
	if err != nil {
		return err
	}
	if user == nil {
		return service.ErrUserNotFound
	}
	hc.User = user
	return nil
}

// RequireUser проверяет что пользователь загружен
func (hc *HandlerContext) RequireUser() error {
	if hc.User == nil {
		return hc.LoadUser()
	}
	return nil
}

// RequireInstructor проверяет что пользователь является инструктором
func (hc *HandlerContext) RequireInstructor() error {
	if err := hc.RequireUser(); err != nil {
		return err
	}
	if !hc.User.IsInstructor {
		return service.ErrNotInstructor
	}
	return nil
}

// Fail отвечает пользователю сообщением об ошибке и логирует сбои
func (hc *HandlerContext) Fail(err error) {
	if IsUserError(err) {
		hc.Logger().Info("Callback rejected", zap.Error(err))
	} else {
		hc.Logger().Error("Callback failed", zap.Error(err))
	}
	hc.AnswerAlert(ErrorMessage(err))
}

// Answer отвечает на callback query
func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// AnswerAlert отвечает на callback query с alert
func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// EditMessage редактирует сообщение
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	_, err := hc.Bot.EditMessageText(hc.Ctx, &bot.EditMessageTextParams{
		ChatID:      hc.ChatID,
		MessageID:   hc.Message.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	})

	if IsMessageNotModifiedError(err) {
		return nil
	}

	return err
}

// Show редактирует сообщение экраном и отвечает на callback
func (hc *HandlerContext) Show(screen Screen) {
	if err := hc.EditMessage(screen.Text, screen.Keyboard); err != nil {
		hc.Logger().Error("Failed to edit message", zap.Error(err))
	}
	hc.Answer("")
}

// SendMessage отправляет новое сообщение
func (hc *HandlerContext) SendMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	_, err := hc.Bot.SendMessage(hc.Ctx, &bot.SendMessageParams{
		ChatID:      hc.ChatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	})

	return err
}

// SendPhoto отправляет PNG с подписью
func (hc *HandlerContext) SendPhoto(filename string, data []byte, caption string) error {
	_, err := hc.Bot.SendPhoto(hc.Ctx, &bot.SendPhotoParams{
		ChatID: hc.ChatID,
		Photo: &models.InputFileUpload{
			Filename: filename,
			Data:     bytes.NewReader(data),
		},
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	})

	return err
}

// Session выполняет fn над сессией пользователя
func (hc *HandlerContext) Session(fn func(s *state.Session)) {
	hc.Handler.StateManager.Update(hc.TelegramID, fn)
}
