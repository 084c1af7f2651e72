package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Helper functions для всех callback handlers

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// CallbackArgs возвращает части callback data после префикса.
// Например: "plan_month:7:2025" с префиксом "plan_month:" -> ["7", "2025"]
func CallbackArgs(data, prefix string, n int) ([]string, error) {
	if !strings.HasPrefix(data, prefix) {
		return nil, ErrInvalidFormat
	}
	rest := strings.TrimPrefix(data, prefix)
	if n == 1 {
		if rest == "" {
			return nil, ErrInvalidFormat
		}
		return []string{rest}, nil
	}

	parts := strings.SplitN(rest, ":", n)
	if len(parts) != n {
		return nil, ErrInvalidFormat
	}
	return parts, nil
}

// ParseIDFromCallback извлекает ID из callback data
// Например: "lesson:123" -> 123
func ParseIDFromCallback(data, prefix string) (int64, error) {
	args, err := CallbackArgs(data, prefix, 1)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidFormat, data)
	}
	return id, nil
}

// IsMessageNotModifiedError проверяет ответ Telegram на редактирование без изменений
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

// Truncate обрезает текст до limit рун
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
