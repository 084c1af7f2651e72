package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/lessonmarket/internal/catalog"
	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lessonmarket/internal/controller/state"
	"github.com/Freeeeeet/lessonmarket/internal/schedule"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleLessons обрабатывает команду /lessons - каталог с текущими фильтрами
func (h *Handlers) HandleLessons(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.showBrowse(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

// HandleSearch обрабатывает команду /search <текст>
func (h *Handlers) HandleSearch(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	keyword := CommandArgs(update.Message.Text)
	if keyword == "" {
		h.stateManager.SetState(telegramID, state.StateSearchKeyword)
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🔍 Введите слово для поиска.\n\nОтмена: /cancel")
		return
	}

	h.applySearch(ctx, b, update.Message.Chat.ID, telegramID, keyword)
}

// HandleReset обрабатывает команду /reset
func (h *Handlers) HandleReset(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.updateQuery(ctx, b, update, func(q catalog.Query) catalog.Query {
		return q.Reset()
	})
}

// HandleDates обрабатывает команду /dates <с> <по> или /dates all
func (h *Handlers) HandleDates(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	fields := strings.Fields(CommandArgs(update.Message.Text))
	switch {
	case len(fields) == 1 && fields[0] == "all":
		h.updateQuery(ctx, b, update, func(q catalog.Query) catalog.Query {
			return q.WithAllDates(true)
		})
		return

	case len(fields) == 2:
		from, errFrom := schedule.ParseDate(fields[0])
		to, errTo := schedule.ParseDate(fields[1])
		if errFrom != nil || errTo != nil {
			break
		}
		h.updateQuery(ctx, b, update, func(q catalog.Query) catalog.Query {
			return q.WithDateRange(from, to)
		})
		return
	}

	h.sendError(ctx, b, update.Message.Chat.ID, "❌ Формат: /dates 2025-06-01 2025-06-30 или /dates all")
}

// HandlePrice обрабатывает команду /price <от> <до>, «-» означает без границы
func (h *Handlers) HandlePrice(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	lo, hi, err := ParsePriceRange(CommandArgs(update.Message.Text))
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Формат: /price 1000 5000, /price - 5000 или /price off")
		return
	}

	h.updateQuery(ctx, b, update, func(q catalog.Query) catalog.Query {
		return q.WithPriceRange(lo, hi)
	})
}

// ParsePriceRange разбирает "1000 5000", "- 5000", "1000 -" или "off"
func ParsePriceRange(s string) (lo, hi *int, err error) {
	fields := strings.Fields(s)
	if len(fields) == 1 && fields[0] == "off" {
		return nil, nil, nil
	}
	if len(fields) != 2 {
		return nil, nil, fmt.Errorf("%w: expected two bounds", ErrBadArgs)
	}

	bound := func(f string) (*int, error) {
		if f == "-" {
			return nil, nil
		}
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: bad price %q", ErrBadArgs, f)
		}
		return &v, nil
	}

	if lo, err = bound(fields[0]); err != nil {
		return nil, nil, err
	}
	if hi, err = bound(fields[1]); err != nil {
		return nil, nil, err
	}
	if lo != nil && hi != nil && *lo > *hi {
		lo, hi = hi, lo
	}
	return lo, hi, nil
}

// HandleMyBookings обрабатывает команду /mybookings
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	bookings, err := h.bookingService.GetLearnerBookings(ctx, user.ID)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, err)
		return
	}

	h.sendScreen(ctx, b, update.Message.Chat.ID,
		common.BookingsScreen(bookings, h.catalogService.Location(), h.shared.Clock()))
}

func (h *Handlers) applySearch(ctx context.Context, b *bot.Bot, chatID, telegramID int64, keyword string) {
	h.stateManager.Update(telegramID, func(s *state.Session) {
		s.Query = s.Query.WithKeyword(keyword)
	})
	h.showBrowse(ctx, b, chatID, telegramID)
}

func (h *Handlers) updateQuery(ctx context.Context, b *bot.Bot, update *models.Update, fn func(catalog.Query) catalog.Query) {
	telegramID := update.Message.From.ID
	h.stateManager.Update(telegramID, func(s *state.Session) {
		s.Query = fn(s.Query)
	})
	h.showBrowse(ctx, b, update.Message.Chat.ID, telegramID)
}

func (h *Handlers) showBrowse(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	screen, err := common.RenderBrowse(ctx, h.shared, telegramID)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}
	h.sendScreen(ctx, b, chatID, screen)
}
