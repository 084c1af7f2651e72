package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/controller/callbacks"
	"github.com/Freeeeeet/lessonmarket/internal/controller/handlers"
	"github.com/Freeeeeet/lessonmarket/internal/controller/state"
	"github.com/Freeeeeet/lessonmarket/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Services сервисы, которыми пользуется бот
type Services struct {
	User     *service.UserService
	Catalog  *service.CatalogService
	Lesson   *service.LessonService
	Schedule *service.ScheduleService
	Booking  *service.BookingService
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	services Services,
	now func() time.Time,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	// Callbacks и команды работают с одними и теми же зависимостями
	callbackHandler := callbacks.NewHandler(
		services.User,
		services.Catalog,
		services.Lesson,
		services.Schedule,
		services.Booking,
		stateManager,
		now,
		logger,
	)
	cmdHandlers := handlers.NewHandlers(callbackHandler.Handler)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Команды без аргументов
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/lessons", bot.MatchTypeExact, c.handlers.HandleLessons)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reset", bot.MatchTypeExact, c.handlers.HandleReset)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды для инструкторов
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/becomeinstructor", bot.MatchTypeExact, c.handlers.HandleBecomeInstructor)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mylessons", bot.MatchTypeExact, c.handlers.HandleMyLessons)

	// Команды с аргументами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/search", bot.MatchTypePrefix, c.handlers.HandleSearch)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/dates", bot.MatchTypePrefix, c.handlers.HandleDates)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/price", bot.MatchTypePrefix, c.handlers.HandlePrice)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/newlesson", bot.MatchTypePrefix, c.handlers.HandleNewLesson)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/template", bot.MatchTypePrefix, c.handlers.HandleTemplate)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/slot", bot.MatchTypePrefix, c.handlers.HandleSlot)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/capacity", bot.MatchTypePrefix, c.handlers.HandleCapacity)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "lessons", Description: "🔎 Каталог занятий"},
		{Command: "search", Description: "🔍 Поиск по тексту"},
		{Command: "dates", Description: "📅 Фильтр по датам"},
		{Command: "price", Description: "💴 Фильтр по цене"},
		{Command: "reset", Description: "♻️ Сбросить фильтры"},
		{Command: "mybookings", Description: "🗓 Мои записи"},
		{Command: "becomeinstructor", Description: "🎓 Стать инструктором"},
		{Command: "newlesson", Description: "➕ Создать занятие (инструктор)"},
		{Command: "mylessons", Description: "📝 Мои занятия (инструктор)"},
		{Command: "cancel", Description: "✖️ Отменить действие"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены контекста
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
