package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/IT-Nick/quizbot/internal/app/handlers/http/active_sessions_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/http/health_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/clean_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/poll_answer_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/quiz_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/start_handler"
	"github.com/IT-Nick/quizbot/internal/app/handlers/telegram/stop_quiz_handler"
	"github.com/IT-Nick/quizbot/internal/app/middleware"
	ledgerRepo "github.com/IT-Nick/quizbot/internal/domain/ledger/repository"
	ledgerService "github.com/IT-Nick/quizbot/internal/domain/ledger/service"
	questionsRepo "github.com/IT-Nick/quizbot/internal/domain/questions/repository"
	quizService "github.com/IT-Nick/quizbot/internal/domain/quiz/service"
	sessionsRepo "github.com/IT-Nick/quizbot/internal/domain/sessions/repository"
	topicsService "github.com/IT-Nick/quizbot/internal/domain/topics/service"
	"github.com/IT-Nick/quizbot/internal/infra/config"
	"github.com/IT-Nick/quizbot/internal/infra/poller"
	"github.com/IT-Nick/quizbot/internal/infra/scheduler"
	"github.com/IT-Nick/quizbot/internal/infra/telegram"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/telebot.v4"
)

type Services struct {
	questionRepo  *questionsRepo.QuestionRepository
	topicIndex    *topicsService.TopicIndex
	sessionRepo   *sessionsRepo.SessionRepository
	ledgerService *ledgerService.LedgerService
	quizService   *quizService.QuizService
}

type App struct {
	config    *config.Config
	logger    *log.Logger
	bot       *telebot.Bot
	client    *telegram.Client
	db        *pgxpool.Pool
	server    *http.Server
	scheduler *scheduler.Scheduler

	Services
}

func NewApp(configPath string, logger *log.Logger) (*App, error) {
	configImpl, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}

	questionRepo, err := questionsRepo.NewQuestionRepository(configImpl.Quiz.QuestionsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	app := &App{
		config:    configImpl,
		logger:    logger,
		scheduler: scheduler.New(logger),
	}
	app.questionRepo = questionRepo

	if configImpl.Storage.Type == "postgres" {
		db, err := InitDatabase(configImpl, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db
	}

	if err := app.initBot(); err != nil {
		app.closeDatabase()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		app.closeDatabase()
		return nil, err
	}

	logger.Printf("Loaded %d questions in %d topics", questionRepo.Count(), app.topicIndex.Len())
	return app, nil
}

// initBot создает бота с поллером из конфигурации
func (app *App) initBot() error {
	p, err := poller.NewPoller(app.config)
	if err != nil {
		return fmt.Errorf("poller.NewPoller: %w", err)
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  app.config.TelegramBot.Token,
		Poller: p,
		OnError: func(err error, c telebot.Context) {
			app.logger.Printf("Telegram error: %v", err)
		},
	})
	if err != nil {
		return fmt.Errorf("telebot.NewBot: %w", err)
	}

	app.bot = bot
	app.client = telegram.NewClient(bot)
	return nil
}

// Функция для инициализации сервисов и репозиториев
func (app *App) initServices() error {
	var ledgerStorage ledgerService.Repository = ledgerRepo.NewMemoryRepository()
	if app.db != nil {
		pgLedger := ledgerRepo.NewPostgresRepository(app.db)
		if err := pgLedger.EnsureSchema(context.Background()); err != nil {
			return fmt.Errorf("failed to prepare ledger schema: %w", err)
		}
		ledgerStorage = pgLedger
	}

	app.topicIndex = topicsService.NewTopicIndex(app.questionRepo.All())
	app.sessionRepo = sessionsRepo.NewSessionRepository()
	app.ledgerService = ledgerService.NewLedgerService(ledgerStorage, app.client, app.logger)
	app.quizService = quizService.NewQuizService(app.topicIndex, app.sessionRepo, app.ledgerService, app.client, app.scheduler, quizService.Options{
		Policy:           app.config.Policy(),
		QuestionInterval: app.config.Quiz.QuestionInterval,
		MessageRetention: app.config.Quiz.MessageRetention,
		Logger:           app.logger,
	})
	return nil
}

// ListenAndServeTelegram запускает планировщик и сервер Telegram бота
func (app *App) ListenAndServeTelegram() error {
	app.bootstrapHandlersTelegram()

	app.scheduler.Start()
	if err := app.sweepLedger(context.Background()); err != nil {
		app.logger.Printf("Ledger sweep skipped: %v", err)
	}

	go app.bot.Start()

	return nil
}

// bootstrapHandlersTelegram - регистрирует обработчики для бота
func (app *App) bootstrapHandlersTelegram() {
	app.bot.Use(middleware.Errors(app.logger))
	app.bot.Use(middleware.Recover(func(err error, c telebot.Context) {
		app.logger.Printf("Recovered from panic in update %d: %v", c.Update().ID, err)
	}))
	if app.config.Debug {
		app.bot.Use(middleware.Logger(app.logger))
		app.bot.Use(middleware.DebugUserActions(app.logger, app.sessionRepo.Get))
	}

	app.bot.Handle("/start", start_handler.NewStartHandler(app.quizService, app.logger).GetHandlerFunc())
	app.bot.Handle("/quiz", quiz_handler.NewQuizHandler(app.quizService).GetHandlerFunc())
	app.bot.Handle("/stopquiz", stop_quiz_handler.NewStopQuizHandler(app.quizService).GetHandlerFunc())

	clean := clean_handler.NewCleanHandler(app.ledgerService, app.logger).GetHandlerFunc()
	app.bot.Handle("/clean", clean)
	app.bot.Handle("/clearchat", clean)

	app.bot.Handle(telebot.OnPollAnswer, poll_answer_handler.NewPollAnswerHandler(app.quizService, app.client, app.logger).GetHandlerFunc())
}

// sweepLedger ставит удаление сообщений, оставшихся в журнале с прошлого запуска
func (app *App) sweepLedger(ctx context.Context) error {
	chats, err := app.ledgerService.PendingChats(ctx)
	if err != nil {
		return err
	}

	for _, chatID := range chats {
		chatID := chatID
		app.scheduler.After(chatID, app.config.Quiz.MessageRetention, func() {
			ctx, cancel := context.WithTimeout(context.Background(), app.config.Quiz.MessageRetention)
			defer cancel()
			if _, err := app.ledgerService.FlushAndDelete(ctx, chatID); err != nil {
				app.logger.Printf("Ledger sweep failed for chat %d: %v", chatID, err)
			}
		})
	}
	if len(chats) > 0 {
		app.logger.Printf("Scheduled cleanup of %d chats left from previous run", len(chats))
	}
	return nil
}

// ListenAndServeHTTP запускает HTTP сервер
func (app *App) ListenAndServeHTTP() error {
	mx := http.NewServeMux()

	mx.Handle("GET /healthz", health_handler.NewHealthHandler(app.topicIndex.Len))
	mx.Handle("GET /sessions", active_sessions_handler.NewActiveSessionsHandler(app.quizService))

	app.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", app.config.Server.Host, app.config.Server.Port),
		Handler: mx,
	}

	if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe запускает оба сервера (Telegram и HTTP)
func (app *App) ListenAndServe() error {
	// Запускаем Telegram сервер
	if err := app.ListenAndServeTelegram(); err != nil {
		return fmt.Errorf("failed to start Telegram bot: %w", err)
	}

	// Запускаем HTTP сервер
	if err := app.ListenAndServeHTTP(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown останавливает бота, HTTP сервер и дожидается запущенных задач планировщика
func (app *App) Shutdown(ctx context.Context) error {
	app.bot.Stop()

	var err error
	if app.server != nil {
		err = app.server.Shutdown(ctx)
	}

	select {
	case <-app.scheduler.Stop().Done():
	case <-ctx.Done():
		app.logger.Printf("Scheduler did not stop in time: %v", ctx.Err())
	}

	app.closeDatabase()
	return err
}

func (app *App) closeDatabase() {
	if app.db != nil {
		app.db.Close()
	}
}
