// @title EduAssist API
// @version 1.0
// @description API for EduAssist: AI quiz generation, the public quiz player, attendance and homework reminders for secondary school teachers.
// @contact.name EduAssist Support
// @contact.email support@eduassist.local
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "eduassist/cmd/api/docs"
	"eduassist/internal/adapter"
	"eduassist/internal/adapter/llm"
	"eduassist/internal/adapter/notify"
	"eduassist/internal/adapter/quizgen"
	"eduassist/internal/cache"
	"eduassist/internal/config"
	"eduassist/internal/database"
	"eduassist/internal/domain"
	"eduassist/internal/handler"
	"eduassist/internal/logger"
	"eduassist/internal/metrics"
	"eduassist/internal/middleware"
	"eduassist/internal/repository"
	"eduassist/internal/service"
	"eduassist/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXDB(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	appCache := newCache(cfg.Redis)
	if mc, ok := appCache.(*cache.MemoryCache); ok {
		defer mc.Close()
	}

	// Language model; a nil model leaves generation returning CONFIGURATION_MISSING
	model, err := llm.NewModel(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create language model", zap.Error(err))
	}
	var generator domain.QuestionGenerator
	if model != nil {
		generator = quizgen.NewLLMQuizGenerator(model, cfg.LLM.Language, cfg.LLM.Temperature)
		appLogger.Info("Language model initialized", zap.String("provider", cfg.LLM.Provider))
	} else {
		appLogger.Warn("No language model configured; quiz generation is disabled")
	}
	var textGenerator domain.TextGenerator
	if model != nil {
		textGenerator = llm.NewTextGenerator(model, cfg.LLM.Temperature)
	}

	// Initialize repositories
	quizRepository := repository.NewQuizDatabaseAdapter(db)
	attemptRepository := repository.NewAttemptDatabaseAdapter(db)
	studentRepository := repository.NewStudentDatabaseAdapter(db)
	classRepository := repository.NewClassDatabaseAdapter(db)
	attendanceRepository := repository.NewAttendanceDatabaseAdapter(db)
	homeworkRepository := repository.NewHomeworkDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize services
	messageService := service.NewMessageService(textGenerator)
	notificationService := service.NewNotificationService(newEmailNotifier(cfg.Email), newSMSNotifier(cfg.SMS))
	quizService := service.NewQuizService(quizRepository, attemptRepository, generator, messageService, appCache, cfg.Quiz)
	sessionStore := service.NewSessionStore(appCache, cfg.Quiz.SessionTTL)
	playerService := service.NewPlayerService(quizService, sessionStore, attemptRepository, cfg.Quiz)
	studentService := service.NewStudentService(studentRepository)
	classService := service.NewClassService(classRepository)
	attendanceService := service.NewAttendanceService(studentRepository, attendanceRepository, txManager, messageService, notificationService)
	homeworkService := service.NewHomeworkService(homeworkRepository, studentRepository, messageService, notificationService)

	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	appLogger.Info("Services initialized")

	// Initialize handlers
	validator := validation.NewValidator()
	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Quiz:       handler.NewQuizHandler(quizService, validator),
		Player:     handler.NewPlayerHandler(playerService, validator),
		Student:    handler.NewStudentHandler(studentService, classService, validator),
		Attendance: handler.NewAttendanceHandler(attendanceService, validator),
		Homework:   handler.NewHomeworkHandler(homeworkService, validator),
		Assistant:  handler.NewAssistantHandler(messageService, validator),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(metrics.Middleware())
	app.Use(middleware.RequestLogger())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", metrics.Handler())
	app.Get("/health", healthCheck(db, appCache))

	handler.RegisterRoutes(app.Group("/api"), handlers, middleware.Protected(authService), middleware.NewValidationMiddleware(validator))

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

// newCache prefers Redis and falls back to a process-local cache.
func newCache(redisCfg config.RedisConfig) domain.Cache {
	l := logger.Get()
	if redisCfg.Address == "" {
		l.Info("Redis not configured; using in-memory cache")
		return cache.NewMemoryCache()
	}
	client, err := cache.NewRedisClient(redisCfg)
	if err != nil {
		l.Warn("Redis unavailable; using in-memory cache", zap.Error(err))
		return cache.NewMemoryCache()
	}
	l.Info("Successfully connected to Redis", zap.String("address", redisCfg.Address))
	return adapter.NewRedisCacheAdapter(client)
}

func newEmailNotifier(cfg config.EmailConfig) domain.Notifier {
	switch cfg.Provider {
	case "sendgrid":
		if cfg.SendgridAPIKey == "" {
			logger.Get().Warn("SendGrid selected without an API key; email disabled")
			return nil
		}
		return notify.NewSendgridNotifier(cfg)
	case "console":
		return notify.NewConsoleNotifier(domain.ChannelEmail)
	default:
		return nil
	}
}

func newSMSNotifier(cfg config.SMSConfig) domain.Notifier {
	switch cfg.Provider {
	case "esms":
		if cfg.APIKey == "" || cfg.SecretKey == "" {
			logger.Get().Warn("eSMS selected without credentials; SMS disabled")
			return nil
		}
		return notify.NewESMSNotifier(cfg, &http.Client{Timeout: 15 * time.Second})
	case "console":
		return notify.NewConsoleNotifier(domain.ChannelSMS)
	default:
		return nil
	}
}

func healthCheck(db *sqlx.DB, c domain.Cache) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		status := fiber.Map{"database": "ok", "cache": "ok"}
		code := fiber.StatusOK
		if err := db.PingContext(ctx.UserContext()); err != nil {
			status["database"] = err.Error()
			code = fiber.StatusServiceUnavailable
		}
		if err := c.Ping(ctx.UserContext()); err != nil {
			status["cache"] = err.Error()
			code = fiber.StatusServiceUnavailable
		}
		return ctx.Status(code).JSON(status)
	}
}
