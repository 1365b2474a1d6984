package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cityapp "github.com/itou/backend/internal/application/city"
	employeerecordapp "github.com/itou/backend/internal/application/employeerecord"
	identityapp "github.com/itou/backend/internal/application/identity"
	siaeapp "github.com/itou/backend/internal/application/siae"
	"github.com/itou/backend/internal/infrastructure/auth"
	"github.com/itou/backend/internal/infrastructure/bootstrap"
	"github.com/itou/backend/internal/infrastructure/cache"
	"github.com/itou/backend/internal/infrastructure/event"
	"github.com/itou/backend/internal/infrastructure/logger"
	"github.com/itou/backend/internal/infrastructure/mailer"
	"github.com/itou/backend/internal/infrastructure/persistence"
	"github.com/itou/backend/internal/interfaces/http/handler"
	"github.com/itou/backend/internal/interfaces/http/middleware"
	"github.com/itou/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Itou Backend API
//	@version		1.0
//	@description	Employee record exchange with the ASP, structure search and authentication for the inclusion platform.

//	@contact.name	API Support
//	@contact.url	https://github.com/itou/backend

//	@license.name	AGPL-3.0
//	@license.url	https://www.gnu.org/licenses/agpl-3.0.html

//	@BasePath	/

//	@securityDefinitions.apikey	TokenAuth
//	@in							header
//	@name						Authorization
//	@description				API token authentication. Format: "Token {key}"

func main() {
	ctx := context.Background()

	infra, err := bootstrap.Open(ctx, bootstrap.WithRedis())
	if err != nil {
		panic("Failed to start: " + err.Error())
	}
	defer infra.Close(context.Background())

	cfg, log := infra.Config, infra.Logger
	log.Info("Starting itou backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db := infra.DB.DB
	userRepo := persistence.NewGormUserRepository(db)
	tokenRepo := persistence.NewGormTokenRepository(db)
	recordRepo := persistence.NewGormEmployeeRecordRepository(db)
	jobAppRepo := persistence.NewGormJobApplicationRepository(db)
	siaeRepo := persistence.NewGormSiaeRepository(db)
	membershipRepo := persistence.NewGormMembershipRepository(db)
	conventionRepo := persistence.NewGormConventionRepository(db)
	cityRepo := persistence.NewGormCityRepository(db)

	// Events raised by record transitions are handled once, even when a
	// batch is replayed
	eventBus := event.NewInMemoryEventBus(log)
	emailQueue := mailer.NewQueue(infra.Redis, cfg.Email.QueueKey)
	notifier := employeerecordapp.NewRejectionNotifier(siaeRepo, membershipRepo, userRepo, emailQueue,
		employeerecordapp.NotificationConfig{
			From:    cfg.Email.From,
			BaseURL: cfg.App.BaseURL,
			Demo:    cfg.App.IsDemo(),
		})
	eventBus.Subscribe(event.NewIdempotentHandler(notifier, cache.NewRedisIdempotencyStore(infra.Redis, ""), log))

	recordService := employeerecordapp.NewService(
		recordRepo, membershipRepo, jobAppRepo, userRepo, siaeRepo, conventionRepo, eventBus,
	)
	sessions := auth.NewSessionService(cfg.Auth)
	authService := identityapp.NewAuthService(userRepo, tokenRepo, sessions, auth.NewRedisSessionDenyList(infra.Redis), log)
	searchService := siaeapp.NewSearchService(cityRepo, siaeRepo, log)
	cityService := cityapp.NewService(cityRepo, siaeRepo, log)

	// Email workers
	workerCtx, stopWorkers := context.WithCancel(ctx)
	var workers sync.WaitGroup
	sender, err := newSender(workerCtx, infra, log)
	if err != nil {
		log.Fatal("Failed to create email sender", zap.Error(err))
	}
	for range cfg.Email.Workers {
		worker := mailer.NewWorker(emailQueue, sender, cfg.Email.MaxRetries, cfg.Email.RetryDelay, log)
		workers.Go(func() { worker.Run(workerCtx) })
	}

	checks := make(map[string]handler.HealthCheck)
	for name, check := range infra.HealthChecks() {
		checks[name] = check
	}
	handlers := router.Handlers{
		System:          handler.NewSystemHandler(cfg.App.Name, version, checks),
		Auth:            handler.NewAuthHandler(authService, cfg.Auth),
		EmployeeRecords: handler.NewEmployeeRecordHandler(recordService, cfg.App.BaseURL, cfg.Auth.LogoutURL),
		Search:          handler.NewSearchHandler(searchService, cityService),
		Docs:            router.SwaggerHandler(),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: the request id must exist before the logger and the
	// span attributes read it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SpanAttributes())
	engine.Use(middleware.Secure(cfg.Auth.CookieSecure))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	authConfig := middleware.AuthConfig{
		Authenticator: authService,
		CookieName:    cfg.Auth.CookieName,
		LoginURL:      cfg.Auth.LoginURL,
		Logger:        log,
	}
	docsGuards := []gin.HandlerFunc{middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:    cfg.Swagger.Enabled,
		AllowedIPs: cfg.Swagger.AllowedIPs,
	})}
	if cfg.Swagger.RequireAuth {
		docsGuards = append(docsGuards, middleware.Authenticate(authConfig), middleware.RequireAuth(authConfig))
	}
	credentialsLimiter := cache.NewRedisRateLimiter(infra.Redis, cfg.HTTP.CredentialsRateLimit, cfg.HTTP.CredentialsRateWindow)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.Mount(r, handlers, router.Guards{
		Authenticate: middleware.Authenticate(authConfig),
		RequireAuth:  middleware.RequireAuth(authConfig),
		Credentials: []gin.HandlerFunc{
			middleware.BodyLimit(middleware.DefaultCredentialsBodyLimit),
			middleware.RateLimit(credentialsLimiter, log),
		},
		Docs: docsGuards,
	})
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	stopWorkers()
	workers.Wait()
	log.Info("Server exited gracefully")
}

// newSender sends through SES when email is enabled, otherwise it only logs
func newSender(ctx context.Context, infra *bootstrap.Infra, log *zap.Logger) (mailer.Sender, error) {
	if !infra.Config.Email.Enabled {
		log.Warn("Email delivery disabled, messages are logged only")
		return mailer.NewLogSender(log), nil
	}
	return mailer.NewSESSender(ctx, infra.Config.Email)
}
