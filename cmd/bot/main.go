package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/AzamovUSA/debt-control/internal/bot"
	"github.com/AzamovUSA/debt-control/internal/database"
	"github.com/AzamovUSA/debt-control/internal/debt"
	"github.com/AzamovUSA/debt-control/internal/health"
	"github.com/AzamovUSA/debt-control/internal/i18n"
	"github.com/AzamovUSA/debt-control/internal/idempotency"
	"github.com/AzamovUSA/debt-control/internal/lifecycle"
	"github.com/AzamovUSA/debt-control/internal/middleware"
	"github.com/AzamovUSA/debt-control/internal/ratelimit"
	"github.com/AzamovUSA/debt-control/internal/repository"
	"github.com/AzamovUSA/debt-control/internal/state"
	"github.com/AzamovUSA/debt-control/internal/user"
	"github.com/AzamovUSA/debt-control/internal/usercache"
	"github.com/AzamovUSA/debt-control/pkg/config"
	"github.com/AzamovUSA/debt-control/pkg/graceful"
	"github.com/AzamovUSA/debt-control/pkg/logger"
	"github.com/AzamovUSA/debt-control/pkg/metrics"
	"github.com/AzamovUSA/debt-control/pkg/redis"
)

const (
	stateTTL             = time.Hour
	stateCleanupInterval = 10 * time.Minute
	idemCleanupInterval  = time.Hour
	limitCleanupInterval = 30 * time.Minute
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, _, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		return 1
	}

	log := logger.New(cfg)
	slog.SetDefault(log)

	log.Info("starting debt-control bot",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("http_port", cfg.Server.Port),
	)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Error("failed to open database", slog.Any("error", err))
		return 1
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("error closing database", slog.Any("error", cerr))
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to ping database", slog.Any("error", err))
		return 1
	}

	migrator := database.NewMigrator(db, log)
	if err := migrator.ApplyDir(ctx, cfg.App.MigrationsDir); err != nil {
		log.Error("failed to apply migrations", slog.Any("error", err))
		return 1
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", slog.Any("error", err))
		return 1
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			log.Error("error closing redis", slog.Any("error", cerr))
		}
	}()

	translations, err := i18n.LoadFromDir(cfg.I18n.Dir, cfg.I18n.DefaultLang)
	if err != nil {
		log.Error("failed to load translations", slog.Any("error", err))
		return 1
	}

	// FSM with redis persistence; abandoned add flows get swept after an hour.
	stateStorage := state.NewRedisStorage(redisClient, log)
	fsm := state.NewStateMachine(stateStorage, log, redisClient)
	state.RegisterTransitionRecorder(metrics.RecordStateTransition)
	stateCleaner := state.NewCleaner(redisClient, stateStorage, log, stateTTL, stateCleanupInterval)
	go stateCleaner.Run(ctx)

	idemStore := idempotency.NewRedisStore(redisClient, log)
	idemManager := idempotency.NewManager(idemStore, log)
	idemCleaner := idempotency.NewCleaner(redisClient, log, idemCleanupInterval)
	go idemCleaner.Run(ctx)

	var rateLimitMw *middleware.RateLimitMiddleware
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewAdaptiveLimiter(
			ratelimit.NewRedisLimiter(redisClient, log),
			ratelimit.NewMemoryLimiter(log),
			log,
		)
		rules := ratelimit.NewRules(cfg.RateLimit)
		rateLimitMw = middleware.NewRateLimitMiddleware(limiter, rules, log)

		limitCleaner := ratelimit.NewCleaner(redisClient, log, limitCleanupInterval)
		go limitCleaner.Run(ctx)
	}

	userRepo := repository.NewUserRepository(db, log)
	debtRepo := repository.NewDebtRepository(db, log)

	userService := user.NewService(userRepo, usercache.NewCache(redisClient), log).
		WithFallbackIdentity(cfg.App.FallbackUserID, cfg.App.FallbackUserName)
	debtService := debt.NewService(debtRepo, log)

	tgBot, err := bot.New(*cfg, log, db, fsm, idemManager, rateLimitMw, userService, debtService, translations)
	if err != nil {
		log.Error("failed to build telegram bot", slog.Any("error", err))
		return 1
	}

	checker := health.NewChecker(log)
	checker.AddCheck("database", health.NewDBChecker(db))
	checker.AddCheck("redis", health.NewRedisChecker(redisClient))
	checker.AddCheck("telegram", health.NewTelegramChecker(tgBot.Telebot()))
	probes := lifecycle.NewProbes(checker, log)

	opsServer := graceful.NewServer(log, &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: opsMux(probes, checker, log),
	}, cfg.Server.ShutdownTimeout)

	go func() {
		if err := opsServer.ListenAndServe(ctx); err != nil {
			log.Error("ops server stopped", slog.Any("error", err))
		}
	}()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		go func() {
			if err := config.Watch(ctx, configPath, log, func() {
				log.Info("configuration file changed, restart to apply")
			}); err != nil {
				log.Warn("config watcher stopped", slog.Any("error", err))
			}
		}()
	}

	shutdown := lifecycle.NewShutdown(log)
	shutdown.Register("telegram_bot", func(context.Context) error {
		tgBot.Stop()
		return nil
	})

	go tgBot.Start()
	log.Info("debt-control bot is running")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
		return 1
	}

	log.Info("debt-control bot stopped")
	return 0
}

func opsMux(probes *lifecycle.Probes, checker *health.Checker, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", metrics.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := probes.Liveness(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := probes.Readiness(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	return logger.Middleware(middleware.New(log)(mux))
}
