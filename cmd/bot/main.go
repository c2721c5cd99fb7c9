package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"

	"github.com/talarad/goldrad-bot/internal/advisory"
	"github.com/talarad/goldrad-bot/internal/bot"
	"github.com/talarad/goldrad-bot/internal/dialog"
	apperrors "github.com/talarad/goldrad-bot/internal/errors"
	"github.com/talarad/goldrad-bot/internal/health"
	"github.com/talarad/goldrad-bot/internal/i18n"
	"github.com/talarad/goldrad-bot/internal/jobs"
	jobhandlers "github.com/talarad/goldrad-bot/internal/jobs/handlers"
	"github.com/talarad/goldrad-bot/internal/lifecycle"
	"github.com/talarad/goldrad-bot/internal/middleware"
	"github.com/talarad/goldrad-bot/internal/quote"
	"github.com/talarad/goldrad-bot/internal/ratelimit"
	"github.com/talarad/goldrad-bot/internal/state"
	"github.com/talarad/goldrad-bot/pkg/config"
	"github.com/talarad/goldrad-bot/pkg/graceful"
	"github.com/talarad/goldrad-bot/pkg/logger"
	"github.com/talarad/goldrad-bot/pkg/metrics"
	redisconn "github.com/talarad/goldrad-bot/pkg/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Log, cfg.Sentry.Enabled)
	slog.SetDefault(log)

	log.Info("starting goldrad bot",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("ops_port", cfg.Server.Port),
	)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			log.Error("failed to initialize sentry", slog.Any("error", err))
			os.Exit(1)
		}
		defer sentry.Flush(2 * time.Second)
	}

	config.Watch(v, log, func(updated *config.Config) {
		log.Info("configuration change detected, restart to apply",
			slog.String("env", updated.AppEnv))
	})

	shutdown := lifecycle.NewShutdown(log)

	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redisconn.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		shutdown.Register("redis", func(context.Context) error {
			return redisClient.Close()
		})
	}

	translations, err := i18n.Load(cfg.Bot.Language)
	if err != nil {
		log.Error("failed to load translations", slog.Any("error", err))
		os.Exit(1)
	}
	translator := translations.Translator(cfg.Bot.Language)

	var quotes quote.Source = quote.NewTGJUClient(log,
		quote.WithBaseURL(cfg.Quote.BaseURL),
		quote.WithTimeout(cfg.Quote.Timeout),
	)
	quotes = quote.NewInstrumentedSource(quotes)
	quotes = quote.NewResilientSource(quotes, log)
	quotes = quote.NewCachedSource(quotes, redisClient, cfg.Quote.CacheTTL, log)

	store := state.NewMemoryStore()

	controller := dialog.NewController(store, quotes, translator, dialog.NewLexicon(translator), log)
	controller.SetTransitionObserver(func(from, to state.Step) {
		metrics.RecordStateTransition(string(from), string(to))
	})
	controller.SetAdviceObserver(func(rec advisory.Recommendation) {
		metrics.RecordAdvice(string(rec))
	})

	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)
	rateLimitMw := buildRateLimiter(cfg, redisClient, errHandler, log)

	b, err := bot.New(*cfg, log, controller, store, translator, rateLimitMw)
	if err != nil {
		log.Error("failed to build bot", slog.Any("error", err))
		os.Exit(1)
	}
	shutdown.Register("telegram", func(context.Context) error {
		b.Stop()
		return nil
	})

	if cfg.Redis.Enabled {
		startJobs(ctx, cfg, quotes, shutdown, log)
	}

	go metrics.NewConversationCollector(store).Run(ctx)

	checker := health.NewChecker(log)
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))
	checker.AddCheck("quotes", health.NewQuoteChecker(quotes))
	if redisClient != nil {
		checker.AddCheck("redis", health.NewRedisChecker(redisClient))
	}
	if !checker.Healthy(ctx) {
		log.Warn("starting with degraded dependencies, see /healthz for details")
	}

	opsServer := graceful.NewOpsServer(cfg.Server, log, checker)
	opsDone := make(chan struct{})
	go func() {
		defer close(opsDone)
		if err := opsServer.ListenAndServe(ctx); err != nil {
			log.Error("ops server exited with error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := shutdown.Execute(shutdownCtx); err != nil {
			log.Error("shutdown finished with errors", slog.Any("error", err))
		}
	}()

	b.Start()

	<-opsDone
	log.Info("goldrad bot shut down")
}

// startJobs launches the asynq scheduler and worker that keep the quote
// cache warm, plus an immediate warmup at boot.
func startJobs(ctx context.Context, cfg *config.Config, quotes quote.Source, shutdown *lifecycle.Shutdown, log *slog.Logger) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	worker := jobs.NewWorker(redisOpt, jobhandlers.NewQuoteRefreshHandler(quotes, log), log)

	go func() {
		if err := worker.Run(); err != nil {
			log.Error("jobs worker stopped", slog.Any("error", err))
		}
	}()
	shutdown.Register("jobs-worker", func(context.Context) error {
		worker.Shutdown()
		return nil
	})

	scheduler := jobs.NewScheduler(redisOpt, cfg.Quote.CacheTTL, log)
	if err := scheduler.RegisterTasks(); err != nil {
		log.Error("failed to register scheduled tasks", slog.Any("error", err))
	} else {
		scheduler.Run()
		shutdown.Register("jobs-scheduler", func(context.Context) error {
			scheduler.Shutdown()
			return nil
		})
	}

	manager := jobs.NewManager(redisOpt, log)
	shutdown.Register("jobs-manager", func(context.Context) error {
		return manager.Close()
	})

	if err := manager.EnqueueQuoteRefresh(ctx, quote.Instruments); err != nil {
		log.Warn("failed to enqueue warmup refresh", slog.Any("error", err))
	}
}

func buildRateLimiter(cfg *config.Config, redisClient *goredis.Client, errHandler *apperrors.Handler, log *slog.Logger) *middleware.RateLimitMiddleware {
	if !cfg.RateLimit.Enabled {
		return nil
	}

	var limiter ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient, log)
	} else {
		memLimiter := ratelimit.NewMemoryLimiter(log)
		go func() {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				memLimiter.Cleanup(time.Hour)
			}
		}()
		limiter = memLimiter
	}

	rules := ratelimit.NewRules(cfg.RateLimit)

	return middleware.NewRateLimitMiddleware(limiter, rules, errHandler, log)
}
