package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FawadAli-1/xautomation-backend/domain/repository"
	"github.com/FawadAli-1/xautomation-backend/infrastructure/cache"
	geminiclient "github.com/FawadAli-1/xautomation-backend/infrastructure/clients/gemini"
	groqclient "github.com/FawadAli-1/xautomation-backend/infrastructure/clients/groq"
	twitterclient "github.com/FawadAli-1/xautomation-backend/infrastructure/clients/twitter"
	"github.com/FawadAli-1/xautomation-backend/infrastructure/configuration"
	"github.com/FawadAli-1/xautomation-backend/infrastructure/logger"
	"github.com/FawadAli-1/xautomation-backend/infrastructure/persistence"
	httpHandler "github.com/FawadAli-1/xautomation-backend/interfaces/http"
	"github.com/FawadAli-1/xautomation-backend/server"
	"github.com/FawadAli-1/xautomation-backend/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")
	configuration.LoadConfig()

	cfg := configuration.C

	// Missing publication credentials are fatal: the process must not start
	// serving if it can never publish.
	if err := configuration.ValidateTwitter(cfg.Twitter); err != nil {
		logger.GetLogger().WithField("error", err.Error()).Fatal("Twitter configuration invalid")
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"appKey":      configuration.Mask(cfg.Twitter.AppKey),
		"accessToken": configuration.Mask(cfg.Twitter.AccessToken),
	}).Info("Twitter API configuration loaded")

	twitterClient, err := twitterclient.NewTwitterClient(twitterclient.Config{
		AppKey:       cfg.Twitter.AppKey,
		AppSecret:    cfg.Twitter.AppSecret,
		AccessToken:  cfg.Twitter.AccessToken,
		AccessSecret: cfg.Twitter.AccessSecret,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Failed to initialize Twitter client")
	}

	generator, err := initGenerator(ctx, cfg.Generation)
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Failed to initialize generation client")
	}
	logger.GetLogger().WithField("provider", cfg.Generation.Provider).Info("Generation client initialized")

	// Redis cache is optional; without it every prompt hits the backend.
	var generationCache repository.IGenerationCache
	if cfg.Redis.Host != "" {
		redisClient, err := cache.NewCache(
			ctx,
			fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			cfg.Redis.Username,
			cfg.Redis.Password,
		)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without generation cache")
		} else {
			generationCache = cache.NewGenerationCache(redisClient, time.Hour)
			logger.GetLogger().Info("Redis generation cache initialized")
		}
	}

	postRepo := initScheduledPostStore(cfg.Database)

	postUsecase := usecase.NewPostUsecase(
		generator,
		generationCache,
		twitterClient,
		postRepo,
		cfg.Scheduler.PostsPerDay,
		cfg.Scheduler.MaxTweetLength,
	)
	schedulerUsecase := usecase.NewSchedulerUsecase(
		postRepo,
		twitterClient,
		cfg.Scheduler.PostsPerDay,
		cfg.Scheduler.BatchSize,
		time.Duration(cfg.Scheduler.PublishTimeoutSeconds)*time.Second,
	)

	postHandler := httpHandler.NewPostHandler(postUsecase, schedulerUsecase)
	router := server.InitiateRouter(postHandler, cfg.App.AllowedOrigins, cfg.App.SecretKey)

	// Background scheduler tick. The loop is sequential, so a slow batch
	// simply delays the next tick instead of overlapping it.
	if postRepo != nil {
		tickInterval := time.Duration(cfg.Scheduler.TickSeconds) * time.Second
		g.Go(func() error {
			ticker := time.NewTicker(tickInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					logger.GetLogger().Debug("Checking for scheduled posts to publish")
					tickCtx, cancelTick := context.WithTimeout(ctx, tickInterval)
					if err := schedulerUsecase.ProcessDuePosts(tickCtx); err != nil {
						logger.GetLogger().WithField("error", err.Error()).Error("Scheduler tick failed")
					}
					cancelTick()
				}
			}
		})
	} else {
		logger.GetLogger().Warn("No scheduled-post store available; scheduler disabled, on-demand publishing only")
	}

	port := cfg.App.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

func initGenerator(ctx context.Context, cfg configuration.Generation) (repository.IGenerator, error) {
	switch cfg.Provider {
	case "gemini":
		return geminiclient.NewGeminiClient(ctx, geminiclient.Config{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		})
	default:
		return groqclient.NewGroqClient(groqclient.Config{
			APIKey: cfg.Groq.APIKey,
			Model:  cfg.Groq.Model,
		})
	}
}

// initScheduledPostStore wires the configured store. A nil return disables
// scheduling but keeps on-demand generation and publishing available.
func initScheduledPostStore(cfg configuration.Database) repository.IScheduledPost {
	switch cfg.Store {
	case "mongo":
		mongoDb, err := persistence.NewMongoDb(cfg.Mongo.Host, cfg.Mongo.Port, cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Name)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("MongoDB not available - continuing without scheduled posts")
			return nil
		}
		logger.GetLogger().Info("MongoDB connected successfully")
		return persistence.NewScheduledPostRepositoryMongo(mongoDb)
	default:
		psqlDb, err := persistence.NewPostgreSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("PostgreSQL not available - continuing without scheduled posts")
			return nil
		}
		if err := persistence.EnsurePostSchema(psqlDb); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring scheduled_posts schema")
		}
		logger.GetLogger().Info("PostgreSQL connected successfully")
		return persistence.NewScheduledPostRepository(psqlDb)
	}
}
