package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"medpremium/internal/config"
	"medpremium/internal/handler"
	"medpremium/internal/logger"
	"medpremium/internal/repository"
	"medpremium/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const serviceName = "medpremium"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Medical premium dashboard",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	gin.SetMode(cfg.Server.GinMode)

	// Dataset and model artifact are independent; load both before serving
	estimator := service.NewPremiumEstimator(cfg.Model.ArtifactPath, log)
	var dataset *service.Dataset
	var g errgroup.Group
	g.Go(func() error {
		ds, err := service.LoadDataset(cfg.Dataset.Path)
		if err != nil {
			return err
		}
		dataset = ds
		log.Info("Dataset loaded", zap.String("path", cfg.Dataset.Path), zap.Int("rows", ds.Len()))
		return nil
	})
	g.Go(estimator.Load)
	if err := g.Wait(); err != nil {
		log.Fatal("Failed to load startup data", zap.Error(err))
	}

	var store service.PredictionStore
	var repo *repository.PostgresRepository
	if cfg.PostgreSQL.Enabled {
		repo, err = repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer repo.Close()

		version, err := repo.Migrate()
		if err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Prediction log enabled", zap.Uint("schema_version", version))
		store = repo
	} else {
		log.Info("Prediction log disabled (set DATABASE_URL or PG_HOST to enable)")
	}

	chatClient, err := service.NewChatClient(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to create chat client", zap.Error(err))
	}
	defer chatClient.Close()
	if !cfg.ChatEnabled() {
		log.Warn("Chat is disabled - set an API key for the selected provider",
			zap.String("provider", cfg.Chat.Provider))
	}

	predictionService := service.NewPredictionService(service.NewFeatureAssembler(), estimator, store, log)

	predictHandler := handler.NewPredictHandler(predictionService)
	datasetHandler := handler.NewDatasetHandler(dataset, cfg.Dataset.PreviewMax, log)
	chatHandler := handler.NewChatHandler(chatClient, time.Duration(cfg.Chat.Timeout)*time.Second, log)
	historyHandler := handler.NewHistoryHandler(predictionService, 10, 100)

	router := handler.NewRouter(log)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	router.Use(cors.New(corsConfig))
	// SSE responses must reach the client unbuffered
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/chat/stream"})))

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":     "healthy",
			"service":    serviceName,
			"model_type": estimator.ModelType(),
			"chat":       chatClient.IsEnabled(),
			"history":    predictionService.HistoryEnabled(),
			"version":    Version,
		}
		if repo != nil {
			if err := repo.Ping(c.Request.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body["database"] = err.Error()
			}
		}
		c.JSON(status, body)
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	handler.Register(router.Group("/api/v1"), predictHandler, datasetHandler, chatHandler, historyHandler)

	// Implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
