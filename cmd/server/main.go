package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	"github.com/seoan1210/seoan-server/internal/config"
	"github.com/seoan1210/seoan-server/internal/domain/chat"
	"github.com/seoan1210/seoan-server/internal/domain/document"
	"github.com/seoan1210/seoan-server/internal/domain/entitlement"
	"github.com/seoan1210/seoan-server/internal/domain/ownership"
	"github.com/seoan1210/seoan-server/internal/domain/tool"
	"github.com/seoan1210/seoan-server/internal/domain/turn"
	"github.com/seoan1210/seoan-server/internal/infrastructure/auth"
	"github.com/seoan1210/seoan-server/internal/infrastructure/database"
	"github.com/seoan1210/seoan-server/internal/infrastructure/llmprovider"
	"github.com/seoan1210/seoan-server/internal/infrastructure/logger"
	"github.com/seoan1210/seoan-server/internal/infrastructure/observability"
	"github.com/seoan1210/seoan-server/internal/infrastructure/repository/chatrepo"
	"github.com/seoan1210/seoan-server/internal/infrastructure/repository/documentrepo"
	"github.com/seoan1210/seoan-server/internal/infrastructure/repository/ownershiprepo"
	"github.com/seoan1210/seoan-server/internal/infrastructure/search"
	"github.com/seoan1210/seoan-server/internal/infrastructure/weather"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver"
	"github.com/seoan1210/seoan-server/internal/interfaces/httpserver/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:      cfg.DatabaseURL,
		LogLevel: gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if cfg.AutoMigrate {
		if err := database.AutoMigrate(ctx, db, log); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	}

	authValidator, err := auth.NewValidator(ctx, cfg.JWKSURL, cfg.Issuer, cfg.Audience, cfg.RefreshJWKSInterval, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	chatRepository := chatrepo.NewRepository(db)
	documentRepository := documentrepo.NewRepository(db)
	ownershipRepository := ownershiprepo.NewRepository(db)

	llmClient := llmprovider.NewClient(cfg.ModelBaseURL, cfg.ModelAPIKey)

	chatService := chat.NewService(chatRepository, log)
	documentService := document.NewService(documentRepository, log)
	entitlementService := entitlement.NewService(chatRepository, entitlement.Quotas{
		GuestMessages:      cfg.GuestMessageQuota,
		RegisteredMessages: cfg.RegisteredMessageQuota,
		Window:             cfg.QuotaWindow,
	}, log)
	ownershipService := ownership.NewService(ownershipRepository, log)
	titleGenerator := chat.NewTitleGenerator(llmClient, cfg.TitleModel, log)

	searchClient := search.NewClient(cfg.SerperAPIKey, cfg.SearchTimeout, log)
	weatherClient := weather.NewClient(cfg.SearchTimeout, log)

	registry := tool.NewRegistry(
		tool.NewWeatherTool(weatherClient),
		tool.NewSearchTool(searchClient),
		tool.NewCreateDocumentTool(documentService, llmClient, cfg.ChatModel),
		tool.NewUpdateDocumentTool(documentService, llmClient, cfg.ChatModel),
		tool.NewRequestSuggestionsTool(documentService, llmClient, cfg.ChatModel),
	)

	orchestrator := turn.NewOrchestrator(
		chatService,
		entitlementService,
		llmClient,
		registry,
		titleGenerator,
		turn.Models{Chat: cfg.ChatModel, Reasoning: cfg.ReasoningModel},
		turn.Options{
			MaxToolRounds:     cfg.MaxToolRounds,
			StreamTimeout:     cfg.StreamTimeout,
			PersistGuestTurns: cfg.PersistGuestTurns,
		},
		log,
	)

	handlerProvider := handlers.NewProvider(orchestrator, chatService, documentService, ownershipService, authValidator, cfg.GuestRole, log)
	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator, db)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return httpServer.Run(groupCtx)
	})
	group.Go(func() error {
		return runMetricsServer(groupCtx, cfg.MetricsPort)
	})

	if err := group.Wait(); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// runMetricsServer serves Prometheus metrics on a separate port.
func runMetricsServer(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
