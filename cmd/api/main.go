// Package main is the entry point for the API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/urban-fashion/sales-agent/internal/config"
	"github.com/urban-fashion/sales-agent/internal/handler"
	"github.com/urban-fashion/sales-agent/internal/imagehost"
	"github.com/urban-fashion/sales-agent/internal/llm"
	"github.com/urban-fashion/sales-agent/internal/messenger"
	"github.com/urban-fashion/sales-agent/internal/middleware"
	natsclient "github.com/urban-fashion/sales-agent/internal/nats"
	"github.com/urban-fashion/sales-agent/internal/repository"
	"github.com/urban-fashion/sales-agent/internal/sales"
	"github.com/urban-fashion/sales-agent/internal/service"
	"github.com/urban-fashion/sales-agent/internal/store"
	"github.com/urban-fashion/sales-agent/pkg/logger"
	"github.com/urban-fashion/sales-agent/pkg/tracing"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cfg := config.Load()

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "sales-agent", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Storage
	if !isPostgres(cfg.DatabaseURL) {
		path, _, _ := strings.Cut(cfg.DatabaseURL, "?")
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatal("failed to create data directory", zap.Error(err))
			}
		}
	}
	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// Domain events
	var (
		natsClient *natsclient.Client
		events     service.EventPublisher = natsclient.NopPublisher{}
	)
	if cfg.NATSURL != "" {
		dialCtx, cancelDial := context.WithTimeout(ctx, 10*time.Second)
		natsClient, err = natsclient.Connect(dialCtx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		cancelDial()
		if err != nil {
			log.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer natsClient.Close()

		streamManager := natsclient.NewStreamManager(natsClient)
		if err := streamManager.EnsureStream(ctx); err != nil {
			log.Fatal("failed to ensure stream", zap.Error(err))
		}
		events = streamManager
	} else {
		log.Info("NATS_URL not set, domain events disabled")
	}

	// Completion provider
	llmClient, modelName := newLLMClient(cfg, log)

	profile := cfg.Profile
	if cfg.BusinessProfilePath != "" {
		profile, err = config.LoadProfile(cfg.BusinessProfilePath, cfg.Profile)
		if err != nil {
			log.Fatal("failed to load business profile", zap.Error(err))
		}
	}

	// Outbound clients
	messengerClient := messenger.NewClient(cfg.GraphURL, cfg.PageAccessToken, log)
	imageClient := imagehost.NewClient("", cfg.ImgBBAPIKey, log)

	// Repositories
	conversations := repository.NewConversationRepository(db)
	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)
	media := repository.NewMediaRepository(db)
	paymentQRs := repository.NewPaymentQRRepository(db)

	// Services
	responder := sales.NewResponder(llmClient, modelName, profile, cfg.LLMTimeout, log)
	ingestionSvc := service.NewIngestionService(conversations, products, media, responder, messengerClient, events, cfg.CatalogLimit, log)
	authSvc := service.NewAuthService(cfg.AdminPassword, cfg.JWTSecret, cfg.JWTExpiration)
	catalogSvc := service.NewCatalogService(products, imageClient, log)
	orderSvc := service.NewOrderService(orders, events, cfg.DeliveryCharge, log)
	mediaSvc := service.NewMediaService(media, conversations, messengerClient, events, log)
	paymentQRSvc := service.NewPaymentQRService(paymentQRs)
	analyticsSvc := service.NewAnalyticsService(orders)
	conversationSvc := service.NewConversationService(conversations, log)

	// Handlers
	healthHandler := handler.NewHealthHandler(db, natsClient)
	webhookHandler := handler.NewWebhookHandler(ingestionSvc, cfg.VerifyToken, cfg.AppSecret, log)
	authHandler := handler.NewAuthHandler(authSvc, log)
	productHandler := handler.NewProductHandler(catalogSvc, log)
	orderHandler := handler.NewOrderHandler(orderSvc, analyticsSvc, log)
	mediaHandler := handler.NewMediaHandler(mediaSvc, paymentQRSvc, log)
	conversationHandler := handler.NewConversationHandler(conversationSvc, log)

	if cfg.AppSecret == "" {
		log.Warn("FACEBOOK_APP_SECRET not set, webhook signatures are not verified")
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/", healthHandler.Root)
		webhookHandler.RegisterRoutes(r)
		authHandler.RegisterRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))

			productHandler.RegisterRoutes(r)
			orderHandler.RegisterRoutes(r)
			mediaHandler.RegisterRoutes(r)
			conversationHandler.RegisterRoutes(r)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func newLogger(level string) (*logger.Logger, error) {
	if os.Getenv("ENV") == "development" {
		return logger.NewDevelopment()
	}
	return logger.New(level)
}

// newLLMClient builds the configured completion client. Without a key the
// agent still runs and answers every message with the fallback reply.
func newLLMClient(cfg *config.Config, log *logger.Logger) (llm.Client, string) {
	provider := llm.Provider(strings.ToLower(cfg.LLMProvider))

	apiKey := cfg.OpenAIAPIKey
	if provider == llm.ProviderAnthropic {
		apiKey = cfg.AnthropicAPIKey
	}

	client, err := llm.NewClient(provider, apiKey, cfg.LLMBaseURL, cfg.LLMModel)
	if err != nil {
		log.Warn("completion provider unavailable, replies will use the fallback message",
			zap.String("provider", string(provider)),
			zap.Error(err),
		)
		return llm.NewUnavailableClient(err), cfg.LLMModel
	}

	log.Info("completion provider configured", zap.String("provider", client.Name()))
	return client, cfg.LLMModel
}

func isPostgres(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}
