package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"folio/folio/config"
	"folio/folio/controllers"
	"folio/folio/middlewares"
	"folio/folio/routes"
	"folio/folio/services/analytics"
	"folio/folio/services/chat"
	"folio/folio/services/content"
	"folio/folio/services/llm"
	"folio/folio/services/metrics"
	"folio/folio/services/quota"
	"folio/folio/sources/psql"
	"folio/folio/sources/psql/dao"
	"folio/folio/sources/storage"
	"folio/folio/utils/logging"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m := metrics.New()

	// Chat
	store, err := quota.NewStore(cfg.ChatQuotaStore, cfg.ChatQuotaStoreSize)
	if err != nil {
		logging.ErrorLogger.Error("quota store error", zap.Error(err))
		os.Exit(1)
	}
	tracker, err := quota.NewTracker(store, cfg.ChatMaxQuestions, cfg.ChatQuotaWindow)
	if err != nil {
		logging.ErrorLogger.Error("quota tracker error", zap.Error(err))
		os.Exit(1)
	}
	m.GaugeFunc("folio_chat_sessions", "Sessions held by the quota store.", func() float64 {
		return float64(store.Len())
	})

	client := llm.NewAzureClient(llm.Config{
		Endpoint:    cfg.UpstreamEndpoint,
		APIKey:      cfg.UpstreamAPIKey,
		Model:       cfg.UpstreamModel,
		APIVersion:  cfg.UpstreamAPIVersion,
		Timeout:     cfg.UpstreamTimeout,
		Temperature: &cfg.UpstreamTemperature,
	})
	if err := client.Validate(); err != nil {
		// the chat endpoint answers 500 until this is fixed
		logging.AppLogger.Warn("completion API not configured",
			zap.String("endpoint", cfg.UpstreamEndpoint),
			zap.String("api_key", logging.MaskAPIKey(cfg.UpstreamAPIKey)),
			zap.Error(err),
		)
	}

	// Content
	site, err := content.Load(cfg.ContentFile)
	if err != nil {
		logging.ErrorLogger.Error("content load error", zap.Error(err))
		os.Exit(1)
	}
	go site.RefreshPreviews(context.Background(), &http.Client{Timeout: 15 * time.Second})

	persona := cfg.ChatSystemPrompt
	if persona == "" {
		persona = site.Persona()
	}
	proxy := chat.NewProxy(client, tracker, chat.WithPersona(persona), chat.WithMetrics(m))

	// Analytics and admin auth
	var (
		sink     analytics.Sink     = analytics.LogSink{}
		reporter analytics.Reporter = analytics.EmptyReporter{}
		userDAO  *dao.UserDAO
		pinger   controllers.Pinger
	)
	if cfg.DatabaseConfigured() {
		db, err := psql.NewDatabase(ctx, cfg)
		if err != nil {
			logging.ErrorLogger.Error("database connection error", zap.Error(err))
			os.Exit(1)
		}
		defer db.Close()
		analyticsDAO := dao.NewAnalyticsDAO(db.DB)
		sink, reporter = analyticsDAO, analyticsDAO
		userDAO = dao.NewUserDAO(db.DB)
		pinger = db
	} else {
		logging.AppLogger.Warn("no database configured; analytics events are logged only")
	}
	recorder := analytics.NewRecorder(sink, cfg.AnalyticsQueueSize, m)

	limiter, err := middlewares.NewIPRateLimiter(cfg.AnalyticsRate, int(cfg.AnalyticsRate*2)+1)
	if err != nil {
		logging.ErrorLogger.Error("rate limiter error", zap.Error(err))
		os.Exit(1)
	}

	handlers := routes.Handlers{
		Chat:      controllers.NewChatController(proxy),
		Content:   controllers.NewContentController(site),
		Analytics: controllers.NewAnalyticsController(recorder, reporter),
		Health:    controllers.NewHealthController(pinger),
		Metrics:   m,
		Limiter:   limiter,
		JWTSecret: cfg.JWTSecret,

		OriginPatterns: cfg.ChatAllowedOrigins,
		StaticDir:      cfg.StaticDir,
	}
	if userDAO != nil {
		handlers.Auth = controllers.NewAuthController(userDAO, cfg.JWTSecret)
	}

	// Assets
	if cfg.MinIOConfigured() {
		assets, err := storage.NewAssetStore(ctx, cfg)
		if err != nil {
			logging.ErrorLogger.Error("minio connection error", zap.Error(err))
			os.Exit(1)
		}
		handlers.Assets = controllers.NewAssetsController(assets)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	if err := recorder.Close(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("analytics drain incomplete", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
