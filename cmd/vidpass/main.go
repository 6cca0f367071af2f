package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vidpass/vidpass/internal/config"
	"github.com/vidpass/vidpass/internal/db"
	"github.com/vidpass/vidpass/internal/filestore"
	"github.com/vidpass/vidpass/internal/handler"
	"github.com/vidpass/vidpass/internal/middleware"
	"github.com/vidpass/vidpass/internal/payment"
	"github.com/vidpass/vidpass/internal/repo"
	"github.com/vidpass/vidpass/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "vidpass",
		Short: "vidpass backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run vidpass server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := buildLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			logger.Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer func() { _ = conn.Close() }()
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn, logger)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(parsed)
	return zcfg.Build()
}

func runServer(cfg *config.Config, conn *sql.DB, logger *zap.Logger) error {
	logger.Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
	)

	adminRepo := repo.NewAdminRepo(conn)
	accessRepo := repo.NewAccessRepo(conn)
	videoRepo := repo.NewVideoRepo(conn)

	mailSender := service.NewEmailSender(cfg.Mail)
	accessService := service.NewAccessService(accessRepo, mailSender, logger)
	adminService := service.NewAdminService(adminRepo, mailSender, []byte(cfg.JWTSecret), cfg.ResetBaseURL)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	videoService := service.NewVideoService(videoRepo, store, cfg.BaseURL)

	checkoutClient := payment.NewCheckoutClient(cfg.Payment, &http.Client{Timeout: 10 * time.Second})

	webhookHandler, err := handler.NewWebhookHandler(accessService, cfg.WebhookSecret, logger)
	if err != nil {
		return fmt.Errorf("init webhook handler: %w", err)
	}

	deps := handler.RouterDeps{
		Webhook:   webhookHandler,
		Admin:     handler.NewAdminHandler(adminService),
		Signin:    handler.NewSigninHandler(accessService),
		Checkout:  handler.NewCheckoutHandler(checkoutClient, logger),
		Videos:    handler.NewVideoHandler(videoService, store),
		JWTSecret: []byte(cfg.JWTSecret),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORS(cfg.CORSAllowlist),
		middleware.AccessLog(logger),
		gzip.Gzip(gzip.DefaultCompression),
	)
	handler.RegisterRoutes(engine, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
