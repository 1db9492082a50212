package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"equipment-portal/internal/listeners"
	"equipment-portal/internal/routes"
	"equipment-portal/internal/services"
	"equipment-portal/internal/store"
	"equipment-portal/pkg/config"
	apperrors "equipment-portal/pkg/errors"
	"equipment-portal/pkg/eventbus"
	"equipment-portal/pkg/filestorage"
	applogger "equipment-portal/pkg/logger"
	"equipment-portal/pkg/metrics"
	appmiddleware "equipment-portal/pkg/middleware"
	"equipment-portal/pkg/natsclient"
	"equipment-portal/pkg/service"
	"equipment-portal/pkg/utils"
	"equipment-portal/pkg/validation"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Server.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(appmiddleware.RequestLogger(logger.Named("http")))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{cfg.Server.BaseURL, "http://localhost:5173"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{"Content-Disposition"},
	}))

	storage, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open record store", zap.Error(err))
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Error("failed to close record store", zap.Error(err))
		}
	}()

	fileStorage, err := filestorage.New(ctx, cfg.FileStorage, logger)
	if err != nil {
		logger.Fatal("failed to set up file storage", zap.Error(err))
	}
	if cfg.FileStorage.Driver == "" || cfg.FileStorage.Driver == "local" {
		absPath, err := filepath.Abs(cfg.FileStorage.UploadDir)
		if err != nil {
			logger.Fatal("failed to resolve upload directory", zap.Error(err))
		}
		e.Static("/uploads", absPath)
	}

	bus := eventbus.New(logger.Named("eventbus"))
	var feed listeners.FeedPublisher
	if cfg.NATS.URL != "" {
		publisher, err := natsclient.NewPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, logger.Named("nats"))
		if err != nil {
			logger.Fatal("failed to connect to nats", zap.Error(err))
		}
		defer publisher.Close()
		feed = publisher
	}
	listeners.NewNotificationListener(feed, logger.Named("listener")).Register(bus)

	technicians := services.NewRosterDirectory(cfg.Workflow.TechnicianIDs)
	svc := services.NewServices(storage, bus, technicians, logger)
	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	routes.InitRouter(e, svc, fileStorage, jwtSvc, logger)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	bus.Wait()
}
