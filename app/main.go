// Файл: main.go

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"bank-phone-extractor/internal/listeners"
	"bank-phone-extractor/internal/repositories"
	"bank-phone-extractor/internal/routes"
	"bank-phone-extractor/internal/services"
	"bank-phone-extractor/pkg/config"
	apperrors "bank-phone-extractor/pkg/errors"
	"bank-phone-extractor/pkg/eventbus"
	"bank-phone-extractor/pkg/filestorage"
	applogger "bank-phone-extractor/pkg/logger"
	appmiddleware "bank-phone-extractor/pkg/middleware"
	"bank-phone-extractor/pkg/utils"
	"bank-phone-extractor/pkg/validation"
	"bank-phone-extractor/pkg/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger, err := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("не удалось создать логгер: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Echo и middleware
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(middleware.RequestID())
	e.Use(appmiddleware.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))
	e.Validator = validation.New()

	// 3. Реестр, хранилище, сервисы
	bankRepo, err := repositories.NewBankRepository(cfg.Registry.Path, logger)
	if err != nil {
		logger.Fatal("Не удалось загрузить реестр банков", zap.Error(err))
	}
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Storage.UploadsDir)
	if err != nil {
		logger.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}

	extractor := services.NewExtractorService(bankRepo, services.NewFileLoader(logger), logger)
	bus := eventbus.New(logger)
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)
	listeners.NewJobListener(hub, logger).Register(bus)
	jobs := services.NewJobService(extractor, bus, cfg.Extraction, logger)

	// 4. Роуты
	routes.InitRouter(e, routes.Dependencies{
		Config:      cfg,
		BankRepo:    bankRepo,
		Extractor:   extractor,
		Jobs:        jobs,
		Exporter:    services.NewExporterService(logger),
		FileStorage: fileStorage,
		Hub:         hub,
		Logger:      logger,
	})

	// 5. Запуск и остановка по сигналу
	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("addr", cfg.Server.Addr()))
		if err := e.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Ошибка запуска сервера", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Получен сигнал остановки, завершаем работу")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := jobs.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Не все задачи успели остановиться", zap.Error(err))
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	bus.Wait()
	logger.Info("Сервер остановлен")
}
