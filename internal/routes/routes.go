package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bank-phone-extractor/internal/repositories"
	"bank-phone-extractor/internal/services"
	"bank-phone-extractor/pkg/config"
	"bank-phone-extractor/pkg/filestorage"
	"bank-phone-extractor/pkg/websocket"
)

// Dependencies — долгоживущие компоненты, которыми владеет main (хаб, задачи).
type Dependencies struct {
	Config      *config.Config
	BankRepo    *repositories.BankRepository
	Extractor   *services.ExtractorService
	Jobs        *services.JobService
	Exporter    *services.ExporterService
	FileStorage filestorage.FileStorageInterface
	Hub         *websocket.Hub
	Logger      *zap.Logger
}

func InitRouter(e *echo.Echo, deps Dependencies) {
	deps.Logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	runBankRouter(api, deps.BankRepo, deps.Logger)
	runExtractionRouter(api, deps)
	runWebSocketRouter(e.Group("/ws"), deps.Hub, deps.Jobs, deps.Logger)

	deps.Logger.Info("InitRouter: Создание маршрутов завершено")
}
