package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bank-phone-extractor/internal/controllers"
	"bank-phone-extractor/internal/services"
	"bank-phone-extractor/pkg/websocket"
)

func runWebSocketRouter(group *echo.Group, hub *websocket.Hub, jobs services.JobServiceInterface, logger *zap.Logger) {
	wsCtrl := controllers.NewWebSocketController(hub, jobs, logger)
	group.GET("/jobs/:id", wsCtrl.ServeWs)
}
