package controllers

import (
	"net"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bank-phone-extractor/internal/services"
	"bank-phone-extractor/pkg/utils"
	appwebsocket "bank-phone-extractor/pkg/websocket"
)

// Сервер слушает только loopback, поэтому пускаем страницы с localhost и без Origin.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     isLocalOrigin,
}

func isLocalOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

type WebSocketController struct {
	hub    *appwebsocket.Hub
	jobs   services.JobServiceInterface
	logger *zap.Logger
}

func NewWebSocketController(hub *appwebsocket.Hub, jobs services.JobServiceInterface, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		hub:    hub,
		jobs:   jobs,
		logger: logger,
	}
}

// ServeWs подписывает соединение на события одной задачи.
// Сразу после подключения клиент получает текущее состояние задачи.
func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	jobID := ctx.Param("id")
	job, err := c.jobs.Get(jobID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("WebSocket: не удалось улучшить соединение", zap.Error(err))
		return nil
	}

	client := appwebsocket.NewClient(c.hub, conn, jobID)
	// Снимок ставим в очередь до регистрации, чтобы он шёл первым.
	if err := client.Enqueue(job, "job.state"); err != nil {
		c.logger.Warn("WebSocket: не удалось отправить состояние задачи", zap.Error(err))
	}
	if !c.hub.Add(client) {
		c.logger.Warn("WebSocket: хаб остановлен, соединение закрыто", zap.String("jobID", jobID))
		_ = conn.Close()
		return nil
	}

	// Задача могла завершиться, пока клиент регистрировался: job.finished ушёл мимо него.
	if latest, err := c.jobs.Get(jobID); err == nil && latest.Status.Finished() && latest.Status != job.Status {
		if err := c.hub.SendToClient(client, latest, "job.state"); err != nil {
			c.logger.Warn("WebSocket: не удалось отправить итог задачи", zap.String("jobID", jobID), zap.Error(err))
		}
	}

	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("WebSocket: клиент подключен", zap.String("jobID", jobID))
	return nil
}
