package controllers

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bank-phone-extractor/internal/entities"
	"bank-phone-extractor/internal/services"
	appwebsocket "bank-phone-extractor/pkg/websocket"
)

// finishingJobs отдаёт задачу в обработке при первом чтении и завершённой при следующих,
// как будто job.finished был разослан до регистрации подписчика.
type finishingJobs struct {
	services.JobServiceInterface
	calls atomic.Int32
}

func (f *finishingJobs) Get(id string) (*entities.Job, error) {
	job := &entities.Job{ID: id, Status: entities.JobProcessing, Progress: 50}
	if f.calls.Add(1) > 1 {
		job.Status = entities.JobCompleted
		job.Progress = 100
	}
	return job, nil
}

type envelope struct {
	Type    string       `json:"type"`
	Payload entities.Job `json:"payload"`
}

func TestServeWs_JobFinishedDuringRegistration(t *testing.T) {
	hub := appwebsocket.NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	e := echo.New()
	e.GET("/ws/jobs/:id", NewWebSocketController(hub, &finishingJobs{}, zap.NewNop()).ServeWs)
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/jobs/job-1"
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first, last envelope
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "job.state", first.Type)
	assert.Equal(t, entities.JobProcessing, first.Payload.Status)

	require.NoError(t, conn.ReadJSON(&last))
	assert.Equal(t, "job.state", last.Type)
	assert.Equal(t, "job-1", last.Payload.ID)
	assert.Equal(t, entities.JobCompleted, last.Payload.Status)
	assert.Equal(t, 100, last.Payload.Progress)
}
