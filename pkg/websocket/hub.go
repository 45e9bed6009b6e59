package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub управляет подписчиками и рассылает им события их задач.
type Hub struct {
	clients    map[*Client]bool
	jobClients map[string][]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		jobClients: make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run обслуживает регистрацию клиентов до отмены ctx, затем закрывает все соединения.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				h.drop(client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.jobClients[client.JobID] = append(h.jobClients[client.JobID], client)
			h.mu.Unlock()
			close(client.registered)
			h.logger.Debug("Подписчик зарегистрирован", zap.String("jobID", client.JobID))
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Debug("Подписчик отсоединён", zap.String("jobID", client.JobID))
			}
			h.mu.Unlock()
		}
	}
}

// Add регистрирует клиента; false, если хаб уже остановлен.
// После возврата true клиент уже получает рассылку SendToJob.
func (h *Hub) Add(client *Client) bool {
	select {
	case h.register <- client:
	case <-h.done:
		return false
	}
	<-client.registered
	return true
}

// drop вызывается под h.mu.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)

	clients := h.jobClients[client.JobID]
	for i, c := range clients {
		if c == client {
			h.jobClients[client.JobID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.jobClients[client.JobID]) == 0 {
		delete(h.jobClients, client.JobID)
	}
}

// Subscribers — число активных подписчиков задачи.
func (h *Hub) Subscribers(jobID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.jobClients[jobID])
}

// SendToJob отправляет сообщение всем подписчикам задачи.
// Медленный клиент с полным буфером пропускает сообщение.
func (h *Hub) SendToJob(jobID string, payload interface{}, messageType string) error {
	messageBytes, err := encode(payload, messageType)
	if err != nil {
		h.logger.Error("Ошибка сериализации сообщения для WebSocket", zap.Error(err))
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.jobClients[jobID] {
		select {
		case client.Send <- messageBytes:
		default:
			h.logger.Warn("Буфер подписчика заполнен, сообщение пропущено",
				zap.String("jobID", jobID),
				zap.String("type", messageType),
			)
		}
	}
	return nil
}

// SendToClient отправляет сообщение одному зарегистрированному клиенту.
func (h *Hub) SendToClient(client *Client, payload interface{}, messageType string) error {
	messageBytes, err := encode(payload, messageType)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[client] {
		return errClientGone
	}
	select {
	case client.Send <- messageBytes:
		return nil
	default:
		return errSendBufferFull
	}
}

func encode(payload interface{}, messageType string) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
}
