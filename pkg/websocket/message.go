package websocket

import "time"

// Envelope — конверт для всех сообщений: по Type клиент понимает, что внутри.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}
