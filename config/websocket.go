package config

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// GetWebSocket returns the upgrader for participant connections. Browsers
// connect from the frontend origin, so every origin is accepted.
func GetWebSocket() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  64 * 1024,
		WriteBufferSize: 64 * 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}
