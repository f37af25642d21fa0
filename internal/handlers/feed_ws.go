package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/openheartlab/openheart-backend/internal/services"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is handled at the HTTP layer already.
		return true
	},
}

// FeedWebSocket handles GET /ws/feed: a live stream of newly created entries
// and vents, one JSON FeedEvent per message.
func FeedWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := feedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, unsubscribe := services.Feed.Subscribe()
	defer unsubscribe()

	// Writer goroutine: forward hub events to this connection
	go func() {
		for evt := range events {
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		}
	}()

	// Reader loop: only here to detect disconnects and answer pings
	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	}
}
