package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/openclassical/league-engine/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the deployed frontend origin once it is fixed.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeSeason subscribes a websocket client to one season's update room.
func (h *WebSocketHandler) ServeSeason(w http.ResponseWriter, r *http.Request) {
	seasonID, err := intParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		log.Printf("failed to upgrade connection for season %d: %v", seasonID, err)
		return
	}

	client := live.NewClient(h.hub, conn, live.SeasonRoom(seasonID))
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
