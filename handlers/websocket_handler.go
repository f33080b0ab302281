package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/event-hub/live"
	"github.com/Dosada05/event-hub/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the lobby frontend origin before exposing publicly.
		return true
	},
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeEventRoom subscribes the connection to one event's lobby updates.
func (h *WebSocketHandler) ServeEventRoom(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	h.serveRoom(w, r, services.EventRoomID(eventID))
}

// ServeTeamRoom subscribes the connection to one team's roster updates.
func (h *WebSocketHandler) ServeTeamRoom(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	h.serveRoom(w, r, services.TeamRoomID(teamID))
}

func (h *WebSocketHandler) serveRoom(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.Warn("websocket upgrade failed", slog.String("room", room), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, room)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
