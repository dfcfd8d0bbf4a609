package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/civictrack/complaints-api/api"
	"github.com/civictrack/complaints-api/config"
	"github.com/civictrack/complaints-api/databases"
	"github.com/civictrack/complaints-api/models"
)

// NotificationHub tracks one websocket connection per user so status
// updates can be pushed live. A user reconnecting replaces their previous
// connection; delivery is best-effort and the stored notification row is
// the source of truth.
type NotificationHub struct {
	mu       sync.Mutex
	clients  map[string]*websocket.Conn
	upgrader websocket.Upgrader
}

// NewNotificationHub creates an empty hub.
func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		clients: map[string]*websocket.Conn{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type wsEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Push delivers a notification to the user's live connection, if any. A
// failed write drops the connection; the user still sees the notification
// on their next /notifications poll.
func (h *NotificationHub) Push(userID string, n models.Notification) {
	h.mu.Lock()
	conn, ok := h.clients[userID]
	h.mu.Unlock()
	if !ok {
		return
	}
	if err := conn.WriteJSON(wsEvent{Event: "new_notification", Data: n}); err != nil {
		zap.S().With(err).Debugw("websocket push failed, dropping connection", "user_id", userID)
		h.remove(userID, conn)
	}
}

func (h *NotificationHub) add(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	if old, ok := h.clients[userID]; ok {
		_ = old.Close()
	}
	h.clients[userID] = conn
	h.mu.Unlock()
}

func (h *NotificationHub) remove(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[userID] == conn {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	_ = conn.Close()
}

// Notification exported for testing purposes
type Notification struct {
	DB  databases.NotificationDatabase
	Hub *NotificationHub
}

// ListNotificationsHandler returns the caller's notifications, newest first.
func (n Notification) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := api.CurrentClaims(r)
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusInternalServerError, w, err)
		return
	}

	notifications, err := n.DB.Find(context.Background(),
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.M{"created_at": -1}),
	)
	if err != nil {
		config.ErrorStatus("Internal error", http.StatusInternalServerError, w, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	config.WriteJSON(w, http.StatusOK, models.Response{Success: true, Data: notifications})
}

// WebSocketHandler upgrades the request and parks the connection in the hub
// until the client goes away.
func (n Notification) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := api.CurrentClaims(r)

	conn, err := n.Hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().With(err).Error("failed to upgrade websocket")
		return
	}
	n.Hub.add(claims.UserID, conn)
	zap.S().Debugw("websocket connected", "user_id", claims.UserID)

	// the read loop exists only to observe the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			n.Hub.remove(claims.UserID, conn)
			return
		}
	}
}
