package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/techpal/techpal/internal/assistant"
	"github.com/techpal/techpal/internal/identity"
	"github.com/techpal/techpal/internal/store"
)

// WebSocketHandler handles WebSocket-based chat sessions. Each message runs
// through the same assistant service as the HTTP chat endpoint; the socket
// just keeps the connection warm for slower home networks.
type WebSocketHandler struct {
	chat          *assistant.Service
	repo          store.Repository
	allowedOrigin string
	isDev         bool
}

// NewWebSocketHandler creates a new WebSocket chat handler.
func NewWebSocketHandler(chat *assistant.Service, repo store.Repository, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		chat:          chat,
		repo:          repo,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// wsMessage represents the WebSocket message structure in both directions.
type wsMessage struct {
	Type     string `json:"type"`
	Content  string `json:"content,omitempty"`
	Reply    string `json:"reply,omitempty"`
	Thinking string `json:"thinking,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	slog.Info("WebSocket connection request", "user_id", userID, "session_id", sessionID, "ip", r.RemoteAddr)

	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.readLoop(ctx, ws, userID, sessionID)
	slog.Info("Chat session ended", "user_id", userID)
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *WebSocketHandler) readLoop(ctx context.Context, ws *websocket.Conn, userID, sessionID string) {
	for {
		_, message, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "user_id", userID)
			} else {
				slog.Warn("WebSocket read error", "error", err, "user_id", userID)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			// Fallback: treat raw text as a chat message.
			msg = wsMessage{Type: "chat", Content: string(message)}
		}

		switch msg.Type {
		case "chat":
			result := h.chat.Chat(ctx, userID, sessionID, msg.Content)
			if err := h.writeJSON(ws, wsMessage{Type: "reply", Reply: result.Reply, Thinking: result.Thinking}); err != nil {
				slog.Warn("Failed to send chat reply", "error", err, "user_id", userID)
				return
			}
		case "ping":
			if err := h.writeJSON(ws, wsMessage{Type: "pong"}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
			}
		case "reset":
			if err := h.chat.Reset(ctx, userID, sessionID); err != nil {
				slog.Warn("Failed to reset session", "error", err, "user_id", userID)
			}
			if err := h.writeJSON(ws, wsMessage{Type: "reset_done"}); err != nil {
				slog.Debug("Failed to send reset acknowledgment", "error", err)
			}
		}

		// Update last seen asynchronously with timeout.
		go func() {
			updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.repo.UpdateLastSeen(updateCtx, userID, time.Now()); err != nil {
				slog.Warn("Failed to update last seen", "error", err)
			}
		}()
	}
}

func (h *WebSocketHandler) writeJSON(ws *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(context.Background(), websocket.MessageText, data)
}
