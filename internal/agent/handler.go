// Package agent exposes the assistant over HTTP: the chat API, the family
// SMS webhooks, and the notification drain used by the chat UI.
package agent

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/techpal/techpal/internal/assistant"
	"github.com/techpal/techpal/internal/domain"
	"github.com/techpal/techpal/internal/identity"
)

// defaultMaxRequestBodySize is the default maximum allowed request body size (1MB).
const defaultMaxRequestBodySize = 1 << 20 // 1MB

const (
	unauthorizedSMSReply = "Sorry, this number isn't authorized for TechPal."
	emptySMSReply        = "I didn't get a message. Try again?"
)

// Handler handles assistant HTTP requests.
type Handler struct {
	chat        *assistant.Service
	family      *assistant.FamilyService
	rateLimiter *RateLimiter
	maxBodySize int64
}

// NewHandler creates the assistant HTTP handler.
func NewHandler(chat *assistant.Service, family *assistant.FamilyService) *Handler {
	return &Handler{
		chat:        chat,
		family:      family,
		rateLimiter: NewRateLimiter(10, time.Minute),
		maxBodySize: defaultMaxRequestBodySize,
	}
}

// ChatRequest is the POST /api/chat payload.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the POST /api/chat reply.
type ChatResponse struct {
	Reply    string `json:"reply"`
	Thinking string `json:"thinking,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// RegisterRoutes registers routes that require authentication.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.HandleChat)
	r.Post("/api/session/reset", h.HandleSessionReset)
	r.Get("/family/messages", h.HandleFamilyMessages)
}

// RegisterWebhookRoutes registers the SMS webhooks. These authenticate by
// phone number, not by browser identity.
func (h *Handler) RegisterWebhookRoutes(r chi.Router) {
	r.Post("/sms/simulate", h.HandleSMSSimulate)
	r.Post("/sms/incoming", h.HandleSMSIncoming)
}

// HandleChat handles POST /api/chat requests.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if !h.rateLimiter.Allow(userID) {
		Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slog.Info("chat request",
		"user_id", userID,
		"session_id", sessionID,
		"message_length", len(req.Message),
	)

	result := h.chat.Chat(r.Context(), userID, sessionID, req.Message)
	JSON(w, http.StatusOK, ChatResponse{Reply: result.Reply, Thinking: result.Thinking})
}

// HandleSessionReset handles POST /api/session/reset.
func (h *Handler) HandleSessionReset(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.chat.Reset(r.Context(), userID, sessionID); err != nil {
		slog.Error("session reset failed", "user_id", userID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to reset session")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// HandleFamilyMessages handles GET /family/messages. It drains the pending
// family-remote notifications for display in the chat window.
func (h *Handler) HandleFamilyMessages(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.family.PendingNotifications(r.Context())
	if err != nil {
		slog.Error("failed to drain family notifications", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load messages")
		return
	}
	if notifications == nil {
		notifications = []*domain.FamilyNotification{}
	}
	JSON(w, http.StatusOK, map[string]any{"messages": notifications})
}

// SMSSimulateRequest is the JSON body of POST /sms/simulate, the local
// test stand-in for the Twilio webhook.
type SMSSimulateRequest struct {
	FromNumber string `json:"from_number"`
	Message    string `json:"message"`
}

// HandleSMSSimulate handles POST /sms/simulate.
func (h *Handler) HandleSMSSimulate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	var req SMSSimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		JSON(w, http.StatusOK, map[string]any{"reply": emptySMSReply})
		return
	}

	contact, ok := h.family.Lookup(req.FromNumber)
	if !ok {
		slog.Warn("SMS from unauthorized number", "from", req.FromNumber)
		JSON(w, http.StatusOK, map[string]any{"reply": unauthorizedSMSReply, "error": true})
		return
	}

	slog.Info("family SMS request", "contact", contact.Name, "message_length", len(req.Message))
	reply := h.family.ProcessSMS(r.Context(), contact, req.Message)
	JSON(w, http.StatusOK, map[string]any{"reply": reply})
}

// HandleSMSIncoming handles POST /sms/incoming, the Twilio-format webhook.
// It reads form fields From and Body and answers with TwiML.
func (h *Handler) HandleSMSIncoming(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeTwiML(w, "Sorry, I couldn't read that message.")
		return
	}
	from := r.FormValue("From")
	body := strings.TrimSpace(r.FormValue("Body"))

	if body == "" {
		writeTwiML(w, emptySMSReply)
		return
	}

	contact, ok := h.family.Lookup(from)
	if !ok {
		slog.Warn("SMS from unauthorized number", "from", from)
		writeTwiML(w, unauthorizedSMSReply+" Ask your family member to add you.")
		return
	}

	reply := h.family.ProcessSMS(r.Context(), contact, body)
	writeTwiML(w, reply)
}

func writeTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/xml")
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><Response><Message>`)
	if err := xmlEscape(&b, message); err != nil {
		b.WriteString("Sorry, something went wrong.")
	}
	b.WriteString(`</Message></Response>`)
	if _, err := w.Write([]byte(b.String())); err != nil {
		slog.Warn("failed to write TwiML response", "error", err)
	}
}

func xmlEscape(w io.Writer, s string) error {
	return xml.EscapeText(w, []byte(s))
}
