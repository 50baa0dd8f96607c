// Package api exposes the assistant's HTTP surface: the chat endpoint, the
// recommendation endpoints and the conversation history.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/tranvd/gymlife-assistant/internal/auth"
	"github.com/tranvd/gymlife-assistant/internal/classifier"
	"github.com/tranvd/gymlife-assistant/internal/dispatch"
	"github.com/tranvd/gymlife-assistant/internal/extract"
	"github.com/tranvd/gymlife-assistant/internal/models"
	"github.com/tranvd/gymlife-assistant/internal/observability"
	"github.com/tranvd/gymlife-assistant/internal/storage"
	"github.com/tranvd/gymlife-assistant/internal/textnorm"
)

// Responder is the dispatcher slice the chat handler needs.
type Responder interface {
	Respond(ctx context.Context, turn dispatch.Turn) string
}

// Handler coordinates HTTP requests with the chat pipeline.
type Handler struct {
	store      storage.Storage
	classifier classifier.Classifier
	responder  Responder
	logger     *zap.Logger
}

// NewHandler builds a Handler.
func NewHandler(store storage.Storage, clf classifier.Classifier, responder Responder, logger *zap.Logger) *Handler {
	return &Handler{store: store, classifier: clf, responder: responder, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/chat", h.chat)
	mux.HandleFunc("/api/chat/history", h.chatHistory)
	mux.HandleFunc("/api/recommendations/workouts", h.recommendWorkouts)
	mux.HandleFunc("/api/recommendations/meals", h.recommendMeals)
	mux.HandleFunc("/api/recommendations/weekly-plan", h.recommendWeeklyPlan)
	mux.HandleFunc("/api/recommendations/quick-tip", h.recommendQuickTip)
	mux.HandleFunc("/api/health", health)
}

// health reports a simple OK status for container health checks.
func health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ChatRequest is the POST /api/chat payload.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the POST /api/chat reply.
type ChatResponse struct {
	Response string            `json:"response"`
	Intent   string            `json:"intent"`
	Entities map[string]string `json:"entities,omitempty"`
	UserID   int64             `json:"user_id"`
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	canonical, err := textnorm.Normalize(req.Message)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "message must not be empty")
		return
	}

	ctx := r.Context()

	// The conversation log is the source of truth: losing the user message is
	// the one hard failure of a turn.
	if err := h.store.SaveChatMessage(ctx, claims.UserID, req.Message, true); err != nil {
		h.logger.Error("Persisting user message failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", "unable to save message")
		return
	}

	result := models.ClassificationResult{}
	result.Intent = h.classifier.Classify(ctx, canonical, h.validIntents(ctx))
	if entities := extract.Entities(result.Intent, canonical); len(entities) > 0 {
		result.Entities = entities
	}

	reply := h.responder.Respond(ctx, dispatch.Turn{
		UserID:    claims.UserID,
		Bearer:    r.Header.Get("Authorization"),
		Raw:       req.Message,
		Canonical: canonical,
		Intent:    result.Intent,
	})

	// A missing reply row is an accepted degraded state.
	if err := h.store.SaveChatMessage(ctx, claims.UserID, reply, false); err != nil {
		h.logger.Warn("Persisting assistant reply failed", zap.Error(err))
	}

	observability.RecordChatTurn()
	h.logger.Info("Chat turn completed",
		zap.String("request_id", requestIDFrom(ctx)),
		zap.Int64("user_id", claims.UserID),
		zap.String("intent", result.Intent.String()))
	writeJSON(w, http.StatusOK, ChatResponse{
		Response: reply,
		Intent:   result.Intent.String(),
		Entities: result.Entities,
		UserID:   claims.UserID,
	})
}

// validIntents reads the registry tags, falling back to the built-in defaults
// when the registry is unreadable so classification still runs.
func (h *Handler) validIntents(ctx context.Context) []string {
	records, err := h.store.ListIntents(ctx)
	if err != nil {
		h.logger.Error("Reading intent registry failed", zap.Error(err))
		records = storage.DefaultIntents()
	}
	tags := make([]string, len(records))
	for i, rec := range records {
		tags[i] = rec.Tag
	}
	return tags
}

// ChatHistoryResponse is the GET /api/chat/history reply.
type ChatHistoryResponse struct {
	Messages []models.ChatMessage `json:"messages"`
}

func (h *Handler) chatHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "validation_failed", "invalid limit")
			return
		}
		limit = n
	}

	messages, err := h.store.ChatHistory(r.Context(), claims.UserID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, ChatHistoryResponse{Messages: messages})
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
