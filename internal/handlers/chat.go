package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pitstop-backend/internal/middleware"
	"pitstop-backend/internal/models"
	"pitstop-backend/internal/prompt"
	"pitstop-backend/internal/services"
)

type chatRepository interface {
	Create(ctx context.Context, c *models.Chat) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Chat, error)
	GetVehicleID(ctx context.Context, chatID, userID uuid.UUID) (*uuid.UUID, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ChatListItem, error)
	Touch(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type messageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	AppendExchange(ctx context.Context, chatID uuid.UUID, userContent, assistantContent string) error
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]*models.Message, error)
}

type languageReader interface {
	GetPreferredLanguage(ctx context.Context, id uuid.UUID) (string, error)
}

type mechanicStreamer interface {
	StreamChat(ctx context.Context, systemPrompt string, history []models.ChatMessage, onChunk func(text string) error) (string, error)
}

type ChatHandler struct {
	chatRepo     chatRepository
	messageRepo  messageRepository
	vehicleRepo  vehicleRepository
	userRepo     languageReader
	mechanic     mechanicStreamer
	finalizer    *services.Finalizer
	streamBudget time.Duration
}

func NewChatHandler(
	chatRepo chatRepository,
	messageRepo messageRepository,
	vehicleRepo vehicleRepository,
	userRepo languageReader,
	mechanic mechanicStreamer,
	finalizer *services.Finalizer,
	streamBudget time.Duration,
) *ChatHandler {
	return &ChatHandler{
		chatRepo:     chatRepo,
		messageRepo:  messageRepo,
		vehicleRepo:  vehicleRepo,
		userRepo:     userRepo,
		mechanic:     mechanic,
		finalizer:    finalizer,
		streamBudget: streamBudget,
	}
}

// chatContext carries everything resolved before prompt composition. It is
// built once per request and passed forward, never mutated.
type chatContext struct {
	ChatID   *uuid.UUID
	Vehicle  *models.Vehicle
	Language prompt.Language
}

// loadChatContext resolves language, vehicle and chat row in two concurrent
// read phases. Enrichment failures degrade to defaults; a supplied chat that
// fails its ownership check is treated as absent, so the exchange lands in a
// fresh chat of the caller's own instead of someone else's.
func (h *ChatHandler) loadChatContext(ctx context.Context, userID uuid.UUID, req models.ChatRequest) chatContext {
	requestID := requestIDFrom(ctx)

	type chatLookup struct {
		vehicleID *uuid.UUID
		ok        bool
	}

	// Phase 1: verify the supplied chat belongs to this user and read its
	// linked vehicle in the same owner-scoped query. A miss (missing or
	// foreign chat) downgrades the request to a new chat.
	lookup := make(chan chatLookup, 1)
	go func() {
		if req.ChatID == nil {
			lookup <- chatLookup{}
			return
		}
		vid, err := h.chatRepo.GetVehicleID(ctx, *req.ChatID, userID)
		if err != nil {
			log.Printf("[%s] chat %s not found for this user, starting a new one: %v", requestID, *req.ChatID, err)
			lookup <- chatLookup{}
			return
		}
		lookup <- chatLookup{vehicleID: vid, ok: true}
	}()

	found := <-lookup

	// Explicit vehicle wins over the chat's inherited one.
	vehicleID := req.VehicleID
	if vehicleID == nil {
		vehicleID = found.vehicleID
	}

	// Phase 2: language preference and full vehicle details, independent reads.
	var (
		language = prompt.LanguageEnglish
		vehicle  *models.Vehicle
		done     = make(chan struct{}, 2)
	)

	go func() {
		defer func() { done <- struct{}{} }()
		code, err := h.userRepo.GetPreferredLanguage(ctx, userID)
		if err != nil {
			log.Printf("[%s] language lookup failed, defaulting to en: %v", requestID, err)
			return
		}
		language = prompt.ParseLanguage(code)
	}()

	go func() {
		defer func() { done <- struct{}{} }()
		if vehicleID == nil {
			return
		}
		v, err := h.vehicleRepo.GetByID(ctx, *vehicleID)
		if err != nil {
			log.Printf("[%s] vehicle lookup failed for %s: %v", requestID, *vehicleID, err)
			return
		}
		if v.UserID != userID {
			log.Printf("[%s] vehicle %s does not belong to user, ignoring", requestID, *vehicleID)
			return
		}
		vehicle = v
	}()

	<-done
	<-done

	var chatID *uuid.UUID
	if found.ok {
		chatID = req.ChatID
	}
	if chatID == nil {
		chat := &models.Chat{
			UserID:    userID,
			VehicleID: vehicleID,
			Title:     deriveTitle(firstUserMessage(req.Messages)),
		}
		if err := h.chatRepo.Create(ctx, chat); err != nil {
			// Known degradation: the stream still runs, nothing gets persisted.
			log.Printf("[%s] chat creation failed, conversation will be ephemeral: %v", requestID, err)
		} else {
			chatID = &chat.ID
		}
	}

	return chatContext{ChatID: chatID, Vehicle: vehicle, Language: language}
}

// Stream is the chat pipeline: resolve context, compose the system prompt,
// stream the model reply as chunked text, then persist the exchange off the
// request path.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "Authentication required", r))
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "messages is required", r))
		return
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != "user" || strings.TrimSpace(last.Content) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Last message must be a non-empty user message", r))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Streaming not supported", r))
		return
	}

	ctx := withRequestID(r.Context(), r.Header.Get("X-Request-ID"))
	requestID := r.Header.Get("X-Request-ID")

	cc := h.loadChatContext(ctx, userID, req)
	systemPrompt := prompt.System(cc.Language, promptVehicle(cc.Vehicle))

	log.Printf("[%s] chat stream: chat=%s vehicle=%v lang=%s messages=%d",
		requestID, uuidOrNone(cc.ChatID), cc.Vehicle != nil, cc.Language, len(req.Messages))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	// Hard wall-clock budget for the whole generation. The request context
	// also ends it early when the client disconnects.
	genCtx, cancel := context.WithTimeout(ctx, h.streamBudget)
	defer cancel()

	started := false
	text, err := h.mechanic.StreamChat(genCtx, systemPrompt, req.Messages, func(chunk string) error {
		started = true
		if _, werr := io.WriteString(w, chunk); werr != nil {
			return werr
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		log.Printf("[%s] generation failed (chat=%s, %d bytes delivered): %v",
			requestID, uuidOrNone(cc.ChatID), len(text), err)
		if !started {
			writeJSON(w, http.StatusInternalServerError, errorResp("GENERATION_ERROR", "Failed to get a reply from the mechanic", r))
		}
		// A failed, timed-out or abandoned stream persists nothing; partial
		// replies are discarded.
		return
	}

	if cc.ChatID == nil {
		log.Printf("[%s] no chat row, completed exchange not persisted", requestID)
		return
	}

	chatID := *cc.ChatID
	userContent := last.Content
	h.finalizer.Go("persist-exchange", func(ctx context.Context) {
		if err := h.messageRepo.AppendExchange(ctx, chatID, userContent, text); err != nil {
			log.Printf("[%s] failed to persist exchange for chat %s: %v", requestID, chatID, err)
			return
		}
		if err := h.chatRepo.Touch(ctx, chatID); err != nil {
			log.Printf("[%s] failed to bump updated_at for chat %s: %v", requestID, chatID, err)
		}
	})
}

// ExplainCode streams a one-shot OBD-II error code explanation. Shares the
// streaming contract with Stream but never touches chat rows.
func (h *ChatHandler) ExplainCode(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "Authentication required", r))
		return
	}

	var req models.ExplainCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "code is required", r))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Streaming not supported", r))
		return
	}

	requestID := r.Header.Get("X-Request-ID")

	var vehicle *models.Vehicle
	if req.VehicleID != nil {
		v, err := h.vehicleRepo.GetByID(r.Context(), *req.VehicleID)
		if err != nil {
			log.Printf("[%s] vehicle lookup failed for %s: %v", requestID, *req.VehicleID, err)
		} else if v.UserID == userID {
			vehicle = v
		}
	}

	userTurn := prompt.ExplainCodeUser(strings.ToUpper(strings.TrimSpace(req.Code)), promptVehicle(vehicle))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	genCtx, cancel := context.WithTimeout(r.Context(), h.streamBudget)
	defer cancel()

	started := false
	_, err := h.mechanic.StreamChat(genCtx, prompt.ExplainCodeSystem(),
		[]models.ChatMessage{{Role: "user", Content: userTurn}},
		func(chunk string) error {
			started = true
			if _, werr := io.WriteString(w, chunk); werr != nil {
				return werr
			}
			flusher.Flush()
			return nil
		})
	if err != nil {
		log.Printf("[%s] explain-code generation failed: %v", requestID, err)
		if !started {
			writeJSON(w, http.StatusInternalServerError, errorResp("GENERATION_ERROR", "Failed to get an explanation", r))
		}
	}
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	chats, err := h.chatRepo.ListByUser(r.Context(), userID, 50)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list chats", r))
		return
	}
	if chats == nil {
		chats = []*models.ChatListItem{}
	}

	writeJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	chatID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid chat ID", r))
		return
	}

	chat, err := h.chatRepo.GetByID(r.Context(), chatID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Chat not found", r))
		return
	}
	if chat.UserID != middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	messages, err := h.messageRepo.ListByChat(r.Context(), chatID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list messages", r))
		return
	}
	if messages == nil {
		messages = []*models.Message{}
	}

	writeJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	chatID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid chat ID", r))
		return
	}

	if err := h.chatRepo.Delete(r.Context(), chatID, middleware.GetUserID(r.Context())); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete chat", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat deleted"})
}

// StartVehicleChat opens a chat scoped to a saved vehicle, seeded with an
// auto-initialized user message carrying the vehicle's specs so the first
// streamed reply can confirm them.
func (h *ChatHandler) StartVehicleChat(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.StartVehicleChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VehicleID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "vehicle_id is required", r))
		return
	}

	vehicle, err := h.vehicleRepo.GetByID(r.Context(), req.VehicleID)
	if err != nil || vehicle.UserID != userID {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Vehicle not found", r))
		return
	}

	name := fmt.Sprintf("%s %s", vehicle.Make, vehicle.Model)
	if vehicle.Nickname != nil && *vehicle.Nickname != "" {
		name = *vehicle.Nickname
	}

	chat := &models.Chat{
		UserID:    userID,
		VehicleID: &vehicle.ID,
		Title:     deriveTitle("Chat about " + name),
	}
	if err := h.chatRepo.Create(r.Context(), chat); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create chat", r))
		return
	}

	specs := fmt.Sprintf("%d %s %s", vehicle.ModelYear, vehicle.Make, vehicle.Model)
	if vehicle.EngineType != nil && *vehicle.EngineType != "" {
		specs += fmt.Sprintf(" (%s)", *vehicle.EngineType)
	}
	if vehicle.MileageKM != nil {
		specs += fmt.Sprintf(" with %d km", *vehicle.MileageKM)
	}

	msg := &models.Message{
		ChatID:   chat.ID,
		Role:     "user",
		Content:  fmt.Sprintf("I want to chat about my %s. Please confirm you have these details and tell me how you can help me maintain this specific car.", specs),
		Metadata: json.RawMessage(`{"is_auto_init":true}`),
	}
	if err := h.messageRepo.Create(r.Context(), msg); err != nil {
		log.Printf("failed to seed vehicle chat %s: %v", chat.ID, err)
	}

	writeJSON(w, http.StatusCreated, chat)
}

// deriveTitle builds a chat title from the first user message: at most 30
// characters, with an ellipsis when truncated.
func deriveTitle(firstMessage string) string {
	trimmed := strings.TrimSpace(firstMessage)
	if trimmed == "" {
		return "New Chat"
	}
	runes := []rune(trimmed)
	if len(runes) <= 30 {
		return trimmed
	}
	return string(runes[:30]) + "…"
}

func firstUserMessage(messages []models.ChatMessage) string {
	for _, m := range messages {
		if m.Role == "user" {
			return m.Content
		}
	}
	return ""
}

func promptVehicle(v *models.Vehicle) *prompt.Vehicle {
	if v == nil {
		return nil
	}
	return &prompt.Vehicle{
		Nickname:   v.Nickname,
		Make:       v.Make,
		Model:      v.Model,
		ModelYear:  v.ModelYear,
		EngineType: v.EngineType,
		MileageKM:  v.MileageKM,
		Notes:      v.Notes,
	}
}

func uuidOrNone(id *uuid.UUID) string {
	if id == nil {
		return "none"
	}
	return id.String()
}

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
