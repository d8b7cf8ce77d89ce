package agent

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jupitermoney/edge-agent/pkg/logging"
)

// Handler wires HTTP requests to the conversation dispatcher and engine.
type Handler struct {
	dispatcher   Dispatcher
	engine       *Engine
	offers       *OfferStore
	offerPersist *OfferConfigStore
	outcomes     *PostgresInteractionSink
	logger       *logging.Logger
}

// NewHandler creates the conversation handler. The offer persistence store
// and outcomes sink may be nil when Redis or the database is not configured.
func NewHandler(dispatcher Dispatcher, engine *Engine, offers *OfferStore, offerPersist *OfferConfigStore, outcomes *PostgresInteractionSink, logger *logging.Logger) *Handler {
	if dispatcher == nil {
		panic("agent: dispatcher cannot be nil")
	}
	if engine == nil {
		panic("agent: engine cannot be nil")
	}
	if offers == nil {
		panic("agent: offer store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		dispatcher:   dispatcher,
		engine:       engine,
		offers:       offers,
		offerPersist: offerPersist,
		outcomes:     outcomes,
		logger:       logger,
	}
}

// Start handles POST /conversations/start.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var event StartEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.logger.Error("failed to decode start request", "error", err.Error())
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := h.dispatcher.StartConversation(r.Context(), event)
	if err != nil {
		h.logger.Error("failed to start conversation", "error", err.Error())
		http.Error(w, "Failed to start conversation", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusCreated, reply)
}

// Message handles POST /conversations/message.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode message request", "error", err.Error())
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := h.dispatcher.ProcessMessage(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			http.Error(w, "Conversation not initialized", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to process message", "error", err.Error())
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, reply)
}

type endRequest struct {
	UserID  string  `json:"user_id"`
	Outcome Outcome `json:"outcome"`
}

// End handles POST /conversations/end.
func (h *Handler) End(w http.ResponseWriter, r *http.Request) {
	var req endRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode end request", "error", err.Error())
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Outcome == "" {
		req.Outcome = OutcomeAbandoned
	}

	summary, err := h.engine.EndConversation(r.Context(), req.UserID, req.Outcome)
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			http.Error(w, "Conversation not initialized", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to end conversation", "error", err.Error())
		http.Error(w, "Failed to end conversation", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// Summary handles GET /conversations/{userID}/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	summary, err := h.engine.Summary(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			http.Error(w, "Conversation not initialized", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to summarize conversation", "error", err.Error())
		http.Error(w, "Failed to summarize conversation", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// History handles GET /conversations/{userID}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	messages, err := h.engine.History(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			http.Error(w, "Conversation not initialized", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load conversation history", "error", err.Error())
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, messages)
}

// Reset handles DELETE /conversations/{userID}.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.engine.Reset(r.Context(), userID); err != nil {
		h.logger.Error("failed to reset conversation", "error", err.Error())
		http.Error(w, "Failed to reset conversation", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetOffers handles GET /admin/offers.
func (h *Handler) GetOffers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.offers.Config())
}

// UpdateOffers handles PUT /admin/offers.
func (h *Handler) UpdateOffers(w http.ResponseWriter, r *http.Request) {
	var cfg OfferConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.logger.Error("failed to decode offer config", "error", err.Error())
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.offers.Update(cfg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.offerPersist.Save(r.Context(), h.offers.Config()); err != nil {
		h.logger.Warn("failed to persist offer config", "error", err.Error())
	}
	h.logger.Info("offer config updated", "active_offer", cfg.ActiveOffer)
	h.writeJSON(w, http.StatusOK, h.offers.Config())
}

// Outcomes handles GET /admin/outcomes.
func (h *Handler) Outcomes(w http.ResponseWriter, r *http.Request) {
	if h.outcomes == nil {
		http.Error(w, "Analytics store not configured", http.StatusServiceUnavailable)
		return
	}

	dist, err := h.outcomes.OutcomeDistribution(r.Context())
	if err != nil {
		h.logger.Error("failed to query outcome distribution", "error", err.Error())
		http.Error(w, "Failed to query outcomes", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, dist)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err.Error())
	}
}
