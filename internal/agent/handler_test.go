package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jupitermoney/edge-agent/pkg/logging"
)

type stubDispatcher struct {
	reply     *Reply
	err       error
	lastStart StartEvent
	lastMsg   MessageRequest
}

func (s *stubDispatcher) StartConversation(_ context.Context, event StartEvent) (*Reply, error) {
	s.lastStart = event
	return s.reply, s.err
}

func (s *stubDispatcher) ProcessMessage(_ context.Context, req MessageRequest) (*Reply, error) {
	s.lastMsg = req
	return s.reply, s.err
}

func (s *stubDispatcher) Shutdown(context.Context) error { return nil }

type handlerFixture struct {
	handler    *Handler
	dispatcher *stubDispatcher
	engine     *Engine
	server     http.Handler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	ef := newTestEngine(t, nil, defaultOfferConfig())
	dispatcher := &stubDispatcher{}
	handler := NewHandler(dispatcher, ef.engine, ef.engine.offers, nil, nil, logging.Default())

	r := chi.NewRouter()
	r.Post("/conversations/start", handler.Start)
	r.Post("/conversations/message", handler.Message)
	r.Post("/conversations/end", handler.End)
	r.Get("/conversations/{userID}/summary", handler.Summary)
	r.Get("/conversations/{userID}/history", handler.History)
	r.Delete("/conversations/{userID}", handler.Reset)
	r.Get("/admin/offers", handler.GetOffers)
	r.Put("/admin/offers", handler.UpdateOffers)
	r.Get("/admin/outcomes", handler.Outcomes)
	r.Get("/health", handler.HealthCheck)

	return &handlerFixture{handler: handler, dispatcher: dispatcher, engine: ef.engine, server: r}
}

func (f *handlerFixture) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func TestHandlerStart(t *testing.T) {
	f := newHandlerFixture(t)
	f.dispatcher.reply = &Reply{ConversationID: "conv_abc", Message: "Hi Asha!", State: StateWaitingForReply}

	rec := f.do(t, http.MethodPost, "/conversations/start", startEvent())

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if f.dispatcher.lastStart.UserID != "user-1" {
		t.Errorf("start event = %+v", f.dispatcher.lastStart)
	}
	var reply Reply
	if err := json.NewDecoder(rec.Body).Decode(&reply); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if reply.ConversationID != "conv_abc" {
		t.Errorf("conversation id = %q", reply.ConversationID)
	}
}

func TestHandlerStartRejectsBadJSON(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/conversations/start", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlerMessage(t *testing.T) {
	f := newHandlerFixture(t)
	f.dispatcher.reply = &Reply{ConversationID: "conv_abc", Message: "Lifetime free.", Intent: IntentFees}

	rec := f.do(t, http.MethodPost, "/conversations/message", MessageRequest{UserID: "user-1", Message: "fees?"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if f.dispatcher.lastMsg.UserID != "user-1" || f.dispatcher.lastMsg.Message != "fees?" {
		t.Errorf("message request = %+v", f.dispatcher.lastMsg)
	}
}

func TestHandlerMessageUnknownConversation(t *testing.T) {
	f := newHandlerFixture(t)
	f.dispatcher.err = ErrConversationNotFound

	rec := f.do(t, http.MethodPost, "/conversations/message", MessageRequest{UserID: "ghost", Message: "hi"})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandlerEndAndSummary(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	if _, err := f.engine.StartConversation(ctx, startEvent()); err != nil {
		t.Fatalf("StartConversation: %v", err)
	}

	rec := f.do(t, http.MethodPost, "/conversations/end", endRequest{UserID: "user-1", Outcome: OutcomeCompleted})
	if rec.Code != http.StatusOK {
		t.Fatalf("end status = %d, want %d", rec.Code, http.StatusOK)
	}
	var summary ConversationSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Outcome != OutcomeCompleted {
		t.Errorf("outcome = %s, want %s", summary.Outcome, OutcomeCompleted)
	}

	rec = f.do(t, http.MethodGet, "/conversations/user-1/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHandlerHistory(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	if _, err := f.engine.StartConversation(ctx, startEvent()); err != nil {
		t.Fatalf("StartConversation: %v", err)
	}

	rec := f.do(t, http.MethodGet, "/conversations/user-1/history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var messages []Message
	if err := json.NewDecoder(rec.Body).Decode(&messages); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(messages) != 1 || messages[0].Sender != SenderAgent {
		t.Errorf("history = %+v", messages)
	}

	rec = f.do(t, http.MethodGet, "/conversations/ghost/history", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandlerSummaryUnknownUser(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodGet, "/conversations/ghost/summary", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandlerReset(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	if _, err := f.engine.StartConversation(ctx, startEvent()); err != nil {
		t.Fatalf("StartConversation: %v", err)
	}

	rec := f.do(t, http.MethodDelete, "/conversations/user-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestHandlerOfferConfig(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodGet, "/admin/offers", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", rec.Code, http.StatusOK)
	}
	var cfg OfferConfig
	if err := json.NewDecoder(rec.Body).Decode(&cfg); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.ActiveOffer != "high_value" {
		t.Errorf("active offer = %q", cfg.ActiveOffer)
	}

	cfg.ActiveOffer = "zero_fee_highlight"
	rec = f.do(t, http.MethodPut, "/admin/offers", cfg)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, want %d", rec.Code, http.StatusOK)
	}

	cfg.ActiveOffer = "no_such_offer"
	rec = f.do(t, http.MethodPut, "/admin/offers", cfg)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("put status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlerOutcomesUnavailableWithoutDB(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodGet, "/admin/outcomes", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHandlerHealth(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
