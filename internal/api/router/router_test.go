package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jupitermoney/edge-agent/internal/agent"
	"github.com/jupitermoney/edge-agent/pkg/logging"
)

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

type fixedLLM struct{}

func (fixedLLM) Complete(context.Context, agent.LLMRequest) (agent.LLMResponse, error) {
	return agent.LLMResponse{Text: "The card is lifetime free."}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.Default()

	docs := []agent.KnowledgeDocument{
		{Content: "Joining fee is zero", Section: "fees_and_charges"},
		{Content: "Shopping cashback is 10%", Section: "shopping_cashback"},
	}
	index, err := agent.NewKnowledgeIndex(context.Background(), docs, fixedEmbedder{}, logger)
	if err != nil {
		t.Fatalf("NewKnowledgeIndex: %v", err)
	}
	retriever := agent.NewRetriever(index, agent.DefaultApplicationLink, 5, logger)
	composer := agent.NewComposer(fixedLLM{}, agent.ComposerConfig{Model: "test", Timeout: time.Second}, logger)
	offers := agent.NewOfferStore(agent.OfferConfig{ActiveOffer: "high_value", MaxAttempts: 1})

	engine := agent.NewEngine(agent.EngineOptions{
		Retriever: retriever,
		Composer:  composer,
		Offers:    offers,
		Logger:    logger,
	})
	dispatcher := agent.NewQueueDispatcher(engine, agent.NewMemoryQueue(16), logger,
		agent.WithWorkerCount(1),
		agent.WithReceiveWaitSeconds(1),
	)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = dispatcher.Shutdown(ctx)
	})

	reg := prometheus.NewRegistry()
	cfg := &Config{
		Logger:          logger,
		AgentHandler:    agent.NewHandler(dispatcher, engine, offers, nil, nil, logger),
		AdminAuthSecret: "test-secret",
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	return New(cfg)
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRouterStartConversation(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(agent.StartEvent{
		UserID:      "user-router",
		Name:        "Asha",
		DropOffStep: agent.StepPANCardConfirmation,
	})
	req := httptest.NewRequest(http.MethodPost, "/conversations/start", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}
	var reply agent.Reply
	if err := json.NewDecoder(rr.Body).Decode(&reply); err != nil {
		t.Fatalf("failed to decode reply: %v", err)
	}
	if reply.Message == "" {
		t.Error("expected an outreach message")
	}
}

func TestRouterAdminRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/offers", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestRouterAdminWithToken(t *testing.T) {
	router := newTestRouter(t)

	claims := jwt.RegisteredClaims{
		Subject:   "growth-ops",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/offers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}
