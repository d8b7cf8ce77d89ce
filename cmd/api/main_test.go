package main

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/jupitermoney/edge-agent/internal/agent"
	"github.com/jupitermoney/edge-agent/internal/app/bootstrap"
	appconfig "github.com/jupitermoney/edge-agent/internal/config"
	"github.com/jupitermoney/edge-agent/pkg/logging"
)

type staticEmbedder struct{}

func (staticEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

type staticLLM struct{}

func (staticLLM) Complete(context.Context, agent.LLMRequest) (agent.LLMResponse, error) {
	return agent.LLMResponse{Text: "ok"}, nil
}

func testRuntime(t *testing.T) *bootstrap.Runtime {
	t.Helper()
	logger := logging.New("error")
	docs := []agent.KnowledgeDocument{{Content: "Joining fee is zero", Section: "fees_and_charges"}}
	index, err := agent.NewKnowledgeIndex(context.Background(), docs, staticEmbedder{}, logger)
	if err != nil {
		t.Fatalf("NewKnowledgeIndex: %v", err)
	}
	offers := agent.NewOfferStore(agent.OfferConfig{})
	engine := agent.NewEngine(agent.EngineOptions{
		Retriever: agent.NewRetriever(index, agent.DefaultApplicationLink, 5, logger),
		Composer:  agent.NewComposer(staticLLM{}, agent.ComposerConfig{Model: "test", Timeout: time.Second}, logger),
		Offers:    offers,
		Logger:    logger,
	})
	return &bootstrap.Runtime{Engine: engine, Offers: offers}
}

func TestBuildDispatcherMemoryPath(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{UseMemoryQueue: true, WorkerCount: 1}

	d := buildDispatcher(cfg, aws.Config{}, testRuntime(t), logger)
	if d == nil {
		t.Fatal("expected dispatcher")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	reply, err := d.StartConversation(ctx, agent.StartEvent{UserID: "user-main", Name: "Asha"})
	if err != nil {
		t.Fatalf("StartConversation: %v", err)
	}
	if reply.Message == "" {
		t.Error("expected outreach message")
	}

	if err := d.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
