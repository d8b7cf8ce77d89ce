// Package bootstrap wires the conversation engine's collaborators from
// configuration, shared by the API and worker binaries.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"

	"github.com/jupitermoney/edge-agent/internal/agent"
	appconfig "github.com/jupitermoney/edge-agent/internal/config"
	"github.com/jupitermoney/edge-agent/internal/observability/metrics"
	"github.com/jupitermoney/edge-agent/pkg/logging"
)

// Runtime bundles everything the binaries need beyond the HTTP layer.
type Runtime struct {
	Engine       *agent.Engine
	Offers       *agent.OfferStore
	OfferPersist *agent.OfferConfigStore
	Interactions *agent.InteractionLogger
	Sink         *agent.PostgresInteractionSink
	Metrics      *metrics.AgentMetrics
}

// Close releases background workers. Safe to call once shutdown begins.
func (r *Runtime) Close() {
	if r.Interactions != nil {
		r.Interactions.Close()
	}
}

// BuildLLM assembles the generation chain: Bedrock primary with an OpenAI or
// Gemini fallback when the corresponding API key is configured.
func BuildLLM(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (agent.LLMClient, error) {
	if strings.TrimSpace(cfg.BedrockModelID) == "" {
		return nil, errors.New("bootstrap: BEDROCK_MODEL_ID is required")
	}
	primary := agent.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))

	if cfg.OpenAIAPIKey != "" {
		fallback := agent.NewOpenAILLMClient(openai.NewClient(cfg.OpenAIAPIKey))
		logger.Info("generation fallback configured", "provider", "openai", "model", cfg.OpenAIModel)
		return agent.NewFallbackLLMClient(primary, fallback, cfg.OpenAIModel, logger), nil
	}
	if cfg.GeminiAPIKey != "" {
		fallback, err := agent.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: gemini client: %w", err)
		}
		logger.Info("generation fallback configured", "provider", "gemini", "model", cfg.GeminiModel)
		return agent.NewFallbackLLMClient(primary, fallback, cfg.GeminiModel, logger), nil
	}

	logger.Warn("no generation fallback configured")
	return primary, nil
}

// BuildEmbedder picks the embedding provider: Bedrock when an embedding model
// is configured, otherwise OpenAI.
func BuildEmbedder(cfg *appconfig.Config, awsCfg aws.Config) (agent.Embedder, error) {
	if strings.TrimSpace(cfg.BedrockEmbeddingModelID) != "" {
		return agent.NewBedrockEmbedder(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockEmbeddingModelID), nil
	}
	if cfg.OpenAIAPIKey != "" {
		return agent.NewOpenAIEmbedder(openai.NewClient(cfg.OpenAIAPIKey), cfg.OpenAIEmbeddingModel), nil
	}
	return nil, errors.New("bootstrap: no embedding provider configured")
}

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, conversation snapshots disabled", "error", err.Error())
		return nil
	}
	return client
}

// BuildRuntime constructs the fully wired conversation engine. The knowledge
// index embeds the whole card corpus up front, so an unreachable embedding
// provider fails startup.
func BuildRuntime(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, sqlDB *sql.DB, logger *logging.Logger) (*Runtime, error) {
	card, err := agent.LoadCardData(cfg.CardDataPath)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: load card data: %w", err)
	}
	corpus := agent.BuildCorpus(card)
	logger.Info("knowledge corpus built", "documents", len(corpus), "card", card.CardName)

	embedder, err := BuildEmbedder(cfg, awsCfg)
	if err != nil {
		return nil, err
	}
	embedCtx, cancel := context.WithTimeout(ctx, cfg.EmbeddingTimeout*time.Duration(len(corpus)))
	defer cancel()
	index, err := agent.NewKnowledgeIndex(embedCtx, corpus, embedder, logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: build knowledge index: %w", err)
	}

	llm, err := BuildLLM(ctx, cfg, awsCfg, logger)
	if err != nil {
		return nil, err
	}
	composer := agent.NewComposer(llm, agent.ComposerConfig{
		Model:           cfg.BedrockModelID,
		Timeout:         cfg.GenerationTimeout,
		MaxTokens:       int32(cfg.MaxTokens),
		Temperature:     float32(cfg.Temperature),
		TopP:            float32(cfg.TopP),
		ApplicationLink: cfg.ApplicationLink,
	}, logger)

	retriever := agent.NewRetriever(index, cfg.ApplicationLink, cfg.RetrievalTopK, logger)

	offers := agent.NewOfferStore(agent.OfferConfig{
		ActiveOffer:      cfg.ActiveOffer,
		ShowOnHesitation: cfg.OfferShowOnHesitation,
		ShowOnDecline:    cfg.OfferShowOnDecline,
		MaxAttempts:      cfg.OfferMaxAttempts,
	})

	var (
		snapshots    *agent.SnapshotStore
		offerPersist *agent.OfferConfigStore
	)
	if redisClient := BuildRedisClient(ctx, cfg, logger, true); redisClient != nil {
		snapshots = agent.NewSnapshotStore(redisClient)
		offerPersist = agent.NewOfferConfigStore(redisClient)
		stored, err := offerPersist.Load(ctx)
		if err != nil {
			logger.Warn("stored offer config unavailable", "error", err.Error())
		} else if stored != nil {
			if err := offers.Update(*stored); err != nil {
				logger.Warn("stored offer config rejected", "error", err.Error())
			} else {
				logger.Info("offer config restored", "active_offer", stored.ActiveOffer)
			}
		}
	}

	var (
		sink         *agent.PostgresInteractionSink
		interactions *agent.InteractionLogger
	)
	if sqlDB != nil {
		sink = agent.NewPostgresInteractionSink(sqlDB)
		interactions = agent.NewInteractionLogger(sink, cfg.InteractionLogBuffer, logger)
	} else {
		logger.Warn("no database configured, interaction analytics disabled")
	}

	agentMetrics := metrics.NewAgentMetrics(nil)

	engine := agent.NewEngine(agent.EngineOptions{
		Retriever:       retriever,
		Composer:        composer,
		Offers:          offers,
		Snapshots:       snapshots,
		Interactions:    interactions,
		Metrics:         agentMetrics,
		Logger:          logger,
		ApplicationLink: cfg.ApplicationLink,
	})

	return &Runtime{
		Engine:       engine,
		Offers:       offers,
		OfferPersist: offerPersist,
		Interactions: interactions,
		Sink:         sink,
		Metrics:      agentMetrics,
	}, nil
}
