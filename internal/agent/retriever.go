package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/jupitermoney/edge-agent/pkg/logging"
)

// Canned grounding strings for navigational intents that bypass retrieval.
const (
	groundingGreeting = "This is a greeting. Welcome the user and ask how you can help with their card application."
	groundingOffTopic = "User asked an off-topic question. Politely redirect them to card topics only."
	groundingClosing  = "Closing conversation gracefully."
)

// Retriever routes an (intent, utterance, funnel step) triple to grounding
// passages. Routing precedes ranking: canned passages and section lookups
// short-circuit the embedding search.
type Retriever struct {
	index           *KnowledgeIndex
	logger          *logging.Logger
	topK            int
	applicationLink string
}

// NewRetriever wires the retriever to a built index.
func NewRetriever(index *KnowledgeIndex, applicationLink string, topK int, logger *logging.Logger) *Retriever {
	if index == nil {
		panic("agent: knowledge index cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		index:           index,
		logger:          logger,
		topK:            topK,
		applicationLink: applicationLink,
	}
}

// Grounding returns the context block handed to the response composer.
// Retrieval failures degrade to an empty block; the composer's fallback
// table guarantees the user still gets an on-topic reply.
func (r *Retriever) Grounding(ctx context.Context, intent Intent, userMessage string, step DropOffStep) string {
	msg := strings.ToLower(userMessage)

	switch intent {
	case IntentGreeting:
		return groundingGreeting
	case IntentOffTopic:
		return groundingOffTopic
	case IntentReadyToContinue:
		return "Application Link: " + r.applicationLink
	case IntentAcknowledging, IntentWantingToStop:
		return groundingClosing
	}

	if merchant := ExtractMerchant(msg); merchant != "" {
		return r.search(ctx, fmt.Sprintf("cashback for %s", merchant), r.topK)
	}

	switch intent {
	case IntentCashbackRewards:
		return joinPassages(append(r.index.Section("cashback"), r.index.Section("reward")...))
	case IntentFees:
		return joinPassages(r.index.Section("fees"))
	case IntentEligibility:
		return joinPassages(r.index.Section("eligibility"))
	case IntentProcess:
		return joinPassages(r.index.Section("application"))
	case IntentPAN, IntentAadhaar:
		// Physical-document questions need the PAN-number-vs-physical-card
		// FAQ ranked first, so the query is boosted with that phrasing.
		query := userMessage
		if strings.Contains(msg, "physical") || strings.Contains(msg, "nahi hai") {
			query = "physical PAN card required or just PAN number " + userMessage
		}
		return r.search(ctx, query, 3)
	case IntentUPI, IntentEMI:
		return r.search(ctx, userMessage, 3)
	}

	if step != "" {
		if passages := r.index.Section(string(step)); len(passages) > 0 {
			return joinPassages(passages)
		}
	}

	return r.search(ctx, userMessage, r.topK)
}

func (r *Retriever) search(ctx context.Context, query string, topK int) string {
	passages, err := r.index.Search(ctx, query, topK)
	if err != nil {
		r.logger.Warn("similarity search failed", "error", err.Error())
		return ""
	}
	return joinPassages(passages)
}

func joinPassages(passages []string) string {
	return strings.Join(passages, "\n\n")
}
