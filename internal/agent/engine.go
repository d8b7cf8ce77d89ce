package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jupitermoney/edge-agent/internal/observability/metrics"
	"github.com/jupitermoney/edge-agent/pkg/logging"
)

// ErrConversationNotFound is returned when a message or summary request
// arrives for a user with no active conversation.
var ErrConversationNotFound = errors.New("agent: conversation not initialized")

// StartEvent is the funnel drop-off trigger that opens a conversation.
type StartEvent struct {
	UserID        string        `json:"user_id"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone,omitempty"`
	FunnelType    string        `json:"funnel_type,omitempty"`
	ObjectionType ObjectionType `json:"objection_type,omitempty"`
	DropOffStep   DropOffStep   `json:"drop_off_step,omitempty"`
}

// Reply is the engine's answer to one inbound turn.
type Reply struct {
	ConversationID string     `json:"conversation_id"`
	Message        string     `json:"message"`
	Intent         Intent     `json:"intent,omitempty"`
	Language       Language   `json:"language,omitempty"`
	State          AgentState `json:"state"`
	Outcome        Outcome    `json:"outcome"`
	FomoTriggered  bool       `json:"fomo_triggered"`
	ResponseTimeMs int64      `json:"response_time_ms"`
}

// ConversationSummary is a read-only report over one conversation.
type ConversationSummary struct {
	ConversationID  string     `json:"conversation_id"`
	UserID          string     `json:"user_id"`
	State           AgentState `json:"state"`
	Outcome         Outcome    `json:"outcome"`
	MessageCount    int        `json:"message_count"`
	UserMessages    int        `json:"user_messages"`
	AgentMessages   int        `json:"agent_messages"`
	FomoOffersShown int        `json:"fomo_offers_shown"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds float64    `json:"duration_seconds"`
}

// EngineOptions wires the engine's collaborators. Retriever, Composer and
// Offers are required; Snapshots, Interactions and Metrics may be nil.
type EngineOptions struct {
	Retriever       *Retriever
	Composer        *Composer
	Offers          *OfferStore
	Snapshots       *SnapshotStore
	Interactions    *InteractionLogger
	Metrics         *metrics.AgentMetrics
	Logger          *logging.Logger
	ApplicationLink string
}

// Engine drives re-engagement conversations end to end: language detection,
// intent classification, grounding retrieval, response composition, offer
// throttling and state transitions. All work for a given user is serialized
// behind a per-conversation lock.
type Engine struct {
	retriever       *Retriever
	composer        *Composer
	offers          *OfferStore
	snapshots       *SnapshotStore
	interactions    *InteractionLogger
	metrics         *metrics.AgentMetrics
	logger          *logging.Logger
	applicationLink string

	registry *conversationRegistry
}

func NewEngine(opts EngineOptions) *Engine {
	if opts.Retriever == nil {
		panic("agent: retriever cannot be nil")
	}
	if opts.Composer == nil {
		panic("agent: composer cannot be nil")
	}
	if opts.Offers == nil {
		panic("agent: offer store cannot be nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	link := opts.ApplicationLink
	if link == "" {
		link = DefaultApplicationLink
	}
	return &Engine{
		retriever:       opts.Retriever,
		composer:        opts.Composer,
		offers:          opts.Offers,
		snapshots:       opts.Snapshots,
		interactions:    opts.Interactions,
		metrics:         opts.Metrics,
		logger:          logger,
		applicationLink: link,
		registry:        newConversationRegistry(),
	}
}

// StartConversation opens a fresh conversation for the user and produces the
// outreach message. An existing conversation for the same user is replaced.
func (e *Engine) StartConversation(ctx context.Context, event StartEvent) (*Reply, error) {
	if strings.TrimSpace(event.UserID) == "" {
		return nil, errors.New("agent: user id is required")
	}

	conv := &Conversation{
		UserID:         event.UserID,
		ConversationID: newConversationID(),
		State:          StateInit,
		Outcome:        OutcomePending,
		StartTime:      time.Now().UTC(),
		UserInfo: UserInfo{
			Name:          event.Name,
			Phone:         event.Phone,
			FunnelType:    event.FunnelType,
			ObjectionType: event.ObjectionType,
			DropOffStep:   event.DropOffStep,
		},
	}

	greeting := e.composer.InitialMessage(ctx, conv)
	conv.AppendMessage(SenderAgent, greeting)
	conv.State = StateWaitingForReply

	entry := e.registry.replace(event.UserID, conv)
	entry.mu.Lock()
	e.saveSnapshot(ctx, conv)
	entry.mu.Unlock()

	e.metrics.ObserveConversationStarted()
	e.logger.Info("conversation started",
		"user_id", conv.UserID,
		"conversation_id", conv.ConversationID,
		"drop_off_step", string(conv.UserInfo.DropOffStep),
	)

	return &Reply{
		ConversationID: conv.ConversationID,
		Message:        greeting,
		State:          conv.State,
		Outcome:        conv.Outcome,
	}, nil
}

// ProcessMessage handles one user turn and returns the agent's reply.
func (e *Engine) ProcessMessage(ctx context.Context, userID, text string) (*Reply, error) {
	entry, err := e.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	conv := entry.conv
	start := time.Now()

	conv.AppendMessage(SenderUser, text)

	language := DetectLanguage(text)
	if language.Supported() {
		conv.UserInfo.PreferredLanguage = language
	}
	intent := ClassifyIntent(text)

	cfg := e.offers.Config()
	fomo := false
	var response string
	if ShouldShowOffer(conv, intent, cfg) {
		response = OfferMessage(conv, language, cfg, e.applicationLink)
		fomo = true
		e.metrics.ObserveOfferShown()
	} else {
		grounding := e.retriever.Grounding(ctx, intent, text, conv.UserInfo.DropOffStep)
		response = e.composer.Compose(ctx, conv, intent, language, grounding)
	}
	conv.AppendMessage(SenderAgent, response)

	AdvanceState(conv, text)

	elapsed := time.Since(start)
	e.saveSnapshot(ctx, conv)

	if e.interactions != nil {
		e.interactions.Record(InteractionRecord{
			Timestamp:      time.Now().UTC(),
			UserID:         conv.UserID,
			ConversationID: conv.ConversationID,
			MessageNumber:  conv.UserMessageCount(),
			UserMessage:    text,
			Intent:         intent,
			AgentResponse:  response,
			State:          conv.State,
			Language:       language,
			FomoTriggered:  fomo,
			ResponseTimeMs: elapsed.Milliseconds(),
		})
	}

	e.metrics.ObserveMessage(string(intent), string(language))
	e.metrics.ObserveResponseLatency(elapsed.Seconds())
	if conv.State.Terminal() {
		e.metrics.ObserveOutcome(string(conv.Outcome))
	}

	e.logger.Info("message processed",
		"user_id", conv.UserID,
		"conversation_id", conv.ConversationID,
		"intent", string(intent),
		"language", string(language),
		"state", string(conv.State),
		"fomo_triggered", fomo,
		"response_time_ms", elapsed.Milliseconds(),
	)

	return &Reply{
		ConversationID: conv.ConversationID,
		Message:        response,
		Intent:         intent,
		Language:       language,
		State:          conv.State,
		Outcome:        conv.Outcome,
		FomoTriggered:  fomo,
		ResponseTimeMs: elapsed.Milliseconds(),
	}, nil
}

// EndConversation closes the conversation with the given outcome. Ending an
// already terminal conversation is a no-op that reports the existing state.
func (e *Engine) EndConversation(ctx context.Context, userID string, outcome Outcome) (*ConversationSummary, error) {
	entry, err := e.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	conv := entry.conv
	if !conv.State.Terminal() {
		Finish(conv, outcome)
		conv.AppendMessage(SenderSystem, fmt.Sprintf("Conversation ended: %s", outcome))
		e.saveSnapshot(ctx, conv)
		e.metrics.ObserveOutcome(string(conv.Outcome))
		e.logger.Info("conversation ended",
			"user_id", conv.UserID,
			"conversation_id", conv.ConversationID,
			"outcome", string(conv.Outcome),
		)
	}
	return summarize(conv), nil
}

// Summary reports message counts, offer usage and duration for the user's
// conversation.
func (e *Engine) Summary(ctx context.Context, userID string) (*ConversationSummary, error) {
	entry, err := e.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return summarize(entry.conv), nil
}

// History returns a copy of the conversation transcript.
func (e *Engine) History(ctx context.Context, userID string) ([]Message, error) {
	entry, err := e.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	messages := make([]Message, len(entry.conv.Messages))
	copy(messages, entry.conv.Messages)
	return messages, nil
}

// Reset drops the user's conversation from memory and Redis so the next
// drop-off event starts clean.
func (e *Engine) Reset(ctx context.Context, userID string) error {
	e.registry.remove(userID)
	if err := e.snapshots.Delete(ctx, userID); err != nil {
		return fmt.Errorf("agent: reset conversation: %w", err)
	}
	return nil
}

// lookup resolves the registry entry for a user, falling back to the Redis
// snapshot so conversations survive process restarts.
func (e *Engine) lookup(ctx context.Context, userID string) (*conversationEntry, error) {
	if entry, ok := e.registry.get(userID); ok {
		return entry, nil
	}

	conv, err := e.snapshots.Load(ctx, userID)
	if err != nil {
		e.logger.Warn("snapshot load failed", "user_id", userID, "error", err.Error())
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	e.logger.Info("conversation restored from snapshot",
		"user_id", userID,
		"conversation_id", conv.ConversationID,
	)
	return e.registry.restore(userID, conv), nil
}

func (e *Engine) saveSnapshot(ctx context.Context, conv *Conversation) {
	if err := e.snapshots.Save(ctx, conv); err != nil {
		e.logger.Warn("snapshot save failed",
			"user_id", conv.UserID,
			"conversation_id", conv.ConversationID,
			"error", err.Error(),
		)
	}
}

func summarize(conv *Conversation) *ConversationSummary {
	s := &ConversationSummary{
		ConversationID:  conv.ConversationID,
		UserID:          conv.UserID,
		State:           conv.State,
		Outcome:         conv.Outcome,
		MessageCount:    len(conv.Messages),
		FomoOffersShown: conv.FomoOfferCount,
		StartTime:       conv.StartTime,
		EndTime:         conv.EndTime,
	}
	for _, m := range conv.Messages {
		switch m.Sender {
		case SenderUser:
			s.UserMessages++
		case SenderAgent:
			s.AgentMessages++
		}
	}
	if conv.EndTime != nil {
		s.DurationSeconds = conv.EndTime.Sub(conv.StartTime).Seconds()
	} else {
		s.DurationSeconds = time.Since(conv.StartTime).Seconds()
	}
	return s
}

func newConversationID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "conv_" + id[:12]
}
