package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jupitermoney/edge-agent/pkg/logging"
)

// ComposerConfig carries the generation parameters for outbound replies.
type ComposerConfig struct {
	Model           string
	Timeout         time.Duration
	MaxTokens       int32
	Temperature     float32
	TopP            float32
	ApplicationLink string
}

// Composer builds grounding-constrained generation requests and guarantees a
// reply even when the upstream model fails. Navigational intents use literal
// templates so link and wording stay consistent.
type Composer struct {
	llm    LLMClient
	cfg    ComposerConfig
	logger *logging.Logger
}

// NewComposer wires the composer to a generation client.
func NewComposer(llm LLMClient, cfg ComposerConfig, logger *logging.Logger) *Composer {
	if llm == nil {
		panic("agent: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 512
	}
	if cfg.ApplicationLink == "" {
		cfg.ApplicationLink = DefaultApplicationLink
	}
	return &Composer{llm: llm, cfg: cfg, logger: logger}
}

// Compose returns the outbound reply for the conversation's latest user turn.
func (c *Composer) Compose(ctx context.Context, conv *Conversation, intent Intent, language Language, grounding string) string {
	lastMessage := conv.LastUserMessage()

	// Templates take precedence over free-form generation for navigational
	// intents: the link and closing wording must be literal.
	switch intent {
	case IntentUnsupportedLanguage, IntentGreeting, IntentOffTopic, IntentReadyToContinue, IntentAcknowledging:
		return FallbackResponse(intent, lastMessage, conv.UserInfo.Name, language, c.cfg.ApplicationLink)
	}

	contextPrompt := buildContextPrompt(conv, intent, language, grounding)
	result := c.generate(ctx, []string{systemPrompt, contextPrompt}, buildChatHistory(conv))
	if !result.OK {
		c.logger.Warn("generation failed, using fallback response",
			"intent", string(intent),
			"error", errString(result.Err),
		)
		return FallbackResponse(intent, lastMessage, conv.UserInfo.Name, language, c.cfg.ApplicationLink)
	}

	return ensureUPIQualifier(result.Text)
}

// InitialMessage produces the opening re-engagement message for a new
// conversation.
func (c *Composer) InitialMessage(ctx context.Context, conv *Conversation) string {
	result := c.generate(ctx, []string{systemPrompt}, []ChatMessage{
		{Role: ChatRoleUser, Content: initialMessagePrompt(conv.UserInfo.Name, conv.UserInfo.DropOffStep)},
	})
	if !result.OK {
		c.logger.Warn("initial message generation failed, using fallback", "error", errString(result.Err))
		return fmt.Sprintf("Hi %s, I noticed you were in the middle of your Jupiter Edge+ Credit Card application. Would you like to continue where you left off? The card offers great cashback benefits - 10%% on shopping, 5%% on travel, and 1%% on everything else.", conv.UserInfo.Name)
	}
	return result.Text
}

// generate wraps the LLM call with a timeout and returns an explicit
// success/failure variant instead of propagating errors.
func (c *Composer) generate(ctx context.Context, system []string, messages []ChatMessage) GenerationResult {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.llm.Complete(ctx, LLMRequest{
		Model:       c.cfg.Model,
		System:      system,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		TopP:        c.cfg.TopP,
	})
	if err != nil {
		return GenerationResult{Err: err}
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return GenerationResult{Err: errors.New("agent: generation returned empty text")}
	}
	return GenerationResult{Text: text, OK: true}
}

// upiQualifier is appended whenever a generated reply mentions UPI rewards
// without the Jupiter App condition.
const upiQualifier = "Note: Rewards apply ONLY when UPI transactions are made via the Jupiter App."

func ensureUPIQualifier(text string) string {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "upi") {
		return text
	}
	if !strings.Contains(lower, "cashback") && !strings.Contains(lower, "reward") {
		return text
	}
	if strings.Contains(lower, "jupiter app") {
		return text
	}
	return text + "\n\n" + upiQualifier
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
