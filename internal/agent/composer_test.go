package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jupitermoney/edge-agent/pkg/logging"
)

// scriptedLLM returns a fixed response or error and records the last request.
type scriptedLLM struct {
	text    string
	err     error
	lastReq LLMRequest
	calls   int
}

func (s *scriptedLLM) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return LLMResponse{}, s.err
	}
	return LLMResponse{Text: s.text}, nil
}

func newTestComposer(llm LLMClient) *Composer {
	return NewComposer(llm, ComposerConfig{
		Model:           "test-model",
		Timeout:         time.Second,
		MaxTokens:       256,
		Temperature:     0.8,
		TopP:            0.92,
		ApplicationLink: DefaultApplicationLink,
	}, logging.Default())
}

func composeConversation(msg string) *Conversation {
	conv := newTestConversation(StateWaitingForReply)
	conv.UserInfo.Name = "Asha"
	conv.UserInfo.DropOffStep = StepPANCardConfirmation
	conv.AppendMessage(SenderUser, msg)
	return conv
}

func TestComposeGeneratesGroundedReply(t *testing.T) {
	llm := &scriptedLLM{text: "The joining fee is zero, as per product terms."}
	c := newTestComposer(llm)
	conv := composeConversation("what are the fees?")

	got := c.Compose(context.Background(), conv, IntentFees, LanguageEnglish, "Fees and Charges: Joining Fee: ₹0.")

	if got != "The joining fee is zero, as per product terms." {
		t.Errorf("Compose = %q", got)
	}
	if llm.calls != 1 {
		t.Fatalf("expected one generation call, got %d", llm.calls)
	}
	if len(llm.lastReq.System) != 2 {
		t.Fatalf("expected system prompt plus context block, got %d blocks", len(llm.lastReq.System))
	}
	if !strings.Contains(llm.lastReq.System[1], "Fees and Charges") {
		t.Error("grounding passages should be embedded in the context block")
	}
	if !strings.Contains(llm.lastReq.System[1], "ASKING_ABOUT_FEES") {
		t.Error("detected intent should be embedded in the context block")
	}
}

func TestComposeNavigationalIntentsSkipGeneration(t *testing.T) {
	for _, intent := range []Intent{IntentGreeting, IntentOffTopic, IntentReadyToContinue, IntentAcknowledging, IntentUnsupportedLanguage} {
		llm := &scriptedLLM{text: "should not be used"}
		c := newTestComposer(llm)
		conv := composeConversation("hi")

		got := c.Compose(context.Background(), conv, intent, LanguageEnglish, "")

		if llm.calls != 0 {
			t.Errorf("%s: navigational intent must not call the model", intent)
		}
		if got == "" {
			t.Errorf("%s: expected a templated reply", intent)
		}
	}
}

func TestComposeReadyToContinueCarriesLink(t *testing.T) {
	c := newTestComposer(&scriptedLLM{})
	conv := composeConversation("yes, continue")

	got := c.Compose(context.Background(), conv, IntentReadyToContinue, LanguageEnglish, "")
	if !strings.Contains(got, DefaultApplicationLink) {
		t.Errorf("expected literal application link, got %q", got)
	}
}

func TestComposeFallsBackOnGenerationFailure(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("rate limited")}
	c := newTestComposer(llm)
	conv := composeConversation("what cashback do I get?")

	got := c.Compose(context.Background(), conv, IntentCashbackRewards, LanguageEnglish, "grounding")

	if !strings.Contains(got, "10%") {
		t.Errorf("expected canned cashback fallback, got %q", got)
	}
}

func TestComposeFallsBackOnEmptyText(t *testing.T) {
	llm := &scriptedLLM{text: "   "}
	c := newTestComposer(llm)
	conv := composeConversation("kitna cashback milega")

	got := c.Compose(context.Background(), conv, IntentCashbackRewards, LanguageHinglish, "grounding")

	if !strings.Contains(got, "cashback") {
		t.Errorf("expected hinglish cashback fallback, got %q", got)
	}
}

func TestComposeLocalizedFallback(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("down")}
	c := newTestComposer(llm)
	conv := composeConversation("fees kitni hai")

	got := c.Compose(context.Background(), conv, IntentFees, LanguageHinglish, "")
	if !strings.Contains(got, "lifetime free hai") {
		t.Errorf("expected hinglish fee fallback, got %q", got)
	}
}

func TestComposeAppendsUPIQualifier(t *testing.T) {
	llm := &scriptedLLM{text: "You earn 1% cashback on UPI spends."}
	c := newTestComposer(llm)
	conv := composeConversation("upi cashback?")

	got := c.Compose(context.Background(), conv, IntentUPI, LanguageEnglish, "grounding")
	if !strings.Contains(got, upiQualifier) {
		t.Errorf("expected UPI qualifier appended, got %q", got)
	}
}

func TestComposeLeavesQualifiedUPIReplyAlone(t *testing.T) {
	reply := "UPI cashback applies only via the Jupiter App."
	llm := &scriptedLLM{text: reply}
	c := newTestComposer(llm)
	conv := composeConversation("upi cashback?")

	got := c.Compose(context.Background(), conv, IntentUPI, LanguageEnglish, "grounding")
	if got != reply {
		t.Errorf("reply already qualified, got %q", got)
	}
}

func TestInitialMessageFallback(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("timeout")}
	c := newTestComposer(llm)
	conv := composeConversation("ignored")

	got := c.InitialMessage(context.Background(), conv)
	if !strings.Contains(got, "Asha") {
		t.Errorf("fallback opener should be personalized, got %q", got)
	}
}

func TestInitialMessageUsesGeneration(t *testing.T) {
	llm := &scriptedLLM{text: "Hi Asha! Ready to pick up your application?"}
	c := newTestComposer(llm)
	conv := composeConversation("ignored")

	got := c.InitialMessage(context.Background(), conv)
	if got != "Hi Asha! Ready to pick up your application?" {
		t.Errorf("InitialMessage = %q", got)
	}
	if !strings.Contains(llm.lastReq.Messages[0].Content, "Pan Card Confirmation") {
		t.Error("prompt should name the drop-off stage")
	}
}
