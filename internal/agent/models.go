package agent

import (
	"time"
)

// Language identifies the script/language of a user utterance.
type Language string

const (
	LanguageHindi    Language = "HINDI"
	LanguageHinglish Language = "HINGLISH"
	LanguageEnglish  Language = "ENGLISH"
	LanguageOther    Language = "OTHER"
)

// Supported reports whether the agent can reply in this language.
func (l Language) Supported() bool {
	switch l {
	case LanguageHindi, LanguageHinglish, LanguageEnglish:
		return true
	}
	return false
}

// Intent is the discrete label assigned to a single user utterance.
type Intent string

const (
	IntentUnsupportedLanguage Intent = "UNSUPPORTED_LANGUAGE"
	IntentReadyToContinue     Intent = "READY_TO_CONTINUE"
	IntentHesitating          Intent = "HESITATING"
	IntentGreeting            Intent = "GREETING"
	IntentAcknowledging       Intent = "ACKNOWLEDGING"
	IntentWantingToStop       Intent = "WANTING_TO_STOP"
	IntentCashbackRewards     Intent = "ASKING_ABOUT_CASHBACK_REWARDS"
	IntentFees                Intent = "ASKING_ABOUT_FEES"
	IntentEligibility         Intent = "ASKING_ABOUT_ELIGIBILITY"
	IntentUPI                 Intent = "ASKING_ABOUT_UPI"
	IntentEMI                 Intent = "ASKING_ABOUT_EMI"
	IntentProcess             Intent = "ASKING_ABOUT_PROCESS"
	IntentDocumentation       Intent = "ASKING_ABOUT_DOCUMENTATION"
	IntentPAN                 Intent = "ASKING_ABOUT_PAN"
	IntentAadhaar             Intent = "ASKING_ABOUT_AADHAAR"
	IntentLimits              Intent = "ASKING_ABOUT_LIMITS"
	IntentOffTopic            Intent = "OFF_TOPIC"
	IntentGeneralInquiry      Intent = "GENERAL_INQUIRY"
)

// AgentState is the dialogue state of a conversation.
type AgentState string

const (
	StateInit               AgentState = "init"
	StateWaitingForReply    AgentState = "waiting_for_reply"
	StateGuiding            AgentState = "guiding"
	StateObjectionIdentified AgentState = "objection_identified"
	StateObjectionAddressed AgentState = "objection_addressed"
	StateCompleted          AgentState = "completed"
	StateOptedOut           AgentState = "opted_out"
	StateEscalated          AgentState = "escalated"
)

// Terminal reports whether no further transitions are allowed from this state.
func (s AgentState) Terminal() bool {
	switch s {
	case StateCompleted, StateOptedOut, StateEscalated:
		return true
	}
	return false
}

// Outcome records how a conversation ended.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeCompleted Outcome = "completed"
	OutcomeAbandoned Outcome = "abandoned"
	OutcomeOptedOut  Outcome = "opted_out"
	OutcomeEscalated Outcome = "escalated"
)

// DropOffStep is the application funnel stage at which the user abandoned.
type DropOffStep string

const (
	StepPANCardConfirmation DropOffStep = "pan_card_confirmation"
	StepEligibilityCheck    DropOffStep = "eligibility_check"
	StepCardCVP             DropOffStep = "card_cvp"
	StepPersonalDetailsForm DropOffStep = "personal_details_form"
	StepCardApprovalLimit   DropOffStep = "card_approval_limit"
	StepEKYCProcess         DropOffStep = "ekyc_process"
	StepVKYCProcess         DropOffStep = "vkyc_process"
	StepOTPScreen           DropOffStep = "otp_screen"
)

// Title renders the step as a human-readable label for prompts.
func (s DropOffStep) Title() string {
	if s == "" {
		return "Unknown"
	}
	out := make([]byte, 0, len(s))
	upper := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			out = append(out, ' ')
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}

// ObjectionType categorizes why a user paused their application.
type ObjectionType string

const (
	ObjectionCashbackClarity  ObjectionType = "cashback_clarity"
	ObjectionFeesConcerns     ObjectionType = "fees_concerns"
	ObjectionEligibilityDoubts ObjectionType = "eligibility_doubts"
	ObjectionDocumentHassle   ObjectionType = "document_hassle"
	ObjectionTrustSecurity    ObjectionType = "trust_security"
	ObjectionBetterOffers     ObjectionType = "better_offers"
	ObjectionCreditImpact     ObjectionType = "credit_impact"
	ObjectionRewardValue      ObjectionType = "reward_value"
)

// Sender roles for conversation messages.
const (
	SenderUser   = "user"
	SenderAgent  = "agent"
	SenderSystem = "system"
)

// Message is one turn in a conversation. Append-only.
type Message struct {
	UserID    string    `json:"user_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// UserInfo carries funnel metadata captured when the conversation starts.
type UserInfo struct {
	Name              string        `json:"name"`
	Phone             string        `json:"phone,omitempty"`
	FunnelType        string        `json:"funnel_type,omitempty"`
	ObjectionType     ObjectionType `json:"objection_type,omitempty"`
	DropOffStep       DropOffStep   `json:"drop_off_step,omitempty"`
	PreferredLanguage Language      `json:"preferred_language,omitempty"`
}

// Conversation holds all mutable state for one user's re-engagement session.
type Conversation struct {
	UserID         string     `json:"user_id"`
	ConversationID string     `json:"conversation_id"`
	State          AgentState `json:"state"`
	Outcome        Outcome    `json:"outcome"`
	Messages       []Message  `json:"messages"`
	UserInfo       UserInfo   `json:"user_info"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	FomoOfferCount int        `json:"fomo_offer_count"`
}

// AppendMessage records a new turn.
func (c *Conversation) AppendMessage(sender, content string) {
	c.Messages = append(c.Messages, Message{
		UserID:    c.UserID,
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// LastUserMessage returns the most recent user turn, or "" when none exists.
func (c *Conversation) LastUserMessage() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Sender == SenderUser {
			return c.Messages[i].Content
		}
	}
	return ""
}

// UserMessageCount counts user turns, used as the interaction message number.
func (c *Conversation) UserMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Sender == SenderUser {
			n++
		}
	}
	return n
}
