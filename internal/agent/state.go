package agent

import (
	"strings"
	"time"
)

// Keyword tables for dialogue state transitions.
var (
	objectionKeywords = []string{
		"worried", "concern", "not sure", "problem", "issue",
		"difficult", "complicated", "time", "later", "think",
		"expensive", "cost", "price", "better offer", "competitor",
		"cashback", "jewels", "fees", "documents", "security",
	}

	positiveKeywords = []string{
		"thanks", "thank you", "helpful", "great", "good",
		"understand", "makes sense", "okay", "ok", "sure", "yes",
	}

	completionKeywords = []string{
		"continue", "proceed", "complete", "finish", "submit",
		"go ahead", "next step", "ready", "let's do it", "apply",
	}

	escalationKeywords = []string{"human", "agent", "person"}

	optOutKeywords = []string{"stop", "unsubscribe", "don't contact"}
)

// AdvanceState applies one user turn to the conversation's dialogue state.
// The primary transition depends on the current state and keyword signals in
// the message; escalation and opt-out checks run afterwards and override it.
// A message with no matching keyword leaves the state unchanged.
func AdvanceState(conv *Conversation, userMessage string) {
	msg := strings.ToLower(userMessage)

	if !conv.State.Terminal() {
		switch conv.State {
		case StateWaitingForReply:
			if containsAny(msg, objectionKeywords) {
				conv.State = StateObjectionIdentified
			} else {
				conv.State = StateGuiding
			}
		case StateGuiding, StateObjectionIdentified:
			if containsAny(msg, positiveKeywords) {
				conv.State = StateObjectionAddressed
			}
		case StateObjectionAddressed:
			if containsAny(msg, completionKeywords) {
				finish(conv, StateCompleted, OutcomeCompleted)
			}
		}
	}

	if containsAny(msg, escalationKeywords) {
		finish(conv, StateEscalated, OutcomeEscalated)
	}
	if containsAny(msg, optOutKeywords) {
		finish(conv, StateOptedOut, OutcomeOptedOut)
	}
}

func finish(conv *Conversation, state AgentState, outcome Outcome) {
	conv.State = state
	conv.Outcome = outcome
	now := time.Now().UTC()
	conv.EndTime = &now
}

// Finish ends a conversation with an explicit outcome, setting the matching
// terminal state and end time.
func Finish(conv *Conversation, outcome Outcome) {
	switch outcome {
	case OutcomeCompleted:
		finish(conv, StateCompleted, OutcomeCompleted)
	case OutcomeEscalated:
		finish(conv, StateEscalated, OutcomeEscalated)
	case OutcomeOptedOut:
		finish(conv, StateOptedOut, OutcomeOptedOut)
	default:
		finish(conv, StateOptedOut, OutcomeAbandoned)
	}
}
