package agent

import (
	"testing"
	"time"
)

func newTestConversation(state AgentState) *Conversation {
	return &Conversation{
		UserID:         "user-1",
		ConversationID: "conv_test",
		State:          state,
		Outcome:        OutcomePending,
		StartTime:      time.Now().UTC(),
	}
}

func TestAdvanceStateFromWaiting(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    AgentState
	}{
		{"objection signal", "I'm worried about the fees", StateObjectionIdentified},
		{"no objection signal", "tell me more", StateGuiding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := newTestConversation(StateWaitingForReply)
			AdvanceState(conv, tt.message)
			if conv.State != tt.want {
				t.Errorf("state = %s, want %s", conv.State, tt.want)
			}
		})
	}
}

func TestAdvanceStateObjectionFlow(t *testing.T) {
	conv := newTestConversation(StateObjectionIdentified)
	AdvanceState(conv, "that makes sense, helpful")
	if conv.State != StateObjectionAddressed {
		t.Fatalf("state = %s, want %s", conv.State, StateObjectionAddressed)
	}

	AdvanceState(conv, "let's proceed")
	if conv.State != StateCompleted {
		t.Fatalf("state = %s, want %s", conv.State, StateCompleted)
	}
	if conv.Outcome != OutcomeCompleted {
		t.Errorf("outcome = %s, want %s", conv.Outcome, OutcomeCompleted)
	}
	if conv.EndTime == nil {
		t.Error("end time should be set on completion")
	}
}

func TestAdvanceStateStaysWithoutSignal(t *testing.T) {
	conv := newTestConversation(StateGuiding)
	AdvanceState(conv, "hmm interesting")
	if conv.State != StateGuiding {
		t.Errorf("state = %s, want unchanged %s", conv.State, StateGuiding)
	}
	if conv.EndTime != nil {
		t.Error("end time must stay unset for non-terminal state")
	}
}

func TestAdvanceStateEscalationOverrides(t *testing.T) {
	for _, state := range []AgentState{StateWaitingForReply, StateGuiding, StateObjectionAddressed} {
		conv := newTestConversation(state)
		AdvanceState(conv, "I want to talk to a human")
		if conv.State != StateEscalated {
			t.Errorf("from %s: state = %s, want %s", state, conv.State, StateEscalated)
		}
		if conv.Outcome != OutcomeEscalated {
			t.Errorf("from %s: outcome = %s, want %s", state, conv.Outcome, OutcomeEscalated)
		}
		if conv.EndTime == nil {
			t.Errorf("from %s: end time should be set", state)
		}
	}
}

func TestAdvanceStateOptOutOverrides(t *testing.T) {
	conv := newTestConversation(StateWaitingForReply)
	AdvanceState(conv, "stop contacting me")
	if conv.State != StateOptedOut {
		t.Fatalf("state = %s, want %s", conv.State, StateOptedOut)
	}
	if conv.Outcome != OutcomeOptedOut {
		t.Errorf("outcome = %s, want %s", conv.Outcome, OutcomeOptedOut)
	}
	if conv.EndTime == nil {
		t.Error("end time should be set on opt-out")
	}
}

func TestTerminalStateNeverRevertsToGuiding(t *testing.T) {
	conv := newTestConversation(StateCompleted)
	conv.Outcome = OutcomeCompleted
	AdvanceState(conv, "tell me more")
	if conv.State != StateCompleted {
		t.Errorf("terminal state reverted to %s", conv.State)
	}
}

func TestFinishMapsOutcomeToState(t *testing.T) {
	tests := []struct {
		outcome   Outcome
		wantState AgentState
	}{
		{OutcomeCompleted, StateCompleted},
		{OutcomeEscalated, StateEscalated},
		{OutcomeOptedOut, StateOptedOut},
		{OutcomeAbandoned, StateOptedOut},
	}

	for _, tt := range tests {
		conv := newTestConversation(StateGuiding)
		Finish(conv, tt.outcome)
		if conv.State != tt.wantState {
			t.Errorf("Finish(%s): state = %s, want %s", tt.outcome, conv.State, tt.wantState)
		}
		if conv.EndTime == nil {
			t.Errorf("Finish(%s): end time should be set", tt.outcome)
		}
	}
}
