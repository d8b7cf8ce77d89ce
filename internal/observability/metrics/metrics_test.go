package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAgentMetricsRegisterAndObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAgentMetrics(reg)

	m.ObserveConversationStarted()
	m.ObserveMessage("FEES", "ENGLISH")
	m.ObserveOfferShown()
	m.ObserveOutcome("completed")
	m.ObserveResponseLatency(0.25)

	if got := testutil.ToFloat64(m.conversationsStarted); got != 1 {
		t.Errorf("started = %f, want 1", got)
	}
	if got := testutil.ToFloat64(m.messagesTotal.WithLabelValues("FEES", "ENGLISH")); got != 1 {
		t.Errorf("messages = %f, want 1", got)
	}
	if got := testutil.ToFloat64(m.outcomesTotal.WithLabelValues("completed")); got != 1 {
		t.Errorf("outcomes = %f, want 1", got)
	}

	count, err := testutil.GatherAndCount(reg,
		"edge_agent_conversation_started_total",
		"edge_agent_conversation_messages_total",
		"edge_agent_conversation_offers_shown_total",
		"edge_agent_conversation_outcomes_total",
		"edge_agent_conversation_response_latency_seconds",
	)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count == 0 {
		t.Error("expected metrics to be gathered")
	}
}

func TestAgentMetricsNilSafe(t *testing.T) {
	var m *AgentMetrics
	m.ObserveConversationStarted()
	m.ObserveMessage("FEES", "ENGLISH")
	m.ObserveOfferShown()
	m.ObserveOutcome("completed")
	m.ObserveResponseLatency(1)
}

func TestAgentMetricsHelpStrings(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewAgentMetrics(reg)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "edge_agent_conversation_") {
			t.Errorf("unexpected metric %q", mf.GetName())
		}
	}
}
