package metrics

import "github.com/prometheus/client_golang/prometheus"

// AgentMetrics exposes counters/histograms for the conversation engine.
type AgentMetrics struct {
	conversationsStarted prometheus.Counter
	messagesTotal        *prometheus.CounterVec
	offersShown          prometheus.Counter
	outcomesTotal        *prometheus.CounterVec
	responseLatency      prometheus.Histogram
}

func NewAgentMetrics(reg prometheus.Registerer) *AgentMetrics {
	m := &AgentMetrics{
		conversationsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "edge_agent",
			Subsystem: "conversation",
			Name:      "started_total",
			Help:      "Total conversations started",
		}),
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edge_agent",
			Subsystem: "conversation",
			Name:      "messages_total",
			Help:      "Total user messages processed",
		}, []string{"intent", "language"}),
		offersShown: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "edge_agent",
			Subsystem: "conversation",
			Name:      "offers_shown_total",
			Help:      "Total urgency offers shown",
		}),
		outcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edge_agent",
			Subsystem: "conversation",
			Name:      "outcomes_total",
			Help:      "Total conversations reaching a terminal outcome",
		}, []string{"outcome"}),
		responseLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "edge_agent",
			Subsystem: "conversation",
			Name:      "response_latency_seconds",
			Help:      "Latency of producing a reply to one user message",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.conversationsStarted, m.messagesTotal, m.offersShown, m.outcomesTotal, m.responseLatency)
	return m
}

func (m *AgentMetrics) ObserveConversationStarted() {
	if m == nil {
		return
	}
	m.conversationsStarted.Inc()
}

func (m *AgentMetrics) ObserveMessage(intent, language string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(intent, language).Inc()
}

func (m *AgentMetrics) ObserveOfferShown() {
	if m == nil {
		return
	}
	m.offersShown.Inc()
}

func (m *AgentMetrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomesTotal.WithLabelValues(outcome).Inc()
}

func (m *AgentMetrics) ObserveResponseLatency(seconds float64) {
	if m == nil {
		return
	}
	m.responseLatency.Observe(seconds)
}
