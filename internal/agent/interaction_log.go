package agent

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jupitermoney/edge-agent/pkg/logging"
)

// InteractionRecord is the per-turn analytics row emitted after every reply.
type InteractionRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	MessageNumber  int       `json:"message_number"`
	UserMessage    string    `json:"user_message"`
	Intent         Intent    `json:"intent"`
	AgentResponse  string    `json:"agent_response"`
	State          AgentState `json:"state"`
	Language       Language  `json:"language"`
	FomoTriggered  bool      `json:"fomo_triggered"`
	ResponseTimeMs int64     `json:"response_time_ms"`
}

// InteractionSink receives interaction records, e.g. a Postgres table.
type InteractionSink interface {
	WriteInteraction(ctx context.Context, rec InteractionRecord) error
}

// InteractionLogger buffers records on a bounded channel and writes them from
// a single background worker. Logging never blocks or fails the response
// path: when the buffer is full the record is dropped and counted.
type InteractionLogger struct {
	sink   InteractionSink
	logger *logging.Logger

	ch      chan InteractionRecord
	dropped uint64
	mu      sync.Mutex

	wg        sync.WaitGroup
	cancel    context.CancelFunc
	closeOnce sync.Once
	closed    atomic.Bool
}

// NewInteractionLogger starts the background writer. buffer bounds how many
// records may be queued before new ones are dropped.
func NewInteractionLogger(sink InteractionSink, buffer int, logger *logging.Logger) *InteractionLogger {
	if sink == nil {
		panic("agent: interaction sink cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if buffer <= 0 {
		buffer = 256
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &InteractionLogger{
		sink:   sink,
		logger: logger,
		ch:     make(chan InteractionRecord, buffer),
		cancel: cancel,
	}

	l.wg.Add(1)
	go l.run(ctx)
	return l
}

// Record enqueues an interaction record, dropping it when the buffer is full.
func (l *InteractionLogger) Record(rec InteractionRecord) {
	if l.closed.Load() {
		return
	}
	select {
	case l.ch <- rec:
	default:
		l.mu.Lock()
		l.dropped++
		dropped := l.dropped
		l.mu.Unlock()
		l.logger.Warn("interaction log buffer full, record dropped",
			"conversation_id", rec.ConversationID,
			"dropped_total", dropped,
		)
	}
}

// Dropped reports how many records were discarded due to a full buffer.
func (l *InteractionLogger) Dropped() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Close drains the buffer and stops the worker. Safe to call more than once.
func (l *InteractionLogger) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.ch)
		l.wg.Wait()
		l.cancel()
	})
}

func (l *InteractionLogger) run(ctx context.Context) {
	defer l.wg.Done()

	for rec := range l.ch {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := l.sink.WriteInteraction(writeCtx, rec); err != nil {
			l.logger.Warn("interaction write failed",
				"conversation_id", rec.ConversationID,
				"error", err.Error(),
			)
		}
		cancel()
	}
}
