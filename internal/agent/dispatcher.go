package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jupitermoney/edge-agent/pkg/logging"
)

// Dispatcher exposes the queue-backed entrypoints used by HTTP handlers and
// the standalone worker.
type Dispatcher interface {
	StartConversation(ctx context.Context, event StartEvent) (*Reply, error)
	ProcessMessage(ctx context.Context, req MessageRequest) (*Reply, error)
	Shutdown(ctx context.Context) error
}

// ErrDispatcherClosed indicates the dispatcher is no longer accepting work.
var ErrDispatcherClosed = errors.New("agent: dispatcher closed")

const (
	defaultWorkers     = 2
	defaultReceiveWait = 2
	defaultReceiveMax  = 5
	maxReceiveWait     = 20 // SQS limit
	maxReceiveBatch    = 10 // SQS limit
)

type dispatcherConfig struct {
	workers     int
	receiveWait int
	receiveMax  int
}

// DispatcherOption configures the queue dispatcher.
type DispatcherOption func(*dispatcherConfig)

// WithWorkerCount overrides the number of queue polling goroutines.
func WithWorkerCount(n int) DispatcherOption {
	return func(cfg *dispatcherConfig) {
		if n > 0 {
			cfg.workers = n
		}
	}
}

// WithReceiveWaitSeconds sets the long-poll wait for each Receive call.
func WithReceiveWaitSeconds(seconds int) DispatcherOption {
	return func(cfg *dispatcherConfig) {
		if seconds < 0 {
			return
		}
		if seconds > maxReceiveWait {
			seconds = maxReceiveWait
		}
		cfg.receiveWait = seconds
	}
}

// WithReceiveBatchSize overrides how many jobs each poll may return.
func WithReceiveBatchSize(n int) DispatcherOption {
	return func(cfg *dispatcherConfig) {
		if n <= 0 {
			return
		}
		if n > maxReceiveBatch {
			n = maxReceiveBatch
		}
		cfg.receiveMax = n
	}
}

type dispatchResult struct {
	reply *Reply
	err   error
}

// QueueDispatcher routes conversation work through a queue before invoking
// the engine. With the in-memory queue the API process consumes its own jobs;
// with SQS the same consumer loop runs in the dedicated worker binary, which
// processes funnel drop-off events with no caller waiting for the reply.
type QueueDispatcher struct {
	engine *Engine
	queue  queueClient
	logger *logging.Logger
	cfg    dispatcherConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[string]chan dispatchResult
	closed  bool
}

var _ Dispatcher = (*QueueDispatcher)(nil)

func NewQueueDispatcher(engine *Engine, queue queueClient, logger *logging.Logger, opts ...DispatcherOption) *QueueDispatcher {
	if engine == nil {
		panic("agent: engine cannot be nil")
	}
	if queue == nil {
		panic("agent: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	cfg := dispatcherConfig{
		workers:     defaultWorkers,
		receiveWait: defaultReceiveWait,
		receiveMax:  defaultReceiveMax,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &QueueDispatcher{
		engine:  engine,
		queue:   queue,
		logger:  logger,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[string]chan dispatchResult),
	}

	for i := 0; i < cfg.workers; i++ {
		d.wg.Add(1)
		go d.consume(i + 1)
	}
	return d
}

// StartConversation enqueues a drop-off event and blocks until the engine
// has produced the outreach message.
func (d *QueueDispatcher) StartConversation(ctx context.Context, event StartEvent) (*Reply, error) {
	return d.dispatch(ctx, jobTypeStart, event, MessageRequest{})
}

// ProcessMessage enqueues one user turn and returns the agent's reply.
func (d *QueueDispatcher) ProcessMessage(ctx context.Context, req MessageRequest) (*Reply, error) {
	return d.dispatch(ctx, jobTypeMessage, StartEvent{}, req)
}

// Shutdown stops the consumers and fails any callers still waiting.
func (d *QueueDispatcher) Shutdown(ctx context.Context) error {
	d.cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}

	d.mu.Lock()
	d.closed = true
	for id, ch := range d.pending {
		select {
		case ch <- dispatchResult{err: ErrDispatcherClosed}:
		default:
		}
		delete(d.pending, id)
	}
	d.mu.Unlock()
	return nil
}

func (d *QueueDispatcher) dispatch(ctx context.Context, kind jobType, event StartEvent, req MessageRequest) (*Reply, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	jobID := uuid.NewString()
	body, err := encodeJob(jobID, kind, event, req)
	if err != nil {
		return nil, err
	}

	resultCh := make(chan dispatchResult, 1)
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrDispatcherClosed
	}
	d.pending[jobID] = resultCh
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.pending, jobID)
		d.mu.Unlock()
	}()

	if err := d.queue.Send(ctx, body); err != nil {
		return nil, fmt.Errorf("agent: enqueue job: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultCh:
		return res.reply, res.err
	}
}

func (d *QueueDispatcher) consume(workerID int) {
	defer d.wg.Done()
	d.logger.Debug("dispatcher worker started", "worker_id", workerID)

	backoff := time.Second
	for {
		select {
		case <-d.ctx.Done():
			d.logger.Debug("dispatcher worker stopping", "worker_id", workerID)
			return
		default:
		}

		messages, err := d.queue.Receive(d.ctx, d.cfg.receiveMax, d.cfg.receiveWait)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			d.logger.Error("receive jobs failed", "error", err.Error(), "worker_id", workerID)
			time.Sleep(backoff)
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, msg := range messages {
			d.handle(msg)
		}
	}
}

func (d *QueueDispatcher) handle(msg queueMessage) {
	var payload queuePayload
	if err := json.Unmarshal([]byte(msg.Body), &payload); err != nil {
		d.logger.Error("decode job failed", "error", err.Error())
		d.deleteMessage(msg.ReceiptHandle)
		return
	}

	var (
		reply *Reply
		err   error
	)
	switch payload.Kind {
	case jobTypeStart:
		reply, err = d.engine.StartConversation(d.ctx, payload.Start)
	case jobTypeMessage:
		reply, err = d.engine.ProcessMessage(d.ctx, payload.Message.UserID, payload.Message.Message)
	default:
		err = fmt.Errorf("agent: unknown job type %q", payload.Kind)
	}

	d.deleteMessage(msg.ReceiptHandle)
	d.deliver(payload.ID, reply, err)
}

func (d *QueueDispatcher) deleteMessage(receiptHandle string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.queue.Delete(ctx, receiptHandle); err != nil {
		d.logger.Error("delete job failed", "error", err.Error())
	}
}

func (d *QueueDispatcher) deliver(jobID string, reply *Reply, err error) {
	d.mu.Lock()
	ch, ok := d.pending[jobID]
	d.mu.Unlock()
	if !ok {
		// Fire-and-forget job from another process, e.g. a funnel drop-off
		// event consumed by the worker binary.
		d.logger.Debug("no waiting caller for job", "job_id", jobID)
		return
	}
	select {
	case ch <- dispatchResult{reply: reply, err: err}:
	default:
	}
}
