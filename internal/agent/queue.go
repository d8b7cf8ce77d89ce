package agent

import (
	"context"
	"encoding/json"
	"fmt"
)

// queueClient abstracts the job transport so the dispatcher can run against
// AWS SQS in production and an in-memory channel in development and tests.
type queueClient interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]queueMessage, error)
	Delete(ctx context.Context, receiptHandle string) error
}

type queueMessage struct {
	ID            string
	Body          string
	ReceiptHandle string
}

// MessageRequest is one inbound user turn routed through the queue.
type MessageRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type jobType string

const (
	jobTypeStart   jobType = "start"
	jobTypeMessage jobType = "message"
)

// queuePayload is the job envelope. Exactly one of Start or Message is set,
// selected by Kind.
type queuePayload struct {
	ID      string         `json:"id"`
	Kind    jobType        `json:"kind"`
	Start   StartEvent     `json:"start,omitempty"`
	Message MessageRequest `json:"message,omitempty"`
}

func encodeJob(id string, kind jobType, start StartEvent, message MessageRequest) (string, error) {
	body, err := json.Marshal(queuePayload{ID: id, Kind: kind, Start: start, Message: message})
	if err != nil {
		return "", fmt.Errorf("agent: encode queue job: %w", err)
	}
	return string(body), nil
}
