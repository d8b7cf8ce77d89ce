package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotTTL = 24 * time.Hour

// SnapshotStore persists conversation snapshots to Redis so a restarted
// process can resume in-flight conversations.
type SnapshotStore struct {
	redis *redis.Client
}

// NewSnapshotStore wraps a Redis client.
func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	if client == nil {
		panic("agent: redis client cannot be nil")
	}
	return &SnapshotStore{redis: client}
}

// Save persists the conversation keyed by user id, refreshing the TTL.
func (s *SnapshotStore) Save(ctx context.Context, conv *Conversation) error {
	if s == nil || s.redis == nil {
		return nil
	}
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("agent: marshal conversation snapshot: %w", err)
	}
	if err := s.redis.Set(ctx, snapshotKey(conv.UserID), data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("agent: persist conversation snapshot: %w", err)
	}
	return nil
}

// Load restores a conversation snapshot. Returns (nil, nil) when no snapshot
// exists.
func (s *SnapshotStore) Load(ctx context.Context, userID string) (*Conversation, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	data, err := s.redis.Get(ctx, snapshotKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("agent: load conversation snapshot: %w", err)
	}

	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("agent: decode conversation snapshot: %w", err)
	}
	return &conv, nil
}

// Delete removes a snapshot, e.g. when a conversation is explicitly reset.
func (s *SnapshotStore) Delete(ctx context.Context, userID string) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if err := s.redis.Del(ctx, snapshotKey(userID)).Err(); err != nil {
		return fmt.Errorf("agent: delete conversation snapshot: %w", err)
	}
	return nil
}

func snapshotKey(userID string) string {
	return fmt.Sprintf("conversation:%s", userID)
}
