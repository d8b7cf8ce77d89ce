package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const offerConfigKey = "offer_config"

// OfferConfigStore persists the admin-managed offer configuration in Redis so
// updates survive restarts and reach every process sharing the instance.
type OfferConfigStore struct {
	redis *redis.Client
}

func NewOfferConfigStore(client *redis.Client) *OfferConfigStore {
	if client == nil {
		panic("agent: redis client cannot be nil")
	}
	return &OfferConfigStore{redis: client}
}

// Load returns the stored configuration, or (nil, nil) when none was saved.
func (s *OfferConfigStore) Load(ctx context.Context) (*OfferConfig, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	data, err := s.redis.Get(ctx, offerConfigKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("agent: load offer config: %w", err)
	}

	var cfg OfferConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("agent: decode offer config: %w", err)
	}
	return &cfg, nil
}

// Save persists the configuration with no expiry.
func (s *OfferConfigStore) Save(ctx context.Context, cfg OfferConfig) error {
	if s == nil || s.redis == nil {
		return nil
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("agent: marshal offer config: %w", err)
	}
	if err := s.redis.Set(ctx, offerConfigKey, data, 0).Err(); err != nil {
		return fmt.Errorf("agent: persist offer config: %w", err)
	}
	return nil
}
