package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"talkbill/internal/domain/model"
)

// TurnCache keeps each session's recent conversation window hot so the
// batch does not re-query history for every turn. Entries are invalidated
// on every write-back; a miss always falls through to the database.
type TurnCache struct {
	client Client
	ttl    time.Duration
}

func NewTurnCache(client Client, ttl time.Duration) *TurnCache {
	return &TurnCache{client: client, ttl: ttl}
}

func turnKey(sessionID string) string { return "session_turns:" + sessionID }

func (c *TurnCache) StoreTurns(ctx context.Context, sessionID string, turns []model.ConversationTurn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, turnKey(sessionID), data, c.ttl)
}

// GetTurns returns the cached window and whether it was present. Cache
// errors are reported as a miss so the caller falls back to the store.
func (c *TurnCache) GetTurns(ctx context.Context, sessionID string) ([]model.ConversationTurn, bool) {
	data, err := c.client.Get(ctx, turnKey(sessionID))
	if err != nil {
		return nil, false
	}
	var turns []model.ConversationTurn
	if err := json.Unmarshal([]byte(data), &turns); err != nil {
		return nil, false
	}
	return turns, true
}

func (c *TurnCache) Invalidate(ctx context.Context, sessionID string) error {
	err := c.client.Del(ctx, turnKey(sessionID))
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
