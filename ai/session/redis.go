package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 3 * time.Second

type redisStore struct {
	client   *redis.Client
	maxTurns int
}

func newRedisStore(ctx context.Context, redisURL string, maxTurns int) (*redisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &redisStore{client: client, maxTurns: maxTurns}, nil
}

func (s *redisStore) key(userID string) string {
	return "dream:ctx:" + userID
}

func (s *redisStore) Read(ctx context.Context, userID string) []Turn {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	raw, err := s.client.LRange(ctx, s.key(userID), 0, int64(s.maxTurns-1)).Result()
	if err != nil {
		slog.Warn("session: redis read failed", "user", userID, "error", err)
		return nil
	}
	turns := make([]Turn, 0, len(raw))
	for _, item := range raw {
		var turn Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			slog.Warn("session: skipping malformed turn", "user", userID, "error", err)
			continue
		}
		turns = append(turns, turn)
	}
	return turns
}

func (s *redisStore) Append(ctx context.Context, userID, userText, botText string) {
	entry, err := json.Marshal(Turn{User: userText, Bot: botText})
	if err != nil {
		slog.Warn("session: marshal turn failed", "user", userID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	// Push and trim in one pipeline so the bound holds even under
	// concurrent appends for the same user.
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key(userID), entry)
	pipe.LTrim(ctx, s.key(userID), 0, int64(s.maxTurns-1))
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("session: redis append failed", "user", userID, "error", err)
	}
}

func (s *redisStore) Clear(ctx context.Context, userID string) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		slog.Warn("session: redis clear failed", "user", userID, "error", err)
	}
}
