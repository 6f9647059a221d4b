package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session histories in Redis so multiple instances share
// them. Each session is one JSON value with a TTL refreshed on write.
type RedisStore struct {
	rdb *redis.Client
}

var _ Store = &RedisStore{}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func sessionKey(sessionID string) string {
	return "chat:history:" + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) ([]Message, error) {
	rec, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return rec.Messages, nil
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, userMsg, assistantMsg Message) error {
	rec, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	rec.Messages = appendTrimmed(rec.Messages, userMsg, assistantMsg)
	return s.save(ctx, sessionID, rec)
}

func (s *RedisStore) Reset(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to reset session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisStore) BindThread(ctx context.Context, sessionID, threadID string) error {
	rec, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	rec.ThreadID = threadID
	return s.save(ctx, sessionID, rec)
}

func (s *RedisStore) ThreadID(ctx context.Context, sessionID string) (string, error) {
	rec, err := s.load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return rec.ThreadID, nil
}

func (s *RedisStore) load(ctx context.Context, sessionID string) (*record, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		// Corrupt entry: treat as expired rather than poisoning the session.
		return &record{}, nil
	}
	return &rec, nil
}

func (s *RedisStore) save(ctx context.Context, sessionID string, rec *record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", sessionID, err)
	}
	if err := s.rdb.Set(ctx, sessionKey(sessionID), raw, SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}
