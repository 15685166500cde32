package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/geulda/go-tour-recommendations/internal/types"
)

const (
	sessionKeyPrefix = "ai:session:"
	sessionTTL       = 30 * time.Minute
)

// SessionStore keeps recommendation results addressable for a short window so
// the client can re-fetch a course it was just handed.
type SessionStore interface {
	Save(ctx context.Context, record types.SessionRecord) (string, error)
	Get(ctx context.Context, sessionID string) (types.SessionRecord, error)
}

type RedisSessionStore struct {
	client *redis.Client
	logger *slog.Logger
}

var _ SessionStore = (*RedisSessionStore)(nil)

func NewRedisSessionStore(client *redis.Client, logger *slog.Logger) *RedisSessionStore {
	return &RedisSessionStore{client: client, logger: logger}
}

func (s *RedisSessionStore) Save(ctx context.Context, record types.SessionRecord) (string, error) {
	sessionID := uuid.NewString()
	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal session record: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, payload, sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("store session %s: %w", sessionID, err)
	}
	s.logger.DebugContext(ctx, "session stored",
		slog.String("session_id", sessionID), slog.Duration("ttl", sessionTTL))
	return sessionID, nil
}

// Get treats a corrupt payload the same as an expired one: the broken key is
// deleted and the caller sees not-found.
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (types.SessionRecord, error) {
	key := sessionKeyPrefix + sessionID
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return types.SessionRecord{}, types.ErrSessionNotFound
		}
		return types.SessionRecord{}, fmt.Errorf("fetch session %s: %w", sessionID, err)
	}

	var record types.SessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		s.logger.WarnContext(ctx, "deleting corrupt session payload",
			slog.String("session_id", sessionID), slog.Any("error", err))
		if delErr := s.client.Del(ctx, key).Err(); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to delete corrupt session",
				slog.String("session_id", sessionID), slog.Any("error", delErr))
		}
		return types.SessionRecord{}, types.ErrSessionNotFound
	}
	return record, nil
}
