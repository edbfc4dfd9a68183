package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"caseflow/pkg/requestcontext"
)

const redisKeyPrefix = "caseflow:ledger:"

// RedisStore keeps the ledger as persistent Redis keys. SETNX without an
// expiry gives the insert-if-absent semantics.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) RecordIfUnique(ctx context.Context, userID, caseUUID, statusUUID uuid.UUID) (bool, error) {
	key := Key{UserID: userID, CaseUUID: caseUUID, StatusUUID: statusUUID}
	if err := key.validate(); err != nil {
		return false, err
	}
	recordedAt := requestcontext.Now(ctx).UTC().Format(time.RFC3339Nano)
	created, err := s.client.SetNX(ctx, redisKeyPrefix+key.String(), recordedAt, 0).Result()
	if err != nil {
		return false, fmt.Errorf("record notification: %w", err)
	}
	return created, nil
}
