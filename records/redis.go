package records

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each user's records in one hash, keyed
// "schedules:<user>" with the record id as the field name.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func userKey(userID string) string {
	return "schedules:" + userID
}

func (r *RedisStore) Save(ctx context.Context, rec *Record) error {
	fillDefaults(rec)
	data, err := sonic.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := r.client.HSet(ctx, userKey(rec.UserID), rec.ID, data).Err(); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, userID, id string) (*Record, error) {
	data, err := r.client.HGet(ctx, userKey(userID), id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load record: %w", err)
	}
	var rec Record
	if err := sonic.UnmarshalString(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}

func (r *RedisStore) List(ctx context.Context, userID string) ([]*Record, error) {
	rows, err := r.client.HGetAll(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := make([]*Record, 0, len(rows))
	for id, data := range rows {
		var rec Record
		if err := sonic.UnmarshalString(data, &rec); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", id, err)
		}
		out = append(out, &rec)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *RedisStore) Delete(ctx context.Context, userID, id string) error {
	removed, err := r.client.HDel(ctx, userKey(userID), id).Result()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}
