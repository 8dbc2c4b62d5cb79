package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"iq-quiz-service/internal/domain"
)

// ResultStore keeps one result record per key as a plain Redis string:
//
//	SET quiz:result:{key} {json} [EX ttl]
//
// A zero ttl keeps records until they are deleted, like browser storage.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
}

func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

func (s *ResultStore) Get(ctx context.Context, key string) (string, error) {
	// Concurrent loads of the same result page share one round trip.
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		value, err := s.client.Get(ctx, s.redisKey(key)).Result()
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrRecordNotFound
		}
		if err != nil {
			return "", fmt.Errorf("get result: %w", err)
		}
		return value, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (s *ResultStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.redisKey(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("set result: %w", err)
	}
	return nil
}

func (s *ResultStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}

func (s *ResultStore) redisKey(key string) string {
	return "quiz:result:" + key
}
