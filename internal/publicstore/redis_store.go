// Package publicstore keeps the short-lived state of the public case-status lookup:
// pending OTP hashes, their attempt counters and issued access grants.
package publicstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"noise-sentinel/internal/model"
)

const (
	otpKeyPrefix      = "noisesentinel:otp:"
	attemptsKeyPrefix = "noisesentinel:otp-attempts:"
	grantKeyPrefix    = "noisesentinel:access:"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// SaveOTP replaces any pending code for the key and resets its attempt counter.
func (s *RedisStore) SaveOTP(ctx context.Context, key string, record model.OTPRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, otpKeyPrefix+key, data, ttl)
		pipe.Del(ctx, attemptsKeyPrefix+key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save otp: %w", err)
	}
	return nil
}

func (s *RedisStore) GetOTP(ctx context.Context, key string) (*model.OTPRecord, error) {
	var record model.OTPRecord
	found, err := s.getJSON(ctx, otpKeyPrefix+key, &record)
	if err != nil || !found {
		return nil, err
	}
	return &record, nil
}

func (s *RedisStore) IncrementAttempts(ctx context.Context, key string, ttl time.Duration) (int, error) {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, attemptsKeyPrefix+key)
		pipe.Expire(ctx, attemptsKeyPrefix+key, ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count otp attempt: %w", err)
	}
	return int(incr.Val()), nil
}

func (s *RedisStore) DeleteOTP(ctx context.Context, key string) error {
	return s.client.Del(ctx, otpKeyPrefix+key, attemptsKeyPrefix+key).Err()
}

func (s *RedisStore) SaveGrant(ctx context.Context, tokenHash string, grant model.AccessGrant, ttl time.Duration) error {
	data, err := json.Marshal(grant)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, grantKeyPrefix+tokenHash, data, ttl).Err()
}

func (s *RedisStore) GetGrant(ctx context.Context, tokenHash string) (*model.AccessGrant, error) {
	var grant model.AccessGrant
	found, err := s.getJSON(ctx, grantKeyPrefix+tokenHash, &grant)
	if err != nil || !found {
		return nil, err
	}
	return &grant, nil
}

func (s *RedisStore) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
