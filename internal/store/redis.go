package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"alfredoptarigan/resume-predictor/internal/models"
)

const redisKeyPrefix = "analysisResult:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects and pings; the web app falls back to memory when this fails.
func NewRedisStore(ctx context.Context, addr, password string, ttl time.Duration) (AnalysisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return &redisStore{client: client, ttl: ttl}, nil
}

func (r *redisStore) Save(ctx context.Context, sessionID string, result *models.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+sessionID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *redisStore) Load(ctx context.Context, sessionID string) (*models.AnalysisResult, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoAnalysis
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decode(data)
}

func (r *redisStore) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
