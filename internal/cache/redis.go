package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/redis/go-redis/v9"
)

// Redis stores results in a Redis server so they survive between CLI runs.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to redisURL (redis://host:6379/0) and verifies it with a ping.
func NewRedis(redisURL string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]models.Job, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	jobs, err := decodeJobs(data)
	if err != nil {
		return nil, false
	}
	return jobs, true
}

func (r *Redis) Set(ctx context.Context, key string, jobs []models.Job) error {
	data, err := encodeJobs(jobs)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func encodeJobs(jobs []models.Job) ([]byte, error) {
	data, err := json.Marshal(models.CloneJobs(jobs))
	if err != nil {
		return nil, fmt.Errorf("cache: marshal error: %w", err)
	}
	return data, nil
}

func decodeJobs(data []byte) ([]models.Job, error) {
	var jobs []models.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("cache: unmarshal error: %w", err)
	}
	return models.CloneJobs(jobs), nil
}
