package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jimezsa/jobmatch/internal/models"
)

const (
	DefaultCapacity = 64
	DefaultTTL      = time.Hour
)

// Memory is a bounded LRU with per-entry expiry.
type Memory struct {
	lru *expirable.LRU[string, []models.Job]
}

// NewMemory returns an LRU holding at most capacity results, each for at most ttl.
// A non-positive ttl keeps entries until they are evicted by capacity.
func NewMemory(capacity int, ttl time.Duration) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{lru: expirable.NewLRU[string, []models.Job](capacity, nil, ttl)}
}

func (m *Memory) Get(_ context.Context, key string) ([]models.Job, bool) {
	jobs, ok := m.lru.Get(key)
	if !ok {
		return nil, false
	}
	return models.CloneJobs(jobs), true
}

func (m *Memory) Set(_ context.Context, key string, jobs []models.Job) error {
	m.lru.Add(key, models.CloneJobs(jobs))
	return nil
}

// Len returns the number of entries currently held.
func (m *Memory) Len() int {
	return m.lru.Len()
}
