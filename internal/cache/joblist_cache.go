package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"applytrack/internal/model"
)

// JobListCache keeps each user's full application list in Redis. A short
// dirty marker set on every mutation keeps a concurrent reader from
// repopulating the cache with a list it fetched before the write landed.
type JobListCache struct {
	client         *redisv9.Client
	listTTL        time.Duration
	dirtyMarkerTTL time.Duration
}

func NewJobListCache(client *redisv9.Client, listTTL, dirtyMarkerTTL time.Duration) *JobListCache {
	if listTTL <= 0 {
		listTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &JobListCache{
		client:         client,
		listTTL:        listTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *JobListCache) GetList(ctx context.Context, userID uint) ([]model.JobApplication, bool, error) {
	raw, err := c.client.Get(ctx, c.listKey(userID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get job list failed: %w", err)
	}

	var jobs []model.JobApplication
	if err := json.Unmarshal([]byte(raw), &jobs); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached job list failed: %w", err)
	}
	return jobs, true, nil
}

func (c *JobListCache) SetList(ctx context.Context, userID uint, jobs []model.JobApplication) error {
	payload, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("marshal job list failed: %w", err)
	}
	if err := c.client.Set(ctx, c.listKey(userID), payload, c.listTTL).Err(); err != nil {
		return fmt.Errorf("redis set job list failed: %w", err)
	}
	return nil
}

func (c *JobListCache) Invalidate(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, c.listKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete job list failed: %w", err)
	}
	return nil
}

func (c *JobListCache) MarkDirty(ctx context.Context, userID uint) error {
	if err := c.client.Set(ctx, c.dirtyKey(userID), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *JobListCache) IsDirty(ctx context.Context, userID uint) (bool, error) {
	_, err := c.client.Get(ctx, c.dirtyKey(userID)).Result()
	if err == redisv9.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get dirty marker failed: %w", err)
	}
	return true, nil
}

func (c *JobListCache) listKey(userID uint) string {
	return fmt.Sprintf("jobs:user:%d", userID)
}

func (c *JobListCache) dirtyKey(userID uint) string {
	return fmt.Sprintf("jobs:user:%d:dirty", userID)
}
