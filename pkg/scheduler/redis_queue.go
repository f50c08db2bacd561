package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the sorted set RedisQueue uses.
const DefaultRedisKey = "eventboard:jobs"

// RedisQueue keeps jobs in a sorted set scored by run time in milliseconds.
// A job is claimed by whichever worker removes it from the set first.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue returns a queue on the sorted set key (DefaultRedisKey if empty).
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisQueue{client: client, key: key}
}

// Schedule implements Queue.
func (q *RedisQueue) Schedule(ctx context.Context, name string, payload []byte, runAt time.Time) (Job, error) {
	job := newJob(name, payload, runAt)
	member, err := json.Marshal(job)
	if err != nil {
		return Job{}, fmt.Errorf("encode job: %w", err)
	}
	z := redis.Z{Score: float64(job.RunAt.UnixMilli()), Member: string(member)}
	if err := q.client.ZAdd(ctx, q.key, z).Err(); err != nil {
		return Job{}, fmt.Errorf("schedule job: %w", err)
	}
	return job, nil
}

// Claim implements Queue.
func (q *RedisQueue) Claim(ctx context.Context, now time.Time) ([]Job, error) {
	members, err := q.client.ZRangeByScore(ctx, q.key, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("list due jobs: %w", err)
	}

	// Bad members are skipped so one of them cannot hold back the
	// jobs already removed from the set.
	var (
		jobs []Job
		errs []error
	)
	for _, m := range members {
		removed, err := q.client.ZRem(ctx, q.key, m).Result()
		if err != nil {
			errs = append(errs, fmt.Errorf("claim job: %w", err))
			continue
		}
		if removed == 0 {
			continue // another worker got it
		}
		var j Job
		if err := json.Unmarshal([]byte(m), &j); err != nil {
			errs = append(errs, fmt.Errorf("decode job %.40q: %w", m, err))
			continue
		}
		jobs = append(jobs, j)
	}
	return jobs, errors.Join(errs...)
}

// Pending implements Queue.
func (q *RedisQueue) Pending(ctx context.Context) ([]Job, error) {
	members, err := q.client.ZRange(ctx, q.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	jobs := make([]Job, 0, len(members))
	for _, m := range members {
		var j Job
		if err := json.Unmarshal([]byte(m), &j); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

var _ Queue = (*RedisQueue)(nil)
