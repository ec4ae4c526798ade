package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"telegram-calorie-diary/internal/domain/ports/repository"
)

const bucketKeyPrefix = "reminder:"

// Registry is a Redis-backed reminder registry: one set per server bucket.
// Redis serializes the set operations, which makes the registry safe for
// concurrent workers and the scheduler without extra locking. It is still
// replayed from the ledger store at startup, same as the in-memory one, so
// stale members from erased users never survive a redeploy.
type Registry struct {
	cli RedisClient
}

var _ repository.ReminderRegistry = (*Registry)(nil)

func NewRegistry(cli RedisClient) *Registry {
	return &Registry{cli: cli}
}

func (r *Registry) Register(ctx context.Context, bucket string, tgID int64) error {
	return r.cli.SAdd(ctx, bucketKeyPrefix+bucket, tgID)
}

func (r *Registry) Unregister(ctx context.Context, bucket string, tgID int64) error {
	return r.cli.SRem(ctx, bucketKeyPrefix+bucket, tgID)
}

func (r *Registry) Bucket(ctx context.Context, bucket string) ([]int64, error) {
	members, err := r.cli.SMembers(ctx, bucketKeyPrefix+bucket)
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", bucket, err)
	}
	out := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt member %q in bucket %s: %w", m, bucket, err)
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
