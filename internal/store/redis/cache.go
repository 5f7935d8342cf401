package redis

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskboard/internal/domain"
)

// generationTTL outlives any single repository read by a wide margin.
const generationTTL = 24 * time.Hour

var errStaleGeneration = errors.New("redis.TaskCache: stale generation")

// TaskCache wraps a TaskRepository with a Redis read-through cache of each
// project's task list. Every write through the cache evicts the whole
// workspace, since bulk updates and deletes do not carry a project ID.
//
// Evictions bump a per-workspace generation counter. A reader only fills the
// cache if the generation it saw before querying the repository is still
// current, so a list read before a concurrent write is never cached after it.
type TaskCache struct {
	domain.TaskRepository
	client *redis.Client
	ttl    time.Duration
}

// NewTaskCache returns a caching TaskRepository. A nil client or a zero TTL
// disables caching and every call goes to base.
func NewTaskCache(base domain.TaskRepository, client *redis.Client, ttl time.Duration) *TaskCache {
	if base == nil {
		panic("redis.NewTaskCache: base repository is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &TaskCache{TaskRepository: base, client: client, ttl: ttl}
}

func (c *TaskCache) ListByProject(ctx context.Context, workspaceID, projectID uuid.UUID) ([]*domain.Task, error) {
	if tasks, ok := c.load(ctx, workspaceID, projectID); ok {
		return tasks, nil
	}

	gen, genOK := c.generation(ctx, workspaceID)

	tasks, err := c.TaskRepository.ListByProject(ctx, workspaceID, projectID)
	if err != nil {
		return nil, err
	}

	if genOK {
		c.store(ctx, workspaceID, projectID, gen, tasks)
	}
	return tasks, nil
}

func (c *TaskCache) Create(ctx context.Context, t *domain.Task) error {
	if err := c.TaskRepository.Create(ctx, t); err != nil {
		return err
	}
	c.Evict(ctx, t.WorkspaceID)
	return nil
}

func (c *TaskCache) Update(ctx context.Context, t *domain.Task) error {
	if err := c.TaskRepository.Update(ctx, t); err != nil {
		return err
	}
	c.Evict(ctx, t.WorkspaceID)
	return nil
}

func (c *TaskCache) BulkUpdate(ctx context.Context, workspaceID uuid.UUID, updates []domain.TaskPositionUpdate) error {
	if err := c.TaskRepository.BulkUpdate(ctx, workspaceID, updates); err != nil {
		return err
	}
	c.Evict(ctx, workspaceID)
	return nil
}

func (c *TaskCache) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	if err := c.TaskRepository.Delete(ctx, workspaceID, id); err != nil {
		return err
	}
	c.Evict(ctx, workspaceID)
	return nil
}

// Evict drops every cached task list of a workspace and invalidates reads
// that are still in flight.
func (c *TaskCache) Evict(ctx context.Context, workspaceID uuid.UUID) {
	if c.client == nil {
		return
	}
	genKey := tasksGenerationKey(workspaceID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, TasksCacheKey(workspaceID))
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("workspace_id", workspaceID.String()).Msg("redis.TaskCache: evict failed")
	}
}

// generation returns the workspace's current cache generation. A missing
// counter reads as zero. ok is false when Redis cannot be reached, in which
// case nothing should be cached.
func (c *TaskCache) generation(ctx context.Context, workspaceID uuid.UUID) (int64, bool) {
	if c.client == nil || c.ttl == 0 {
		return 0, false
	}
	gen, err := c.client.Get(ctx, tasksGenerationKey(workspaceID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Debug().Err(err).Str("workspace_id", workspaceID.String()).Msg("redis.TaskCache: generation read failed")
		return 0, false
	}
	return gen, true
}

func (c *TaskCache) load(ctx context.Context, workspaceID, projectID uuid.UUID) ([]*domain.Task, bool) {
	if c.client == nil || c.ttl == 0 {
		return nil, false
	}
	key := TasksCacheKey(workspaceID)
	data, err := c.client.HGet(ctx, key, projectID.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// On redis errors fall back to the repository without failing.
			log.Debug().Err(err).Str("key", key).Msg("redis.TaskCache: read failed")
		}
		return nil, false
	}
	var tasks []*domain.Task
	if err := sonic.Unmarshal(data, &tasks); err != nil {
		_ = c.client.HDel(ctx, key, projectID.String()).Err()
		return nil, false
	}
	return tasks, true
}

// store caches tasks unless the workspace was evicted after gen was read.
// WATCH aborts the transaction if an eviction lands between the check and EXEC.
func (c *TaskCache) store(ctx context.Context, workspaceID, projectID uuid.UUID, gen int64, tasks []*domain.Task) {
	data, err := sonic.Marshal(tasks)
	if err != nil {
		return
	}
	key, genKey := TasksCacheKey(workspaceID), tasksGenerationKey(workspaceID)

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, getErr := tx.Get(ctx, genKey).Int64()
		if getErr != nil && !errors.Is(getErr, redis.Nil) {
			return getErr
		}
		if current != gen {
			return errStaleGeneration
		}
		_, pipeErr := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, projectID.String(), data)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return pipeErr
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		log.Debug().Str("key", key).Msg("redis.TaskCache: skipped caching a list read before an eviction")
	default:
		log.Debug().Err(err).Str("key", key).Msg("redis.TaskCache: write failed")
	}
}

