package identity

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Unknown is shown for players whose name was never seen.
const Unknown = "<unknown>"

const (
	namesKey = "chess:names"    // id -> display name
	idsKey   = "chess:name_ids" // lower(display name) -> id
)

// Directory maps chat user ids to display names. Lookups never fail: a
// missing or unreachable entry degrades to Unknown.
type Directory interface {
	Remember(ctx context.Context, id, name string) error
	Name(ctx context.Context, id string) string
	// Lookup resolves a display name typed in chat back to a user id.
	Lookup(ctx context.Context, name string) (string, bool)
}

type RedisDirectory struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisDirectory(rdb *redis.Client, logger *zap.Logger) *RedisDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisDirectory{rdb: rdb, logger: logger}
}

func (d *RedisDirectory) Remember(ctx context.Context, id, name string) error {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if id == "" || name == "" {
		return nil
	}
	_, err := d.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, namesKey, id, name)
		p.HSet(ctx, idsKey, foldName(name), id)
		return nil
	})
	return err
}

func (d *RedisDirectory) Name(ctx context.Context, id string) string {
	name, err := d.rdb.HGet(ctx, namesKey, id).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			d.logger.Warn("identity_lookup_error", zap.String("id", id), zap.Error(err))
		}
		return Unknown
	}
	if name == "" {
		return Unknown
	}
	return name
}

func (d *RedisDirectory) Lookup(ctx context.Context, name string) (string, bool) {
	id, err := d.rdb.HGet(ctx, idsKey, foldName(name)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			d.logger.Warn("identity_lookup_error", zap.String("name", name), zap.Error(err))
		}
		return "", false
	}
	return id, id != ""
}

// MemoryDirectory keeps names in process memory.
type MemoryDirectory struct {
	mu    sync.RWMutex
	names map[string]string
	ids   map[string]string
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{names: map[string]string{}, ids: map[string]string{}}
}

func (d *MemoryDirectory) Remember(_ context.Context, id, name string) error {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if id == "" || name == "" {
		return nil
	}
	d.mu.Lock()
	d.names[id] = name
	d.ids[foldName(name)] = id
	d.mu.Unlock()
	return nil
}

func (d *MemoryDirectory) Name(_ context.Context, id string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if n, ok := d.names[id]; ok {
		return n
	}
	return Unknown
}

func (d *MemoryDirectory) Lookup(_ context.Context, name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.ids[foldName(name)]
	return id, ok
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
