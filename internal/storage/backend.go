package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by a Backend that holds no document for a group.
var ErrNotFound = errors.New("group state not found")

// ErrLoad wraps backend failures while reading a group document.
var ErrLoad = errors.New("group state unavailable")

// Backend stores one encoded document per group. Load and Save are each
// treated as all-or-nothing.
type Backend interface {
	Load(ctx context.Context, group string) ([]byte, error)
	Save(ctx context.Context, group string, data []byte) error
}

// RedisBackend keeps documents under "<prefix><group>" without expiry.
type RedisBackend struct {
	rdb    *redis.Client
	prefix string
}

const defaultRedisPrefix = "chess:group:"

func NewRedisBackend(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb, prefix: defaultRedisPrefix}
}

// DialRedis connects to REDIS_URL and pings it.
func DialRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required")
	}
	opts, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (b *RedisBackend) key(group string) string { return b.prefix + strings.TrimSpace(group) }

func (b *RedisBackend) Load(ctx context.Context, group string) ([]byte, error) {
	raw, err := b.rdb.Get(ctx, b.key(group)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (b *RedisBackend) Save(ctx context.Context, group string, data []byte) error {
	return b.rdb.Set(ctx, b.key(group), data, 0).Err()
}

// ParseRedisURL accepts redis:// and rediss:// URLs with an optional /<db>
// path. rediss:// connections use TLS.
func ParseRedisURL(raw string) (*redis.Options, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return opts, nil
}

// FileBackend keeps one JSON file per group in a directory. Writes go to a
// sibling ".json_new" file which is then renamed over the old one.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) *FileBackend {
	if strings.TrimSpace(dir) == "" {
		dir = "storage"
	}
	return &FileBackend{dir: dir}
}

func (b *FileBackend) path(group string) (string, error) {
	group = strings.TrimSpace(group)
	if group == "" || group == "." || group == ".." || strings.ContainsAny(group, `/\`) {
		return "", fmt.Errorf("invalid group id %q", group)
	}
	return filepath.Join(b.dir, group+".json"), nil
}

func (b *FileBackend) Load(_ context.Context, group string) ([]byte, error) {
	p, err := b.path(group)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return raw, err
}

func (b *FileBackend) Save(_ context.Context, group string, data []byte) error {
	p, err := b.path(group)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return err
	}
	tmp := p + "_new"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// MemoryBackend is an in-process Backend for development and tests.
type MemoryBackend struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: map[string][]byte{}}
}

func (b *MemoryBackend) Load(_ context.Context, group string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, ok := b.docs[group]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (b *MemoryBackend) Save(_ context.Context, group string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.docs[group] = append([]byte(nil), data...)
	return nil
}
