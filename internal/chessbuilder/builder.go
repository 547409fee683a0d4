package chessbuilder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/room-chess-bot/internal/config"
	"github.com/park285/room-chess-bot/internal/identity"
	"github.com/park285/room-chess-bot/internal/msgcat"
	"github.com/park285/room-chess-bot/internal/pvpchess"
	"github.com/park285/room-chess-bot/internal/storage"
)

// Deps is the chess side of the bot: group storage, the session manager and
// its collaborators.
type Deps struct {
	Store   *storage.Store
	Manager *pvpchess.Manager
	Names   identity.Directory
	Catalog *msgcat.Catalog
	Archive *pvpchess.PostgresArchive // nil without DATABASE_URL

	redis *redis.Client
}

func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Deps{}

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	d.Catalog = catalog

	// Redis is optional unless it stores the group documents.
	if cfg.RedisURL != "" {
		dctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		d.redis, err = storage.DialRedis(dctx, cfg.RedisURL)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
	}

	var backend storage.Backend
	switch cfg.Storage {
	case config.StorageRedis:
		if d.redis == nil {
			return nil, errors.New("REDIS_URL is required for redis storage")
		}
		backend = storage.NewRedisBackend(d.redis)
	case config.StorageMemory:
		backend = storage.NewMemoryBackend()
	default:
		backend = storage.NewFileBackend(cfg.StorageDir)
	}

	if d.redis != nil {
		d.Names = identity.NewRedisDirectory(d.redis, logger)
	} else {
		d.Names = identity.NewMemoryDirectory()
	}

	d.Store = storage.NewStore(backend, logger)
	d.Manager = pvpchess.NewManager(d.Store, logger)

	if cfg.DatabaseURL != "" {
		archive, err := pvpchess.NewPostgresArchive(cfg.DatabaseURL)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = archive.EnsureSchema(sctx)
		cancel()
		if err != nil {
			_ = archive.Close()
			_ = d.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		d.Archive = archive
		d.Manager.AttachArchive(archive)
	}

	logger.Info("chess_deps_ready",
		zap.String("storage", cfg.Storage),
		zap.Bool("redis", d.redis != nil),
		zap.Bool("archive", d.Archive != nil),
	)
	return d, nil
}

func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	if d.Archive != nil {
		errs = append(errs, d.Archive.Close())
	}
	if d.redis != nil {
		errs = append(errs, d.redis.Close())
	}
	return errors.Join(errs...)
}
