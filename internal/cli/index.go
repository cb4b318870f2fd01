package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ppiankov/satrarity/internal/cache"
	"github.com/ppiankov/satrarity/internal/index"
	"github.com/ppiankov/satrarity/internal/model"
)

// openIndex builds the configured index, wrapped in the lookup cache when
// enabled. The returned close func releases backend connections.
func openIndex(ctx context.Context, cfg *model.Config, logger *zap.Logger) (index.Index, func() error, error) {
	var (
		idx     index.Index
		closeFn = func() error { return nil }
	)

	switch cfg.Index.Backend {
	case "file", "":
		fi, err := index.LoadFileIndex(cfg.Index.File)
		if err != nil {
			return nil, nil, err
		}
		idx = fi
		logger.Info("using file index", zap.String("path", cfg.Index.File), zap.Bool("sat_index", fi.HasSatIndex()))

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Index.Redis.Addr,
			Password: cfg.Index.Redis.Password,
			DB:       cfg.Index.Redis.DB,
		})
		ri := index.NewRedisIndex(rdb,
			index.WithRedisPrefix(cfg.Index.Redis.Prefix),
			index.WithRedisSatIndex(cfg.Index.SatIndex))
		if err := ri.Ping(ctx); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Index.Redis.Addr, err)
		}
		idx = ri
		closeFn = rdb.Close
		logger.Info("using redis index", zap.String("addr", cfg.Index.Redis.Addr), zap.String("prefix", cfg.Index.Redis.Prefix))

	default:
		return nil, nil, fmt.Errorf("unknown index backend %q (want file or redis)", cfg.Index.Backend)
	}

	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			base, err := configDir()
			if err != nil {
				return nil, nil, fmt.Errorf("cache dir: %w", err)
			}
			dir = filepath.Join(base, "cache")
		}
		c := cache.NewMemoryDiskCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
		idx = index.NewCachedIndex(idx, c, cfg.Cache.DiskTTL)
		logger.Debug("index cache enabled", zap.String("dir", dir))
	}

	return idx, closeFn, nil
}
