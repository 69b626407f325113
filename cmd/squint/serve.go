package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/alecthomas/units"
	"github.com/squintdb/squint/cache"
	"github.com/squintdb/squint/service"
	"github.com/squintdb/squint/service/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.3.0"

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	listen := fs.String("l", ":9867", "[addr]:port to listen on")
	schemaPath := fs.String("schema", "", "path to a YAML catalog file")
	logPath := fs.String("log", "stderr", "log file path, or stdout/stderr")
	logMode := logger.FileModeAppend
	fs.Var(&logMode, "log.mode", "log file mode: append, truncate, or rotate")
	logDev := fs.Bool("log.dev", false, "use the console log encoder")
	authSecret := fs.String("auth.secret", "", "HS256 secret for bearer-token auth; empty disables auth")
	cacheKind := cache.KindNone
	fs.Var(&cacheKind, "cache.kind", "analysis cache kind: local or redis")
	cacheEntries := fs.Int("cache.size", 512, "number of analyses kept by the local cache")
	cacheMem := fs.String("cache.mem", "", "approximate local cache budget (e.g. 32MB), overrides -cache.size")
	redisAddr := fs.String("cache.redis.addr", "localhost:6379", "redis address for the redis cache kind")
	redisExpiry := fs.Duration("cache.redis.keyexpiry", 24*time.Hour, "expiration of redis cache keys")
	fs.Parse(args)

	model, err := loadModel(*schemaPath)
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Config{
		Path:    *logPath,
		Mode:    logMode,
		Level:   zapcore.InfoLevel,
		DevMode: *logDev,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	size := *cacheEntries
	if *cacheMem != "" {
		bytes, err := units.ParseStrictBytes(*cacheMem)
		if err != nil {
			return err
		}
		// Rendered analyses run a few hundred bytes; budget 1 KiB each.
		size = int(bytes / 1024)
	}
	core, err := service.NewCore(service.Config{
		Auth: service.AuthConfig{
			Enabled: *authSecret != "",
			Secret:  *authSecret,
		},
		Cache: cache.Config{
			Kind:               cacheKind,
			LocalSize:          size,
			RedisAddr:          *redisAddr,
			RedisKeyExpiration: *redisExpiry,
		},
		Logger:  log,
		Model:   model,
		Version: version,
	})
	if err != nil {
		return err
	}
	log.Info("Listening", zap.String("addr", *listen))
	return http.ListenAndServe(*listen, core.Handler())
}
