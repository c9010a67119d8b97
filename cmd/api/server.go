package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/5w1tchy/ai-books-api/internal/api/handlers/books"
	mw "github.com/5w1tchy/ai-books-api/internal/api/middlewares"
	"github.com/5w1tchy/ai-books-api/internal/api/router"
	"github.com/5w1tchy/ai-books-api/internal/config"
	"github.com/5w1tchy/ai-books-api/internal/repository/sqlconnect"
	storage "github.com/5w1tchy/ai-books-api/internal/storage/s3"
	storebooks "github.com/5w1tchy/ai-books-api/internal/store/books"
	"github.com/5w1tchy/ai-books-api/internal/telemetry"
	"github.com/5w1tchy/ai-books-api/internal/validate"
	"github.com/5w1tchy/ai-books-api/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	log := telemetry.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	if err := validate.Env(cfg); err != nil {
		return err
	}
	for _, w := range validate.HardeningWarnings(cfg) {
		log.Warn("config: " + w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "ai-books-api", cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown", "error", err)
		}
	}()

	db, err := sqlconnect.ConnectDB(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to database", "driver", cfg.DB.Driver)

	store := storebooks.New(db)
	if cfg.DB.AutoSchema {
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	var covers books.CoverStorage
	if s3cfg := s3Config(cfg.S3); s3cfg.Enabled() {
		c, err := storage.NewClient(ctx, s3cfg)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx); err != nil {
			log.Warn("cover storage not reachable; uploads will fail until it is", "error", err)
		}
		covers = c
		log.Info("cover uploads enabled", "bucket", s3cfg.Bucket)
	}

	limiters, closeLimiters, err := rateLimiters(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiters()

	chain := []utils.Middleware{
		mw.RequestID,
		mw.Recovery(log),
		mw.Tracing,
		mw.RequestLog(log),
		mw.ResponseTimeMiddleware,
		mw.SecurityHeaders(cfg.StrictSecurity),
		mw.CORS(cfg.CORSOrigins, log),
	}
	chain = append(chain, limiters...)
	chain = append(chain,
		mw.HPP(mw.DefaultHPPOptions()),
		mw.BodySizeLimit(cfg.MaxBodySize, "/books/*/cover"),
		mw.Compression,
	)

	handler := utils.ApplyMiddleware(
		router.Router(router.Deps{Store: store, Covers: covers, Log: log}),
		chain...,
	)

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Port, "tls", cfg.TLS())
		if cfg.TLS() {
			errCh <- server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(sctx)
}

// rateLimiters picks Redis-backed limits when Redis is configured and the
// in-process token bucket otherwise.
func rateLimiters(ctx context.Context, cfg config.Config, log *slog.Logger) ([]utils.Middleware, func(), error) {
	rl := cfg.RateLimit
	if !cfg.Redis.Enabled() {
		local := mw.NewLocalLimiter(rl.RPS, rl.Burst, mw.PerIPKey("tb"))
		go local.Run(ctx)
		log.Info("rate limiting in-process", "rps", rl.RPS, "burst", rl.Burst)
		return []utils.Middleware{local.Middleware}, func() {}, nil
	}

	rdb, err := newRedis(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	// Fail fast if Redis isn't reachable
	if err := validate.PingRedis(ctx, rdb, 3*time.Second); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	log.Info("rate limiting via redis", "rps", rl.RPS, "burst", rl.Burst, "hourly", rl.WindowLimit)

	tb := mw.NewRedisTokenBucket(rdb, log, rl.RPS, rl.Burst, mw.PerIPKey("tb"))
	sw := mw.NewRedisSlidingWindow(rdb, log, rl.WindowLimit, time.Hour, mw.PerIPKey("sw"))
	return []utils.Middleware{tb.Middleware, sw.Middleware}, func() { _ = rdb.Close() }, nil
}

func newRedis(c config.Redis) (*redis.Client, error) {
	if c.URL != "" {
		opt, err := redis.ParseURL(c.URL) // e.g. rediss://default:<token>@host:port
		if err != nil {
			return nil, err
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = time.Second
		opt.WriteTimeout = time.Second
		return redis.NewClient(opt), nil
	}
	opt := &redis.Options{
		Addr:         c.Addr,
		Username:     c.User,
		Password:     c.Password,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
	if c.Password != "" {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opt), nil
}

func s3Config(c config.S3) storage.Config {
	return storage.Config{
		Endpoint:        c.Endpoint,
		Region:          c.Region,
		Bucket:          c.Bucket,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		PublicBaseURL:   c.PublicBaseURL,
		PathStyle:       c.Endpoint != "",
	}
}
