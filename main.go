package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jessevdk/go-flags"
	"github.com/redis/go-redis/v9"

	"github.com/alpercimsit/emlak-website/internal/config"
	"github.com/alpercimsit/emlak-website/internal/handler"
	"github.com/alpercimsit/emlak-website/internal/logging"
	"github.com/alpercimsit/emlak-website/internal/ratelimit"
	"github.com/alpercimsit/emlak-website/internal/repository"
	"github.com/alpercimsit/emlak-website/internal/service"
)

var version = "dev"

// Options are the command line flags.
type Options struct {
	Config  string `short:"c" long:"config" description:"path to YAML config file"`
	EnvFile string `short:"e" long:"env-file" description:"dotenv file loaded into the environment" default:".env"`
	Port    int    `short:"p" long:"port" description:"listen port, overrides config and PORT"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "emlak: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts := &Options{}
	if _, err := flags.ParseArgs(opts, args); err != nil {
		return err
	}

	cfg, err := config.Load(opts.Config, opts.EnvFile)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if opts.Port != 0 {
		cfg.Server.Port = opts.Port
	}

	logger := logging.New(cfg.Logging, version)
	if cfg.UsesInsecureDefaults() {
		logger.Warn("running with default admin password or JWT secret; set ADMIN_PASSWORD and JWT_SECRET")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repo := repository.NewListingRepository()
	if cfg.Store.Seed {
		repo.Seed(time.Now())
	}

	deps := handler.Deps{
		Auth:           service.NewAuthService(cfg.Admin, cfg.JWT, logger),
		Listings:       service.NewListingService(repo, logger),
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
	}

	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, ratelimit.WithIdleTTL(cfg.RateLimit.IdleTTL))
		limiter.StartJanitor(ctx, 2*time.Minute)
		deps.LoginLimiter = limiter

		stats, closeStats, err := newStatsStore(ctx, cfg.RateLimit.Redis, logger)
		if err != nil {
			return err
		}
		defer closeStats()
		deps.Stats = stats
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := handler.NewRouter(deps)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("listing service running", "addr", srv.Addr, "listings", repo.Count())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("listing service stopped")
	return nil
}

// newStatsStore returns Redis-backed stats when an address is configured, memory otherwise.
func newStatsStore(ctx context.Context, cfg config.RedisConfig, logger *logging.Logger) (ratelimit.StatsStore, func(), error) {
	if cfg.Addr == "" {
		return ratelimit.NewMemoryStats(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis stats ping error: %w", err)
	}

	logger.Info("rate limit stats stored in redis", "addr", cfg.Addr)
	return ratelimit.NewRedisStats(rdb, cfg.Prefix, cfg.TTL), func() { _ = rdb.Close() }, nil
}
