package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldAllowed  = "allowed"
	fieldRejected = "rejected"
)

// RedisStats keeps counters in Redis hashes so several instances share them:
//
//	<prefix>:total          cumulative, never expires
//	<prefix>:minute:<ts>    per-minute bucket, expires after ttl
//	<prefix>:route          "<method> <path>:<field>" counters
type RedisStats struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisStats(rdb redis.UniversalClient, prefix string, ttl time.Duration) *RedisStats {
	prefix = strings.Trim(prefix, ":")
	if prefix == "" {
		prefix = "emlak:ratelimit"
	}
	return &RedisStats{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStats) Record(ctx context.Context, ev StatsEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := fieldRejected
	if ev.Allowed {
		field = fieldAllowed
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	bucketKey := s.minuteKey(at)
	pipe.HIncrBy(ctx, bucketKey, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, bucketKey, s.ttl)
	}

	if route := strings.TrimSpace(ev.Method + " " + ev.Path); route != "" {
		pipe.HIncrBy(ctx, s.prefix+":route", route+":"+field, 1)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("recording rate limit stats: %w", err)
	}
	return nil
}

func (s *RedisStats) minuteKey(at time.Time) string {
	return fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
}

func (s *RedisStats) Total(ctx context.Context) (Counters, error) {
	return s.readCounters(ctx, s.prefix+":total")
}

func (s *RedisStats) Minute(ctx context.Context, at time.Time) (Counters, error) {
	return s.readCounters(ctx, s.minuteKey(at))
}

func (s *RedisStats) ByRoute(ctx context.Context) (map[string]Counters, error) {
	vals, err := s.rdb.HGetAll(ctx, s.prefix+":route").Result()
	if err != nil {
		return nil, fmt.Errorf("reading rate limit route stats: %w", err)
	}
	out := make(map[string]Counters)
	for k, v := range vals {
		i := strings.LastIndexByte(k, ':')
		if i < 0 {
			continue
		}
		n, err := parseCounter(v)
		if err != nil {
			return nil, err
		}
		route, c := k[:i], out[k[:i]]
		switch k[i+1:] {
		case fieldAllowed:
			c.Allowed = n
		case fieldRejected:
			c.Rejected = n
		default:
			continue
		}
		out[route] = c
	}
	return out, nil
}

func (s *RedisStats) readCounters(ctx context.Context, key string) (Counters, error) {
	vals, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return Counters{}, fmt.Errorf("reading rate limit stats: %w", err)
	}
	var c Counters
	if c.Allowed, err = parseCounter(vals[fieldAllowed]); err != nil {
		return Counters{}, err
	}
	if c.Rejected, err = parseCounter(vals[fieldRejected]); err != nil {
		return Counters{}, err
	}
	return c, nil
}

func parseCounter(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing counter %q: %w", v, err)
	}
	return n, nil
}
