// Package session caches resolved sessions so authenticated requests do not
// hit the user table every time. L1 is an in-process expiring LRU; L2 is an
// optional Redis that survives restarts and is shared across instances.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"cv-generator-backend/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type memoryCache struct {
	lru *expirable.LRU[string, domain.Session]
}

// NewMemoryCache returns an in-process cache holding at most size sessions for ttl.
func NewMemoryCache(size int, ttl time.Duration) domain.SessionCache {
	return &memoryCache{lru: expirable.NewLRU[string, domain.Session](size, nil, ttl)}
}

func (c *memoryCache) Get(_ context.Context, userID string) (*domain.Session, bool) {
	s, ok := c.lru.Get(userID)
	if !ok {
		return nil, false
	}
	return &s, true
}

func (c *memoryCache) Set(_ context.Context, s *domain.Session) {
	if s == nil || s.UserID == "" {
		return
	}
	c.lru.Add(s.UserID, *s)
}

func (c *memoryCache) Invalidate(_ context.Context, userID string) {
	c.lru.Remove(userID)
}

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache stores sessions as JSON under "session:<userID>".
func NewRedisCache(rdb *redis.Client, ttl time.Duration) domain.SessionCache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, userID string) (*domain.Session, bool) {
	data, err := c.rdb.Get(ctx, keyPrefix+userID).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("session cache: redis get failed", slog.Any("error", err))
		}
		return nil, false
	}
	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false
	}
	return &s, true
}

func (c *redisCache) Set(ctx context.Context, s *domain.Session) {
	if s == nil || s.UserID == "" {
		return
	}
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+s.UserID, data, c.ttl).Err(); err != nil {
		slog.Debug("session cache: redis set failed", slog.Any("error", err))
	}
}

func (c *redisCache) Invalidate(ctx context.Context, userID string) {
	if err := c.rdb.Del(ctx, keyPrefix+userID).Err(); err != nil {
		slog.Warn("session cache: redis invalidate failed", slog.String("user_id", userID), slog.Any("error", err))
	}
}

type tieredCache struct {
	l1 domain.SessionCache
	l2 domain.SessionCache
}

// NewTieredCache checks l1 then l2, populating l1 on an l2 hit. A nil l2
// returns l1 unchanged.
func NewTieredCache(l1, l2 domain.SessionCache) domain.SessionCache {
	if l2 == nil {
		return l1
	}
	return &tieredCache{l1: l1, l2: l2}
}

func (c *tieredCache) Get(ctx context.Context, userID string) (*domain.Session, bool) {
	if s, ok := c.l1.Get(ctx, userID); ok {
		return s, true
	}
	s, ok := c.l2.Get(ctx, userID)
	if !ok {
		return nil, false
	}
	c.l1.Set(ctx, s)
	return s, true
}

func (c *tieredCache) Set(ctx context.Context, s *domain.Session) {
	c.l1.Set(ctx, s)
	c.l2.Set(ctx, s)
}

func (c *tieredCache) Invalidate(ctx context.Context, userID string) {
	c.l1.Invalidate(ctx, userID)
	c.l2.Invalidate(ctx, userID)
}
