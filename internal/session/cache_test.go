package session

import (
	"context"
	"testing"
	"time"

	"cv-generator-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Minute)

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)

	c.Set(ctx, &domain.Session{UserID: "u1", Email: "a@x.com", Role: domain.RoleAdmin, CompanyID: "c1"})
	s, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, s.Role)
	assert.Equal(t, "c1", s.CompanyID)

	c.Invalidate(ctx, "u1")
	_, ok = c.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestMemoryCacheReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Minute)
	c.Set(ctx, &domain.Session{UserID: "u1", Role: domain.RoleUser})

	s, _ := c.Get(ctx, "u1")
	s.Role = domain.RoleSuperAdmin

	again, _ := c.Get(ctx, "u1")
	assert.Equal(t, domain.RoleUser, again.Role)
}

func TestMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, 20*time.Millisecond)
	c.Set(ctx, &domain.Session{UserID: "u1"})

	assert.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "u1")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryCacheIgnoresEmptySession(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Minute)
	c.Set(ctx, nil)
	c.Set(ctx, &domain.Session{})
	_, ok := c.Get(ctx, "")
	assert.False(t, ok)
}

func TestTieredCachePopulatesL1(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryCache(10, time.Minute)
	l2 := NewMemoryCache(10, time.Minute)
	c := NewTieredCache(l1, l2)

	l2.Set(ctx, &domain.Session{UserID: "u1", Role: domain.RoleCandidate})

	s, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, domain.RoleCandidate, s.Role)

	_, inL1 := l1.Get(ctx, "u1")
	assert.True(t, inL1)

	c.Invalidate(ctx, "u1")
	_, ok = l1.Get(ctx, "u1")
	assert.False(t, ok)
	_, ok = l2.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestTieredCacheWithoutL2(t *testing.T) {
	l1 := NewMemoryCache(10, time.Minute)
	assert.Same(t, l1, NewTieredCache(l1, nil))
}
