// Package sessioncache is an in-memory implementation of the session-cache
// port for tests.
package sessioncache

import (
	"context"
	"sync"

	"github.com/keralasamajam/community-hub/internal/domain"
	"github.com/keralasamajam/community-hub/internal/ports/out/sessioncache"
)

// Cache holds at most one session. Safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	member domain.Member
	set    bool
}

var _ sessioncache.Cache = (*Cache)(nil)

func New() *Cache { return &Cache{} }

func (c *Cache) Save(ctx context.Context, m domain.Member) error {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	c.member = m
	c.set = true
	return nil
}

func (c *Cache) Load(ctx context.Context) (domain.Member, bool, error) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.set {
		return domain.Member{}, false, nil
	}
	return c.member, true, nil
}

func (c *Cache) Clear(ctx context.Context) error {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	c.member = domain.Member{}
	c.set = false
	return nil
}
