// Package sessioncache defines the port for the durable slot holding the
// currently authenticated member.
package sessioncache

import (
	"context"

	"github.com/keralasamajam/community-hub/internal/domain"
)

// Cache persists one member record (with loaded dependents) across process
// restarts. Absence means unauthenticated.
//
// A loaded record is a hint, not a fact: the application core must revalidate
// it against the member relation before trusting it, and clear the cache on a
// revalidation miss. Implementations never surface raw storage errors; a
// corrupt slot reads as absent.
type Cache interface {
	Save(ctx context.Context, m domain.Member) error
	Load(ctx context.Context) (domain.Member, bool, error)
	Clear(ctx context.Context) error
}
