package embedded

import (
	"testing"

	"github.com/keralasamajam/community-hub/internal/adapters/contracttest"
	"github.com/keralasamajam/community-hub/internal/ports/out/store"
)

func TestContract_EmbeddedStore(t *testing.T) {
	contracttest.RunStoreAdapter(t, func(t *testing.T) (store.Adapter, func()) {
		t.Helper()
		return Open(), nil
	})
}
