package watch

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// MemoryKV keeps watch specifications in an in-process cache. Entries never
// expire; a watch lives until the process ends or it is explicitly removed.
type MemoryKV struct {
	cache *gocache.Cache
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{cache: gocache.New(gocache.NoExpiration, gocache.NoExpiration)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (*store.WatchSpec, bool, error) {
	v, found := m.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	spec := v.(store.WatchSpec)
	return &spec, true, nil
}

// SetNX relies on the cache's Add, which fails when the key already exists,
// so lookup-then-insert is a single atomic step.
func (m *MemoryKV) SetNX(_ context.Context, key string, spec *store.WatchSpec) (bool, error) {
	if err := m.cache.Add(key, *spec, gocache.NoExpiration); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *MemoryKV) Has(_ context.Context, key string) (bool, error) {
	_, found := m.cache.Get(key)
	return found, nil
}

func (m *MemoryKV) List(_ context.Context) ([]*store.WatchSpec, error) {
	items := m.cache.Items()
	specs := make([]*store.WatchSpec, 0, len(items))
	for _, item := range items {
		spec := item.Object.(store.WatchSpec)
		specs = append(specs, &spec)
	}
	return specs, nil
}
