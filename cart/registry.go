package cart

import (
	"context"
	"sync"
)

// Registry owns one Store per storefront session. Stores are created lazily
// and warmed up from the cache once.
type Registry struct {
	remote RemoteService
	cache  Cache

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(remote RemoteService, cache Cache) *Registry {
	if remote == nil {
		panic("missing remote cart service")
	}
	if cache == nil {
		panic("missing cart cache")
	}

	return &Registry{
		remote: remote,
		cache:  cache,
		stores: map[string]*Store{},
	}
}

func (r *Registry) Store(ctx context.Context, sessionID string) *Store {
	r.mu.Lock()
	store, ok := r.stores[sessionID]
	if !ok {
		store = NewStore(sessionID, r.remote, r.cache)
		r.stores[sessionID] = store
	}
	r.mu.Unlock()

	if !ok {
		store.Restore(ctx)
	}

	return store
}
