package cache

import (
	"context"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryLoginStateStore implements LoginStateStore with ttlcache. Suitable
// for single-instance deployments; multi-instance deployments need the
// Redis store so the callback can land on any instance.
type MemoryLoginStateStore struct {
	cache *ttlcache.Cache[string, *LoginState]
}

func NewMemoryLoginStateStore() *MemoryLoginStateStore {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *LoginState](LoginStateTTL),
		ttlcache.WithDisableTouchOnHit[string, *LoginState](),
	)
	go cache.Start()

	return &MemoryLoginStateStore{cache: cache}
}

func (s *MemoryLoginStateStore) Save(_ context.Context, state string, ls *LoginState) error {
	s.cache.Set(state, ls, LoginStateTTL)
	return nil
}

// Consume returns and removes the state in one step.
func (s *MemoryLoginStateStore) Consume(_ context.Context, state string) (*LoginState, error) {
	item := s.cache.Get(state)
	if item == nil {
		return nil, ErrStateNotFound
	}
	s.cache.Delete(state)
	return item.Value(), nil
}

func (s *MemoryLoginStateStore) Close() error {
	s.cache.Stop()
	return nil
}

var _ LoginStateStore = (*MemoryLoginStateStore)(nil)
