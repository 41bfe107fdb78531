package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tenauth/tenauth/cache"
)

// LoginStateStore implements cache.LoginStateStore on Redis, for
// deployments where the OAuth callback can land on a different instance
// than the one that started the handshake.
type LoginStateStore struct {
	client *redis.Client
	prefix string
}

func NewLoginStateStore(client *redis.Client, prefix string) *LoginStateStore {
	return &LoginStateStore{client: client, prefix: prefix}
}

func (s *LoginStateStore) key(state string) string {
	return fmt.Sprintf("%s:login_state:%s", s.prefix, state)
}

func (s *LoginStateStore) Save(ctx context.Context, state string, ls *cache.LoginState) error {
	payload, err := json.Marshal(ls)
	if err != nil {
		return fmt.Errorf("marshaling login state: %w", err)
	}
	if err := s.client.Set(ctx, s.key(state), payload, cache.LoginStateTTL).Err(); err != nil {
		return fmt.Errorf("storing login state: %w", err)
	}
	return nil
}

// Consume fetches and deletes the state atomically via GETDEL, so two
// concurrent callbacks carrying the same state resolve to one winner.
func (s *LoginStateStore) Consume(ctx context.Context, state string) (*cache.LoginState, error) {
	payload, err := s.client.GetDel(ctx, s.key(state)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("consuming login state: %w", err)
	}

	var ls cache.LoginState
	if err := json.Unmarshal([]byte(payload), &ls); err != nil {
		return nil, fmt.Errorf("unmarshaling login state: %w", err)
	}
	return &ls, nil
}

func (s *LoginStateStore) Close() error {
	return s.client.Close()
}

var _ cache.LoginStateStore = (*LoginStateStore)(nil)
