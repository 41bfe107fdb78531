package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoginStateStoreSaveAndConsume(t *testing.T) {
	store := NewMemoryLoginStateStore()
	defer store.Close()

	ctx := context.Background()
	saved := &LoginState{
		Provider:     "github",
		CodeVerifier: "verifier-123",
		RedirectURL:  "https://app.example.com/api/auth/github/callback",
	}
	require.NoError(t, store.Save(ctx, "state-abc", saved))

	got, err := store.Consume(ctx, "state-abc")
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestMemoryLoginStateStoreStateIsSingleUse(t *testing.T) {
	store := NewMemoryLoginStateStore()
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "state-abc", &LoginState{Provider: "github"}))

	_, err := store.Consume(ctx, "state-abc")
	require.NoError(t, err)

	_, err = store.Consume(ctx, "state-abc")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestMemoryLoginStateStoreUnknownState(t *testing.T) {
	store := NewMemoryLoginStateStore()
	defer store.Close()

	_, err := store.Consume(context.Background(), "never-saved")
	assert.ErrorIs(t, err, ErrStateNotFound)
}
