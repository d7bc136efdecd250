package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TreeLoaderContractTest verifies that an adapter complies with ports.TreeLoader.
// want is the document the loader is expected to produce.
func TreeLoaderContractTest(t *testing.T, loader ports.TreeLoader, want *domain.Document) {
	t.Helper()

	t.Run("Load", func(t *testing.T) {
		doc, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, doc)
	})

	t.Run("LoadReturnsCopies", func(t *testing.T) {
		first, err := loader.Load(context.Background())
		require.NoError(t, err)
		require.NotEmpty(t, first.Trees)
		first.Trees[0].ID = "mutated"
		first.Trees[0].Root.Type = "Mutated"

		second, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, second)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := loader.Load(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// LockerContractTest verifies that an adapter complies with ports.Locker.
func LockerContractTest(t *testing.T, locker ports.Locker) {
	t.Helper()
	const ttl = 5 * time.Second

	t.Run("ExclusiveUntilUnlocked", func(t *testing.T) {
		ctx := context.Background()
		unlock, err := locker.Lock(ctx, "contract-tree", ttl)
		require.NoError(t, err)

		waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(waitCtx, "contract-tree", ttl)
		assert.True(t, errors.Is(err, ports.ErrLockHeld), "second lock should fail with ErrLockHeld, got %v", err)

		require.NoError(t, unlock(ctx))

		unlock, err = locker.Lock(ctx, "contract-tree", ttl)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		ctx := context.Background()
		unlockA, err := locker.Lock(ctx, "contract-a", ttl)
		require.NoError(t, err)
		defer func() { _ = unlockA(ctx) }()

		waitCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		unlockB, err := locker.Lock(waitCtx, "contract-b", ttl)
		require.NoError(t, err)
		require.NoError(t, unlockB(ctx))
	})
}
