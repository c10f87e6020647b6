package connection

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipfs-force-community/sophon-walletkit/types"
)

func TestStoreDispatch(t *testing.T) {
	initial := types.NewSnapshot(nil)
	store := NewStore(initial)
	require.Same(t, initial, store.Snapshot())

	var calls [][2]*types.Snapshot
	unsubscribe := store.Subscribe(func(prev, next *types.Snapshot) {
		calls = append(calls, [2]*types.Snapshot{prev, next})
	})

	next, changed := store.Dispatch(&WalletRegistered{UpdatedWallets: named("A")})
	require.True(t, changed)
	require.Same(t, next, store.Snapshot())
	require.Len(t, calls, 1)
	require.Same(t, initial, calls[0][0])
	require.Same(t, next, calls[0][1])

	// no-op transitions are not published
	same, changed := store.Dispatch(&Disconnect{})
	require.False(t, changed)
	require.Same(t, next, same)
	require.Len(t, calls, 1)

	unsubscribe()
	store.Dispatch(&ConnectStart{Attempt: 1, WalletName: "A"})
	require.Len(t, calls, 1)
}

func TestStoreSubscribersOrder(t *testing.T) {
	store := NewStore(types.NewSnapshot(nil))

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		store.Subscribe(func(prev, next *types.Snapshot) {
			order = append(order, i)
		})
	}
	store.Dispatch(&WalletRegistered{UpdatedWallets: named("A")})
	require.Equal(t, []int{0, 1, 2}, order)
}

func TestStoreConcurrentDispatch(t *testing.T) {
	store := NewStore(types.NewSnapshot(nil))

	var lk sync.Mutex
	var last *types.Snapshot
	store.Subscribe(func(prev, next *types.Snapshot) {
		lk.Lock()
		defer lk.Unlock()
		if last != nil {
			assert.Same(t, last, prev)
		}
		last = next
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(attempt uint64) {
			defer wg.Done()
			store.Dispatch(&ConnectStart{Attempt: attempt, WalletName: "A"})
		}(uint64(i + 1))
	}
	wg.Wait()
	require.Same(t, last, store.Snapshot())
	require.EqualValues(t, 50, store.Snapshot().Attempt)
}
