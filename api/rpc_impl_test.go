package api

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ipfs-force-community/sophon-walletkit/burner"
	"github.com/ipfs-force-community/sophon-walletkit/connection"
	"github.com/ipfs-force-community/sophon-walletkit/testhelper"
	"github.com/ipfs-force-community/sophon-walletkit/types"
	"github.com/ipfs-force-community/sophon-walletkit/walletevent"
)

func setupAPI(t *testing.T, wallets ...types.WalletProvider) *WalletKitAPIImpl {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	registry, err := walletevent.NewWalletRegistry(wallets...)
	require.NoError(t, err)
	cfg := connection.DefaultConfig()
	cfg.EnableUnsafeBurner = true
	c, err := connection.New(ctx, registry, cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return NewWalletKitAPIImpl(c, walletevent.NewWalletEventStream(ctx, registry, types.DefaultConfig()))
}

func TestWalletKitAPI(t *testing.T) {
	ctx := context.Background()
	mock := testhelper.NewMockWallet("A", testhelper.Accounts("0x1", "0x2"))
	impl := setupAPI(t, mock)

	wallets, err := impl.ListWallets(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"A", burner.WalletName}, types.NewSnapshot(wallets).WalletNames())

	_, err = impl.SignPersonalMessage(ctx, []byte("hi"))
	require.True(t, errors.Is(err, connection.ErrNotConnected))

	snapshot, err := impl.Connect(ctx, burner.WalletName, "")
	require.NoError(t, err)
	require.True(t, snapshot.IsConnected())

	msg := []byte("sign in")
	sig, err := impl.SignPersonalMessage(ctx, msg)
	require.NoError(t, err)
	require.NoError(t, burner.Verify(snapshot.CurrentAccount.Address, sig, msg))

	t.Run("wallet without signing", func(t *testing.T) {
		_, err := impl.Connect(ctx, "A", "0x2")
		require.NoError(t, err)
		_, err = impl.SignPersonalMessage(ctx, msg)
		require.Error(t, err)
	})

	t.Run("switch and disconnect", func(t *testing.T) {
		snapshot, err := impl.SwitchAccount(ctx, "0x1")
		require.NoError(t, err)
		require.Equal(t, "0x1", snapshot.CurrentAccount.Address)

		snapshot, err = impl.Disconnect(ctx)
		require.NoError(t, err)
		require.Equal(t, types.Disconnected, snapshot.ConnectionStatus)

		state, err := impl.ConnectionState(ctx)
		require.NoError(t, err)
		require.Same(t, snapshot, state)
	})
}

func TestListenConnectionState(t *testing.T) {
	impl := setupAPI(t, testhelper.NewMockWallet("A", testhelper.Accounts("0x1")))
	ctx, cancel := context.WithCancel(context.Background())

	snapshots, err := impl.ListenConnectionState(ctx)
	require.NoError(t, err)
	first := <-snapshots
	require.Equal(t, types.Disconnected, first.ConnectionStatus)

	_, err = impl.Connect(ctx, "A", "")
	require.NoError(t, err)

	timeout := time.After(time.Second * 10)
	for connected := false; !connected; {
		select {
		case snapshot := <-snapshots:
			connected = snapshot.IsConnected()
		case <-timeout:
			t.Fatal("no connected snapshot within 10s")
		}
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-snapshots:
			return !ok
		default:
			return false
		}
	}, time.Second*10, time.Millisecond*10)
}
