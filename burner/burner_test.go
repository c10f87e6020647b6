package burner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipfs-force-community/sophon-walletkit/connection"
	"github.com/ipfs-force-community/sophon-walletkit/types"
	"github.com/ipfs-force-community/sophon-walletkit/walletevent"
)

func TestBurnerWallet(t *testing.T) {
	ctx := context.Background()
	wallet, err := NewBurnerWallet(ctx)
	require.NoError(t, err)

	info := wallet.Info()
	require.Equal(t, WalletName, info.Name)
	require.True(t, info.HasAllFeatures([]types.Feature{types.FeatureConnect, types.FeatureSignPersonalMessage}))
	require.Len(t, info.Accounts, 1)

	accounts, err := wallet.Connect(ctx)
	require.NoError(t, err)
	require.Equal(t, info.Accounts, accounts)

	t.Run("sign personal message", func(t *testing.T) {
		msg := []byte("hello burner")
		sig, err := wallet.SignPersonalMessage(ctx, accounts[0].Address, msg)
		require.NoError(t, err)
		require.NoError(t, Verify(accounts[0].Address, sig, msg))
		require.Error(t, Verify(accounts[0].Address, sig, []byte("other")))
	})

	t.Run("unknown address", func(t *testing.T) {
		_, err := wallet.SignPersonalMessage(ctx, "f1unknown", []byte("hi"))
		require.Error(t, err)
	})
}

func TestBurnerRegistration(t *testing.T) {
	ctx := context.Background()

	t.Run("enabled", func(t *testing.T) {
		registry, err := walletevent.NewWalletRegistry()
		require.NoError(t, err)
		cfg := connection.DefaultConfig()
		cfg.EnableUnsafeBurner = true
		c, err := connection.New(ctx, registry, cfg)
		require.NoError(t, err)

		require.Len(t, registry.List(), 1)
		require.Equal(t, []string{WalletName}, c.Snapshot().WalletNames())

		snapshot, err := c.Connect(ctx, WalletName, "")
		require.NoError(t, err)
		require.True(t, snapshot.IsConnected())
		require.Equal(t, WalletName, snapshot.CurrentWallet.Name)

		c.Close()
		require.Len(t, registry.List(), 0)
	})

	t.Run("disabled", func(t *testing.T) {
		registry, err := walletevent.NewWalletRegistry()
		require.NoError(t, err)
		c, err := connection.New(ctx, registry, connection.DefaultConfig())
		require.NoError(t, err)
		defer c.Close()
		require.Len(t, registry.List(), 0)
		require.Len(t, c.Snapshot().Wallets, 0)
	})
}
