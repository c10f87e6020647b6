package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	wallets := []*WalletInfo{{Name: "A"}, {Name: "B"}}
	snapshot := NewSnapshot(wallets)
	require.Equal(t, Disconnected, snapshot.ConnectionStatus)
	require.False(t, snapshot.IsConnected())
	require.NotNil(t, snapshot.Accounts)
	require.Equal(t, []string{"A", "B"}, snapshot.WalletNames())

	wallet, ok := snapshot.Wallet("B")
	require.True(t, ok)
	require.Same(t, wallets[1], wallet)
	_, ok = snapshot.Wallet("C")
	require.False(t, ok)

	next := snapshot.Copy()
	next.ConnectionStatus = Connecting
	require.Equal(t, Disconnected, snapshot.ConnectionStatus)

	require.NotNil(t, NewSnapshot(nil).Wallets)
}

func TestWalletInfo(t *testing.T) {
	info := &WalletInfo{
		Name:     "A",
		Features: []Feature{FeatureConnect, FeatureSignPersonalMessage},
		Accounts: []Account{{Address: "0x1", PublicKey: []byte{1}}, {Address: "0x2"}},
	}
	require.True(t, info.HasFeature(FeatureConnect))
	require.False(t, info.HasFeature(FeatureSignMessage))
	require.True(t, info.HasAllFeatures(nil))
	require.True(t, info.HasAllFeatures([]Feature{FeatureConnect, FeatureSignPersonalMessage}))
	require.False(t, info.HasAllFeatures([]Feature{FeatureConnect, FeatureEvents}))

	account, ok := info.FindAccount("0x2")
	require.True(t, ok)
	require.Equal(t, "0x2", account.Address)
	_, ok = info.FindAccount("0x3")
	require.False(t, ok)

	clone := info.Clone()
	require.Equal(t, info, clone)
	clone.Accounts[0].PublicKey[0] = 9
	clone.Features[0] = FeatureEvents
	require.Equal(t, byte(1), info.Accounts[0].PublicKey[0])
	require.Equal(t, FeatureConnect, info.Features[0])

	var nilInfo *WalletInfo
	require.Nil(t, nilInfo.Clone())
	require.Nil(t, CloneAccounts(nil))
}

func TestConnectionInfo(t *testing.T) {
	info := &ConnectionInfo{WalletName: "Sui Wallet", AccountAddress: "0x1"}
	value, err := info.Encode()
	require.NoError(t, err)
	require.JSONEq(t, `{"walletName":"Sui Wallet","accountAddress":"0x1"}`, value)

	decoded, err := DecodeConnectionInfo(value)
	require.NoError(t, err)
	require.Equal(t, info, decoded)

	for _, bad := range []string{"", "{", `{"walletName":"A"}`, `{"accountAddress":"0x1"}`} {
		_, err := DecodeConnectionInfo(bad)
		require.Error(t, err, bad)
	}
}
