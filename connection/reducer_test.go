package connection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipfs-force-community/sophon-walletkit/testhelper"
	"github.com/ipfs-force-community/sophon-walletkit/types"
)

func walletInfo(name string, addresses ...string) *types.WalletInfo {
	return &types.WalletInfo{
		Name:     name,
		Features: []types.Feature{types.FeatureConnect},
		Accounts: testhelper.Accounts(addresses...),
	}
}

func connected(t *testing.T, wallets []*types.WalletInfo, wallet *types.WalletInfo, address string) *types.Snapshot {
	state := Reduce(types.NewSnapshot(wallets), &ConnectStart{Attempt: 1, WalletName: wallet.Name})
	account, ok := wallet.FindAccount(address)
	require.True(t, ok)
	state = Reduce(state, &ConnectSuccess{Attempt: 1, Wallet: wallet, Accounts: wallet.Accounts, Account: *account})
	require.True(t, state.IsConnected())
	return state
}

func requireDisconnected(t *testing.T, state *types.Snapshot) {
	require.Equal(t, types.Disconnected, state.ConnectionStatus)
	require.Nil(t, state.CurrentWallet)
	require.Nil(t, state.CurrentAccount)
	require.Len(t, state.Accounts, 0)
	require.Empty(t, state.ConnectingWallet)
}

func TestReduceWalletLifecycle(t *testing.T) {
	a := walletInfo("A", "0x1")
	b := walletInfo("B", "0x2")
	initial := types.NewSnapshot(nil)

	t.Run("registered replaces the list", func(t *testing.T) {
		next := Reduce(initial, &WalletRegistered{UpdatedWallets: []*types.WalletInfo{a, b}})
		require.NotSame(t, initial, next)
		require.Equal(t, []string{"A", "B"}, next.WalletNames())
		require.Len(t, initial.Wallets, 0)
		requireDisconnected(t, next)
	})

	t.Run("unregister other wallet keeps connection", func(t *testing.T) {
		state := connected(t, []*types.WalletInfo{a, b}, a, "0x1")
		next := Reduce(state, &WalletUnregistered{UpdatedWallets: []*types.WalletInfo{a}, WalletName: "B"})
		require.True(t, next.IsConnected())
		require.Equal(t, "A", next.CurrentWallet.Name)
		require.Equal(t, []string{"A"}, next.WalletNames())
	})

	t.Run("unregister current wallet disconnects", func(t *testing.T) {
		state := connected(t, []*types.WalletInfo{a, b}, a, "0x1")
		next := Reduce(state, &WalletUnregistered{UpdatedWallets: []*types.WalletInfo{b}, WalletName: "A"})
		requireDisconnected(t, next)
		require.Equal(t, []string{"B"}, next.WalletNames())
	})

	t.Run("unregister connecting wallet drops the attempt", func(t *testing.T) {
		state := Reduce(types.NewSnapshot([]*types.WalletInfo{a}), &ConnectStart{Attempt: 3, WalletName: "A"})
		next := Reduce(state, &WalletUnregistered{UpdatedWallets: []*types.WalletInfo{}, WalletName: "A"})
		requireDisconnected(t, next)
		require.Same(t, next, Reduce(next, &ConnectSuccess{Attempt: 3, Wallet: a, Accounts: a.Accounts, Account: a.Accounts[0]}))
	})
}

func TestReduceConnect(t *testing.T) {
	a := walletInfo("A", "0x1", "0x2")
	b := walletInfo("B", "0x3")
	wallets := []*types.WalletInfo{a, b}

	t.Run("success", func(t *testing.T) {
		state := Reduce(types.NewSnapshot(wallets), &ConnectStart{Attempt: 1, WalletName: "A"})
		require.Equal(t, types.Connecting, state.ConnectionStatus)
		require.Equal(t, "A", state.ConnectingWallet)

		next := Reduce(state, &ConnectSuccess{Attempt: 1, Wallet: a, Accounts: a.Accounts, Account: a.Accounts[1]})
		require.True(t, next.IsConnected())
		require.Equal(t, "A", next.CurrentWallet.Name)
		require.Equal(t, "0x2", next.CurrentAccount.Address)
		require.Len(t, next.Accounts, 2)
		require.Empty(t, next.ConnectingWallet)
	})

	t.Run("start clears previous connection", func(t *testing.T) {
		state := connected(t, wallets, a, "0x1")
		next := Reduce(state, &ConnectStart{Attempt: 2, WalletName: "B"})
		require.Equal(t, types.Connecting, next.ConnectionStatus)
		require.Nil(t, next.CurrentWallet)
		require.Nil(t, next.CurrentAccount)
		require.True(t, state.IsConnected())
	})

	t.Run("stale success is ignored", func(t *testing.T) {
		state := Reduce(types.NewSnapshot(wallets), &ConnectStart{Attempt: 1, WalletName: "A"})
		state = Reduce(state, &ConnectStart{Attempt: 2, WalletName: "B"})
		next := Reduce(state, &ConnectSuccess{Attempt: 1, Wallet: a, Accounts: a.Accounts, Account: a.Accounts[0]})
		require.Same(t, state, next)

		next = Reduce(state, &ConnectSuccess{Attempt: 2, Wallet: b, Accounts: b.Accounts, Account: b.Accounts[0]})
		require.Equal(t, "B", next.CurrentWallet.Name)
	})

	t.Run("late start with older token is ignored", func(t *testing.T) {
		state := Reduce(types.NewSnapshot(wallets), &ConnectStart{Attempt: 2, WalletName: "B"})
		require.Same(t, state, Reduce(state, &ConnectStart{Attempt: 1, WalletName: "A"}))
		require.Same(t, state, Reduce(state, &ConnectStart{Attempt: 2, WalletName: "A"}))
		require.EqualValues(t, 2, state.Attempt)

		require.Same(t, state, Reduce(state, &ConnectSuccess{Attempt: 1, Wallet: a, Accounts: a.Accounts, Account: a.Accounts[0]}))
		next := Reduce(state, &ConnectSuccess{Attempt: 2, Wallet: b, Accounts: b.Accounts, Account: b.Accounts[0]})
		require.True(t, next.IsConnected())
		require.Equal(t, "B", next.CurrentWallet.Name)
	})

	t.Run("success after disconnect is ignored", func(t *testing.T) {
		state := Reduce(types.NewSnapshot(wallets), &ConnectStart{Attempt: 1, WalletName: "A"})
		state = Reduce(state, &Disconnect{})
		requireDisconnected(t, state)
		require.Same(t, state, Reduce(state, &ConnectSuccess{Attempt: 1, Wallet: a, Accounts: a.Accounts, Account: a.Accounts[0]}))
	})

	t.Run("success for another wallet is ignored", func(t *testing.T) {
		state := Reduce(types.NewSnapshot(wallets), &ConnectStart{Attempt: 1, WalletName: "A"})
		require.Same(t, state, Reduce(state, &ConnectSuccess{Attempt: 1, Wallet: b, Accounts: b.Accounts, Account: b.Accounts[0]}))
	})

	t.Run("success with foreign account fails", func(t *testing.T) {
		state := Reduce(types.NewSnapshot(wallets), &ConnectStart{Attempt: 1, WalletName: "A"})
		next := Reduce(state, &ConnectSuccess{Attempt: 1, Wallet: a, Accounts: a.Accounts, Account: types.Account{Address: "0x9"}})
		requireDisconnected(t, next)
	})

	t.Run("failure", func(t *testing.T) {
		state := Reduce(types.NewSnapshot(wallets), &ConnectStart{Attempt: 1, WalletName: "A"})
		next := Reduce(state, &ConnectFailure{Attempt: 1, Reason: "rejected"})
		requireDisconnected(t, next)
	})

	t.Run("stale failure is ignored", func(t *testing.T) {
		state := connected(t, wallets, a, "0x1")
		require.Same(t, state, Reduce(state, &ConnectFailure{Attempt: 1, Reason: "late"}))
	})

	t.Run("snapshot does not alias action data", func(t *testing.T) {
		wallet := walletInfo("A", "0x1")
		state := connected(t, wallets, wallet, "0x1")
		wallet.Accounts[0].Address = "0xdead"
		require.Equal(t, "0x1", state.CurrentAccount.Address)
		require.Equal(t, "0x1", state.Accounts[0].Address)
	})
}

func TestReduceDisconnect(t *testing.T) {
	a := walletInfo("A", "0x1")

	state := connected(t, []*types.WalletInfo{a}, a, "0x1")
	next := Reduce(state, &Disconnect{})
	requireDisconnected(t, next)
	require.Equal(t, []string{"A"}, next.WalletNames())

	require.Same(t, next, Reduce(next, &Disconnect{}))
}

func TestReduceAccounts(t *testing.T) {
	a := walletInfo("A", "0x1", "0x2")
	b := walletInfo("B", "0x3")
	wallets := []*types.WalletInfo{a, b}

	t.Run("switch", func(t *testing.T) {
		state := connected(t, wallets, a, "0x1")
		next := Reduce(state, &AccountSwitch{Address: "0x2"})
		require.Equal(t, "0x2", next.CurrentAccount.Address)
		require.Equal(t, "A", next.CurrentWallet.Name)
	})

	t.Run("switch to same or unknown account is ignored", func(t *testing.T) {
		state := connected(t, wallets, a, "0x1")
		require.Same(t, state, Reduce(state, &AccountSwitch{Address: "0x1"}))
		require.Same(t, state, Reduce(state, &AccountSwitch{Address: "0x3"}))
	})

	t.Run("switch while disconnected is ignored", func(t *testing.T) {
		state := types.NewSnapshot(wallets)
		require.Same(t, state, Reduce(state, &AccountSwitch{Address: "0x1"}))
	})

	t.Run("accounts changed keeps selected account", func(t *testing.T) {
		state := connected(t, wallets, a, "0x2")
		next := Reduce(state, &AccountsChanged{WalletName: "A", Accounts: testhelper.Accounts("0x4", "0x2")})
		require.Equal(t, "0x2", next.CurrentAccount.Address)
		require.Len(t, next.Accounts, 2)
		require.Len(t, next.CurrentWallet.Accounts, 2)
	})

	t.Run("accounts changed falls back to first account", func(t *testing.T) {
		state := connected(t, wallets, a, "0x2")
		next := Reduce(state, &AccountsChanged{WalletName: "A", Accounts: testhelper.Accounts("0x5", "0x6")})
		require.True(t, next.IsConnected())
		require.Equal(t, "0x5", next.CurrentAccount.Address)
	})

	t.Run("accounts changed to empty disconnects", func(t *testing.T) {
		state := connected(t, wallets, a, "0x1")
		requireDisconnected(t, Reduce(state, &AccountsChanged{WalletName: "A", Accounts: nil}))
	})

	t.Run("accounts changed of another wallet is ignored", func(t *testing.T) {
		state := connected(t, wallets, a, "0x1")
		require.Same(t, state, Reduce(state, &AccountsChanged{WalletName: "B", Accounts: testhelper.Accounts("0x7")}))
	})
}

type unknownAction struct{}

func (unknownAction) Type() ActionType { return "unknown" }

func TestReduceUnknownAction(t *testing.T) {
	state := types.NewSnapshot(nil)
	require.Same(t, state, Reduce(state, unknownAction{}))
}
