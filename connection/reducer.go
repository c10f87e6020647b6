package connection

import (
	"github.com/ipfs-force-community/sophon-walletkit/types"
)

// Reduce applies action to state and returns the next snapshot. state is never
// modified; an ignored action returns state itself, so callers can detect a
// no-op by pointer comparison.
func Reduce(state *types.Snapshot, action Action) *types.Snapshot {
	switch a := action.(type) {
	case *WalletRegistered:
		next := state.Copy()
		next.Wallets = a.UpdatedWallets
		return next

	case *WalletUnregistered:
		next := state.Copy()
		next.Wallets = a.UpdatedWallets
		if isCurrentWallet(state, a.WalletName) || isConnectingWallet(state, a.WalletName) {
			clearSelection(next)
		}
		return next

	case *ConnectStart:
		// attempt tokens only move forward
		if a.Attempt <= state.Attempt {
			return state
		}
		next := state.Copy()
		clearSelection(next)
		next.ConnectionStatus = types.Connecting
		next.Attempt = a.Attempt
		next.ConnectingWallet = a.WalletName
		return next

	case *ConnectSuccess:
		if !isPending(state, a.Attempt) || a.Wallet == nil || a.Wallet.Name != state.ConnectingWallet {
			return state
		}
		next := state.Copy()
		wallet := a.Wallet.Clone()
		wallet.Accounts = types.CloneAccounts(a.Accounts)
		account, ok := types.FindAccount(wallet.Accounts, a.Account.Address)
		if !ok {
			clearSelection(next)
			return next
		}
		next.CurrentWallet = wallet
		next.Accounts = wallet.Accounts
		next.CurrentAccount = account
		next.ConnectionStatus = types.Connected
		next.ConnectingWallet = ""
		return next

	case *ConnectFailure:
		if !isPending(state, a.Attempt) {
			return state
		}
		next := state.Copy()
		clearSelection(next)
		return next

	case *Disconnect:
		if state.ConnectionStatus == types.Disconnected && state.CurrentWallet == nil && len(state.ConnectingWallet) == 0 {
			return state
		}
		next := state.Copy()
		clearSelection(next)
		return next

	case *AccountSwitch:
		if !state.IsConnected() {
			return state
		}
		if state.CurrentAccount != nil && state.CurrentAccount.Address == a.Address {
			return state
		}
		account, ok := types.FindAccount(state.Accounts, a.Address)
		if !ok {
			return state
		}
		next := state.Copy()
		next.CurrentAccount = account
		return next

	case *AccountsChanged:
		if !isCurrentWallet(state, a.WalletName) {
			return state
		}
		next := state.Copy()
		wallet := state.CurrentWallet.Clone()
		wallet.Accounts = types.CloneAccounts(a.Accounts)
		if len(wallet.Accounts) == 0 {
			clearSelection(next)
			return next
		}
		next.CurrentWallet = wallet
		next.Accounts = wallet.Accounts
		next.CurrentAccount = &wallet.Accounts[0]
		if state.CurrentAccount != nil {
			if account, ok := types.FindAccount(wallet.Accounts, state.CurrentAccount.Address); ok {
				next.CurrentAccount = account
			}
		}
		return next

	default:
		log.Warnf("ignore unknown wallet action %T", action)
		return state
	}
}

func isCurrentWallet(state *types.Snapshot, name string) bool {
	return state.CurrentWallet != nil && state.CurrentWallet.Name == name
}

func isConnectingWallet(state *types.Snapshot, name string) bool {
	return state.ConnectionStatus == types.Connecting && state.ConnectingWallet == name
}

// isPending reports whether attempt is the connect attempt still in flight.
func isPending(state *types.Snapshot, attempt uint64) bool {
	return state.ConnectionStatus == types.Connecting && state.Attempt == attempt
}

func clearSelection(next *types.Snapshot) {
	next.CurrentWallet = nil
	next.Accounts = []types.Account{}
	next.CurrentAccount = nil
	next.ConnectionStatus = types.Disconnected
	next.ConnectingWallet = ""
}
