package types

import "context"

// WalletProvider is a wallet discovered through a registry.
type WalletProvider interface {
	Info() *WalletInfo
	// Connect runs the standard:connect handshake and returns the accounts the
	// wallet authorizes.
	Connect(ctx context.Context) ([]Account, error)
	Disconnect(ctx context.Context) error
}

// WalletRegistry is the process-wide set of available wallet providers.
// Subscribe returns the handle that releases the subscription.
type WalletRegistry interface {
	List() []WalletProvider
	Subscribe(onRegister, onUnregister func(WalletProvider)) (unsubscribe func())
}

// AccountsNotifier is implemented by registries able to report account list
// changes of a registered wallet.
type AccountsNotifier interface {
	SubscribeAccounts(onChange func(walletName string, accounts []Account)) (unsubscribe func())
}
