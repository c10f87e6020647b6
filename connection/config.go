package connection

import (
	"github.com/ipfs-force-community/sophon-walletkit/types"
)

const (
	SuiWalletName     = "Sui Wallet"
	DefaultStorageKey = "sui-dapp-kit:wallet-connection-info"
)

type Config struct {
	// PreferredWallets are sorted to the top of the wallet list when present.
	PreferredWallets []string
	// RequiredFeatures hides wallets lacking any of them.
	RequiredFeatures []types.Feature
	// StorageKey is where the most recent connection is stored, empty means
	// DefaultStorageKey.
	StorageKey string
	// AutoConnect reconnects to the most recent wallet account on start.
	AutoConnect bool
	// EnableUnsafeBurner registers an in-memory development wallet. Never
	// enable it in production.
	EnableUnsafeBurner bool
}

func DefaultConfig() *Config {
	return &Config{
		PreferredWallets: []string{SuiWalletName},
		RequiredFeatures: []types.Feature{},
		StorageKey:       DefaultStorageKey,
	}
}

func (c *Config) storageKey() string {
	if len(c.StorageKey) == 0 {
		return DefaultStorageKey
	}
	return c.StorageKey
}
