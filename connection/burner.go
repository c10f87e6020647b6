package connection

import (
	"context"
	"sync"

	"github.com/ipfs-force-community/sophon-walletkit/types"
)

// BurnerFactory creates the unsafe development wallet.
type BurnerFactory func(ctx context.Context) (types.WalletProvider, error)

var (
	burnerLk      sync.Mutex
	burnerFactory BurnerFactory
)

// RegisterUnsafeBurner installs the burner wallet implementation. Builds that
// never call it cannot create a burner wallet even if configured to.
func RegisterUnsafeBurner(factory BurnerFactory) {
	burnerLk.Lock()
	defer burnerLk.Unlock()
	burnerFactory = factory
}

func unsafeBurner() BurnerFactory {
	burnerLk.Lock()
	defer burnerLk.Unlock()
	return burnerFactory
}

// walletRegistrar is implemented by registries accepting new wallets.
type walletRegistrar interface {
	Register(types.WalletProvider) (func(), error)
}

func (c *Controller) registerUnsafeBurner(ctx context.Context) error {
	factory := unsafeBurner()
	if factory == nil {
		c.log.Warn("unsafe burner wallet is enabled but not compiled in, skip it")
		return nil
	}
	registrar, ok := c.registry.(walletRegistrar)
	if !ok {
		c.log.Warnf("registry %T does not accept new wallets, skip unsafe burner wallet", c.registry)
		return nil
	}

	wallet, err := factory(ctx)
	if err != nil {
		return err
	}
	unregister, err := registrar.Register(wallet)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, unregister)
	c.log.Warnf("unsafe burner wallet %s registered, never use it in production", wallet.Info().Name)
	return nil
}
