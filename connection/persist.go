package connection

import (
	"context"

	"go.opencensus.io/stats"

	"github.com/ipfs-force-community/sophon-walletkit/metrics"
	"github.com/ipfs-force-community/sophon-walletkit/types"
)

// Storage is best effort, failures are logged and never reach the caller.

func (c *Controller) persistConnection(ctx context.Context, snapshot *types.Snapshot) {
	info := &types.ConnectionInfo{
		WalletName:     snapshot.CurrentWallet.Name,
		AccountAddress: snapshot.CurrentAccount.Address,
	}
	value, err := info.Encode()
	if err != nil {
		c.log.Warnf("encode connection info failed: %v", err)
		return
	}
	if err := c.storage.Set(ctx, c.cfg.storageKey(), value); err != nil {
		stats.Record(ctx, metrics.PersistFailure.M(1))
		c.log.Warnf("store connection of wallet %s failed: %v", info.WalletName, err)
	}
}

func (c *Controller) forgetConnection(ctx context.Context) {
	if err := c.storage.Remove(ctx, c.cfg.storageKey()); err != nil {
		stats.Record(ctx, metrics.PersistFailure.M(1))
		c.log.Warnf("remove stored connection failed: %v", err)
	}
}
