package metrics

import (
	"context"
	"time"

	"go.opencensus.io/tag"

	"github.com/ipfs-force-community/sophon-walletkit/types"
)

type SnapshotReader interface {
	Snapshot() *types.Snapshot
}

func recordMetricsLoop(ctx context.Context, reader SnapshotReader) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			RecordSnapshot(ctx, reader.Snapshot())
		case <-ctx.Done():
			log.Infof("context done, stop record metrics")
			return
		}
	}
}

// RecordSnapshot sets the gauges describing a connection snapshot.
func RecordSnapshot(ctx context.Context, snapshot *types.Snapshot) {
	WalletNum.Set(ctx, int64(len(snapshot.Wallets)))
	if snapshot.CurrentWallet != nil {
		ctx, _ = tag.New(ctx, tag.Upsert(WalletNameKey, snapshot.CurrentWallet.Name))
	}
	WalletAccountNum.Set(ctx, int64(len(snapshot.Accounts)))
	ConnectionState.Set(ctx, StatusValue(snapshot.ConnectionStatus))
}

func StatusValue(status types.ConnectionStatus) int64 {
	switch status {
	case types.Connecting:
		return 1
	case types.Connected:
		return 2
	default:
		return 0
	}
}
