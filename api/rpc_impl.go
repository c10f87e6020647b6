package api

import (
	"context"

	"github.com/filecoin-project/go-state-types/crypto"

	"github.com/ipfs-force-community/sophon-walletkit/connection"
	"github.com/ipfs-force-community/sophon-walletkit/types"
	"github.com/ipfs-force-community/sophon-walletkit/walletevent"
)

var _ WalletKitAPI = (*WalletKitAPIImpl)(nil)

type WalletKitAPIImpl struct {
	walletevent.IWalletServiceProvider
	we *walletevent.WalletEventStream
	c  *connection.Controller
}

func NewWalletKitAPIImpl(c *connection.Controller, we *walletevent.WalletEventStream) *WalletKitAPIImpl {
	return &WalletKitAPIImpl{
		IWalletServiceProvider: we,
		we:                     we,
		c:                      c,
	}
}

func (w *WalletKitAPIImpl) ListWallets(ctx context.Context) ([]*types.WalletInfo, error) {
	return w.c.Snapshot().Wallets, nil
}

func (w *WalletKitAPIImpl) ConnectionState(ctx context.Context) (*types.Snapshot, error) {
	return w.c.Snapshot(), nil
}

func (w *WalletKitAPIImpl) ListenConnectionState(ctx context.Context) (<-chan *types.Snapshot, error) {
	out := make(chan *types.Snapshot, 16)
	notify := make(chan struct{}, 1)
	unsubscribe := w.c.Subscribe(func(prev, next *types.Snapshot) {
		select {
		case notify <- struct{}{}:
		default:
		}
	})

	go func() {
		defer close(out)
		defer unsubscribe()

		var last *types.Snapshot
		for {
			if current := w.c.Snapshot(); current != last {
				select {
				case out <- current:
					last = current
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-notify:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (w *WalletKitAPIImpl) Connect(ctx context.Context, walletName string, accountAddress string) (*types.Snapshot, error) {
	return w.c.Connect(ctx, walletName, accountAddress)
}

func (w *WalletKitAPIImpl) Disconnect(ctx context.Context) (*types.Snapshot, error) {
	return w.c.Disconnect(ctx), nil
}

func (w *WalletKitAPIImpl) SwitchAccount(ctx context.Context, accountAddress string) (*types.Snapshot, error) {
	return w.c.SwitchAccount(ctx, accountAddress)
}

func (w *WalletKitAPIImpl) SignPersonalMessage(ctx context.Context, msg []byte) (*crypto.Signature, error) {
	snapshot := w.c.Snapshot()
	if !snapshot.IsConnected() {
		return nil, connection.ErrNotConnected
	}
	return w.we.SignPersonalMessage(ctx, snapshot.CurrentWallet.Name, snapshot.CurrentAccount.Address, msg)
}
