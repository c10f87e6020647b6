package walletevent

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/filecoin-project/go-state-types/crypto"
	"go.opencensus.io/stats"

	"github.com/ipfs-force-community/sophon-walletkit/metrics"
	"github.com/ipfs-force-community/sophon-walletkit/types"
)

var _ types.WalletProvider = (*remoteWallet)(nil)

// remoteWallet is a provider reached through a listener channel.
type remoteWallet struct {
	lk      sync.Mutex
	info    *types.WalletInfo
	channel *types.ChannelInfo
	stream  *types.BaseEventStream
}

func newRemoteWallet(info *types.WalletInfo, channel *types.ChannelInfo, stream *types.BaseEventStream) *remoteWallet {
	return &remoteWallet{
		info:    info.Clone(),
		channel: channel,
		stream:  stream,
	}
}

func (r *remoteWallet) Info() *types.WalletInfo {
	r.lk.Lock()
	defer r.lk.Unlock()
	return r.info.Clone()
}

func (r *remoteWallet) setAccounts(accounts []types.Account) {
	r.lk.Lock()
	defer r.lk.Unlock()
	r.info.Accounts = types.CloneAccounts(accounts)
}

func (r *remoteWallet) Connect(ctx context.Context) ([]types.Account, error) {
	start := time.Now()
	var accounts []types.Account
	err := r.stream.SendRequest(ctx, []*types.ChannelInfo{r.channel}, types.MethodStandardConnect, nil, &accounts)
	stats.Record(ctx, metrics.WalletConnectHandshake.M(metrics.SinceInMilliseconds(start)))
	if err != nil {
		return nil, err
	}
	r.setAccounts(accounts)
	return accounts, nil
}

func (r *remoteWallet) Disconnect(ctx context.Context) error {
	return nil
}

func (r *remoteWallet) SignPersonalMessage(ctx context.Context, address string, msg []byte) (*crypto.Signature, error) {
	payload, err := json.Marshal(&types.SignPersonalMessageRequest{
		Address: address,
		Message: msg,
	})
	if err != nil {
		return nil, err
	}

	var sig crypto.Signature
	if err := r.stream.SendRequest(ctx, []*types.ChannelInfo{r.channel}, types.MethodSignPersonalMessage, payload, &sig); err != nil {
		return nil, err
	}
	return &sig, nil
}
