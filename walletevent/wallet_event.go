package walletevent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/filecoin-project/go-state-types/crypto"
	"github.com/google/uuid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"

	"github.com/ipfs-force-community/sophon-walletkit/metrics"
	"github.com/ipfs-force-community/sophon-walletkit/types"
)

var log = logging.Logger("wallet_event")

var ErrWalletNotAttached = errors.New("wallet not attached")

// WalletEventStream lets wallets living in other processes attach to the
// registry. Each listener becomes a remote wallet provider until its context
// ends.
type WalletEventStream struct {
	registry *WalletRegistry
	cfg      *types.RequestConfig
	*types.BaseEventStream

	connLk  sync.Mutex
	remotes map[uuid.UUID]*remoteWallet
}

func NewWalletEventStream(ctx context.Context, registry *WalletRegistry, cfg *types.RequestConfig) *WalletEventStream {
	return &WalletEventStream{
		registry:        registry,
		cfg:             cfg,
		BaseEventStream: types.NewBaseEventStream(ctx, cfg),
		remotes:         make(map[uuid.UUID]*remoteWallet),
	}
}

func (w *WalletEventStream) ListenWalletEvent(ctx context.Context, policy *types.WalletRegisterPolicy) (<-chan *types.RequestEvent, error) {
	if policy == nil || policy.Wallet == nil || len(policy.Wallet.Name) == 0 {
		return nil, errors.New("wallet register policy must carry a named wallet")
	}

	ip, _ := CtxGetIP(ctx)
	walletName := policy.Wallet.Name
	walletLog := log.With("walletName", walletName).With("ip", ip)
	ctx, _ = tag.New(ctx, tag.Upsert(metrics.WalletNameKey, walletName), tag.Upsert(metrics.IPKey, ip))

	out := make(chan *types.RequestEvent, w.cfg.RequestQueueSize)
	channel := types.NewChannelInfo(ctx, ip, out)
	remote := newRemoteWallet(policy.Wallet, channel, w.BaseEventStream)

	unregister, err := w.registry.Register(remote)
	if err != nil {
		return nil, fmt.Errorf("register wallet %s failed: %w", walletName, err)
	}
	w.connLk.Lock()
	w.remotes[channel.ChannelId] = remote
	w.connLk.Unlock()
	stats.Record(ctx, metrics.WalletRegister.M(1))
	walletLog.Infof("add new connections %s", channel.ChannelId)

	go func() {
		defer close(out)
		defer func() {
			w.connLk.Lock()
			delete(w.remotes, channel.ChannelId)
			w.connLk.Unlock()
			unregister()
			stats.Record(ctx, metrics.WalletUnregister.M(1))
			walletLog.Infof("remove connection %s", channel.ChannelId)
		}()

		connectBytes, err := json.Marshal(types.ConnectedCompleted{
			ChannelId: channel.ChannelId,
		})
		if err != nil {
			walletLog.Errorf("marshal failed %v", err)
			return
		}

		select {
		case out <- &types.RequestEvent{
			ID:         uuid.New(),
			Method:     types.MethodInitConnect,
			CreateTime: time.Now(),
			Payload:    connectBytes,
			Result:     nil,
		}: // not response
		case <-ctx.Done():
			return
		}

		<-ctx.Done()
	}()
	return out, nil
}

func (w *WalletEventStream) ResponseWalletEvent(ctx context.Context, resp *types.ResponseEvent) error {
	return w.ResponseEvent(ctx, resp)
}

// UpdateAccounts records the accounts a remote wallet now exposes.
func (w *WalletEventStream) UpdateAccounts(ctx context.Context, channelID uuid.UUID, accounts []types.Account) error {
	w.connLk.Lock()
	remote, ok := w.remotes[channelID]
	w.connLk.Unlock()
	if !ok {
		return errors.Wrapf(ErrWalletNotAttached, "channel %s", channelID)
	}

	remote.setAccounts(accounts)
	name := remote.Info().Name
	ctx, _ = tag.New(ctx, tag.Upsert(metrics.WalletNameKey, name))
	stats.Record(ctx, metrics.WalletAccountsChanged.M(1))
	log.Infof("wallet %s update accounts %d", name, len(accounts))
	return w.registry.UpdateAccounts(name, accounts)
}

// SignPersonalMessage forwards a signing request to an attached wallet.
func (w *WalletEventStream) SignPersonalMessage(ctx context.Context, walletName string, address string, msg []byte) (*crypto.Signature, error) {
	wallet, ok := w.registry.Get(walletName)
	if !ok {
		return nil, errors.Wrapf(ErrWalletNotAttached, "wallet %s", walletName)
	}
	signer, ok := wallet.(interface {
		SignPersonalMessage(context.Context, string, []byte) (*crypto.Signature, error)
	})
	if !ok || !wallet.Info().HasFeature(types.FeatureSignPersonalMessage) {
		return nil, fmt.Errorf("wallet %s does not support %s", walletName, types.FeatureSignPersonalMessage)
	}

	start := time.Now()
	sig, err := signer.SignPersonalMessage(ctx, address, msg)
	ctx, _ = tag.New(ctx, tag.Upsert(metrics.WalletNameKey, walletName))
	stats.Record(ctx, metrics.WalletSign.M(metrics.SinceInMilliseconds(start)))
	return sig, err
}

type ipKey struct{}

func CtxWithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipKey{}, ip)
}

func CtxGetIP(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(ipKey{}).(string)
	return ip, ok
}
