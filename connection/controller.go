package connection

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	logging "github.com/ipfs/go-log/v2"
	"github.com/modern-go/reflect2"
	"github.com/pkg/errors"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"go.uber.org/zap"

	"github.com/ipfs-force-community/sophon-walletkit/metrics"
	"github.com/ipfs-force-community/sophon-walletkit/storage"
	"github.com/ipfs-force-community/sophon-walletkit/types"
)

var log = logging.Logger("wallet_conn")

type Option func(*Controller)

// WithStorage replaces the default in-memory storage adapter.
func WithStorage(adapter types.StorageAdapter) Option {
	return func(c *Controller) {
		if !reflect2.IsNil(adapter) {
			c.storage = adapter
		}
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.log = logger
		}
	}
}

// Controller bridges registry events into the connection store and runs the
// connect, disconnect and persistence flows.
type Controller struct {
	cfg      *Config
	registry types.WalletRegistry
	storage  types.StorageAdapter
	store    *Store
	log      *zap.SugaredLogger

	attempt uint64

	closeOnce sync.Once
	closers   []func()
}

func New(ctx context.Context, registry types.WalletRegistry, cfg *Config, opts ...Option) (*Controller, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := &Controller{
		cfg:      cfg,
		registry: registry,
		log:      &log.SugaredLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.storage == nil {
		c.storage = storage.NewMemoryStorage()
	}

	if cfg.EnableUnsafeBurner {
		if err := c.registerUnsafeBurner(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("register unsafe burner wallet: %w", err)
		}
	}

	c.store = NewStore(types.NewSnapshot(c.sortedWallets()))
	c.closers = append(c.closers, registry.Subscribe(c.onWalletRegistered, c.onWalletUnregistered))
	if notifier, ok := registry.(types.AccountsNotifier); ok {
		c.closers = append(c.closers, notifier.SubscribeAccounts(c.onAccountsChanged))
	}
	// catch wallets registered between the first sort and the subscription
	c.onWalletRegistered(nil)

	c.log.Infow("wallet controller ready", "wallets", c.Snapshot().WalletNames(),
		"preferred", cfg.PreferredWallets, "required", cfg.RequiredFeatures, "autoConnect", cfg.AutoConnect)

	if cfg.AutoConnect {
		c.AutoConnect(ctx)
	}
	return c, nil
}

func (c *Controller) Snapshot() *types.Snapshot {
	return c.store.Snapshot()
}

// Subscribe registers fn for every effective snapshot change.
func (c *Controller) Subscribe(fn Subscriber) func() {
	return c.store.Subscribe(fn)
}

// NewAttempt issues a connect attempt token for ConnectStart.
func (c *Controller) NewAttempt() uint64 {
	return atomic.AddUint64(&c.attempt, 1)
}

// Dispatch applies action and runs its persistence side effects.
func (c *Controller) Dispatch(ctx context.Context, action Action) *types.Snapshot {
	next, _ := c.dispatch(ctx, action)
	return next
}

func (c *Controller) dispatch(ctx context.Context, action Action) (*types.Snapshot, bool) {
	return c.update(ctx, func(*types.Snapshot) Action { return action })
}

// update builds and reduces an action atomically, then runs the side effects
// of the applied action.
func (c *Controller) update(ctx context.Context, build func(current *types.Snapshot) Action) (*types.Snapshot, bool) {
	action, next, changed := c.store.Update(build)
	if !changed {
		if a, ok := action.(*ConnectSuccess); ok && a.Wallet != nil {
			ctx, _ = tag.New(ctx, tag.Upsert(metrics.WalletNameKey, a.Wallet.Name))
			stats.Record(ctx, metrics.ConnectStale.M(1))
		}
		// disconnect always clears the stored connection
		if action.Type() == ActionDisconnect {
			c.forgetConnection(ctx)
		}
		return next, false
	}

	switch action.Type() {
	case ActionConnectSuccess:
		if next.IsConnected() {
			ctx, _ = tag.New(ctx, tag.Upsert(metrics.WalletNameKey, next.CurrentWallet.Name))
			stats.Record(ctx, metrics.ConnectSuccess.M(1))
			c.persistConnection(ctx, next)
		} else {
			stats.Record(ctx, metrics.ConnectFailure.M(1))
		}
	case ActionConnectFailure:
		stats.Record(ctx, metrics.ConnectFailure.M(1))
	case ActionAccountSwitch, ActionAccountsChanged:
		if next.IsConnected() {
			ctx, _ = tag.New(ctx, tag.Upsert(metrics.WalletNameKey, next.CurrentWallet.Name))
			stats.Record(ctx, metrics.AccountSwitch.M(1))
			c.persistConnection(ctx, next)
		}
	case ActionDisconnect:
		stats.Record(ctx, metrics.Disconnect.M(1))
		c.forgetConnection(ctx)
	}
	return next, true
}

// Connect runs the connect handshake with the named wallet and selects
// accountAddress, or the first authorized account when it is empty.
func (c *Controller) Connect(ctx context.Context, walletName, accountAddress string) (*types.Snapshot, error) {
	provider, err := c.provider(walletName)
	if err != nil {
		return c.Snapshot(), err
	}

	attempt := c.startAttempt(ctx, walletName)
	c.log.Infow("connect wallet", "walletName", walletName, "attempt", attempt)

	accounts, err := provider.Connect(ctx)
	if err != nil {
		return c.connectFailed(ctx, attempt, errors.Wrapf(ErrConnectFailed, "wallet %s: %v", walletName, err))
	}

	var account *types.Account
	var ok bool
	if len(accountAddress) == 0 {
		if len(accounts) > 0 {
			account, ok = &accounts[0], true
		}
	} else {
		account, ok = types.FindAccount(accounts, accountAddress)
	}
	if !ok {
		return c.connectFailed(ctx, attempt, errors.Wrapf(ErrAccountNotFound, "wallet %s account %q", walletName, accountAddress))
	}

	wallet := provider.Info().Clone()
	wallet.Accounts = accounts
	next, changed := c.dispatch(ctx, &ConnectSuccess{
		Attempt:  attempt,
		Wallet:   wallet,
		Accounts: accounts,
		Account:  *account,
	})
	if !changed {
		c.log.Infof("drop connect result of wallet %s, attempt %d superseded", walletName, attempt)
		return next, errors.Wrapf(ErrAttemptSuperseded, "attempt %d", attempt)
	}
	c.log.Infof("wallet %s connected with account %s", walletName, account.Address)
	return next, nil
}

func (c *Controller) connectFailed(ctx context.Context, attempt uint64, cause error) (*types.Snapshot, error) {
	next, changed := c.dispatch(ctx, &ConnectFailure{Attempt: attempt, Reason: cause.Error()})
	if !changed {
		return next, errors.Wrapf(ErrAttemptSuperseded, "attempt %d", attempt)
	}
	c.log.Warnf("connect attempt %d failed: %v", attempt, cause)
	return next, cause
}

// Disconnect clears the selection, drops any pending attempt and forgets the
// stored connection.
func (c *Controller) Disconnect(ctx context.Context) *types.Snapshot {
	current := c.Snapshot().CurrentWallet
	if current != nil {
		if provider, err := c.provider(current.Name); err == nil && provider.Info().HasFeature(types.FeatureDisconnect) {
			if err := provider.Disconnect(ctx); err != nil {
				c.log.Warnf("wallet %s disconnect failed: %v", current.Name, err)
			}
		}
	}
	next, _ := c.dispatch(ctx, &Disconnect{})
	return next
}

// SwitchAccount selects another account of the connected wallet.
func (c *Controller) SwitchAccount(ctx context.Context, address string) (*types.Snapshot, error) {
	snapshot := c.Snapshot()
	if !snapshot.IsConnected() {
		return snapshot, ErrNotConnected
	}
	if _, ok := types.FindAccount(snapshot.Accounts, address); !ok {
		return snapshot, errors.Wrapf(ErrAccountNotFound, "account %s", address)
	}
	next, _ := c.dispatch(ctx, &AccountSwitch{Address: address})
	return next, nil
}

// AutoConnect restores the stored connection when its wallet and account are
// still available. Every failure leaves the state untouched.
func (c *Controller) AutoConnect(ctx context.Context) {
	if c.Snapshot().ConnectionStatus != types.Disconnected {
		return
	}
	value, ok, err := c.storage.Get(ctx, c.cfg.storageKey())
	if err != nil {
		stats.Record(ctx, metrics.PersistFailure.M(1))
		c.log.Warnf("read stored connection failed: %v", err)
		return
	}
	if !ok {
		return
	}
	info, err := types.DecodeConnectionInfo(value)
	if err != nil {
		c.log.Debugf("ignore stored connection: %v", err)
		return
	}

	wallet, ok := c.Snapshot().Wallet(info.WalletName)
	if !ok {
		c.log.Debugf("stored wallet %s not available", info.WalletName)
		return
	}
	account, ok := wallet.FindAccount(info.AccountAddress)
	if !ok {
		c.log.Debugf("stored account %s not exposed by wallet %s", info.AccountAddress, info.WalletName)
		return
	}

	attempt := c.startAttempt(ctx, wallet.Name)
	next, changed := c.update(ctx, func(current *types.Snapshot) Action {
		if _, ok := current.Wallet(wallet.Name); !ok {
			return &ConnectFailure{Attempt: attempt, Reason: fmt.Sprintf("wallet %s unregistered", wallet.Name)}
		}
		return &ConnectSuccess{
			Attempt:  attempt,
			Wallet:   wallet,
			Accounts: wallet.Accounts,
			Account:  *account,
		}
	})
	if changed && next.IsConnected() {
		c.log.Infof("reconnect wallet %s with account %s", wallet.Name, account.Address)
	}
}

// startAttempt issues a token and dispatches its ConnectStart under the store
// lock, so starts are applied in token order.
func (c *Controller) startAttempt(ctx context.Context, walletName string) uint64 {
	var attempt uint64
	c.update(ctx, func(*types.Snapshot) Action {
		attempt = c.NewAttempt()
		return &ConnectStart{Attempt: attempt, WalletName: walletName}
	})
	return attempt
}

// Close releases the registry subscriptions and the burner wallet.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		for i := len(c.closers) - 1; i >= 0; i-- {
			c.closers[i]()
		}
	})
}

func (c *Controller) provider(walletName string) (types.WalletProvider, error) {
	if _, ok := c.Snapshot().Wallet(walletName); !ok {
		return nil, errors.Wrapf(ErrWalletNotFound, "wallet %s", walletName)
	}
	for _, provider := range c.registry.List() {
		if provider.Info().Name == walletName {
			return provider, nil
		}
	}
	return nil, errors.Wrapf(ErrWalletNotFound, "wallet %s", walletName)
}

func (c *Controller) sortedWallets() []*types.WalletInfo {
	return SortWallets(walletInfos(c.registry.List()), c.cfg.PreferredWallets, c.cfg.RequiredFeatures)
}

// Registry events read the registry inside the store update, so a late
// callback can never publish a wallet list older than one already applied.

func (c *Controller) onWalletRegistered(types.WalletProvider) {
	c.store.Update(func(*types.Snapshot) Action {
		return &WalletRegistered{UpdatedWallets: c.sortedWallets()}
	})
}

func (c *Controller) onWalletUnregistered(wallet types.WalletProvider) {
	name := wallet.Info().Name
	var prev *types.Snapshot
	_, next, _ := c.store.Update(func(current *types.Snapshot) Action {
		prev = current
		return &WalletUnregistered{
			UpdatedWallets: c.sortedWallets(),
			WalletName:     name,
		}
	})
	if prev.ConnectionStatus != types.Disconnected && next.ConnectionStatus == types.Disconnected {
		c.log.Infof("wallet %s unregistered, connection dropped", name)
	}
}

func (c *Controller) onAccountsChanged(walletName string, accounts []types.Account) {
	c.dispatch(context.Background(), &AccountsChanged{WalletName: walletName, Accounts: accounts})
}
