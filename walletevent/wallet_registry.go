package walletevent

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ipfs-force-community/sophon-walletkit/types"
)

var (
	_ types.WalletRegistry   = (*WalletRegistry)(nil)
	_ types.AccountsNotifier = (*WalletRegistry)(nil)
)

type walletListener struct {
	onRegister   func(types.WalletProvider)
	onUnregister func(types.WalletProvider)
}

// WalletRegistry holds the wallets available to the kit in registration
// order. Listeners are called synchronously, outside the lock, in the order
// they subscribed.
type WalletRegistry struct {
	lk       sync.Mutex
	wallets  []types.WalletProvider
	byName   map[string]types.WalletProvider
	order    []uuid.UUID
	handlers map[uuid.UUID]*walletListener

	accountOrder    []uuid.UUID
	accountHandlers map[uuid.UUID]func(string, []types.Account)
}

func NewWalletRegistry(wallets ...types.WalletProvider) (*WalletRegistry, error) {
	r := &WalletRegistry{
		byName:          make(map[string]types.WalletProvider),
		handlers:        make(map[uuid.UUID]*walletListener),
		accountHandlers: make(map[uuid.UUID]func(string, []types.Account)),
	}
	for _, wallet := range wallets {
		if _, err := r.Register(wallet); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a wallet and returns a function removing it again.
func (r *WalletRegistry) Register(wallet types.WalletProvider) (func(), error) {
	name := wallet.Info().Name
	if len(name) == 0 {
		return nil, fmt.Errorf("wallet name must not be empty")
	}

	r.lk.Lock()
	if _, ok := r.byName[name]; ok {
		r.lk.Unlock()
		return nil, fmt.Errorf("wallet %s already registered", name)
	}
	r.byName[name] = wallet
	r.wallets = append(r.wallets, wallet)
	listeners := r.listeners()
	r.lk.Unlock()

	log.Infow("register wallet", "walletName", name, "features", wallet.Info().Features)
	for _, l := range listeners {
		if l.onRegister != nil {
			l.onRegister(wallet)
		}
	}

	return func() {
		if err := r.unregister(wallet); err != nil {
			log.Debugf("unregister wallet %s: %v", name, err)
		}
	}, nil
}

// Unregister removes the wallet registered under name.
func (r *WalletRegistry) Unregister(name string) error {
	r.lk.Lock()
	wallet, ok := r.byName[name]
	r.lk.Unlock()
	if !ok {
		return fmt.Errorf("wallet %s not exit", name)
	}
	return r.unregister(wallet)
}

func (r *WalletRegistry) unregister(wallet types.WalletProvider) error {
	name := wallet.Info().Name

	r.lk.Lock()
	if current, ok := r.byName[name]; !ok || current != wallet {
		r.lk.Unlock()
		return fmt.Errorf("wallet %s not exit", name)
	}
	delete(r.byName, name)
	for i, w := range r.wallets {
		if w == wallet {
			r.wallets = append(r.wallets[:i:i], r.wallets[i+1:]...)
			break
		}
	}
	listeners := r.listeners()
	r.lk.Unlock()

	log.Infof("unregister wallet %s", name)
	for _, l := range listeners {
		if l.onUnregister != nil {
			l.onUnregister(wallet)
		}
	}
	return nil
}

func (r *WalletRegistry) Get(name string) (types.WalletProvider, bool) {
	r.lk.Lock()
	defer r.lk.Unlock()
	wallet, ok := r.byName[name]
	return wallet, ok
}

func (r *WalletRegistry) List() []types.WalletProvider {
	r.lk.Lock()
	defer r.lk.Unlock()
	return append([]types.WalletProvider(nil), r.wallets...)
}

func (r *WalletRegistry) Subscribe(onRegister, onUnregister func(types.WalletProvider)) func() {
	id := uuid.New()
	r.lk.Lock()
	r.handlers[id] = &walletListener{onRegister: onRegister, onUnregister: onUnregister}
	r.order = append(r.order, id)
	r.lk.Unlock()

	return func() {
		r.lk.Lock()
		defer r.lk.Unlock()
		delete(r.handlers, id)
		r.order = removeID(r.order, id)
	}
}

// UpdateAccounts tells account listeners that a wallet now exposes accounts.
func (r *WalletRegistry) UpdateAccounts(name string, accounts []types.Account) error {
	r.lk.Lock()
	if _, ok := r.byName[name]; !ok {
		r.lk.Unlock()
		return fmt.Errorf("wallet %s not exit", name)
	}
	handlers := make([]func(string, []types.Account), 0, len(r.accountOrder))
	for _, id := range r.accountOrder {
		handlers = append(handlers, r.accountHandlers[id])
	}
	r.lk.Unlock()

	for _, handler := range handlers {
		handler(name, types.CloneAccounts(accounts))
	}
	return nil
}

func (r *WalletRegistry) SubscribeAccounts(onChange func(string, []types.Account)) func() {
	id := uuid.New()
	r.lk.Lock()
	r.accountHandlers[id] = onChange
	r.accountOrder = append(r.accountOrder, id)
	r.lk.Unlock()

	return func() {
		r.lk.Lock()
		defer r.lk.Unlock()
		delete(r.accountHandlers, id)
		r.accountOrder = removeID(r.accountOrder, id)
	}
}

// ListWalletInfo returns the descriptors of all wallets in registration order.
func (r *WalletRegistry) ListWalletInfo() []*types.WalletInfo {
	wallets := r.List()
	infos := make([]*types.WalletInfo, 0, len(wallets))
	for _, wallet := range wallets {
		infos = append(infos, wallet.Info().Clone())
	}
	return infos
}

// listeners must be called with lk held.
func (r *WalletRegistry) listeners() []*walletListener {
	out := make([]*walletListener, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.handlers[id])
	}
	return out
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
