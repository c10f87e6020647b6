package testhelper

import (
	"context"
	"fmt"
	"sync"

	"github.com/ipfs-force-community/sophon-walletkit/types"
)

// Accounts builds accounts with the given addresses.
func Accounts(addresses ...string) []types.Account {
	accounts := make([]types.Account, 0, len(addresses))
	for _, addr := range addresses {
		accounts = append(accounts, types.Account{Address: addr})
	}
	return accounts
}

var _ types.WalletProvider = (*MockWallet)(nil)

// MockWallet is an in-process wallet provider with scripted behaviour.
type MockWallet struct {
	lk          sync.Mutex
	info        *types.WalletInfo
	fail        bool
	block       chan struct{}
	connects    int
	disconnects int
}

func NewMockWallet(name string, accounts []types.Account, features ...types.Feature) *MockWallet {
	if len(features) == 0 {
		features = []types.Feature{types.FeatureConnect, types.FeatureDisconnect}
	}
	return &MockWallet{
		info: &types.WalletInfo{
			Name:     name,
			Version:  "1.0.0",
			Features: features,
			Accounts: accounts,
		},
	}
}

func (m *MockWallet) Info() *types.WalletInfo {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.info.Clone()
}

func (m *MockWallet) SetAccounts(accounts []types.Account) {
	m.lk.Lock()
	defer m.lk.Unlock()
	m.info.Accounts = types.CloneAccounts(accounts)
}

func (m *MockWallet) SetFail(fail bool) {
	m.lk.Lock()
	defer m.lk.Unlock()
	m.fail = fail
}

// Block makes Connect wait until the returned function is called.
func (m *MockWallet) Block() (release func()) {
	ch := make(chan struct{})
	m.lk.Lock()
	m.block = ch
	m.lk.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (m *MockWallet) Connect(ctx context.Context) ([]types.Account, error) {
	m.lk.Lock()
	m.connects++
	block := m.block
	m.lk.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.lk.Lock()
	defer m.lk.Unlock()
	if m.fail {
		return nil, fmt.Errorf("mock error")
	}
	return types.CloneAccounts(m.info.Accounts), nil
}

func (m *MockWallet) Disconnect(ctx context.Context) error {
	m.lk.Lock()
	defer m.lk.Unlock()
	m.disconnects++
	return nil
}

func (m *MockWallet) Connects() int {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.connects
}

func (m *MockWallet) Disconnects() int {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.disconnects
}

var _ types.StorageAdapter = (*FailStorage)(nil)

// FailStorage rejects every operation.
type FailStorage struct{}

func (FailStorage) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, fmt.Errorf("mock storage error")
}

func (FailStorage) Set(ctx context.Context, key string, value string) error {
	return fmt.Errorf("mock storage error")
}

func (FailStorage) Remove(ctx context.Context, key string) error {
	return fmt.Errorf("mock storage error")
}
