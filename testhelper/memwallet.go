package testhelper

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/crypto"
	vcrypto "github.com/filecoin-project/venus/pkg/crypto"
	_ "github.com/filecoin-project/venus/pkg/crypto/secp"
	"github.com/filecoin-project/venus/pkg/wallet/key"

	"github.com/ipfs-force-community/sophon-walletkit/types"
)

var _ types.IWalletHandler = (*MemWallet)(nil)

// MemWallet is a wallet process holding secp256k1 keys in memory, used to
// drive remote wallet streams in tests.
type MemWallet struct {
	lk       sync.Mutex
	name     string
	features []types.Feature
	keys     map[address.Address]key.KeyInfo
	order    []address.Address
	fail     bool
}

func NewMemWallet(name string) *MemWallet {
	return &MemWallet{
		name: name,
		features: []types.Feature{
			types.FeatureConnect,
			types.FeatureDisconnect,
			types.FeatureSignPersonalMessage,
		},
		keys: make(map[address.Address]key.KeyInfo),
	}
}

func (m *MemWallet) SetFail(ctx context.Context, fail bool) {
	m.lk.Lock()
	defer m.lk.Unlock()
	m.fail = fail
}

func (m *MemWallet) AddKey(ctx context.Context) (address.Address, error) {
	m.lk.Lock()
	defer m.lk.Unlock()
	keyInfo, err := key.NewSecpKeyFromSeed(rand.Reader)
	if err != nil {
		return address.Undef, err
	}

	addr, err := keyInfo.Address()
	if err != nil {
		return addr, err
	}
	m.keys[addr] = keyInfo
	m.order = append(m.order, addr)
	return addr, nil
}

func (m *MemWallet) Verify(ctx context.Context, addr address.Address, sig *crypto.Signature, msg []byte) error {
	return vcrypto.Verify(sig, addr, msg)
}

func (m *MemWallet) WalletInfo(ctx context.Context) (*types.WalletInfo, error) {
	m.lk.Lock()
	defer m.lk.Unlock()
	return &types.WalletInfo{
		Name:     m.name,
		Version:  "1.0.0",
		Features: append([]types.Feature(nil), m.features...),
		Accounts: m.accounts(),
	}, nil
}

func (m *MemWallet) Connect(ctx context.Context) ([]types.Account, error) {
	m.lk.Lock()
	defer m.lk.Unlock()
	if m.fail {
		return nil, fmt.Errorf("mock error")
	}
	return m.accounts(), nil
}

func (m *MemWallet) SignPersonalMessage(ctx context.Context, signer string, msg []byte) (*crypto.Signature, error) {
	addr, err := address.NewFromString(signer)
	if err != nil {
		return nil, err
	}

	m.lk.Lock()
	defer m.lk.Unlock()
	if m.fail {
		return nil, fmt.Errorf("mock error")
	}
	keyInfo, ok := m.keys[addr]
	if !ok {
		return nil, fmt.Errorf("address %s not found", signer)
	}
	return vcrypto.Sign(msg, keyInfo.Key(), vcrypto.SigTypeSecp256k1)
}

// accounts must be called with lk held.
func (m *MemWallet) accounts() []types.Account {
	accounts := make([]types.Account, 0, len(m.order))
	for _, addr := range m.order {
		accounts = append(accounts, types.Account{
			Address:  addr.String(),
			Features: []types.Feature{types.FeatureSignPersonalMessage},
		})
	}
	return accounts
}
