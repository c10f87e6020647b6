package burner

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
	logging "github.com/ipfs/go-log/v2"

	"github.com/ipfs-force-community/sophon-walletkit/connection"
	"github.com/ipfs-force-community/sophon-walletkit/types"
)

var log = logging.Logger("burner_wallet")

const WalletName = "Unsafe Burner Wallet"

func init() {
	connection.RegisterUnsafeBurner(func(ctx context.Context) (types.WalletProvider, error) {
		return NewBurnerWallet(ctx)
	})
}

var (
	_ types.WalletProvider = (*BurnerWallet)(nil)
	_ types.IWalletHandler = (*BurnerWallet)(nil)
)

// BurnerWallet keeps a single throwaway secp256k1 key in memory. The key is
// lost when the process exits.
type BurnerWallet struct {
	lk      sync.Mutex
	keyInfo key.KeyInfo
	account types.Account
}

func NewBurnerWallet(ctx context.Context) (*BurnerWallet, error) {
	keyInfo, err := key.NewSecpKeyFromSeed(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate burner key: %w", err)
	}
	addr, err := keyInfo.Address()
	if err != nil {
		return nil, err
	}
	pub, err := vcrypto.ToPublic(vcrypto.SigTypeSecp256k1, keyInfo.Key())
	if err != nil {
		return nil, err
	}
	log.Debugf("burner wallet account %s", addr)

	return &BurnerWallet{
		keyInfo: keyInfo,
		account: types.Account{
			Address:   addr.String(),
			PublicKey: pub,
			Label:     "Burner Account",
			Chains:    []string{"sui:unknown"},
			Features:  []types.Feature{types.FeatureSignPersonalMessage, types.FeatureSignTransactionBlock},
		},
	}, nil
}

func (b *BurnerWallet) Info() *types.WalletInfo {
	return &types.WalletInfo{
		Name:    WalletName,
		Version: "1.0.0",
		Features: []types.Feature{
			types.FeatureConnect,
			types.FeatureSignPersonalMessage,
			types.FeatureSignTransactionBlock,
		},
		Accounts: []types.Account{b.account.Clone()},
	}
}

func (b *BurnerWallet) WalletInfo(ctx context.Context) (*types.WalletInfo, error) {
	return b.Info(), nil
}

// Connect always authorizes the single burner account.
func (b *BurnerWallet) Connect(ctx context.Context) ([]types.Account, error) {
	return []types.Account{b.account.Clone()}, nil
}

func (b *BurnerWallet) Disconnect(ctx context.Context) error {
	return nil
}

func (b *BurnerWallet) SignPersonalMessage(ctx context.Context, address string, msg []byte) (*crypto.Signature, error) {
	if address != b.account.Address {
		return nil, fmt.Errorf("address %s not found", address)
	}
	b.lk.Lock()
	defer b.lk.Unlock()
	return vcrypto.Sign(msg, b.keyInfo.Key(), vcrypto.SigTypeSecp256k1)
}

// Verify checks a signature produced by SignPersonalMessage.
func Verify(addr string, sig *crypto.Signature, msg []byte) error {
	signer, err := address.NewFromString(addr)
	if err != nil {
		return err
	}
	return vcrypto.Verify(sig, signer, msg)
}
