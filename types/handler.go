package types

import (
	"context"

	"github.com/filecoin-project/go-state-types/crypto"
)

// IWalletHandler is the wallet-side processor answering gateway requests.
type IWalletHandler interface {
	WalletInfo(ctx context.Context) (*WalletInfo, error)
	Connect(ctx context.Context) ([]Account, error)
	SignPersonalMessage(ctx context.Context, address string, msg []byte) (*crypto.Signature, error)
}
