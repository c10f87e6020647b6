package api

import (
	"context"
	"net/http"

	"github.com/filecoin-project/go-jsonrpc"
	"github.com/filecoin-project/go-state-types/crypto"
	"github.com/google/uuid"

	"github.com/ipfs-force-community/sophon-walletkit/types"
	"github.com/ipfs-force-community/sophon-walletkit/walletevent"
)

// Namespace of the rpc methods served on /rpc/v0.
const Namespace = "WalletKit"

// IConnectionAPI exposes the connection snapshot to consumers.
type IConnectionAPI interface {
	ListWallets(ctx context.Context) ([]*types.WalletInfo, error)
	ConnectionState(ctx context.Context) (*types.Snapshot, error)
	// ListenConnectionState sends the current snapshot, then every later one.
	// Bursts of changes may be coalesced into the newest snapshot.
	ListenConnectionState(ctx context.Context) (<-chan *types.Snapshot, error)
	Connect(ctx context.Context, walletName string, accountAddress string) (*types.Snapshot, error)
	Disconnect(ctx context.Context) (*types.Snapshot, error)
	SwitchAccount(ctx context.Context, accountAddress string) (*types.Snapshot, error)
	// SignPersonalMessage signs msg with the connected account.
	SignPersonalMessage(ctx context.Context, msg []byte) (*crypto.Signature, error)
}

type WalletKitAPI interface {
	IConnectionAPI
	walletevent.IWalletServiceProvider
}

var _ WalletKitAPI = (*WalletKitStruct)(nil)

type WalletKitStruct struct {
	Internal struct {
		ListWallets           func(ctx context.Context) ([]*types.WalletInfo, error)
		ConnectionState       func(ctx context.Context) (*types.Snapshot, error)
		ListenConnectionState func(ctx context.Context) (<-chan *types.Snapshot, error)
		Connect               func(ctx context.Context, walletName string, accountAddress string) (*types.Snapshot, error)
		Disconnect            func(ctx context.Context) (*types.Snapshot, error)
		SwitchAccount         func(ctx context.Context, accountAddress string) (*types.Snapshot, error)
		SignPersonalMessage   func(ctx context.Context, msg []byte) (*crypto.Signature, error)

		ListenWalletEvent   func(ctx context.Context, policy *types.WalletRegisterPolicy) (<-chan *types.RequestEvent, error)
		ResponseWalletEvent func(ctx context.Context, resp *types.ResponseEvent) error
		UpdateAccounts      func(ctx context.Context, channelID uuid.UUID, accounts []types.Account) error
	}
}

func (s *WalletKitStruct) ListWallets(ctx context.Context) ([]*types.WalletInfo, error) {
	return s.Internal.ListWallets(ctx)
}

func (s *WalletKitStruct) ConnectionState(ctx context.Context) (*types.Snapshot, error) {
	return s.Internal.ConnectionState(ctx)
}

func (s *WalletKitStruct) ListenConnectionState(ctx context.Context) (<-chan *types.Snapshot, error) {
	return s.Internal.ListenConnectionState(ctx)
}

func (s *WalletKitStruct) Connect(ctx context.Context, walletName string, accountAddress string) (*types.Snapshot, error) {
	return s.Internal.Connect(ctx, walletName, accountAddress)
}

func (s *WalletKitStruct) Disconnect(ctx context.Context) (*types.Snapshot, error) {
	return s.Internal.Disconnect(ctx)
}

func (s *WalletKitStruct) SwitchAccount(ctx context.Context, accountAddress string) (*types.Snapshot, error) {
	return s.Internal.SwitchAccount(ctx, accountAddress)
}

func (s *WalletKitStruct) SignPersonalMessage(ctx context.Context, msg []byte) (*crypto.Signature, error) {
	return s.Internal.SignPersonalMessage(ctx, msg)
}

func (s *WalletKitStruct) ListenWalletEvent(ctx context.Context, policy *types.WalletRegisterPolicy) (<-chan *types.RequestEvent, error) {
	return s.Internal.ListenWalletEvent(ctx, policy)
}

func (s *WalletKitStruct) ResponseWalletEvent(ctx context.Context, resp *types.ResponseEvent) error {
	return s.Internal.ResponseWalletEvent(ctx, resp)
}

func (s *WalletKitStruct) UpdateAccounts(ctx context.Context, channelID uuid.UUID, accounts []types.Account) error {
	return s.Internal.UpdateAccounts(ctx, channelID, accounts)
}

// NewWalletKitClient dials a walletkit daemon, addr is a ws or http rpc url.
func NewWalletKitClient(ctx context.Context, addr string, header http.Header) (WalletKitAPI, jsonrpc.ClientCloser, error) {
	var client WalletKitStruct
	closer, err := jsonrpc.NewMergeClient(ctx, addr, Namespace, []interface{}{&client.Internal}, header)
	if err != nil {
		return nil, nil, err
	}
	return &client, closer, nil
}
