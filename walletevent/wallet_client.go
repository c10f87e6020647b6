package walletevent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/filecoin-project/go-jsonrpc"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ipfs-force-community/sophon-walletkit/types"
)

// IWalletServiceProvider is the gateway surface a wallet process talks to.
type IWalletServiceProvider interface {
	ListenWalletEvent(ctx context.Context, policy *types.WalletRegisterPolicy) (<-chan *types.RequestEvent, error)
	ResponseWalletEvent(ctx context.Context, resp *types.ResponseEvent) error
	UpdateAccounts(ctx context.Context, channelID uuid.UUID, accounts []types.Account) error
}

var _ IWalletServiceProvider = (*WalletServiceProviderStruct)(nil)

type WalletServiceProviderStruct struct {
	Internal struct {
		ListenWalletEvent   func(ctx context.Context, policy *types.WalletRegisterPolicy) (<-chan *types.RequestEvent, error)
		ResponseWalletEvent func(ctx context.Context, resp *types.ResponseEvent) error
		UpdateAccounts      func(ctx context.Context, channelID uuid.UUID, accounts []types.Account) error
	}
}

func (s *WalletServiceProviderStruct) ListenWalletEvent(ctx context.Context, policy *types.WalletRegisterPolicy) (<-chan *types.RequestEvent, error) {
	return s.Internal.ListenWalletEvent(ctx, policy)
}

func (s *WalletServiceProviderStruct) ResponseWalletEvent(ctx context.Context, resp *types.ResponseEvent) error {
	return s.Internal.ResponseWalletEvent(ctx, resp)
}

func (s *WalletServiceProviderStruct) UpdateAccounts(ctx context.Context, channelID uuid.UUID, accounts []types.Account) error {
	return s.Internal.UpdateAccounts(ctx, channelID, accounts)
}

// NewWalletRegisterClient dials the gateway rpc endpoint, url must be a ws address.
func NewWalletRegisterClient(ctx context.Context, url string) (IWalletServiceProvider, jsonrpc.ClientCloser, error) {
	var client WalletServiceProviderStruct
	closer, err := jsonrpc.NewMergeClient(ctx, url, "WalletKit", []interface{}{&client.Internal}, http.Header{})
	if err != nil {
		return nil, nil, err
	}
	return &client, closer, nil
}

type WalletEventClient struct {
	processor types.IWalletHandler
	client    IWalletServiceProvider
	log       *zap.SugaredLogger
	channel   uuid.UUID
	readyCh   chan struct{}
}

func NewWalletEventClient(ctx context.Context, process types.IWalletHandler, client IWalletServiceProvider, log *zap.SugaredLogger) *WalletEventClient {
	return &WalletEventClient{
		processor: process,
		client:    client,
		log:       log,
		readyCh:   make(chan struct{}, 1),
	}
}

// UpdateAccounts reports the current account list of the wallet.
func (e *WalletEventClient) UpdateAccounts(ctx context.Context, accounts []types.Account) error {
	return e.client.UpdateAccounts(ctx, e.channel, accounts)
}

func (e *WalletEventClient) ListenWalletRequest(ctx context.Context) {
	for {
		if err := e.listenWalletRequestOnce(ctx); err != nil {
			e.log.Errorf("listen wallet event errored: %s", err)
		} else {
			e.log.Warn("listenWalletRequestOnce quit, try again")
		}
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			e.log.Warnf("not restarting listenWalletRequestOnce: context error: %s", ctx.Err())
			return
		}
		e.log.Info("restarting listenWalletRequestOnce")
		// try clear ready channel
		select {
		case <-e.readyCh:
		default:
		}
	}
}

func (e *WalletEventClient) WaitReady(ctx context.Context) {
	select {
	case <-e.readyCh:
	case <-ctx.Done():
	}
}

func (e *WalletEventClient) listenWalletRequestOnce(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	info, err := e.processor.WalletInfo(ctx)
	if err != nil {
		return fmt.Errorf("get wallet info failed: %w", err)
	}
	policy := &types.WalletRegisterPolicy{Wallet: info}
	e.log.Infow("attach wallet", "name", info.Name, "features", info.Features, "accounts", len(info.Accounts))
	walletEventCh, err := e.client.ListenWalletEvent(ctx, policy)
	if err != nil {
		// Retry is handled by caller
		return fmt.Errorf("listenWalletRequestOnce listenWalletRequestOnce call failed: %w", err)
	}

	for event := range walletEventCh {
		switch event.Method {
		case types.MethodInitConnect:
			req := types.ConnectedCompleted{}
			err := json.Unmarshal(event.Payload, &req)
			if err != nil {
				e.log.Errorf("init connect error %s", err)
			}
			e.channel = req.ChannelId
			e.log.Infof("connect to server success %v", req.ChannelId)
			e.readyCh <- struct{}{}
			// do not response
		case types.MethodStandardConnect:
			go e.connect(ctx, event.ID)
		case types.MethodSignPersonalMessage:
			go e.signPersonalMessage(ctx, event)
		default:
			e.log.Errorf("unexpect wallet event type %s", event.Method)
		}
	}

	return nil
}

func (e *WalletEventClient) connect(ctx context.Context, id uuid.UUID) {
	accounts, err := e.processor.Connect(ctx)
	if err != nil {
		e.log.Errorf("Connect error %s", err)
		e.error(ctx, id, err)
		return
	}
	e.value(ctx, id, accounts)
}

func (e *WalletEventClient) signPersonalMessage(ctx context.Context, event *types.RequestEvent) {
	e.log.Debug("receive SignPersonalMessage event")
	req := types.SignPersonalMessageRequest{}
	err := json.Unmarshal(event.Payload, &req)
	if err != nil {
		e.log.Errorf("unmarshal SignPersonalMessageRequest error %s", err)
		e.error(ctx, event.ID, err)
		return
	}
	sig, err := e.processor.SignPersonalMessage(ctx, req.Address, req.Message)
	if err != nil {
		e.log.Errorf("SignPersonalMessage error %s", err)
		e.error(ctx, event.ID, err)
		return
	}
	e.value(ctx, event.ID, sig)
}

func (e *WalletEventClient) value(ctx context.Context, id uuid.UUID, val interface{}) {
	respBytes, err := json.Marshal(val)
	if err != nil {
		e.log.Errorf("marshal response error %s", err)
		e.error(ctx, id, err)
		return
	}
	err = e.client.ResponseWalletEvent(ctx, &types.ResponseEvent{
		ID:      id,
		Payload: respBytes,
		Error:   "",
	})
	if err != nil {
		e.log.Errorf("response error %v", err)
	}
}

func (e *WalletEventClient) error(ctx context.Context, id uuid.UUID, err error) {
	err = e.client.ResponseWalletEvent(ctx, &types.ResponseEvent{
		ID:      id,
		Payload: nil,
		Error:   err.Error(),
	})
	if err != nil {
		e.log.Errorf("response error %v", err)
	}
}
