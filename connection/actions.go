package connection

import (
	"github.com/ipfs-force-community/sophon-walletkit/types"
)

type ActionType string

const (
	ActionWalletRegistered   ActionType = "wallet-registered"
	ActionWalletUnregistered ActionType = "wallet-unregistered"
	ActionConnectStart       ActionType = "connect-start"
	ActionConnectSuccess     ActionType = "connect-success"
	ActionConnectFailure     ActionType = "connect-failure"
	ActionDisconnect         ActionType = "disconnect"
	ActionAccountSwitch      ActionType = "account-switch"
	ActionAccountsChanged    ActionType = "accounts-changed"
)

// Action is an input of the connection state machine.
type Action interface {
	Type() ActionType
}

type WalletRegistered struct {
	UpdatedWallets []*types.WalletInfo
}

type WalletUnregistered struct {
	UpdatedWallets []*types.WalletInfo
	WalletName     string
}

// ConnectStart opens a connect attempt. Attempt tokens are issued by
// Controller.NewAttempt and only grow; a start whose token is not above the
// current one is ignored.
type ConnectStart struct {
	Attempt    uint64
	WalletName string
}

type ConnectSuccess struct {
	Attempt  uint64
	Wallet   *types.WalletInfo
	Accounts []types.Account
	Account  types.Account
}

type ConnectFailure struct {
	Attempt uint64
	Reason  string
}

type Disconnect struct{}

type AccountSwitch struct {
	Address string
}

type AccountsChanged struct {
	WalletName string
	Accounts   []types.Account
}

func (*WalletRegistered) Type() ActionType   { return ActionWalletRegistered }
func (*WalletUnregistered) Type() ActionType { return ActionWalletUnregistered }
func (*ConnectStart) Type() ActionType       { return ActionConnectStart }
func (*ConnectSuccess) Type() ActionType     { return ActionConnectSuccess }
func (*ConnectFailure) Type() ActionType     { return ActionConnectFailure }
func (*Disconnect) Type() ActionType         { return ActionDisconnect }
func (*AccountSwitch) Type() ActionType      { return ActionAccountSwitch }
func (*AccountsChanged) Type() ActionType    { return ActionAccountsChanged }
