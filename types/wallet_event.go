package types

import (
	"time"

	"github.com/google/uuid"
)

// Methods carried by RequestEvent.
const (
	MethodInitConnect         = "InitConnect"
	MethodStandardConnect     = "StandardConnect"
	MethodSignPersonalMessage = "SignPersonalMessage"
)

type RequestEvent struct {
	ID         uuid.UUID
	Method     string
	Payload    []byte
	CreateTime time.Time
	Result     chan *ResponseEvent `json:"-"`
}

type ResponseEvent struct {
	ID      uuid.UUID
	Payload []byte
	Error   string
}

type ConnectedCompleted struct {
	ChannelId uuid.UUID
}

// WalletRegisterPolicy is sent by a wallet when it attaches to the gateway.
type WalletRegisterPolicy struct {
	Wallet *WalletInfo
}

type SignPersonalMessageRequest struct {
	Address string
	Message []byte
}
