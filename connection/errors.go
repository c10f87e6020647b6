package connection

import (
	"github.com/pkg/errors"
)

var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrAccountNotFound   = errors.New("account not found")
	ErrConnectFailed     = errors.New("connect failed")
	ErrAttemptSuperseded = errors.New("connect attempt superseded")
	ErrNotConnected      = errors.New("wallet not connected")
)
