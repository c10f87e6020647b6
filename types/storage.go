package types

import (
	"context"
	"encoding/json"
	"fmt"
)

// StorageAdapter is a best-effort key-value store used to remember the last
// connected wallet account. Get reports false when the key is absent.
type StorageAdapter interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

// ConnectionInfo is the persisted pair of the most recent connection.
type ConnectionInfo struct {
	WalletName     string `json:"walletName"`
	AccountAddress string `json:"accountAddress"`
}

func (c *ConnectionInfo) Encode() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func DecodeConnectionInfo(value string) (*ConnectionInfo, error) {
	info := &ConnectionInfo{}
	if err := json.Unmarshal([]byte(value), info); err != nil {
		return nil, fmt.Errorf("decode connection info: %w", err)
	}
	if len(info.WalletName) == 0 || len(info.AccountAddress) == 0 {
		return nil, fmt.Errorf("incomplete connection info %q", value)
	}
	return info, nil
}
