package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ipfs-force-community/sophon-walletkit/connection"
	"github.com/ipfs-force-community/sophon-walletkit/types"
)

func TestConfig(t *testing.T) {
	cfg := DefaultConfig()

	cfgPath := filepath.Join(t.TempDir(), ConfigFile)
	assert.NoError(t, WriteConfig(cfgPath, cfg))

	res, err := ReadConfig(cfgPath)
	assert.NoError(t, err)
	assert.Equal(t, cfg, res)
}

func TestConnectionConfig(t *testing.T) {
	cfg := DefaultConfig()
	connCfg := cfg.ConnectionConfig()
	assert.Equal(t, []string{connection.SuiWalletName}, connCfg.PreferredWallets)
	assert.Equal(t, connection.DefaultStorageKey, connCfg.StorageKey)
	assert.Len(t, connCfg.RequiredFeatures, 0)
	assert.False(t, connCfg.EnableUnsafeBurner)

	cfg.Wallet.RequiredFeatures = []string{string(types.FeatureSignPersonalMessage)}
	cfg.Wallet.StorageKey = ""
	cfg.Wallet.EnableUnsafeBurner = true
	connCfg = cfg.ConnectionConfig()
	assert.Equal(t, []types.Feature{types.FeatureSignPersonalMessage}, connCfg.RequiredFeatures)
	assert.Equal(t, connection.DefaultStorageKey, connCfg.StorageKey)
	assert.True(t, connCfg.EnableUnsafeBurner)
}

func TestStreamConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, types.DefaultConfig(), cfg.StreamConfig())

	cfg.Request.RequestTimeout = "30s"
	cfg.Request.ClearInterval = "bad"
	reqCfg := cfg.StreamConfig()
	assert.Equal(t, time.Second*30, reqCfg.RequestTimeout)
	assert.Equal(t, types.DefaultConfig().ClearInterval, reqCfg.ClearInterval)
}
