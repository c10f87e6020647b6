package config

import (
	"os"
	"time"

	"github.com/ipfs-force-community/metrics"
	"github.com/pelletier/go-toml"

	"github.com/ipfs-force-community/sophon-walletkit/connection"
	"github.com/ipfs-force-community/sophon-walletkit/storage"
	"github.com/ipfs-force-community/sophon-walletkit/types"
)

const (
	// Configuration file name
	ConfigFile = "config.toml"
)

type Config struct {
	API     *APIConfig
	Wallet  *WalletConfig
	Storage *StorageConfig
	Request *RequestConfig
	Metrics *metrics.MetricsConfig
	Trace   *metrics.TraceConfig
}

type APIConfig struct {
	ListenAddress string
}

type WalletConfig struct {
	PreferredWallets   []string
	RequiredFeatures   []string
	StorageKey         string
	AutoConnect        bool
	EnableUnsafeBurner bool
}

type StorageConfig struct {
	// Type is memory or leveldb
	Type string
	// Path of the leveldb directory, relative paths are resolved against the repo
	Path string
}

type RequestConfig struct {
	RequestQueueSize int
	RequestTimeout   string
	ClearInterval    string
}

func DefaultConfig() *Config {
	connCfg := connection.DefaultConfig()
	reqCfg := types.DefaultConfig()
	cfg := &Config{
		API: &APIConfig{ListenAddress: "/ip4/127.0.0.1/tcp/45133"},
		Wallet: &WalletConfig{
			PreferredWallets: connCfg.PreferredWallets,
			RequiredFeatures: []string{},
			StorageKey:       connCfg.StorageKey,
			AutoConnect:      true,
		},
		Storage: &StorageConfig{Type: storage.TypeLevelDB, Path: storage.DefaultDir},
		Request: &RequestConfig{
			RequestQueueSize: reqCfg.RequestQueueSize,
			RequestTimeout:   reqCfg.RequestTimeout.String(),
			ClearInterval:    reqCfg.ClearInterval.String(),
		},
		Metrics: metrics.DefaultMetricsConfig(),
		Trace:   metrics.DefaultTraceConfig(),
	}
	namespace := "walletkit"
	cfg.Metrics.Exporter.Prometheus.Namespace = namespace
	cfg.Metrics.Exporter.Graphite.Namespace = namespace
	cfg.Metrics.Exporter.Prometheus.EndPoint = "/ip4/0.0.0.0/tcp/4570"
	cfg.Metrics.Exporter.Graphite.Port = 4570
	cfg.Trace.ServerName = "sophon-walletkit"
	cfg.Trace.JaegerEndpoint = ""

	return cfg
}

// ConnectionConfig converts the wallet section for connection.New.
func (c *Config) ConnectionConfig() *connection.Config {
	connCfg := connection.DefaultConfig()
	if c.Wallet == nil {
		return connCfg
	}
	connCfg.PreferredWallets = append([]string(nil), c.Wallet.PreferredWallets...)
	connCfg.RequiredFeatures = make([]types.Feature, 0, len(c.Wallet.RequiredFeatures))
	for _, feature := range c.Wallet.RequiredFeatures {
		connCfg.RequiredFeatures = append(connCfg.RequiredFeatures, types.Feature(feature))
	}
	if len(c.Wallet.StorageKey) > 0 {
		connCfg.StorageKey = c.Wallet.StorageKey
	}
	connCfg.AutoConnect = c.Wallet.AutoConnect
	connCfg.EnableUnsafeBurner = c.Wallet.EnableUnsafeBurner
	return connCfg
}

// StreamConfig converts the request section for the wallet event stream,
// falling back to defaults for missing or invalid values.
func (c *Config) StreamConfig() *types.RequestConfig {
	reqCfg := types.DefaultConfig()
	if c.Request == nil {
		return reqCfg
	}
	if c.Request.RequestQueueSize > 0 {
		reqCfg.RequestQueueSize = c.Request.RequestQueueSize
	}
	if d, err := time.ParseDuration(c.Request.RequestTimeout); err == nil && d > 0 {
		reqCfg.RequestTimeout = d
	}
	if d, err := time.ParseDuration(c.Request.ClearInterval); err == nil && d > 0 {
		reqCfg.ClearInterval = d
	}
	return reqCfg
}

func ReadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = toml.Unmarshal(data, cfg)

	return cfg, err
}

func WriteConfig(filePath string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filePath, data, 0644)
}
