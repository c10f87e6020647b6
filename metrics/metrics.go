package metrics

import (
	"time"

	rpcMetrics "github.com/filecoin-project/go-jsonrpc/metrics"
	"github.com/ipfs-force-community/metrics"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// Global Tags
var (
	WalletNameKey, _ = tag.NewKey("wallet_name")

	IPKey, _ = tag.NewKey("ip")
)

// Distribution
var defaultMillisecondsDistribution = view.Distribution(0.01, 0.05, 0.1, 0.3, 0.6, 0.8, 1, 2, 3, 4, 5, 6, 8, 10, 13, 16, 20, 25, 30, 40, 50, 65, 80, 100, 130, 160, 200, 250, 300, 400, 500, 650, 800, 1000, 2000, 3000, 4000, 5000, 7500, 10000, 20000, 50000, 100000)

var (
	// registry
	WalletNum             = metrics.NewInt64("wallet/num", "Wallet count", stats.UnitDimensionless)
	WalletAccountNum      = metrics.NewInt64("wallet/account_num", "Accounts exposed by the current wallet", stats.UnitDimensionless)
	WalletRegister        = stats.Int64("wallet/register", "Wallet register", stats.UnitDimensionless)
	WalletUnregister      = stats.Int64("wallet/unregister", "Wallet unregister", stats.UnitDimensionless)
	WalletAccountsChanged = stats.Int64("wallet/accounts_changed", "Wallet reported a new account list", stats.UnitDimensionless)

	// connection
	ConnectionState = metrics.NewInt64("connection/state", "connection state. 0: disconnected, 1: connecting, 2: connected", "")
	ConnectSuccess  = stats.Int64("connection/connect_success", "Connect succeeded", stats.UnitDimensionless)
	ConnectFailure  = stats.Int64("connection/connect_failure", "Connect failed", stats.UnitDimensionless)
	ConnectStale    = stats.Int64("connection/connect_stale", "Connect result dropped because the attempt was superseded", stats.UnitDimensionless)
	Disconnect      = stats.Int64("connection/disconnect", "Disconnect", stats.UnitDimensionless)
	AccountSwitch   = stats.Int64("connection/account_switch", "Current account switched", stats.UnitDimensionless)
	PersistFailure  = stats.Int64("connection/persist_failure", "Storage adapter call failed", stats.UnitDimensionless)

	// method call
	WalletSign             = stats.Float64("wallet_sign", "Call SignPersonalMessage spent time", stats.UnitMilliseconds)
	WalletConnectHandshake = stats.Float64("wallet_connect", "Call StandardConnect spent time", stats.UnitMilliseconds)
)

var (
	walletRegisterView = &view.View{
		Measure:     WalletRegister,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{WalletNameKey, IPKey},
	}
	walletUnregisterView = &view.View{
		Measure:     WalletUnregister,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{WalletNameKey, IPKey},
	}
	walletAccountsChangedView = &view.View{
		Measure:     WalletAccountsChanged,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{WalletNameKey},
	}

	connectSuccessView = &view.View{
		Measure:     ConnectSuccess,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{WalletNameKey},
	}
	connectFailureView = &view.View{
		Measure:     ConnectFailure,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{WalletNameKey},
	}
	connectStaleView = &view.View{
		Measure:     ConnectStale,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{WalletNameKey},
	}
	disconnectView = &view.View{
		Measure:     Disconnect,
		Aggregation: view.Count(),
	}
	accountSwitchView = &view.View{
		Measure:     AccountSwitch,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{WalletNameKey},
	}
	persistFailureView = &view.View{
		Measure:     PersistFailure,
		Aggregation: view.Count(),
	}

	// method call
	walletSignView = &view.View{
		Measure:     WalletSign,
		Aggregation: defaultMillisecondsDistribution,
		TagKeys:     []tag.Key{WalletNameKey},
	}
	walletConnectView = &view.View{
		Measure:     WalletConnectHandshake,
		Aggregation: defaultMillisecondsDistribution,
		TagKeys:     []tag.Key{WalletNameKey},
	}
)

var views = append([]*view.View{
	walletRegisterView,
	walletUnregisterView,
	walletAccountsChangedView,
	connectSuccessView,
	connectFailureView,
	connectStaleView,
	disconnectView,
	accountSwitchView,
	persistFailureView,
	walletSignView,
	walletConnectView,
}, rpcMetrics.DefaultViews...)

// SinceInMilliseconds returns the duration of time since the provide time as a float64.
func SinceInMilliseconds(startTime time.Time) float64 {
	return float64(time.Since(startTime).Nanoseconds()) / 1e6
}

func init() {
	// register metrics
	_ = view.Register(views...)
}
