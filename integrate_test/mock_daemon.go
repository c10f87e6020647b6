package integrate

import (
	"context"
	"net/http/httptest"

	"github.com/filecoin-project/go-jsonrpc"
	"github.com/gorilla/mux"
	logging "github.com/ipfs/go-log/v2"

	"github.com/ipfs-force-community/sophon-walletkit/api"
	"github.com/ipfs-force-community/sophon-walletkit/config"
	"github.com/ipfs-force-community/sophon-walletkit/connection"
	"github.com/ipfs-force-community/sophon-walletkit/storage"
	"github.com/ipfs-force-community/sophon-walletkit/types"
	"github.com/ipfs-force-community/sophon-walletkit/version"
	"github.com/ipfs-force-community/sophon-walletkit/walletevent"
)

var log = logging.Logger("mock main")

// MockMain serves the walletkit api on a local test server and returns its ws
// rpc url. Everything is torn down when ctx ends.
func MockMain(ctx context.Context, repoPath string, cfg *config.Config, adapter types.StorageAdapter) (string, *connection.Controller, error) {
	if adapter == nil {
		store, err := storage.Open(cfg.Storage.Type, repoPath, cfg.Storage.Path)
		if err != nil {
			return "", nil, err
		}
		adapter = store
	}

	registry, err := walletevent.NewWalletRegistry()
	if err != nil {
		return "", nil, err
	}
	walletStream := walletevent.NewWalletEventStream(ctx, registry, cfg.StreamConfig())
	controller, err := connection.New(ctx, registry, cfg.ConnectionConfig(), connection.WithStorage(adapter))
	if err != nil {
		return "", nil, err
	}

	log.Infof("walletkit current version %s", version.UserVersion)

	router := mux.NewRouter()
	rpcServer := jsonrpc.NewServer()
	rpcServer.Register(api.Namespace, api.NewWalletKitAPIImpl(controller, walletStream))
	router.Handle("/rpc/v0", rpcServer)

	srv := httptest.NewServer(router)
	go func() {
		<-ctx.Done()
		srv.Close()
		controller.Close()
	}()
	return "ws://" + srv.Listener.Addr().String() + "/rpc/v0", controller, nil
}
