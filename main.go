package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/etherlabsio/healthcheck/v2"
	"github.com/filecoin-project/go-jsonrpc"
	"github.com/gorilla/mux"
	"github.com/ipfs-force-community/metrics"
	logging "github.com/ipfs/go-log/v2"
	"github.com/mitchellh/go-homedir"
	multiaddr "github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
	"github.com/urfave/cli/v2"
	"go.opencensus.io/plugin/ochttp"

	"github.com/ipfs-force-community/sophon-walletkit/api"
	"github.com/ipfs-force-community/sophon-walletkit/cmds"
	"github.com/ipfs-force-community/sophon-walletkit/config"
	"github.com/ipfs-force-community/sophon-walletkit/connection"
	walletMetrics "github.com/ipfs-force-community/sophon-walletkit/metrics"
	"github.com/ipfs-force-community/sophon-walletkit/storage"
	"github.com/ipfs-force-community/sophon-walletkit/version"
	"github.com/ipfs-force-community/sophon-walletkit/walletevent"
)

var log = logging.Logger("main")

func main() {
	_ = logging.SetLogLevel("*", "INFO")

	app := &cli.App{
		Name:  "walletkit",
		Usage: "sophon-walletkit tracks wallet providers and the connected wallet account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "host address and port the api will listen on",
				Value: "/ip4/127.0.0.1/tcp/45133",
			},
		},
		Commands: []*cli.Command{
			runCmd, cmds.WalletCmds, cmds.ConnCmds, cmds.ProviderCmds,
		},
	}
	app.Version = version.UserVersion
	if err := app.Run(os.Args); err != nil {
		log.Warn(err)
		os.Exit(1)
	}
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "start walletkit daemon",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "repo", Value: "~/.walletkit", EnvVars: []string{"WALLETKIT_REPO"}},
		&cli.BoolFlag{Name: "auto-connect", Usage: "reconnect the most recent wallet account on start"},
		&cli.BoolFlag{Name: "unsafe-burner", Usage: "register an in-memory burner wallet, for development only"},
		&cli.StringSliceFlag{Name: "preferred-wallet", Usage: "wallet names listed first, in order"},
		&cli.StringSliceFlag{Name: "required-feature", Usage: "hide wallets lacking the feature"},
		&cli.StringFlag{Name: "jaeger-proxy", EnvVars: []string{"WALLETKIT_JAEGER_PROXY"}},
		&cli.Float64Flag{Name: "trace-sampler", EnvVars: []string{"WALLETKIT_TRACE_SAMPLER"}, Value: 1.0},
	},
	Action: func(cctx *cli.Context) error {
		repo, err := homedir.Expand(cctx.String("repo"))
		if err != nil {
			return err
		}
		cfg, err := loadConfig(repo)
		if err != nil {
			return err
		}

		if cctx.IsSet("listen") {
			cfg.API.ListenAddress = cctx.String("listen")
		}
		if cctx.IsSet("auto-connect") {
			cfg.Wallet.AutoConnect = cctx.Bool("auto-connect")
		}
		if cctx.IsSet("unsafe-burner") {
			cfg.Wallet.EnableUnsafeBurner = cctx.Bool("unsafe-burner")
		}
		if cctx.IsSet("preferred-wallet") {
			cfg.Wallet.PreferredWallets = cctx.StringSlice("preferred-wallet")
		}
		if cctx.IsSet("required-feature") {
			cfg.Wallet.RequiredFeatures = cctx.StringSlice("required-feature")
		}
		if proxy := cctx.String("jaeger-proxy"); len(proxy) > 0 {
			cfg.Trace.JaegerTracingEnabled = true
			cfg.Trace.JaegerEndpoint = proxy
			cfg.Trace.ProbabilitySampler = cctx.Float64("trace-sampler")
		}
		return RunMain(cctx.Context, repo, cfg)
	},
}

// loadConfig reads the repo config, writing the default one on first run.
func loadConfig(repo string) (*config.Config, error) {
	if err := os.MkdirAll(repo, 0755); err != nil {
		return nil, err
	}
	cfgPath := filepath.Join(repo, config.ConfigFile)
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Infof("init config at %s", cfgPath)
		if err := config.WriteConfig(cfgPath, config.DefaultConfig()); err != nil {
			return nil, fmt.Errorf("write config: %w", err)
		}
	}
	return config.ReadConfig(cfgPath)
}

func RunMain(ctx context.Context, repo string, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Infof("walletkit current version %s, listen %s", version.UserVersion, cfg.API.ListenAddress)

	store, err := storage.Open(cfg.Storage.Type, repo, cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Errorf("close storage failed: %v", err)
		}
	}()

	registry, err := walletevent.NewWalletRegistry()
	if err != nil {
		return err
	}
	walletStream := walletevent.NewWalletEventStream(ctx, registry, cfg.StreamConfig())

	controller, err := connection.New(ctx, registry, cfg.ConnectionConfig(), connection.WithStorage(store))
	if err != nil {
		return err
	}
	defer controller.Close()
	ctx = connection.WithController(ctx, controller)

	if err := walletMetrics.SetupMetrics(ctx, cfg.Metrics, connection.FromContext(ctx)); err != nil {
		return err
	}

	walletKitAPI := api.NewWalletKitAPIImpl(controller, walletStream)

	log.Info("Setting up control endpoint at " + cfg.API.ListenAddress)

	router := mux.NewRouter()
	rpcServer := jsonrpc.NewServer()
	rpcServer.Register(api.Namespace, walletKitAPI)
	router.Handle("/rpc/v0", rpcServer)
	router.Handle("/healthcheck", healthcheck.Handler(
		healthcheck.WithTimeout(5*time.Second),
		healthcheck.WithChecker("storage", healthcheck.CheckerFunc(store.Check)),
		healthcheck.WithChecker("controller", healthcheck.CheckerFunc(func(ctx context.Context) error {
			if controller.Snapshot() == nil {
				return fmt.Errorf("no connection snapshot")
			}
			return nil
		})),
	))
	router.PathPrefix("/").Handler(http.DefaultServeMux)

	handler := withRemoteIP(router)

	if repoter, err := metrics.RegisterJaeger(cfg.Trace.ServerName, cfg.Trace); err != nil {
		log.Fatalf("register %s JaegerRepoter to %s failed:%s", cfg.Trace.ServerName, cfg.Trace.JaegerEndpoint, err)
	} else if repoter != nil {
		log.Infof("register jaeger-tracing exporter to %s, with node-name:%s", cfg.Trace.JaegerEndpoint, cfg.Trace.ServerName)
		defer metrics.UnregisterJaeger(repoter)
		handler = &ochttp.Handler{Handler: handler}
	}
	srv := &http.Server{Handler: handler}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			log.Warnw("received shutdown", "signal", sig)
		case <-ctx.Done():
			log.Warn("received shutdown")
		}

		log.Info("Shutting down...")
		if err := srv.Shutdown(context.TODO()); err != nil {
			log.Errorf("shutting down RPC server failed: %s", err)
		}
	}()
	addr, err := multiaddr.NewMultiaddr(cfg.API.ListenAddress)
	if err != nil {
		return err
	}

	nl, err := manet.Listen(addr)
	if err != nil {
		return err
	}

	log.Infof("start to rpc listen %s", nl.Addr())
	if err = srv.Serve(manet.NetListener(nl)); err != nil && err != http.ErrServerClosed {
		return err
	}

	log.Info("Graceful shutdown successful")
	return nil
}

// withRemoteIP records the caller ip so attached wallets are tagged with it.
func withRemoteIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		next.ServeHTTP(w, r.WithContext(walletevent.CtxWithIP(r.Context(), ip)))
	})
}
