//go:build !nowalletburner

package cmds

import (
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	"github.com/ipfs-force-community/sophon-walletkit/burner"
	"github.com/ipfs-force-community/sophon-walletkit/walletevent"
)

func init() {
	ProviderCmds.Subcommands = append(ProviderCmds.Subcommands, burnerProviderCmd)
}

var burnerProviderCmd = &cli.Command{
	Name:  "burner",
	Usage: "attach an unsafe in-memory burner wallet, for development only",
	Action: func(cctx *cli.Context) error {
		ctx := cctx.Context
		addr, err := DialArgs(cctx.String("listen"))
		if err != nil {
			return err
		}
		client, closer, err := walletevent.NewWalletRegisterClient(ctx, addr)
		if err != nil {
			return err
		}
		defer closer()

		wallet, err := burner.NewBurnerWallet(ctx)
		if err != nil {
			return err
		}
		info := wallet.Info()
		log := logging.Logger("burner_provider")
		log.Warnf("attach %s with account %s, never use it in production", info.Name, info.Accounts[0].Address)

		walletEvent := walletevent.NewWalletEventClient(ctx, wallet, client, &log.SugaredLogger)
		walletEvent.ListenWalletRequest(ctx)
		return nil
	},
}
