package cmds

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

var WalletCmds = &cli.Command{
	Name:        "wallet",
	Usage:       "wallet cmds",
	Subcommands: []*cli.Command{listWalletCmds},
}

var listWalletCmds = &cli.Command{
	Name:  "list",
	Usage: "list available wallets in display order",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "print the full wallet descriptors"},
	},
	Action: func(cctx *cli.Context) error {
		api, closer, err := NewWalletKitClient(cctx)
		if err != nil {
			return err
		}
		defer closer()

		wallets, err := api.ListWallets(cctx.Context)
		if err != nil {
			return err
		}
		if cctx.Bool("json") {
			return printJSON(wallets)
		}
		for _, wallet := range wallets {
			features := make([]string, 0, len(wallet.Features))
			for _, feature := range wallet.Features {
				features = append(features, string(feature))
			}
			fmt.Printf("%s\t%d accounts\t%s\n", wallet.Name, len(wallet.Accounts), strings.Join(features, ","))
		}
		return nil
	},
}
