package cmds

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ipfs-force-community/sophon-walletkit/types"
)

var ConnCmds = &cli.Command{
	Name:  "conn",
	Usage: "inspect and drive the wallet connection",
	Subcommands: []*cli.Command{
		connStateCmd,
		connConnectCmd,
		connDisconnectCmd,
		connSwitchCmd,
		connWatchCmd,
		connSignCmd,
	},
}

var connStateCmd = &cli.Command{
	Name:  "state",
	Usage: "print the current connection snapshot",
	Action: func(cctx *cli.Context) error {
		api, closer, err := NewWalletKitClient(cctx)
		if err != nil {
			return err
		}
		defer closer()

		snapshot, err := api.ConnectionState(cctx.Context)
		if err != nil {
			return err
		}
		return printJSON(snapshot)
	},
}

var connConnectCmd = &cli.Command{
	Name:      "connect",
	Usage:     "connect a wallet, the first authorized account is used when no account given",
	ArgsUsage: "<wallet-name> [account]",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() < 1 {
			return fmt.Errorf("must pass wallet name")
		}
		api, closer, err := NewWalletKitClient(cctx)
		if err != nil {
			return err
		}
		defer closer()

		snapshot, err := api.Connect(cctx.Context, cctx.Args().Get(0), cctx.Args().Get(1))
		if err != nil {
			return err
		}
		fmt.Println(summary(snapshot))
		return nil
	},
}

var connDisconnectCmd = &cli.Command{
	Name:  "disconnect",
	Usage: "disconnect the current wallet",
	Action: func(cctx *cli.Context) error {
		api, closer, err := NewWalletKitClient(cctx)
		if err != nil {
			return err
		}
		defer closer()

		snapshot, err := api.Disconnect(cctx.Context)
		if err != nil {
			return err
		}
		fmt.Println(summary(snapshot))
		return nil
	},
}

var connSwitchCmd = &cli.Command{
	Name:      "switch",
	Usage:     "select another account of the connected wallet",
	ArgsUsage: "<account>",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return fmt.Errorf("must pass account address")
		}
		api, closer, err := NewWalletKitClient(cctx)
		if err != nil {
			return err
		}
		defer closer()

		snapshot, err := api.SwitchAccount(cctx.Context, cctx.Args().First())
		if err != nil {
			return err
		}
		fmt.Println(summary(snapshot))
		return nil
	},
}

var connWatchCmd = &cli.Command{
	Name:  "watch",
	Usage: "print every connection change until interrupted",
	Action: func(cctx *cli.Context) error {
		api, closer, err := NewWalletKitClient(cctx)
		if err != nil {
			return err
		}
		defer closer()

		snapshots, err := api.ListenConnectionState(cctx.Context)
		if err != nil {
			return err
		}
		for snapshot := range snapshots {
			fmt.Println(summary(snapshot))
		}
		return nil
	},
}

var connSignCmd = &cli.Command{
	Name:      "sign",
	Usage:     "sign a personal message with the connected account",
	ArgsUsage: "<message>",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return fmt.Errorf("must pass message")
		}
		api, closer, err := NewWalletKitClient(cctx)
		if err != nil {
			return err
		}
		defer closer()

		sig, err := api.SignPersonalMessage(cctx.Context, []byte(cctx.Args().First()))
		if err != nil {
			return err
		}
		return printJSON(sig)
	},
}

func summary(snapshot *types.Snapshot) string {
	switch snapshot.ConnectionStatus {
	case types.Connected:
		return fmt.Sprintf("%s: %s %s", snapshot.ConnectionStatus, snapshot.CurrentWallet.Name, snapshot.CurrentAccount.Address)
	case types.Connecting:
		return fmt.Sprintf("%s: %s", snapshot.ConnectionStatus, snapshot.ConnectingWallet)
	default:
		return string(snapshot.ConnectionStatus)
	}
}
