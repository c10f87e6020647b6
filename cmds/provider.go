package cmds

import (
	"github.com/urfave/cli/v2"
)

// ProviderCmds holds wallet providers that attach to a running daemon.
var ProviderCmds = &cli.Command{
	Name:  "provider",
	Usage: "run a wallet provider attached to the daemon",
}
