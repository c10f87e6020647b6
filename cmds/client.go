package cmds

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/filecoin-project/go-jsonrpc"
	"github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
	"github.com/urfave/cli/v2"

	"github.com/ipfs-force-community/sophon-walletkit/api"
)

func NewWalletKitClient(ctx *cli.Context) (api.WalletKitAPI, jsonrpc.ClientCloser, error) {
	addr, err := DialArgs(ctx.String("listen"))
	if err != nil {
		return nil, nil, err
	}
	return api.NewWalletKitClient(ctx.Context, addr, http.Header{})
}

func DialArgs(addr string) (string, error) {
	ma, err := multiaddr.NewMultiaddr(addr)
	if err == nil {
		_, addr, err := manet.DialArgs(ma)
		if err != nil {
			return "", err
		}

		return "ws://" + addr + "/rpc/v0", nil
	}

	_, err = url.Parse(addr)
	if err != nil {
		return "", err
	}
	return addr + "/rpc/v0", nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, " ", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
