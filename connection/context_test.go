package connection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipfs-force-community/sophon-walletkit/walletevent"
)

func TestFromContext(t *testing.T) {
	require.PanicsWithValue(t,
		"could not find wallet controller, ensure the controller is attached with connection.WithController",
		func() { FromContext(context.Background()) })

	registry, err := walletevent.NewWalletRegistry()
	require.NoError(t, err)
	c, err := New(context.Background(), registry, nil)
	require.NoError(t, err)
	defer c.Close()

	ctx := WithController(context.Background(), c)
	require.Same(t, c, FromContext(ctx))
}
