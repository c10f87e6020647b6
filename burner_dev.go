//go:build !nowalletburner

package main

// Builds tagged nowalletburner leave the unsafe burner wallet out entirely.
import _ "github.com/ipfs-force-community/sophon-walletkit/burner"
