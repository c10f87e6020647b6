package connection

import (
	"github.com/ipfs-force-community/sophon-walletkit/types"
)

// SortWallets drops wallets missing a required feature, then places the
// preferred wallets first in the order of preferred, followed by the rest in
// registry order. Duplicate names keep their first occurrence.
func SortWallets(wallets []*types.WalletInfo, preferred []string, required []types.Feature) []*types.WalletInfo {
	seen := make(map[string]struct{}, len(wallets))
	eligible := make([]*types.WalletInfo, 0, len(wallets))
	for _, wallet := range wallets {
		if _, ok := seen[wallet.Name]; ok {
			continue
		}
		seen[wallet.Name] = struct{}{}
		if !wallet.HasAllFeatures(required) {
			continue
		}
		eligible = append(eligible, wallet)
	}

	sorted := make([]*types.WalletInfo, 0, len(eligible))
	taken := make(map[string]struct{}, len(preferred))
	for _, name := range preferred {
		if _, ok := taken[name]; ok {
			continue
		}
		for _, wallet := range eligible {
			if wallet.Name == name {
				sorted = append(sorted, wallet)
				taken[name] = struct{}{}
				break
			}
		}
	}
	for _, wallet := range eligible {
		if _, ok := taken[wallet.Name]; !ok {
			sorted = append(sorted, wallet)
		}
	}
	return sorted
}

func walletInfos(providers []types.WalletProvider) []*types.WalletInfo {
	infos := make([]*types.WalletInfo, 0, len(providers))
	for _, provider := range providers {
		infos = append(infos, provider.Info().Clone())
	}
	return infos
}
