package types

// Feature is a capability tag advertised by a wallet provider.
type Feature string

const (
	FeatureConnect    Feature = "standard:connect"
	FeatureDisconnect Feature = "standard:disconnect"
	FeatureEvents     Feature = "standard:events"

	FeatureSignTransactionBlock           Feature = "sui:signTransactionBlock"
	FeatureSignAndExecuteTransactionBlock Feature = "sui:signAndExecuteTransactionBlock"
	FeatureSignPersonalMessage            Feature = "sui:signPersonalMessage"
	FeatureSignMessage                    Feature = "sui:signMessage"
)

// Account is one address controlled by a wallet provider. It is owned by the
// provider and read-only to the kit.
type Account struct {
	Address   string
	PublicKey []byte
	Label     string    `json:",omitempty"`
	Icon      string    `json:",omitempty"`
	Chains    []string  `json:",omitempty"`
	Features  []Feature `json:",omitempty"`
}

// WalletInfo describes a discoverable wallet provider. Name is unique within
// a registry.
type WalletInfo struct {
	Name     string
	Version  string `json:",omitempty"`
	Icon     string `json:",omitempty"`
	Features []Feature
	Accounts []Account
}

func (w *WalletInfo) HasFeature(feature Feature) bool {
	for _, f := range w.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// HasAllFeatures reports whether the wallet advertises every required feature.
// An empty requirement is always satisfied.
func (w *WalletInfo) HasAllFeatures(required []Feature) bool {
	for _, feature := range required {
		if !w.HasFeature(feature) {
			return false
		}
	}
	return true
}

func (w *WalletInfo) FindAccount(address string) (*Account, bool) {
	return FindAccount(w.Accounts, address)
}

// Clone returns a deep copy so snapshots never share slices with providers.
func (w *WalletInfo) Clone() *WalletInfo {
	if w == nil {
		return nil
	}
	out := *w
	out.Features = append([]Feature(nil), w.Features...)
	out.Accounts = CloneAccounts(w.Accounts)
	return &out
}

func (a Account) Clone() Account {
	out := a
	out.PublicKey = append([]byte(nil), a.PublicKey...)
	out.Chains = append([]string(nil), a.Chains...)
	out.Features = append([]Feature(nil), a.Features...)
	return out
}

func CloneAccounts(accounts []Account) []Account {
	if accounts == nil {
		return nil
	}
	out := make([]Account, len(accounts))
	for i, account := range accounts {
		out[i] = account.Clone()
	}
	return out
}

func FindAccount(accounts []Account, address string) (*Account, bool) {
	for i := range accounts {
		if accounts[i].Address == address {
			return &accounts[i], true
		}
	}
	return nil, false
}
