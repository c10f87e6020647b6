package types

type ConnectionStatus string

const (
	Disconnected ConnectionStatus = "disconnected"
	Connecting   ConnectionStatus = "connecting"
	Connected    ConnectionStatus = "connected"
)

// Snapshot is an immutable view of the connection state. It is replaced on
// every effective transition and must not be modified by readers.
type Snapshot struct {
	Wallets          []*WalletInfo
	CurrentWallet    *WalletInfo
	Accounts         []Account
	CurrentAccount   *Account
	ConnectionStatus ConnectionStatus

	// Attempt is the token of the most recent connect-start.
	Attempt          uint64
	ConnectingWallet string `json:",omitempty"`
}

// NewSnapshot returns the initial disconnected state over the given wallets.
func NewSnapshot(wallets []*WalletInfo) *Snapshot {
	if wallets == nil {
		wallets = []*WalletInfo{}
	}
	return &Snapshot{
		Wallets:          wallets,
		Accounts:         []Account{},
		ConnectionStatus: Disconnected,
	}
}

func (s *Snapshot) IsConnected() bool {
	return s.ConnectionStatus == Connected
}

// Wallet looks up a wallet of the sorted list by name.
func (s *Snapshot) Wallet(name string) (*WalletInfo, bool) {
	for _, wallet := range s.Wallets {
		if wallet.Name == name {
			return wallet, true
		}
	}
	return nil, false
}

func (s *Snapshot) WalletNames() []string {
	names := make([]string, 0, len(s.Wallets))
	for _, wallet := range s.Wallets {
		names = append(names, wallet.Name)
	}
	return names
}

// Copy returns a shallow copy; slices and pointers are shared, callers replace
// them instead of writing through.
func (s *Snapshot) Copy() *Snapshot {
	out := *s
	return &out
}
