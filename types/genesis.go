package types

// GenesisDoc seeds the ledger before the first block.
type GenesisDoc struct {
	ChainID  string           `cramberry:"1" toml:"chain_id"`
	Balances []GenesisBalance `cramberry:"2" toml:"balances"`
}

// GenesisBalance is an initial account balance. Amount is base-10 so
// that genesis files can express the full 256-bit range.
type GenesisBalance struct {
	Account AccountID `cramberry:"1" toml:"account"`
	Amount  string    `cramberry:"2" toml:"amount"`
}
