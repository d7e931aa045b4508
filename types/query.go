package types

// StateQuery is a request to read ledger state.
type StateQuery struct {
	Path QueryPath `cramberry:"1"`
	Data []byte    `cramberry:"2"`
}

// StateQueryResult is the application's response to a state query.
type StateQueryResult struct {
	Code        uint32      `cramberry:"1"`
	Key         []byte      `cramberry:"2"`
	Value       []byte      `cramberry:"3"`
	BlockNumber BlockNumber `cramberry:"4"`
	Info        string      `cramberry:"5"`
}

// OK returns true if the query was answered.
func (r StateQueryResult) OK() bool { return r.Code == 0 }

// Query result codes.
const (
	QueryOK uint32 = iota
	// QueryUnknownPath: no handler serves the requested path.
	QueryUnknownPath
	// QueryNotFound: the path is valid but the key holds no value.
	QueryNotFound
)

// Query paths served by the runtime.
const (
	PathBlockNumber QueryPath = "/system/block_number"
	PathNonce       QueryPath = "/system/nonce"
	PathBalance     QueryPath = "/balances/balance"
	PathClaim       QueryPath = "/poe/claim"
)
