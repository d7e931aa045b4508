// Package types defines the data types shared by the pallets, the
// runtime and the transports.
//
// Wire types are plain Go structs with cramberry struct tags for
// deterministic binary serialization. Transport concerns (gRPC codec
// registration) are handled in the transport packages.
package types

// AccountID identifies an account. It is opaque to the runtime and
// totally ordered, so account-keyed storage can be iterated
// deterministically.
type AccountID string

// BlockNumber counts executed blocks. The ledger starts at 0.
type BlockNumber uint32

// Nonce counts the extrinsics an account has submitted.
type Nonce uint32

// AppHash is a deterministic fingerprint of the ledger state.
type AppHash [32]byte

// Tx is an encoded extrinsic. Transports never inspect its contents.
type Tx []byte

// QueryPath is a structured key for state queries
// (e.g., "/balances/balance").
type QueryPath string
