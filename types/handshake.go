package types

// HandshakeRequest is sent by the engine once on startup.
type HandshakeRequest struct {
	// Genesis state to seed the ledger with. Nil = start empty.
	Genesis *GenesisDoc `cramberry:"1"`
}

// HandshakeResponse is the application's reply, reporting its state.
type HandshakeResponse struct {
	BlockNumber BlockNumber `cramberry:"1"`
	AppHash     *AppHash    `cramberry:"2"`
}
