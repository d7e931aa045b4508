package types

// GateVerdict is the application's decision on whether an extrinsic
// is well-formed enough to be submitted.
type GateVerdict struct {
	// 0 = accepted. Non-zero = rejected.
	Code uint32 `cramberry:"1"`
	// Rejection reason (debugging only).
	Info string `cramberry:"2"`
	// Caller of the extrinsic, for same-sender sequencing.
	Sender AccountID `cramberry:"3"`
}

// Accepted returns true if the extrinsic was admitted.
func (v GateVerdict) Accepted() bool { return v.Code == 0 }
