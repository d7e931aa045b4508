package types

// Header carries the block number a block claims to represent.
type Header struct {
	BlockNumber BlockNumber `cramberry:"1"`
}

// Extrinsic is one externally submitted (caller, call) pair.
type Extrinsic[C any] struct {
	Caller AccountID
	Call   C
}

// Block is a header and an ordered sequence of extrinsics. The
// extrinsics are processed in index order.
type Block[C any] struct {
	Header     Header
	Extrinsics []Extrinsic[C]
}

// FinalizedBlock is the wire form of a block: a header plus encoded
// extrinsics.
type FinalizedBlock struct {
	Header Header `cramberry:"1"`
	Txs    []Tx   `cramberry:"2"`
}

// Outcome codes reported per extrinsic.
const (
	CodeOK uint32 = iota
	// CodeDispatchFailed: the owning pallet refused the call.
	CodeDispatchFailed
	// CodeMalformed: the extrinsic could not be decoded.
	CodeMalformed
)

// ExtrinsicOutcome is the result of executing a single extrinsic.
type ExtrinsicOutcome struct {
	// Position of this extrinsic in the block (0-indexed).
	Index uint32 `cramberry:"1"`
	// CodeOK on success.
	Code uint32 `cramberry:"2"`
	// Human-readable error message when Code != CodeOK.
	Info string `cramberry:"3"`
	// Caller of the extrinsic, empty if it could not be decoded.
	Caller AccountID `cramberry:"4"`
	// Events emitted by this extrinsic.
	Events []Event `cramberry:"5"`
}

// OK returns true if the extrinsic executed successfully.
func (o ExtrinsicOutcome) OK() bool { return o.Code == CodeOK }

// BlockOutcome is the output of executing a block that passed the
// block-number check.
type BlockOutcome struct {
	BlockNumber BlockNumber `cramberry:"1"`
	// Per-extrinsic results, in block order.
	Outcomes []ExtrinsicOutcome `cramberry:"2"`
	// State root after this block.
	AppHash AppHash `cramberry:"3"`
}

// Failed returns the outcomes of the extrinsics that did not succeed.
func (b BlockOutcome) Failed() []ExtrinsicOutcome {
	var failed []ExtrinsicOutcome
	for _, o := range b.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}
