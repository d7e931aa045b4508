package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/blockberries/pallet/runtime"
	"github.com/blockberries/pallet/types"
)

// LoadGenesis decodes a genesis document from a TOML file.
//
//	chain_id = "demo"
//
//	[[balances]]
//	account = "alice"
//	amount = "100"
func LoadGenesis(path string) (types.GenesisDoc, error) {
	var doc types.GenesisDoc
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return types.GenesisDoc{}, fmt.Errorf("load genesis %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return types.GenesisDoc{}, fmt.Errorf("load genesis %s: unknown keys %v", path, undecoded)
	}
	return doc, nil
}

// BlockFile is the TOML form of a sequence of blocks.
type BlockFile struct {
	Blocks []BlockEntry `toml:"blocks"`
}

// BlockEntry is one block of a BlockFile.
type BlockEntry struct {
	Number     types.BlockNumber `toml:"number"`
	Extrinsics []ExtrinsicEntry  `toml:"extrinsics"`
}

// ExtrinsicEntry is one extrinsic of a BlockEntry. Call selects the
// operation; the remaining fields are its arguments. Claim calls take
// either Content verbatim or Document, which is fingerprinted.
type ExtrinsicEntry struct {
	Caller   types.AccountID `toml:"caller"`
	Call     string          `toml:"call"`
	To       types.AccountID `toml:"to"`
	Amount   string          `toml:"amount"`
	Content  types.Content   `toml:"content"`
	Document string          `toml:"document"`
}

// Call names accepted in block files.
const (
	CallTransfer    = "transfer"
	CallCreateClaim = "create_claim"
	CallRevokeClaim = "revoke_claim"
)

var errMissingCaller = errors.New("missing caller")

// LoadBlocks decodes a block file.
//
//	[[blocks]]
//	number = 1
//
//	[[blocks.extrinsics]]
//	caller = "alice"
//	call = "transfer"
//	to = "bob"
//	amount = "30"
func LoadBlocks(path string) ([]runtime.Block, error) {
	var file BlockFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("load blocks %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load blocks %s: unknown keys %v", path, undecoded)
	}
	blocks, err := file.Runtime()
	if err != nil {
		return nil, fmt.Errorf("load blocks %s: %w", path, err)
	}
	return blocks, nil
}

// Runtime converts the file into runtime blocks.
func (f BlockFile) Runtime() ([]runtime.Block, error) {
	blocks := make([]runtime.Block, 0, len(f.Blocks))
	for i, b := range f.Blocks {
		exts := make([]runtime.Extrinsic, 0, len(b.Extrinsics))
		for j, e := range b.Extrinsics {
			ext, err := e.Runtime()
			if err != nil {
				return nil, fmt.Errorf("block %d extrinsic %d: %w", i, j, err)
			}
			exts = append(exts, ext)
		}
		blocks = append(blocks, runtime.NewBlock(b.Number, exts...))
	}
	return blocks, nil
}

// Runtime converts the entry into a runtime extrinsic.
func (e ExtrinsicEntry) Runtime() (runtime.Extrinsic, error) {
	if e.Caller == "" {
		return runtime.Extrinsic{}, errMissingCaller
	}
	var call runtime.Call
	switch e.Call {
	case CallTransfer:
		amount, err := types.ParseBalance(e.Amount)
		if err != nil {
			return runtime.Extrinsic{}, err
		}
		call = runtime.Transfer(e.To, amount)
	case CallCreateClaim:
		call = runtime.CreateClaim(e.content())
	case CallRevokeClaim:
		call = runtime.RevokeClaim(e.content())
	default:
		return runtime.Extrinsic{}, fmt.Errorf("unknown call %q", e.Call)
	}
	return runtime.Extrinsic{Caller: e.Caller, Call: call}, nil
}

func (e ExtrinsicEntry) content() types.Content {
	if e.Content == "" && e.Document != "" {
		return types.FingerprintOf([]byte(e.Document))
	}
	return e.Content
}
