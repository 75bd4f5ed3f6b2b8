package chain

import "github.com/Klingon-tech/klingnet-ledger/pkg/types"

// State holds the current chain tip state. Height is the number of
// accepted blocks; the tip is the most recently accepted block.
type State struct {
	Height  uint64
	TipHash types.Hash
}

// IsEmpty returns true if no blocks have been accepted yet.
func (s State) IsEmpty() bool {
	return s.Height == 0 && s.TipHash.IsZero()
}
