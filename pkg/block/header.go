package block

import (
	"encoding/binary"

	"github.com/Klingon-tech/klingnet-ledger/pkg/crypto"
	"github.com/Klingon-tech/klingnet-ledger/pkg/types"
)

// Header contains block metadata. Height and Nonce are supplied by the
// block producer; this core never searches for a nonce itself.
type Header struct {
	Height   uint64     `json:"height"`
	PrevHash types.Hash `json:"prev_hash"`
	Nonce    uint64     `json:"nonce"`
}

// Hash computes the block hash from the header.
//
// Transaction content deliberately does not participate: two blocks
// differing only in their transactions hash identically. Tests pin
// this behavior; folding a merkle root of the transaction ids into
// IDBytes is the documented extension point for integrity guarantees.
func (h *Header) Hash() types.Hash {
	return crypto.Hash(h.IDBytes())
}

// IDBytes returns the canonical bytes for hashing.
// Format: height(8) | prev_hash(32) | nonce(8), integers little-endian.
func (h *Header) IDBytes() []byte {
	buf := make([]byte, 0, 48)
	buf = binary.LittleEndian.AppendUint64(buf, h.Height)
	buf = append(buf, h.PrevHash[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, h.Nonce)
	return buf
}
