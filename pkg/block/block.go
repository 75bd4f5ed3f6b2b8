// Package block defines block types and the transaction merkle helper.
package block

import (
	"github.com/Klingon-tech/klingnet-ledger/pkg/tx"
	"github.com/Klingon-tech/klingnet-ledger/pkg/types"
)

// Block is an ordered list of transactions under a header that links
// to the previous block. A block is assembled by the caller and is
// logically immutable once accepted by the chain.
type Block struct {
	Header       *Header           `json:"header"`
	Transactions []*tx.Transaction `json:"transactions"`
}

// New creates an empty block linking to prevHash. Height and nonce
// start at zero; the producer positions the block before submitting.
func New(prevHash types.Hash) *Block {
	return &Block{
		Header: &Header{PrevHash: prevHash},
	}
}

// Hash returns the block hash, derived from the header only.
// Always recomputed, so it can never go stale against the header.
func (b *Block) Hash() types.Hash {
	return b.Header.Hash()
}

// AddTransaction appends t to the back of the transaction list.
// Insertion order is the block's observable transaction order.
func (b *Block) AddTransaction(t *tx.Transaction) {
	b.Transactions = append(b.Transactions, t)
}

// FindTransaction scans the block's transactions for a matching id.
func (b *Block) FindTransaction(id types.Hash) (*tx.Transaction, bool) {
	for _, t := range b.Transactions {
		if t.ComputeID() == id {
			return t, true
		}
	}
	return nil, false
}

// TxIDs returns the ids of all transactions in block order.
func (b *Block) TxIDs() []types.Hash {
	ids := make([]types.Hash, len(b.Transactions))
	for i, t := range b.Transactions {
		ids[i] = t.ComputeID()
	}
	return ids
}
