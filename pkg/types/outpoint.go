package types

import (
	"encoding/binary"
	"fmt"
)

// Outpoint references a specific output in a transaction.
// It is the key under which spendable outputs are indexed: the id of
// the transaction that created the output, plus the output's position
// in that transaction's output list.
type Outpoint struct {
	TxID  Hash   `json:"txid"`
	Index uint32 `json:"index"`
}

// IsZero returns true if the outpoint has a zero TxID and zero index.
func (o Outpoint) IsZero() bool {
	return o.TxID.IsZero() && o.Index == 0
}

// String returns "txid:index" in hex.
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID.String(), o.Index)
}

// Bytes returns the canonical byte encoding: txid(32) | index(4 BE).
// Used for building storage keys.
func (o Outpoint) Bytes() []byte {
	b := make([]byte, HashSize+4)
	copy(b, o.TxID[:])
	binary.BigEndian.PutUint32(b[HashSize:], o.Index)
	return b
}
