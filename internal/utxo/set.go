// Package utxo manages the set of currently spendable outputs.
package utxo

import "github.com/Klingon-tech/klingnet-ledger/pkg/types"

// UTXO represents an unspent transaction output: the outpoint that
// identifies it plus the output's recipient and value. An entry exists
// exactly while its output has been created by an accepted transaction
// and not yet consumed by a later accepted input.
type UTXO struct {
	Outpoint types.Outpoint `json:"outpoint"`
	Address  string         `json:"address"`
	Value    uint64         `json:"value"`
}

// Set is the interface for UTXO storage. Mutation happens only as a
// side effect of block acceptance; Get and Has serve external
// balance/wallet query tools as well.
type Set interface {
	Get(outpoint types.Outpoint) (*UTXO, error)
	Put(u *UTXO) error
	// Delete removes the entry if present; absence is not an error.
	Delete(outpoint types.Outpoint) error
	Has(outpoint types.Outpoint) (bool, error)
}
