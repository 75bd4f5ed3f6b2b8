package chain

import (
	"fmt"
	"sort"

	"github.com/Klingon-tech/klingnet-ledger/config"
	"github.com/Klingon-tech/klingnet-ledger/pkg/block"
	"github.com/Klingon-tech/klingnet-ledger/pkg/tx"
	"github.com/Klingon-tech/klingnet-ledger/pkg/types"
)

// CreateGenesisBlock builds the genesis block from the genesis
// configuration: height 0, zero PrevHash, and a single issuance
// transaction distributing the initial allocations. The launch
// timestamp doubles as the nonce so distinct ledgers get distinct
// genesis hashes.
func CreateGenesisBlock(gen *config.Genesis) (*block.Block, error) {
	if gen == nil {
		return nil, fmt.Errorf("genesis config is nil")
	}
	if err := gen.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}

	blk := block.New(types.Hash{})
	blk.Header.Nonce = gen.Timestamp
	blk.AddTransaction(buildIssuanceTx(gen.Alloc))
	return blk, nil
}

// buildIssuanceTx creates the genesis issuance transaction. It has no
// inputs (value appears from nothing) and one output per allocation.
func buildIssuanceTx(alloc map[string]uint64) *tx.Transaction {
	// Sort addresses for deterministic output ordering — the txid
	// depends on it.
	addrs := make([]string, 0, len(alloc))
	for addr := range alloc {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	outputs := make([]tx.Output, 0, len(addrs))
	for _, addr := range addrs {
		outputs = append(outputs, tx.Output{Address: addr, Value: alloc[addr]})
	}

	return tx.New(nil, outputs)
}

// InitFromGenesis builds the genesis block from gen and accepts it.
// Returns an error if the chain already has blocks.
func (c *Chain) InitFromGenesis(gen *config.Genesis) error {
	if !c.State().IsEmpty() {
		return fmt.Errorf("chain already initialized with %d blocks", c.BlockCount())
	}

	blk, err := CreateGenesisBlock(gen)
	if err != nil {
		return fmt.Errorf("create genesis: %w", err)
	}

	if err := c.AcceptBlock(blk); err != nil {
		return fmt.Errorf("accept genesis: %w", err)
	}
	return nil
}
