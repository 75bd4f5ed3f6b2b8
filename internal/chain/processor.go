package chain

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-ledger/internal/utxo"
	"github.com/Klingon-tech/klingnet-ledger/pkg/block"
	"github.com/Klingon-tech/klingnet-ledger/pkg/tx"
	"github.com/Klingon-tech/klingnet-ledger/pkg/types"
)

// Block acceptance errors. Wrapped with context identifying the
// offending block, prevout, or transaction; match with errors.Is.
var (
	ErrInvalidLinkage = errors.New("prev_hash matches no known block")
	ErrDoubleSpend    = errors.New("input references no spendable output")
	ErrUnbalancedTx   = errors.New("transaction creates more value than it consumes")
)

// AcceptBlock validates a block against the chain and, if valid,
// applies it: UTXO entries consumed by each transaction's inputs are
// removed, entries for each output are inserted under
// (txid, output position), the block is appended, and the height
// advances. On any validation failure the chain is unchanged and a
// typed error reports why.
//
// Validation runs entirely before mutation begins, so a block rejected
// by validation never leaves partial state behind. The apply loop
// itself assumes the backing store does not fail mid-write; a storage
// error during apply can leave the UTXO set partially updated with no
// block appended.
func (c *Chain) AcceptBlock(blk *block.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if blk == nil || blk.Header == nil {
		return fmt.Errorf("nil block or header")
	}

	hash := blk.Hash()

	if err := c.checkLinkage(blk, hash); err != nil {
		c.logger.Warn().
			Stringer("hash", hash).
			Uint64("block_height", blk.Header.Height).
			Err(err).
			Msg("block rejected")
		return err
	}

	if err := c.checkRules(blk); err != nil {
		c.logger.Warn().
			Stringer("hash", hash).
			Err(err).
			Msg("block rejected")
		return err
	}

	// Apply each transaction in block order: consume inputs first,
	// then index outputs, so a transaction may spend an output created
	// earlier in the same block.
	for _, t := range blk.Transactions {
		id := t.ComputeID()
		for _, in := range t.Inputs {
			if err := c.utxos.Delete(in.PrevOut); err != nil {
				return fmt.Errorf("spend %s: %w", in.PrevOut, err)
			}
		}
		for i, out := range t.Outputs {
			u := &utxo.UTXO{
				Outpoint: types.Outpoint{TxID: id, Index: uint32(i)},
				Address:  out.Address,
				Value:    out.Value,
			}
			if err := c.utxos.Put(u); err != nil {
				return fmt.Errorf("index output %s:%d: %w", id, i, err)
			}
		}
	}

	pos := c.state.Height
	if err := c.blocks.PutBlock(blk, pos); err != nil {
		return fmt.Errorf("store block: %w", err)
	}

	c.state.Height++
	c.state.TipHash = hash

	c.logger.Info().
		Uint64("position", pos).
		Stringer("hash", hash).
		Int("txs", len(blk.Transactions)).
		Msg("block accepted")

	return nil
}

// checkLinkage enforces the chain linkage rule: a block at height 0 is
// always acceptable (genesis exception), any other block must link to
// a block the chain already holds.
func (c *Chain) checkLinkage(blk *block.Block, hash types.Hash) error {
	if blk.Header.Height == 0 {
		return nil
	}

	known, err := c.blocks.HasBlock(blk.Header.PrevHash)
	if err != nil {
		return fmt.Errorf("check prev block: %w", err)
	}
	if !known {
		tip := "none"
		if !c.state.IsEmpty() {
			tip = c.state.TipHash.String()
		}
		return fmt.Errorf("%w: block %s links to %s, current tip %s",
			ErrInvalidLinkage, hash, blk.Header.PrevHash, tip)
	}
	return nil
}

// checkRules runs the optional strengthened checks configured via
// SetRules. Outputs created earlier in the same block count as
// spendable, mirroring the order the apply loop uses.
func (c *Chain) checkRules(blk *block.Block) error {
	if !c.rules.RejectDoubleSpends && !c.rules.RequireBalancedTxs {
		return nil
	}

	created := make(map[types.Outpoint]uint64)
	spent := make(map[types.Outpoint]bool)

	for ti, t := range blk.Transactions {
		id := t.ComputeID()

		inSum, resolved, err := c.resolveInputs(t, ti, created, spent)
		if err != nil {
			return err
		}

		if c.rules.RequireBalancedTxs && len(t.Inputs) > 0 && resolved {
			outSum, err := t.TotalOutputValue()
			if err != nil {
				return fmt.Errorf("tx %d (%s): %w", ti, id, err)
			}
			if outSum > inSum {
				return fmt.Errorf("%w: tx %d (%s) consumes %d, creates %d",
					ErrUnbalancedTx, ti, id, inSum, outSum)
			}
		}

		for i, out := range t.Outputs {
			created[types.Outpoint{TxID: id, Index: uint32(i)}] = out.Value
		}
	}

	return nil
}

// resolveInputs sums the values consumed by t's inputs, looking
// through in-block created outputs and the UTXO set. resolved is false
// when some input's value could not be determined and the double-spend
// rule is off; the balance check then skips the transaction rather
// than guessing.
func (c *Chain) resolveInputs(t *tx.Transaction, ti int, created map[types.Outpoint]uint64, spent map[types.Outpoint]bool) (inSum uint64, resolved bool, err error) {
	resolved = true
	for _, in := range t.Inputs {
		op := in.PrevOut

		if spent[op] {
			if c.rules.RejectDoubleSpends {
				return 0, false, fmt.Errorf("%w: tx %d spends %s twice within block", ErrDoubleSpend, ti, op)
			}
			resolved = false
			continue
		}
		spent[op] = true

		if v, ok := created[op]; ok {
			inSum += v
			continue
		}

		u, getErr := c.utxos.Get(op)
		if getErr != nil {
			if c.rules.RejectDoubleSpends {
				return 0, false, fmt.Errorf("%w: tx %d input %s", ErrDoubleSpend, ti, op)
			}
			resolved = false
			continue
		}
		inSum += u.Value
	}
	return inSum, resolved, nil
}
