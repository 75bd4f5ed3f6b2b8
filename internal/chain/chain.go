// Package chain implements the append-only ledger state machine.
package chain

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Klingon-tech/klingnet-ledger/config"
	klog "github.com/Klingon-tech/klingnet-ledger/internal/log"
	"github.com/Klingon-tech/klingnet-ledger/internal/storage"
	"github.com/Klingon-tech/klingnet-ledger/internal/utxo"
	"github.com/Klingon-tech/klingnet-ledger/pkg/block"
	"github.com/Klingon-tech/klingnet-ledger/pkg/tx"
	"github.com/Klingon-tech/klingnet-ledger/pkg/types"
)

// Chain owns the ordered sequence of accepted blocks and the UTXO set,
// for the lifetime of the process. All mutation goes through
// AcceptBlock under a single writer lock; queries take the read lock,
// so the block sequence and the UTXO set are never observed
// half-updated.
type Chain struct {
	mu     sync.RWMutex
	state  State
	blocks *BlockStore
	utxos  utxo.Set
	rules  config.Rules
	logger zerolog.Logger
}

// chainNamespace isolates the block store's keys from anything else
// living in the same database, such as the UTXO index.
var chainNamespace = []byte("chain/")

// New creates an empty chain: no blocks, height 0, empty UTXO set.
// The UTXO set is owned by the chain from here on; nothing external
// may mutate it directly. The block store writes under its own key
// namespace, so db may be shared with the UTXO store.
func New(db storage.DB, utxoSet utxo.Set) (*Chain, error) {
	if db == nil {
		return nil, fmt.Errorf("storage db is nil")
	}
	if utxoSet == nil {
		return nil, fmt.Errorf("utxo set is nil")
	}

	return &Chain{
		blocks: NewBlockStore(storage.NewPrefixDB(db, chainNamespace)),
		utxos:  utxoSet,
		logger: klog.WithComponent("chain"),
	}, nil
}

// SetRules configures the optional acceptance checks. Call before
// submitting blocks; the baseline (zero Rules) performs only the
// linkage check.
func (c *Chain) SetRules(r config.Rules) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = r
}

// State returns a copy of the current chain state.
func (c *Chain) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// BlockCount returns the number of accepted blocks.
func (c *Chain) BlockCount() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Height
}

// TipHash returns the hash of the most recently accepted block.
// The second return value is false on an empty chain.
func (c *Chain) TipHash() (types.Hash, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.IsEmpty() {
		return types.Hash{}, false
	}
	return c.state.TipHash, true
}

// GetBlock retrieves a block by its hash.
func (c *Chain) GetBlock(hash types.Hash) (*block.Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks.GetBlock(hash)
}

// GetBlockByPosition retrieves the pos'th accepted block (0-based
// acceptance order).
func (c *Chain) GetBlockByPosition(pos uint64) (*block.Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks.GetBlockByPosition(pos)
}

// GetTransaction looks up an accepted transaction by id via the tx index.
func (c *Chain) GetTransaction(id types.Hash) (*tx.Transaction, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, blockHash, err := c.blocks.GetTxLocation(id)
	if err != nil {
		return nil, err
	}
	blk, err := c.blocks.GetBlock(blockHash)
	if err != nil {
		return nil, fmt.Errorf("load block for tx: %w", err)
	}
	t, ok := blk.FindTransaction(id)
	if !ok {
		return nil, fmt.Errorf("tx %s not found in block %s (index corrupt)", id, blockHash)
	}
	return t, nil
}
