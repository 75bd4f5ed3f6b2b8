package chain

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/Klingon-tech/klingnet-ledger/internal/storage"
	"github.com/Klingon-tech/klingnet-ledger/pkg/block"
	"github.com/Klingon-tech/klingnet-ledger/pkg/types"
)

// Key prefixes for the block store.
var (
	prefixBlock    = []byte("b/") // b/<hash(32)> -> block JSON
	prefixPosition = []byte("p/") // p/<position(8)> -> hash(32)
	prefixTx       = []byte("x/") // x/<txid(32)> -> position(8) + blockHash(32)
)

// BlockStore keeps accepted blocks and the secondary indexes that make
// lookups by hash, position, and transaction id cheap as the chain
// grows.
type BlockStore struct {
	db storage.DB
}

// NewBlockStore creates a block store backed by the given database.
func NewBlockStore(db storage.DB) *BlockStore {
	return &BlockStore{db: db}
}

func blockKey(hash types.Hash) []byte {
	key := make([]byte, 0, len(prefixBlock)+types.HashSize)
	key = append(key, prefixBlock...)
	return append(key, hash[:]...)
}

func positionKey(pos uint64) []byte {
	key := make([]byte, len(prefixPosition)+8)
	copy(key, prefixPosition)
	binary.BigEndian.PutUint64(key[len(prefixPosition):], pos)
	return key
}

func txKey(id types.Hash) []byte {
	key := make([]byte, 0, len(prefixTx)+types.HashSize)
	key = append(key, prefixTx...)
	return append(key, id[:]...)
}

// PutBlock stores a block at the given acceptance position and indexes
// it by hash, position, and the id of every transaction it contains.
func (bs *BlockStore) PutBlock(blk *block.Block, pos uint64) error {
	data, err := json.Marshal(blk)
	if err != nil {
		return fmt.Errorf("block marshal: %w", err)
	}

	hash := blk.Hash()
	if err := bs.db.Put(blockKey(hash), data); err != nil {
		return fmt.Errorf("block put: %w", err)
	}

	if err := bs.db.Put(positionKey(pos), hash[:]); err != nil {
		return fmt.Errorf("position index put: %w", err)
	}

	// Index each transaction by id -> (position, blockHash).
	for _, t := range blk.Transactions {
		id := t.ComputeID()
		val := make([]byte, 8+types.HashSize)
		binary.BigEndian.PutUint64(val[:8], pos)
		copy(val[8:], hash[:])
		if err := bs.db.Put(txKey(id), val); err != nil {
			return fmt.Errorf("tx index put %s: %w", id, err)
		}
	}

	return nil
}

// GetBlock retrieves a block by its hash.
func (bs *BlockStore) GetBlock(hash types.Hash) (*block.Block, error) {
	data, err := bs.db.Get(blockKey(hash))
	if err != nil {
		return nil, fmt.Errorf("block get: %w", err)
	}
	var blk block.Block
	if err := json.Unmarshal(data, &blk); err != nil {
		return nil, fmt.Errorf("block unmarshal: %w", err)
	}
	return &blk, nil
}

// GetBlockByPosition retrieves a block by its acceptance position
// (0 = first accepted block).
func (bs *BlockStore) GetBlockByPosition(pos uint64) (*block.Block, error) {
	hashBytes, err := bs.db.Get(positionKey(pos))
	if err != nil {
		return nil, fmt.Errorf("position index get: %w", err)
	}
	if len(hashBytes) != types.HashSize {
		return nil, fmt.Errorf("corrupt position index: got %d bytes, want %d", len(hashBytes), types.HashSize)
	}
	var hash types.Hash
	copy(hash[:], hashBytes)
	return bs.GetBlock(hash)
}

// HasBlock checks if a block exists by hash.
func (bs *BlockStore) HasBlock(hash types.Hash) (bool, error) {
	return bs.db.Has(blockKey(hash))
}

// GetTxLocation returns the acceptance position and block hash of the
// block containing the transaction with the given id.
func (bs *BlockStore) GetTxLocation(id types.Hash) (uint64, types.Hash, error) {
	val, err := bs.db.Get(txKey(id))
	if err != nil {
		return 0, types.Hash{}, fmt.Errorf("tx index get: %w", err)
	}
	if len(val) != 8+types.HashSize {
		return 0, types.Hash{}, fmt.Errorf("corrupt tx index: got %d bytes, want %d", len(val), 8+types.HashSize)
	}
	pos := binary.BigEndian.Uint64(val[:8])
	var hash types.Hash
	copy(hash[:], val[8:])
	return pos, hash, nil
}
