package utxo

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/Klingon-tech/klingnet-ledger/internal/storage"
	"github.com/Klingon-tech/klingnet-ledger/pkg/types"
)

// Key prefixes for the UTXO store.
var (
	prefixUTXO = []byte("u/") // u/<txid><index> -> UTXO JSON
	prefixAddr = []byte("a/") // a/<address>/<txid><index> -> empty (index)
)

// Store implements Set backed by a storage.DB. Entries are keyed
// strictly by (txid, output index), so multiple outputs of one
// transaction never collide.
type Store struct {
	db storage.DB
}

// NewStore creates a new UTXO store backed by the given database.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

// utxoKey builds a storage key for an outpoint: "u/" + txid(32) + index(4).
func utxoKey(op types.Outpoint) []byte {
	key := make([]byte, 0, len(prefixUTXO)+types.HashSize+4)
	key = append(key, prefixUTXO...)
	return append(key, op.Bytes()...)
}

// addrKey builds an address index key: "a/" + address + "/" + txid(32) + index(4).
// The separator keeps one address's range from shadowing another's
// when the first is a prefix of the second.
func addrKey(address string, op types.Outpoint) []byte {
	key := make([]byte, 0, len(prefixAddr)+len(address)+1+types.HashSize+4)
	key = append(key, prefixAddr...)
	key = append(key, address...)
	key = append(key, '/')
	return append(key, op.Bytes()...)
}

// addrPrefix returns the index range prefix for one address.
func addrPrefix(address string) []byte {
	key := make([]byte, 0, len(prefixAddr)+len(address)+1)
	key = append(key, prefixAddr...)
	key = append(key, address...)
	return append(key, '/')
}

// Get retrieves a UTXO by its outpoint.
func (s *Store) Get(outpoint types.Outpoint) (*UTXO, error) {
	data, err := s.db.Get(utxoKey(outpoint))
	if err != nil {
		return nil, fmt.Errorf("utxo get: %w", err)
	}
	var u UTXO
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("utxo unmarshal: %w", err)
	}
	return &u, nil
}

// Put stores a UTXO and updates the address index. An existing entry
// under the same outpoint is overwritten.
func (s *Store) Put(u *UTXO) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("utxo marshal: %w", err)
	}
	if err := s.db.Put(utxoKey(u.Outpoint), data); err != nil {
		return fmt.Errorf("utxo put: %w", err)
	}
	if err := s.db.Put(addrKey(u.Address, u.Outpoint), []byte{}); err != nil {
		return fmt.Errorf("utxo index put: %w", err)
	}
	return nil
}

// Delete removes a UTXO and its address index entry.
// Deleting an absent outpoint is a no-op.
func (s *Store) Delete(outpoint types.Outpoint) error {
	// Read first to clean up the address index.
	u, err := s.Get(outpoint)
	if err == nil {
		if err := s.db.Delete(addrKey(u.Address, u.Outpoint)); err != nil {
			return fmt.Errorf("utxo index delete: %w", err)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	if err := s.db.Delete(utxoKey(outpoint)); err != nil {
		return fmt.Errorf("utxo delete: %w", err)
	}
	return nil
}

// Has checks if a UTXO exists for the given outpoint.
func (s *Store) Has(outpoint types.Outpoint) (bool, error) {
	return s.db.Has(utxoKey(outpoint))
}

// ForEach iterates over all UTXOs in the store. Iteration order is
// unspecified.
func (s *Store) ForEach(fn func(*UTXO) error) error {
	return s.db.ForEach(prefixUTXO, func(key, value []byte) error {
		var u UTXO
		if err := json.Unmarshal(value, &u); err != nil {
			return fmt.Errorf("utxo unmarshal: %w", err)
		}
		return fn(&u)
	})
}

// FindByAddress returns all spendable outputs held by an address,
// loaded through the address index.
func (s *Store) FindByAddress(address string) ([]*UTXO, error) {
	prefix := addrPrefix(address)
	off := len(prefix)

	var utxos []*UTXO
	err := s.db.ForEach(prefix, func(key, _ []byte) error {
		// Key layout: prefix + txid(32) + index(4).
		if len(key) != off+types.HashSize+4 {
			return nil // Malformed key, skip.
		}
		var op types.Outpoint
		copy(op.TxID[:], key[off:off+types.HashSize])
		op.Index = binary.BigEndian.Uint32(key[off+types.HashSize:])

		u, err := s.Get(op)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil // Spent between index scan and load, skip.
			}
			return err
		}
		utxos = append(utxos, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan address index: %w", err)
	}
	return utxos, nil
}

// BalanceOf sums the value of all spendable outputs held by an address.
// Returns an error if the sum overflows uint64.
func (s *Store) BalanceOf(address string) (uint64, error) {
	utxos, err := s.FindByAddress(address)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, u := range utxos {
		if total > math.MaxUint64-u.Value {
			return 0, fmt.Errorf("balance overflow for %s", address)
		}
		total += u.Value
	}
	return total, nil
}
