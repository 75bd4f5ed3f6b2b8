// Package tx defines transaction types and the derived transaction id.
package tx

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/Klingon-tech/klingnet-ledger/pkg/crypto"
	"github.com/Klingon-tech/klingnet-ledger/pkg/types"
)

// Output is a spendable unit: a value assigned to a recipient address.
// Immutable once created.
type Output struct {
	Address string `json:"address"`
	Value   uint64 `json:"value"`
}

// Input consumes a previously created output. Authorization is an
// opaque proof of the right to spend; this package never inspects it —
// verification belongs to an external signer/verifier.
type Input struct {
	PrevOut       types.Outpoint `json:"prevout"`
	Authorization []byte         `json:"authorization,omitempty"`
}

// inputJSON is the JSON representation of Input with a hex-encoded
// authorization field.
type inputJSON struct {
	PrevOut       types.Outpoint `json:"prevout"`
	Authorization *string        `json:"authorization,omitempty"`
}

// MarshalJSON encodes the input with hex-encoded authorization.
func (in Input) MarshalJSON() ([]byte, error) {
	j := inputJSON{PrevOut: in.PrevOut}
	if in.Authorization != nil {
		a := hex.EncodeToString(in.Authorization)
		j.Authorization = &a
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes an input with hex-encoded authorization.
func (in *Input) UnmarshalJSON(data []byte) error {
	var j inputJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	in.PrevOut = j.PrevOut
	if j.Authorization != nil {
		b, err := hex.DecodeString(*j.Authorization)
		if err != nil {
			return err
		}
		in.Authorization = b
	}
	return nil
}

// Transaction is an ordered list of inputs and outputs plus the id
// derived from them. ID is assigned at construction; any code that
// must not trust a cached value re-derives it with ComputeID.
type Transaction struct {
	ID      types.Hash `json:"id"`
	Inputs  []Input    `json:"inputs"`
	Outputs []Output   `json:"outputs"`
}

// New creates a transaction, preserving input/output order, and
// derives its id immediately. An empty input list is permitted
// (issuance); no balance or spendability checks happen here — those
// are the chain's concern at block acceptance.
func New(inputs []Input, outputs []Output) *Transaction {
	t := &Transaction{Inputs: inputs, Outputs: outputs}
	t.ID = t.ComputeID()
	return t
}

// ComputeID derives the transaction id from the current contents.
// It is a pure function of IDBytes.
func (t *Transaction) ComputeID() types.Hash {
	return crypto.Hash(t.IDBytes())
}

// IDBytes returns the canonical byte representation hashed into the id.
// Format: input_count(4) | [txid(32) + index(4) + auth_len(4) + auth]...
// | output_count(4) | [addr_len(4) + addr + value(8)]...
// All integers little-endian, sequences in stored order.
func (t *Transaction) IDBytes() []byte {
	var buf []byte

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.Inputs)))
	for _, in := range t.Inputs {
		buf = append(buf, in.PrevOut.TxID[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, in.PrevOut.Index)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(in.Authorization)))
		buf = append(buf, in.Authorization...)
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.Outputs)))
	for _, out := range t.Outputs {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(out.Address)))
		buf = append(buf, out.Address...)
		buf = binary.LittleEndian.AppendUint64(buf, out.Value)
	}

	return buf
}

// TotalOutputValue returns the sum of all output values.
// Returns an error if the sum overflows uint64.
func (t *Transaction) TotalOutputValue() (uint64, error) {
	var total uint64
	for _, out := range t.Outputs {
		if total > math.MaxUint64-out.Value {
			return 0, fmt.Errorf("output value overflow")
		}
		total += out.Value
	}
	return total, nil
}
