package block

import (
	"testing"

	"github.com/Klingon-tech/klingnet-ledger/pkg/crypto"
	"github.com/Klingon-tech/klingnet-ledger/pkg/types"
)

func TestComputeMerkleRoot_Empty(t *testing.T) {
	if root := ComputeMerkleRoot(nil); !root.IsZero() {
		t.Errorf("empty input should return zero hash, got %s", root)
	}
}

func TestComputeMerkleRoot_Single(t *testing.T) {
	h := crypto.Hash([]byte("only"))
	if root := ComputeMerkleRoot([]types.Hash{h}); root != h {
		t.Errorf("single hash should return itself: got %s, want %s", root, h)
	}
}

func TestComputeMerkleRoot_Pair(t *testing.T) {
	h1 := crypto.Hash([]byte("one"))
	h2 := crypto.Hash([]byte("two"))

	root := ComputeMerkleRoot([]types.Hash{h1, h2})
	if want := crypto.HashConcat(h1, h2); root != want {
		t.Errorf("pair root = %s, want %s", root, want)
	}
}

func TestComputeMerkleRoot_OddCountDuplicatesLast(t *testing.T) {
	h1 := crypto.Hash([]byte("one"))
	h2 := crypto.Hash([]byte("two"))
	h3 := crypto.Hash([]byte("three"))

	root := ComputeMerkleRoot([]types.Hash{h1, h2, h3})

	// [h1 h2 h3] -> [h1 h2 h3 h3] -> [H(h1||h2), H(h3||h3)] -> root
	want := crypto.HashConcat(crypto.HashConcat(h1, h2), crypto.HashConcat(h3, h3))
	if root != want {
		t.Errorf("odd-count root = %s, want %s", root, want)
	}
}

func TestComputeMerkleRoot_DoesNotMutateInput(t *testing.T) {
	hashes := []types.Hash{
		crypto.Hash([]byte("one")),
		crypto.Hash([]byte("two")),
		crypto.Hash([]byte("three")),
	}
	before := make([]types.Hash, len(hashes))
	copy(before, hashes)

	ComputeMerkleRoot(hashes)

	for i := range hashes {
		if hashes[i] != before[i] {
			t.Fatalf("input slice mutated at %d", i)
		}
	}
}

func TestComputeMerkleRoot_OrderSensitive(t *testing.T) {
	h1 := crypto.Hash([]byte("one"))
	h2 := crypto.Hash([]byte("two"))

	a := ComputeMerkleRoot([]types.Hash{h1, h2})
	b := ComputeMerkleRoot([]types.Hash{h2, h1})
	if a == b {
		t.Error("merkle root must depend on leaf order")
	}
}
