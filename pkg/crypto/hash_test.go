package crypto

import (
	"testing"

	"github.com/Klingon-tech/klingnet-ledger/pkg/types"
)

func TestHash_Deterministic(t *testing.T) {
	data := []byte("the same input")
	h1 := Hash(data)
	h2 := Hash(data)
	if h1 != h2 {
		t.Error("identical inputs must hash identically")
	}
	if h1.IsZero() {
		t.Error("hash of non-empty input should not be zero")
	}
}

func TestHash_DistinctInputs(t *testing.T) {
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Error("distinct inputs should hash differently")
	}
	if Hash(nil) == Hash([]byte("a")) {
		t.Error("empty input should hash differently from non-empty")
	}
}

func TestHashConcat(t *testing.T) {
	a := Hash([]byte("left"))
	b := Hash([]byte("right"))

	got := HashConcat(a, b)

	var buf [2 * types.HashSize]byte
	copy(buf[:types.HashSize], a[:])
	copy(buf[types.HashSize:], b[:])
	if want := Hash(buf[:]); got != want {
		t.Errorf("HashConcat = %s, want %s", got, want)
	}

	if HashConcat(a, b) == HashConcat(b, a) {
		t.Error("HashConcat must be order-sensitive")
	}
}
