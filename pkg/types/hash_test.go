package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHash_IsZero(t *testing.T) {
	var zero Hash
	if !zero.IsZero() {
		t.Error("zero-value Hash should be zero")
	}
	if (Hash{0x01}).IsZero() {
		t.Error("non-zero Hash should not be zero")
	}
}

func TestHash_String(t *testing.T) {
	var h Hash
	if got := h.String(); got != strings.Repeat("0", 64) {
		t.Errorf("zero hash String() = %s, want 64 zeros", got)
	}

	h[0] = 0xab
	h[31] = 0xcd
	s := h.String()
	if !strings.HasPrefix(s, "ab") || !strings.HasSuffix(s, "cd") {
		t.Errorf("String() = %s, want ab...cd", s)
	}
}

func TestHash_Bytes_IsCopy(t *testing.T) {
	h := Hash{0x01}
	b := h.Bytes()
	if len(b) != HashSize {
		t.Fatalf("Bytes() length = %d, want %d", len(b), HashSize)
	}
	b[0] = 0xFF
	if h[0] == 0xFF {
		t.Error("Bytes() should return a copy, not a reference")
	}
}

func TestHash_JSONRoundTrip(t *testing.T) {
	h := Hash{0xde, 0xad, 0xbe, 0xef}
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Hash
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != h {
		t.Errorf("round trip = %s, want %s", got, h)
	}
}

func TestHash_UnmarshalJSON_Invalid(t *testing.T) {
	var h Hash
	if err := json.Unmarshal([]byte(`"zz"`), &h); err == nil {
		t.Error("non-hex input should fail")
	}
	if err := json.Unmarshal([]byte(`"abcd"`), &h); err == nil {
		t.Error("short input should fail")
	}
	// Empty string decodes to the zero hash.
	if err := json.Unmarshal([]byte(`""`), &h); err != nil {
		t.Errorf("empty string: %v", err)
	}
	if !h.IsZero() {
		t.Error("empty string should decode to zero hash")
	}
}

func TestHexToHash(t *testing.T) {
	h := Hash{0x01, 0x02}
	got, err := HexToHash(h.String())
	if err != nil {
		t.Fatalf("HexToHash: %v", err)
	}
	if got != h {
		t.Errorf("HexToHash = %s, want %s", got, h)
	}

	if _, err := HexToHash("0102"); err == nil {
		t.Error("short hex should fail")
	}
	if _, err := HexToHash("not hex"); err == nil {
		t.Error("invalid hex should fail")
	}
}
