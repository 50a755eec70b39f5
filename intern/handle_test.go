package intern

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

func TestHandle_Identity(t *testing.T) {
	a := HandleFromID[string](3)
	b := HandleFromID[string](3)
	c := HandleFromID[string](4)

	if a != b {
		t.Error("handles with equal ids must compare equal")
	}
	if a == c {
		t.Error("handles with different ids must differ")
	}
	if !a.Less(c) || c.Less(a) {
		t.Error("ordering must follow ids")
	}
	if a.String() != "I(3)" {
		t.Errorf("unexpected String: %s", a.String())
	}
}

func TestHandle_WireFormat(t *testing.T) {
	h := HandleFromID[string](1234)

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(h)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != "1234" {
			t.Errorf("expected bare integer, got %s", data)
		}
		var out Handle[string]
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if out != h {
			t.Errorf("round trip changed handle: %v", out)
		}
	})

	t.Run("json rejects out of range", func(t *testing.T) {
		var out Handle[string]
		if err := json.Unmarshal([]byte("4294967296"), &out); err == nil {
			t.Error("expected error for id > 2^32-1")
		}
		if err := json.Unmarshal([]byte("-1"), &out); err == nil {
			t.Error("expected error for negative id")
		}
	})

	t.Run("cbor", func(t *testing.T) {
		data, err := cbor.Marshal(h)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var out Handle[string]
		if err := cbor.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if out != h {
			t.Errorf("round trip changed handle: %v", out)
		}
	})

	t.Run("msgpack", func(t *testing.T) {
		data, err := msgpack.Marshal(&h)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var out Handle[string]
		if err := msgpack.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if out != h {
			t.Errorf("round trip changed handle: %v", out)
		}
	})
}

func TestSet_WireFormat(t *testing.T) {
	s := NewSet(handlesFromIDs(5, 6, 7, 10, 12, 13, 14))

	t.Run("json tokens", func(t *testing.T) {
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != "[5,-2,3,2,-2]" {
			t.Errorf("expected RLE token sequence, got %s", data)
		}
		var out Set[string]
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !s.Equal(out) {
			t.Errorf("round trip changed set: %v", setIDs(out))
		}
	})

	t.Run("cbor", func(t *testing.T) {
		data, err := cbor.Marshal(s)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var out Set[string]
		if err := cbor.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !s.Equal(out) {
			t.Error("cbor round trip changed set")
		}
	})

	t.Run("msgpack", func(t *testing.T) {
		data, err := msgpack.Marshal(&s)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var out Set[string]
		if err := msgpack.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !s.Equal(out) {
			t.Error("msgpack round trip changed set")
		}
	})
}
