package intern

import (
	"fmt"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Handle is a dense 32-bit surrogate id naming one slot in a Store[T].
//
// The type parameter exists only at compile time, to keep handles from
// different logical domains apart; it contributes nothing at runtime.
// Equality, ordering and hashing are defined purely over the numeric id:
// two handles are equal iff they name the same store slot.
type Handle[T any] struct {
	id uint32
}

// HandleFromID rehydrates a handle from a raw id.
//
// This is strictly a deserialization-path constructor: the caller must
// guarantee the id was issued by the store the handle will be resolved
// against. There is no validation until first lookup.
func HandleFromID[T any](id uint32) Handle[T] {
	return Handle[T]{id: id}
}

// ID returns the raw surrogate id.
func (h Handle[T]) ID() uint32 { return h.id }

// Less reports whether h orders before other by id.
func (h Handle[T]) Less(other Handle[T]) bool { return h.id < other.id }

func (h Handle[T]) String() string {
	return fmt.Sprintf("I(%d)", h.id)
}

// MarshalJSON encodes the handle as a bare unsigned integer.
func (h Handle[T]) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(h.id), 10), nil
}

// UnmarshalJSON decodes a bare unsigned integer. The id is not range-checked
// against any store.
func (h *Handle[T]) UnmarshalJSON(data []byte) error {
	id, err := strconv.ParseUint(string(data), 10, 32)
	if err != nil {
		return fmt.Errorf("intern: invalid handle: %w", err)
	}
	h.id = uint32(id)
	return nil
}

// MarshalCBOR encodes the handle as a bare unsigned integer.
func (h Handle[T]) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(h.id)
}

// UnmarshalCBOR decodes a bare unsigned integer.
func (h *Handle[T]) UnmarshalCBOR(data []byte) error {
	return cbor.Unmarshal(data, &h.id)
}

// EncodeMsgpack encodes the handle as a bare unsigned integer.
func (h *Handle[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeUint32(h.id)
}

// DecodeMsgpack decodes a bare unsigned integer.
func (h *Handle[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	id, err := dec.DecodeUint32()
	if err != nil {
		return err
	}
	h.id = id
	return nil
}
