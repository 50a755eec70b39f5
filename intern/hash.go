package intern

import (
	"encoding/binary"
	"hash/maphash"
)

// Hasher defines content addressing for a Store[T]: a hash function and the
// equivalence relation it must be consistent with. If Equal(a, b) is true
// then Hash must write identical bytes for a and b.
type Hasher[T any] interface {
	Hash(h *maphash.Hash, v T)
	Equal(a, b T) bool
}

// HashUint32 writes x to h in little-endian order.
func HashUint32(h *maphash.Hash, x uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], x)
	h.Write(buf[:])
}

// HashUint64 writes x to h in little-endian order.
func HashUint64(h *maphash.Hash, x uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], x)
	h.Write(buf[:])
}

// HashInt64 writes x to h in little-endian order.
func HashInt64(h *maphash.Hash, x int64) {
	HashUint64(h, uint64(x))
}

// HashBool writes a single 0/1 byte to h.
func HashBool(h *maphash.Hash, b bool) {
	if b {
		h.WriteByte(1)
	} else {
		h.WriteByte(0)
	}
}

// HashHandle writes the handle's id to h.
func HashHandle[T any](h *maphash.Hash, hd Handle[T]) {
	HashUint32(h, hd.id)
}

// HashSet writes the set's length and sorted ids to h.
func HashSet[T any](h *maphash.Hash, s Set[T]) {
	HashUint64(h, uint64(len(s.ids)))
	for _, hd := range s.ids {
		HashUint32(h, hd.id)
	}
}

// StringHasher is the Hasher for plain string stores.
type StringHasher struct{}

// Hash writes the string bytes to h.
func (StringHasher) Hash(h *maphash.Hash, s string) { h.WriteString(s) }

// Equal reports string equality.
func (StringHasher) Equal(a, b string) bool { return a == b }

// SetHasher is the Hasher for stores of canonical sets. Sets hash and compare
// by their sorted id sequences.
type SetHasher[T any] struct{}

// Hash writes the set's id sequence to h.
func (SetHasher[T]) Hash(h *maphash.Hash, s Set[T]) { HashSet(h, s) }

// Equal reports id-sequence equality.
func (SetHasher[T]) Equal(a, b Set[T]) bool { return a.Equal(b) }
