package intern

import (
	"cmp"
	"slices"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

// Set is a canonical representation of an unordered collection: an owned
// array of handles kept sorted ascending by id. Duplicate ids are not
// removed; the "set" semantics come from representing a collection of
// distinct logical values, not from a dedup pass on the container.
type Set[T any] struct {
	ids []Handle[T]
}

// NewSet takes ownership of handles, sorts them ascending by id, and wraps
// them as a canonical set.
func NewSet[T any](handles []Handle[T]) Set[T] {
	slices.SortFunc(handles, func(a, b Handle[T]) int {
		return cmp.Compare(a.id, b.id)
	})
	return Set[T]{ids: handles}
}

// Len returns the number of handles in the set.
func (s Set[T]) Len() int { return len(s.ids) }

// Handles returns the sorted handle array. The caller must not mutate it.
func (s Set[T]) Handles() []Handle[T] { return s.ids }

// Equal reports whether both sets hold the same sorted id sequence.
func (s Set[T]) Equal(other Set[T]) bool {
	return slices.Equal(s.ids, other.ids)
}

// EqSet checks set equality between a canonical handle set and a raw
// (unresolved, unsorted, un-deduplicated) slice of foreign-typed elements,
// using pred to decide whether a handle and a raw element denote the same
// logical value.
//
// The algorithm is a greedy bipartite match: for each handle, claim the first
// not-yet-used raw element satisfying pred. It is O(n*m) and is only correct
// for predicates that induce an unambiguous pairing, which holds for
// resolve-then-compare predicates over deduplicated content. It is not a
// general multiset-equality algorithm.
func EqSet[T, U any](s Set[T], raw []U, pred func(Handle[T], *U) bool) bool {
	if len(s.ids) != len(raw) {
		return false
	}

	used := make([]bool, len(raw))
outer:
	for _, h := range s.ids {
		for i := range raw {
			if used[i] {
				continue
			}
			if pred(h, &raw[i]) {
				used[i] = true
				continue outer
			}
		}
		return false
	}

	return true
}

// EncodeRLE encodes the sorted id sequence as signed run-length tokens.
//
// Ids in a set are frequently contiguous runs (sibling objects interned
// back-to-back), so consecutive +1 steps are folded into a single negative
// token holding the run length; every other id is emitted as its
// non-negative delta from the previous id (the first id deltas from 0).
func (s Set[T]) EncodeRLE() []int32 {
	tokens := make([]int32, 0, len(s.ids))

	var prev uint32
	first := true
	var streak int32

	for _, h := range s.ids {
		diff := h.id - prev
		if !first && diff == 1 {
			streak++
		} else {
			if streak != 0 {
				tokens = append(tokens, -streak)
				streak = 0
			}
			tokens = append(tokens, int32(diff))
		}
		prev = h.id
		first = false
	}
	if streak != 0 {
		tokens = append(tokens, -streak)
	}

	return tokens
}

// SetFromRLE inverts EncodeRLE: a negative token -n expands to n consecutive
// ids following the previous one, a non-negative token is a delta. Tokens are
// trusted; like raw handle ids, they are not validated against any store.
func SetFromRLE[T any](tokens []int32) Set[T] {
	ids := make([]Handle[T], 0, len(tokens))

	var prev uint32
	for _, x := range tokens {
		if x < 0 {
			for i := int32(0); i < -x; i++ {
				prev++
				ids = append(ids, Handle[T]{id: prev})
			}
		} else {
			prev += uint32(x)
			ids = append(ids, Handle[T]{id: prev})
		}
	}

	return Set[T]{ids: ids}
}

// MarshalJSON encodes the set as its run-length token sequence.
func (s Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.EncodeRLE())
}

// UnmarshalJSON decodes a run-length token sequence.
func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var tokens []int32
	if err := json.Unmarshal(data, &tokens); err != nil {
		return err
	}
	*s = SetFromRLE[T](tokens)
	return nil
}

// MarshalCBOR encodes the set as its run-length token sequence.
func (s Set[T]) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(s.EncodeRLE())
}

// UnmarshalCBOR decodes a run-length token sequence.
func (s *Set[T]) UnmarshalCBOR(data []byte) error {
	var tokens []int32
	if err := cbor.Unmarshal(data, &tokens); err != nil {
		return err
	}
	*s = SetFromRLE[T](tokens)
	return nil
}

// EncodeMsgpack encodes the set as its run-length token sequence.
func (s *Set[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(s.EncodeRLE())
}

// DecodeMsgpack decodes a run-length token sequence.
func (s *Set[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var tokens []int32
	if err := dec.Decode(&tokens); err != nil {
		return err
	}
	*s = SetFromRLE[T](tokens)
	return nil
}
