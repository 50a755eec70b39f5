package intern

import (
	"errors"
	"fmt"
	"hash/maphash"
	"math"
	"sync"
	"sync/atomic"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// blockBits is the power-of-2 exponent for values per block.
	blockBits = 10
	blockSize = 1 << blockBits
	blockMask = blockSize - 1

	// numShards is the number of dedup index stripes. Must be a power of 2.
	numShards = 16
)

// ErrUninitializedStore is returned when decoding into a store that was not
// built with NewStore (and therefore has no hasher to rebuild its index).
var ErrUninitializedStore = errors.New("intern: store has no hasher; construct it with NewStore before decoding")

type shard struct {
	mu sync.Mutex
	// ids maps a content hash to the candidate slot ids carrying that hash.
	ids map[uint64][]uint32
}

// Store is the canonical, deduplicating, append-only collection of values of
// one type. Insertion order is handle id order: ids are dense, 0-based, and
// never reused or deleted.
//
// Values are held in fixed-size blocks published through an atomic pointer,
// so concurrent Lookup never observes a reallocated backing array while an
// append is in flight.
type Store[T any] struct {
	hasher Hasher[T]
	seed   maphash.Seed

	shards [numShards]shard

	blocks   atomic.Pointer[[]*[blockSize]T]
	length   atomic.Uint32
	appendMu sync.Mutex

	// requests counts intern requests (not unique values), for reuse stats.
	requests atomic.Uint64
}

// NewStore creates an empty store using h for content addressing.
func NewStore[T any](h Hasher[T]) *Store[T] {
	s := &Store[T]{
		hasher: h,
		seed:   maphash.MakeSeed(),
	}
	for i := range s.shards {
		s.shards[i].ids = make(map[uint64][]uint32)
	}
	blocks := make([]*[blockSize]T, 0)
	s.blocks.Store(&blocks)
	return s
}

func (s *Store[T]) hashOf(v T) uint64 {
	var mh maphash.Hash
	mh.SetSeed(s.seed)
	s.hasher.Hash(&mh, v)
	return mh.Sum64()
}

// Intern returns the handle of the canonical entry content-equal to v,
// appending v as a new canonical entry if none exists. Safe for concurrent
// use: equal content hashes to the same stripe, so racing goroutines
// converge on a single id.
func (s *Store[T]) Intern(v T) Handle[T] {
	s.requests.Add(1)

	hv := s.hashOf(v)
	sh := &s.shards[hv&(numShards-1)]
	sh.mu.Lock()
	defer sh.mu.Unlock()

	for _, id := range sh.ids[hv] {
		if s.hasher.Equal(s.at(id), v) {
			return Handle[T]{id: id}
		}
	}

	id := s.append(v)
	sh.ids[hv] = append(sh.ids[hv], id)
	return Handle[T]{id: id}
}

// PushUnchecked appends v unconditionally and indexes it, without probing for
// an existing equal entry. It exists for rebuilding a store from an
// already-deduplicated serialized sequence; pushing a duplicate through it
// breaks the store's uniqueness invariant. Not safe concurrently with Intern.
func (s *Store[T]) PushUnchecked(v T) Handle[T] {
	hv := s.hashOf(v)
	sh := &s.shards[hv&(numShards-1)]
	sh.mu.Lock()
	defer sh.mu.Unlock()

	id := s.append(v)
	sh.ids[hv] = append(sh.ids[hv], id)
	return Handle[T]{id: id}
}

func (s *Store[T]) append(v T) uint32 {
	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	n := s.length.Load()
	if n == math.MaxUint32 {
		panic("intern: store is full")
	}

	bi := int(n >> blockBits)
	blocks := *s.blocks.Load()
	if bi == len(blocks) {
		grown := make([]*[blockSize]T, len(blocks)+1)
		copy(grown, blocks)
		grown[bi] = new([blockSize]T)
		s.blocks.Store(&grown)
		blocks = grown
	}

	blocks[bi][n&blockMask] = v
	// The value write above must precede the length publication.
	s.length.Add(1)
	return n
}

func (s *Store[T]) at(id uint32) T {
	blocks := *s.blocks.Load()
	return blocks[id>>blockBits][id&blockMask]
}

// Lookup resolves h to its canonical value in O(1). It panics if h is out of
// range for this store: a handle constructed against a different store of the
// same type is indistinguishable from a valid one.
func (s *Store[T]) Lookup(h Handle[T]) T {
	if h.id >= s.length.Load() {
		panic(fmt.Sprintf("intern: handle %d out of range for store of length %d", h.id, s.length.Load()))
	}
	return s.at(h.id)
}

// Len returns the number of unique canonical values.
func (s *Store[T]) Len() int {
	return int(s.length.Load())
}

// Requests returns the total number of intern requests served, including
// those answered from the dedup index.
func (s *Store[T]) Requests() uint64 {
	return s.requests.Load()
}

// Range calls f for each canonical value in id order until f returns false.
func (s *Store[T]) Range(f func(id uint32, v T) bool) {
	n := s.length.Load()
	for id := uint32(0); id < n; id++ {
		if !f(id, s.at(id)) {
			return
		}
	}
}

// Snapshot returns a copy of the canonical value sequence in id order.
func (s *Store[T]) Snapshot() []T {
	n := s.length.Load()
	out := make([]T, n)
	for id := uint32(0); id < n; id++ {
		out[id] = s.at(id)
	}
	return out
}

// Equal reports whether the two stores hold content-equal value sequences in
// the same order. Request counters and index layout are ignored.
func (s *Store[T]) Equal(other *Store[T]) bool {
	n := s.length.Load()
	if n != other.length.Load() {
		return false
	}
	for id := uint32(0); id < n; id++ {
		if !s.hasher.Equal(s.at(id), other.at(id)) {
			return false
		}
	}
	return true
}

// reset drops all values and index entries, keeping the hasher and seed.
func (s *Store[T]) reset() {
	for i := range s.shards {
		s.shards[i].ids = make(map[uint64][]uint32)
	}
	blocks := make([]*[blockSize]T, 0)
	s.blocks.Store(&blocks)
	s.length.Store(0)
}

func (s *Store[T]) replay(vals []T) error {
	if s.hasher == nil {
		return ErrUninitializedStore
	}
	s.reset()
	for _, v := range vals {
		s.PushUnchecked(v)
	}
	return nil
}

// MarshalJSON encodes the ordered canonical value sequence. The dedup index
// and request counter are not persisted; ids are a pure function of order.
func (s *Store[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// UnmarshalJSON rebuilds the store by replaying the value sequence.
func (s *Store[T]) UnmarshalJSON(data []byte) error {
	var vals []T
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	return s.replay(vals)
}

// MarshalCBOR encodes the ordered canonical value sequence.
func (s *Store[T]) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(s.Snapshot())
}

// UnmarshalCBOR rebuilds the store by replaying the value sequence.
func (s *Store[T]) UnmarshalCBOR(data []byte) error {
	var vals []T
	if err := cbor.Unmarshal(data, &vals); err != nil {
		return err
	}
	return s.replay(vals)
}

// EncodeMsgpack encodes the ordered canonical value sequence.
func (s *Store[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(s.Snapshot())
}

// DecodeMsgpack rebuilds the store by replaying the value sequence.
func (s *Store[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var vals []T
	if err := dec.Decode(&vals); err != nil {
		return err
	}
	return s.replay(vals)
}
