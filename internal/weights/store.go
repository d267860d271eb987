// Package weights implements the averaged-perceptron weight store: an
// open-addressed hash table mapping 64-bit feature hashes to weight
// blocks.
package weights

// Block is one feature key's weight block: three parallel arrays, one entry
// per labeled move, sized numLabeledMoves. Weights, Acc, and Timestamps are
// exported so the learner can update them directly without a re-resolve per
// field; see the Store doc for the one rule that makes this safe.
type Block struct {
	Weights    []float64
	Acc        []float64
	Timestamps []int
}

func newBlock(numLabeledMoves int) *Block {
	return &Block{
		Weights:    make([]float64, numLabeledMoves),
		Acc:        make([]float64, numLabeledMoves),
		Timestamps: make([]int, numLabeledMoves),
	}
}

const initialCapacity = 16
const maxLoadFactor = 0.75

// empty is the reserved sentinel key marking an unoccupied slot. Callers are
// responsible for never presenting a real key equal to it (features.combine
// and features.seedKey both guard against it).
const empty uint64 = 0

// Store is the open-addressed, linear-probed weight table. A Block
// returned by Lookup/GetOrInsert is only valid until the next GetOrInsert
// call that might trigger a rehash; the learner's per-key update loops
// resolve a block once per key and never insert a new key within that
// resolution's lifetime, so this is safe in practice.
type Store struct {
	keys            []uint64
	blocks          []*Block
	size            int
	numLabeledMoves int
}

// New returns an empty Store sized for blocks of numLabeledMoves entries.
func New(numLabeledMoves int) *Store {
	return &Store{
		keys:            make([]uint64, initialCapacity),
		blocks:          make([]*Block, initialCapacity),
		numLabeledMoves: numLabeledMoves,
	}
}

// Len returns the number of occupied keys.
func (s *Store) Len() int {
	return s.size
}

// slot returns the probe index k would start at for a table of the given
// capacity; callers step linearly from there.
func slot(k uint64, capacity int) int {
	return int(k % uint64(capacity))
}

// Lookup returns the block for k, or (nil, false) if k is absent.
func (s *Store) Lookup(k uint64) (*Block, bool) {
	capacity := len(s.keys)
	i := slot(k, capacity)
	for {
		if s.keys[i] == empty {
			return nil, false
		}
		if s.keys[i] == k {
			return s.blocks[i], true
		}
		i = (i + 1) % capacity
	}
}

// GetOrInsert returns the block for k, creating a zero-initialized one if k
// is absent. May trigger a rehash before the lookup runs.
func (s *Store) GetOrInsert(k uint64) *Block {
	if s.size+1 > int(float64(len(s.keys))*maxLoadFactor) {
		s.rehash(len(s.keys) * 2)
	}

	capacity := len(s.keys)
	i := slot(k, capacity)
	for {
		if s.keys[i] == empty {
			s.keys[i] = k
			s.blocks[i] = newBlock(s.numLabeledMoves)
			s.size++
			return s.blocks[i]
		}
		if s.keys[i] == k {
			return s.blocks[i]
		}
		i = (i + 1) % capacity
	}
}

// rehash grows the table to newCapacity (always a power of two) and
// reinserts every occupied entry, relocating its block pointer.
func (s *Store) rehash(newCapacity int) {
	oldKeys := s.keys
	oldBlocks := s.blocks

	s.keys = make([]uint64, newCapacity)
	s.blocks = make([]*Block, newCapacity)

	for i, k := range oldKeys {
		if k == empty {
			continue
		}
		j := slot(k, newCapacity)
		for s.keys[j] != empty {
			j = (j + 1) % newCapacity
		}
		s.keys[j] = k
		s.blocks[j] = oldBlocks[i]
	}
}

// ForEach calls fn once per occupied (key, block) pair, for the learner's
// averaging finalization pass. Order is table-slot order, not insertion
// order.
func (s *Store) ForEach(fn func(key uint64, b *Block)) {
	for i, k := range s.keys {
		if k != empty {
			fn(k, s.blocks[i])
		}
	}
}

// NumLabeledMoves returns the block size every entry in s was allocated
// with.
func (s *Store) NumLabeledMoves() int {
	return s.numLabeledMoves
}

// Entry is one occupied (key, block) pair, in the flat form model
// persistence serializes.
type Entry struct {
	Key     uint64
	Weights []float64
}

// Entries returns every occupied key with its finalized weights, in
// table-slot order. Acc and Timestamps are not carried: a loaded Store is
// only ever used for Parse, never Fit, so the averaging bookkeeping they
// support has no further use.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, s.size)
	s.ForEach(func(k uint64, b *Block) {
		out = append(out, Entry{Key: k, Weights: append([]float64(nil), b.Weights...)})
	})
	return out
}

// FromEntries rebuilds a Store holding only finalized weights from a prior
// Entries call.
func FromEntries(numLabeledMoves int, entries []Entry) *Store {
	s := New(numLabeledMoves)
	for _, e := range entries {
		b := s.GetOrInsert(e.Key)
		copy(b.Weights, e.Weights)
	}
	return s
}
