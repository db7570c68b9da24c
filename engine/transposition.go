// transposition.go is the search's position cache: a fixed power-of-two
// array indexed by the low bits of the Zobrist hash, storing the best
// move, score, depth searched, and score bound found at that node. The
// single-slot indexing and always-replace policy are grounded on the
// teacher's HashTable (hash_table.go), simplified from its two-way
// lock/split scheme to a single full-hash-stored slot per the depth/age
// replacement rule this engine specifies.
package engine

// Bound tags how a stored score relates to the search window that
// produced it. BoundLower and BoundUpper are disjoint bits so BoundExact
// (their union) satisfies both "bound&BoundLower != 0" and
// "bound&BoundUpper != 0" tests without a separate case.
type Bound uint8

const (
	BoundNone  Bound = 0
	BoundLower Bound = 1 << 0
	BoundUpper Bound = 1 << 1
	BoundExact       = BoundLower | BoundUpper
)

// ttEntry is one transposition table slot.
type ttEntry struct {
	hash  uint64
	move  Move
	score int32
	depth int
	bound Bound
	age   uint8
}

// TranspositionTable is a fixed-size, power-of-two-sized cache of search
// results keyed by Zobrist hash.
type TranspositionTable struct {
	table []ttEntry
	mask  uint64
	age   uint8
}

// DefaultTTSizeLog2 is N in the table's default 1<<N entry count.
const DefaultTTSizeLog2 = 24

// NewTranspositionTable allocates a table with 1<<sizeLog2 entries.
func NewTranspositionTable(sizeLog2 int) *TranspositionTable {
	size := uint64(1) << uint(sizeLog2)
	return &TranspositionTable{
		table: make([]ttEntry, size),
		mask:  size - 1,
	}
}

// NewRoot bumps the table's age; called once per top-level Search call.
func (tt *TranspositionTable) NewRoot() {
	tt.age++
}

// Clear empties every slot.
func (tt *TranspositionTable) Clear() {
	for i := range tt.table {
		tt.table[i] = ttEntry{}
	}
}

func (tt *TranspositionTable) index(hash uint64) uint64 { return hash & tt.mask }

// Probe looks up hash and reports whether a matching entry was found.
func (tt *TranspositionTable) Probe(hash uint64) (ttEntry, bool) {
	e := tt.table[tt.index(hash)]
	if e.bound == BoundNone || e.hash != hash {
		return ttEntry{}, false
	}
	return e, true
}

// Store writes an entry for hash, honoring the always-replace policy:
// replace when the slot is empty, the new search went at least as deep,
// or the resident entry is from an older search generation.
func (tt *TranspositionTable) Store(hash uint64, move Move, score int32, depth int, bound Bound, ply int) {
	cur := &tt.table[tt.index(hash)]
	if cur.bound != BoundNone && cur.age == tt.age && depth < cur.depth {
		return
	}
	*cur = ttEntry{
		hash:  hash,
		move:  move,
		score: scoreToTT(score, ply),
		depth: depth,
		bound: bound,
		age:   tt.age,
	}
}

// ScoreFromTT re-contextualises a stored mate score to the current ply
// before it is used by the caller.
func ScoreFromTT(e ttEntry, ply int) int32 {
	return scoreFromTT(e.score, ply)
}

// mateBound is the magnitude beyond which a score can only be a mate
// score: forced mate is always found within MaxPly plies, so anything
// closer to |MateValue| than that cannot be a material/positional score.
const mateBound = -MateValue - MaxPly

// isMateScore reports whether s encodes a forced mate rather than a
// material/positional estimate.
func isMateScore(s int32) bool {
	return s <= -mateBound || s >= mateBound
}

// scoreToTT converts a root-relative mate score (MateValue+ply style, as the
// search produces them) at a node ply plies from the root into one
// expressed relative to that node itself, so it is meaningful however deep
// in the tree the same position is later read back from.
func scoreToTT(score int32, ply int) int32 {
	switch {
	case score >= mateBound:
		return score + int32(ply)
	case score <= -mateBound:
		return score - int32(ply)
	default:
		return score
	}
}

// scoreFromTT reverses scoreToTT when reading an entry back at ply plies
// from the root.
func scoreFromTT(score int32, ply int) int32 {
	switch {
	case score >= mateBound:
		return score - int32(ply)
	case score <= -mateBound:
		return score + int32(ply)
	default:
		return score
	}
}
