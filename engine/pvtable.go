// pvtable.go is a small dedicated cache of principal-variation moves,
// keyed by Zobrist hash like the transposition table but written only for
// nodes whose score came back exact. It exists because the transposition
// table's always-replace policy can evict an interior PV node before the
// iterative-deepening driver asks for the line, leaving PrincipalVariation
// events with a truncated line; a PV node is rare enough relative to the
// whole tree that a much smaller table loses far fewer entries. Grounded
// directly on the teacher's pv.go (pvTable/pvEntry/Put/Get), adapted from
// its package-level globals to a table owned per Searcher.
package engine

const (
	pvTableSize = 1 << 13
	pvTableMask = pvTableSize - 1
)

type pvEntry struct {
	lock uint64 // position hash this entry was recorded for
	move Move
}

// PVTable maps a position hash to the move the search found best for it,
// recorded only when that move's score was exact (strictly between the
// window's alpha and beta).
type PVTable struct {
	entries []pvEntry
}

// NewPVTable allocates an empty table.
func NewPVTable() *PVTable {
	return &PVTable{entries: make([]pvEntry, pvTableSize)}
}

// Clear empties every slot; done once per top-level Search call.
func (pv *PVTable) Clear() {
	for i := range pv.entries {
		pv.entries[i] = pvEntry{}
	}
}

// Put records move as the best move for the position with the given hash.
// NullMove and the zero Move are never recorded, mirroring the teacher.
func (pv *PVTable) Put(hash uint64, move Move) {
	if move.IsNone() || move.Kind == KindNull {
		return
	}
	pv.entries[hash&pvTableMask] = pvEntry{lock: hash, move: move}
}

func (pv *PVTable) get(hash uint64) Move {
	if e := &pv.entries[hash&pvTableMask]; e.lock == hash {
		return e.move
	}
	return NoMove
}

// Get extracts the principal variation starting at p's current position,
// up to maxLen moves, by repeatedly looking up and playing the recorded
// best move. It stops at the first missing, illegal, or already-visited
// (to guard against a cycle through a stale/colliding entry) position, and
// always restores p to its original state before returning.
func (pv *PVTable) Get(p *Position, maxLen int) []Move {
	var moves []Move
	seen := make(map[uint64]bool)
	for len(moves) < maxLen {
		h := p.Hash()
		if seen[h] {
			break
		}
		m := pv.get(h)
		if m.IsNone() {
			break
		}
		var buf [256]Move
		if !containsMove(p.Generate(GenAll, buf[:0]), m) {
			break
		}
		mover := p.sideToMove
		p.DoMove(m)
		if p.IsUnderCheck(mover) {
			p.UndoMove()
			break
		}
		seen[h] = true
		moves = append(moves, m)
	}
	for range moves {
		p.UndoMove()
	}
	return moves
}
