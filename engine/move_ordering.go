// move_ordering.go implements the killer table, history table and staged
// move picker. The staging (good captures, killers, quiets, bad captures)
// and MVV-LVA scoring follow the shape of the teacher's moveStack/stack
// state machine (move_ordering.go: msGenViolent/msGenKiller/msGenRest),
// adapted to a simpler four-stage picker without the teacher's newer
// counter-move table, which this engine's move ordering does not define.
package engine

// mvvlvaValue approximates one pawn = 10, matching the relative scale the
// teacher's mvvlvaBonus table uses.
var mvvlvaValue = [PieceArraySize]int{
	NoPiece: 0,
	Pawn:    10,
	Knight:  40,
	Bishop:  45,
	Rook:    68,
	Queen:   145,
	King:    256,
}

// KillerTable holds up to MaxKillers distinct quiet moves per ply that
// recently caused a beta cutoff.
const MaxKillers = 2

type KillerTable struct {
	killers [MaxPly][MaxKillers]Move
}

// Add records m as a killer at ply, skipping duplicates and keeping the
// most recent killer first.
func (kt *KillerTable) Add(ply int, m Move) {
	if ply < 0 || ply >= MaxPly || !m.IsQuiet() {
		return
	}
	k := &kt.killers[ply]
	if k[0].Equals(m) {
		return
	}
	if k[1].Equals(m) {
		k[0], k[1] = m, k[0]
		return
	}
	k[1] = k[0]
	k[0] = m
}

// Get returns the (up to two) killer moves for ply.
func (kt *KillerTable) Get(ply int) [MaxKillers]Move {
	if ply < 0 || ply >= MaxPly {
		return [MaxKillers]Move{}
	}
	return kt.killers[ply]
}

// Clear resets every ply's killers, done once per search.
func (kt *KillerTable) Clear() {
	*kt = KillerTable{}
}

// HistoryTable scores quiet moves by how often they have caused a beta
// cutoff, weighted by the remaining depth at the time.
type HistoryTable struct {
	score [ColorArraySize][64][64]int
}

// Add increments the score for a quiet move by remainingDepth^2.
func (ht *HistoryTable) Add(c Color, m Move, remainingDepth int) {
	if !m.IsQuiet() {
		return
	}
	ht.score[c][m.From][m.To] += remainingDepth * remainingDepth
}

// Get returns the current history score for a quiet move.
func (ht *HistoryTable) Get(c Color, m Move) int {
	return ht.score[c][m.From][m.To]
}

// Clear resets every history counter, done once per search.
func (ht *HistoryTable) Clear() {
	*ht = HistoryTable{}
}

// pickerStage is the move picker's state machine position.
type pickerStage int

const (
	stageGoodCaptures pickerStage = iota
	stageKillers
	stageQuiet
	stageBadCaptures
	stageEnd
)

// MovePicker streams pseudo-legal moves in the order GoodCaptures →
// Killers → Quiet → BadCaptures → End. The TT move is handled by the
// searcher before the picker starts; SkipMove removes it here so it is
// never returned twice.
type MovePicker struct {
	moves    []Move
	selected []bool
	stage    pickerStage

	ply     int
	killers [MaxKillers]Move
	history *HistoryTable
	us      Color

	killerIdx int
}

// NewMovePicker builds a picker over pseudo-legal moves already generated
// for the position at ply.
func NewMovePicker(moves []Move, ply int, us Color, killers *KillerTable, history *HistoryTable) *MovePicker {
	return &MovePicker{
		moves:    moves,
		selected: make([]bool, len(moves)),
		stage:    stageGoodCaptures,
		ply:      ply,
		killers:  killers.Get(ply),
		history:  history,
		us:       us,
	}
}

// SkipMove marks m (already played, e.g. the TT move) as selected so it is
// never yielded by the picker.
func (mp *MovePicker) SkipMove(m Move) {
	for i, c := range mp.moves {
		if !mp.selected[i] && c.Equals(m) {
			mp.selected[i] = true
			return
		}
	}
}

// isGoodCapture applies the picker's simple capture ordering test: the
// captured piece is worth at least as much as the mover, or the move is a
// promotion or en passant.
func isGoodCapture(m Move) bool {
	if m.Kind == KindPromotion || m.Kind == KindEnPassant {
		return true
	}
	return m.IsCapture() && mvvlvaValue[m.Captured] >= mvvlvaValue[m.Piece]
}

func mvvlvaScore(m Move) int {
	return mvvlvaValue[m.Captured]*64 - mvvlvaValue[m.Piece]
}

// Next returns the next move in stage order, or NoMove when exhausted.
func (mp *MovePicker) Next() Move {
	for {
		switch mp.stage {
		case stageGoodCaptures:
			if idx, ok := mp.bestUnselected(isGoodCapture); ok {
				mp.selected[idx] = true
				return mp.moves[idx]
			}
			mp.stage = stageKillers
			mp.killerIdx = 0

		case stageKillers:
			for mp.killerIdx < MaxKillers {
				k := mp.killers[mp.killerIdx]
				mp.killerIdx++
				if k.IsNone() {
					continue
				}
				if idx, ok := mp.find(k); ok {
					mp.selected[idx] = true
					return k
				}
			}
			mp.stage = stageQuiet

		case stageQuiet:
			if idx, ok := mp.bestUnselected(func(m Move) bool { return m.IsQuiet() }); ok {
				mp.selected[idx] = true
				return mp.moves[idx]
			}
			mp.stage = stageBadCaptures

		case stageBadCaptures:
			if idx, ok := mp.bestUnselected(func(m Move) bool { return m.IsCapture() && !isGoodCapture(m) }); ok {
				mp.selected[idx] = true
				return mp.moves[idx]
			}
			mp.stage = stageEnd

		case stageEnd:
			return NoMove
		}
	}
}

// bestUnselected returns the index of the highest-scoring unselected move
// matching pred: MVV-LVA for captures, history score for quiets.
func (mp *MovePicker) bestUnselected(pred func(Move) bool) (int, bool) {
	best, bestScore, found := -1, 0, false
	for i, m := range mp.moves {
		if mp.selected[i] || !pred(m) {
			continue
		}
		var score int
		if m.IsCapture() {
			score = mvvlvaScore(m)
		} else {
			score = mp.history.Get(mp.us, m)
		}
		if !found || score > bestScore {
			best, bestScore, found = i, score, true
		}
	}
	return best, found
}

func (mp *MovePicker) find(m Move) (int, bool) {
	for i, c := range mp.moves {
		if !mp.selected[i] && c.Equals(m) {
			return i, true
		}
	}
	return 0, false
}
