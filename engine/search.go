// search.go is the principal-variation searcher: fail-hard negamax with
// reverse-futility and null-move pruning, transposition-table probing and
// storing, staged move ordering, and a check extension, topped by an
// iterative-deepening driver with additive aspiration windows. Grounded on
// the shape of the teacher's Engine/searchTree/search/Play (engine.go),
// adapted to this package's Move/Position/TranspositionTable/MovePicker
// types and to the fixed null-move reduction and additive aspiration
// widening this engine specifies, rather than the teacher's depth-scaled
// reduction and multiplicative widening.
package engine

const (
	checkpointInterval = 4096 // nodes between ExitCondition polls

	nullMoveDepthLimit = 3  // null move disabled at or below this remaining depth
	nullMoveReduction  = 3  // fixed reduction applied by null-move pruning
	rfpDepthLimit      = 5  // reverse futility pruning disabled above this remaining depth
	rfpMargin          = 75 // per-ply margin added to beta for reverse futility pruning

	aspirationDelta    = 100 // additive aspiration window half-width
	aspirationMinDepth = 4   // iterations below this always search a full window

	maxSearchDepth = 64

	infinityScore = int32(1 << 20) // safely above any mate or material score
)

// SearchEvents receives the progress notifications the iterative-deepening
// driver emits; a front-end implements this to print or relay them. Modeled
// on the teacher's Logger interface (BeginSearch/EndSearch/PrintPV).
type SearchEvents interface {
	DepthInfo(depth int)
	ScoreInfo(score int32)
	NodesPerSecond(nps uint64)
	PrincipalVariation(best Move, pv []Move)
	BestMove(best Move)
}

// NullSearchEvents discards every notification.
type NullSearchEvents struct{}

func (NullSearchEvents) DepthInfo(int)                   {}
func (NullSearchEvents) ScoreInfo(int32)                 {}
func (NullSearchEvents) NodesPerSecond(uint64)           {}
func (NullSearchEvents) PrincipalVariation(Move, []Move) {}
func (NullSearchEvents) BestMove(Move)                   {}

// Searcher owns everything that persists across one call to Search: the
// shared transposition table, killer/history tables, the cancellation
// collaborator and the event sink. A Searcher is not safe for concurrent
// use; the engine is single-threaded by design.
type Searcher struct {
	tt      *TranspositionTable
	pv      *PVTable
	killers *KillerTable
	history *HistoryTable
	exit    ExitCondition
	events  SearchEvents

	nodes   uint64
	stopped bool
}

// NewSearcher builds a Searcher around tt. exit and events may be nil, in
// which case the search never times out on its own and events are
// discarded.
func NewSearcher(tt *TranspositionTable, exit ExitCondition, events SearchEvents) *Searcher {
	if exit == nil {
		exit = NeverExit{}
	}
	if events == nil {
		events = NullSearchEvents{}
	}
	return &Searcher{
		tt:      tt,
		pv:      NewPVTable(),
		killers: &KillerTable{},
		history: &HistoryTable{},
		exit:    exit,
		events:  events,
	}
}

// Nodes returns the number of nodes visited by the most recent Search call,
// including quiescence nodes.
func (s *Searcher) Nodes() uint64 { return s.nodes }

// shouldStop polls the exit condition on the first node and then every
// checkpointInterval nodes, and latches the result: once stopped, a Searcher stays stopped for
// the remainder of the call so every frame on the stack unwinds promptly
// instead of re-polling.
func (s *Searcher) shouldStop() bool {
	if s.stopped {
		return true
	}
	if s.nodes&(checkpointInterval-1) == 1 && s.exit.IsTimeToExit() {
		s.stopped = true
	}
	return s.stopped
}

// containsMove reports whether m (typically a transposition-table move) is
// one of the pseudo-legal moves generated for the current position; a TT
// entry can outlive a collision or a stale generation and point at a move
// that no longer applies here.
func containsMove(moves []Move, m Move) bool {
	if m.IsNone() {
		return false
	}
	for _, c := range moves {
		if c.Equals(m) {
			return true
		}
	}
	return false
}

func nonPawnMaterial(p *Position, c Color) bool {
	return p.byColor[c]&^(p.byPiece[Pawn]|p.byPiece[King]) != 0
}

// Search runs iterative deepening from depth 1 up to maxDepth (or
// maxSearchDepth if maxDepth is not positive), stopping early once the
// Searcher's ExitCondition fires. It always returns the best move and score
// found by the last depth that completed; a search stopped before
// completing depth 1 returns the zero Move.
func (s *Searcher) Search(p *Position, maxDepth int) (Move, int32) {
	s.tt.NewRoot()
	s.pv.Clear()
	s.killers.Clear()
	s.history.Clear()
	s.nodes = 0
	s.stopped = false

	if maxDepth <= 0 || maxDepth > maxSearchDepth {
		maxDepth = maxSearchDepth
	}

	var bestMove Move
	var bestScore int32

	for depth := 1; depth <= maxDepth; depth++ {
		alpha, beta := -infinityScore, infinityScore
		if depth >= aspirationMinDepth {
			alpha, beta = bestScore-aspirationDelta, bestScore+aspirationDelta
		}

		var score int32
		for {
			score = s.pvSearch(p, alpha, beta, depth, 0, true, true)
			if s.stopped {
				break
			}
			if score <= alpha {
				alpha -= aspirationDelta
				if alpha < -infinityScore {
					alpha = -infinityScore
				}
				continue
			}
			if score >= beta {
				beta += aspirationDelta
				if beta > infinityScore {
					beta = infinityScore
				}
				continue
			}
			break
		}

		if s.stopped {
			break
		}

		bestScore = score
		if entry, ok := s.tt.Probe(p.Hash()); ok && !entry.move.IsNone() {
			bestMove = entry.move
		}

		pv := s.pv.Get(p, depth)
		s.events.DepthInfo(depth)
		s.events.ScoreInfo(bestScore)
		s.events.PrincipalVariation(bestMove, pv)

		if s.exit.IsTimeToExit() {
			break
		}
	}

	s.events.BestMove(bestMove)
	return bestMove, bestScore
}

// pvSearch is fail-hard negamax over remaining plies with PVS re-search,
// transposition-table probing/storing, reverse-futility pruning, null-move
// pruning and a check extension. alpha/beta and the returned score are from
// the side to move's point of view. allowNull is false immediately after a
// null move, so two null moves never run back to back.
func (s *Searcher) pvSearch(p *Position, alpha, beta int32, remaining, ply int, isPV, allowNull bool) int32 {
	s.nodes++
	if s.shouldStop() {
		return alpha
	}

	if ply > 0 && p.IsDraw() {
		return DrawValue
	}

	// Mate distance pruning: if an ancestor already has a shorter forced
	// mate than any mate this node could still deliver or suffer, neither
	// bound can change the result, so the window can be clamped.
	if matingScore := int32(-MateValue) - int32(ply); matingScore < beta {
		beta = matingScore
		if alpha >= beta {
			return alpha
		}
	}
	if matedScore := int32(MateValue) + int32(ply); matedScore > alpha {
		alpha = matedScore
		if alpha >= beta {
			return alpha
		}
	}

	if remaining <= 0 {
		return s.quiescence(p, alpha, beta, ply)
	}

	us := p.sideToMove
	inCheck := p.IsUnderCheck(us)

	var buf [256]Move
	moves := p.Generate(GenAll, buf[:0])

	var ttMove Move
	if entry, ok := s.tt.Probe(p.Hash()); ok {
		if containsMove(moves, entry.move) {
			ttMove = entry.move
		}
		if !isPV && entry.depth >= remaining {
			score := ScoreFromTT(entry, ply)
			switch {
			case entry.bound == BoundExact:
				return score
			case entry.bound&BoundUpper != 0 && score <= alpha:
				return alpha
			case entry.bound&BoundLower != 0 && score >= beta:
				if !entry.move.IsNone() && entry.move.IsQuiet() {
					s.killers.Add(ply, entry.move)
					s.history.Add(us, entry.move, remaining)
				}
				return beta
			}
		}
	}

	if !isPV && !inCheck && remaining <= rfpDepthLimit {
		staticEval := int32(p.Evaluate())
		if staticEval > beta+rfpMargin*int32(remaining) {
			return staticEval
		}
	}

	if !isPV && !inCheck && allowNull &&
		remaining > nullMoveDepthLimit &&
		nonPawnMaterial(p, us) &&
		!isMateScore(beta) {
		p.DoMove(NullMove)
		score := -s.pvSearch(p, -beta, -beta+1, remaining-nullMoveReduction, ply+1, false, false)
		p.UndoMove()
		if s.stopped {
			return alpha
		}
		if score >= beta {
			return score
		}
	}

	picker := NewMovePicker(moves, ply, us, s.killers, s.history)
	if !ttMove.IsNone() {
		picker.SkipMove(ttMove)
	}

	alphaOrig := alpha
	bestMove := NoMove
	movesSearched := 0
	triedTT := false

	for {
		var m Move
		if !triedTT {
			triedTT = true
			if !ttMove.IsNone() {
				m = ttMove
			} else {
				m = picker.Next()
			}
		} else {
			m = picker.Next()
		}
		if m.IsNone() {
			break
		}

		p.DoMove(m)
		if p.IsUnderCheck(us) {
			p.UndoMove()
			continue
		}
		movesSearched++

		childRemaining := remaining - 1
		if inCheck {
			// Check extension: a node entered in check searches its
			// children at the same remaining depth instead of decrementing.
			childRemaining = remaining
		}

		var score int32
		if movesSearched == 1 {
			score = -s.pvSearch(p, -beta, -alpha, childRemaining, ply+1, isPV, true)
		} else {
			score = -s.pvSearch(p, -alpha-1, -alpha, childRemaining, ply+1, false, true)
			if score > alpha && score < beta && isPV {
				score = -s.pvSearch(p, -beta, -alpha, childRemaining, ply+1, true, true)
			}
		}
		p.UndoMove()

		if s.stopped {
			return alpha
		}

		if score >= beta {
			if m.IsQuiet() {
				s.killers.Add(ply, m)
				s.history.Add(us, m, remaining)
			}
			s.tt.Store(p.Hash(), m, beta, remaining, BoundLower, ply)
			return beta
		}
		if score > alpha {
			alpha = score
			bestMove = m
		} else if bestMove.IsNone() {
			bestMove = m
		}
	}

	if movesSearched == 0 {
		if inCheck {
			return int32(MateValue + ply)
		}
		return DrawValue
	}

	bound := BoundUpper
	if alpha > alphaOrig {
		bound = BoundExact
		s.pv.Put(p.Hash(), bestMove)
	}
	s.tt.Store(p.Hash(), bestMove, alpha, remaining, bound, ply)
	return alpha
}
