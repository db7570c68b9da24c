// quiescence.go resolves captures at the search horizon: stand-pat
// negamax over captures and queen promotions, pruning exchanges that a
// static-exchange evaluation shows losing. Grounded on the shape of the
// teacher's searchQuiescence (engine.go in the fuller search generation),
// adapted to fail-hard and to this package's SEE-margin pruning rule
// rather than the teacher's isFutile delta-margin test.
package engine

// SeeMargin is the slack added to the SEE pruning threshold in
// quiescence: a capture is tried only if its static exchange nets at
// least max(1, alpha-standPat-SeeMargin) centipawns.
const SeeMargin = 50

// quiescenceKillers/quiescenceHistory are always-empty tables: the picker
// needs non-nil tables, but killer/history ordering is not meaningful
// over a move list that is already all-captures-or-check-evasions.
var (
	quiescenceKillers KillerTable
	quiescenceHistory HistoryTable
)

// quiescence is fail-hard negamax restricted to captures/queen promotions
// (or, when in check, every legal evasion), used once the main search
// reaches remaining == 0.
func (s *Searcher) quiescence(p *Position, alpha, beta int32, ply int) int32 {
	s.nodes++
	if s.shouldStop() {
		return alpha
	}

	alphaOrig := alpha
	inCheck := p.IsUnderCheck(p.sideToMove)
	var standPat int32
	if !inCheck {
		standPat = int32(p.Evaluate())
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var buf [256]Move
	var moves []Move
	if inCheck {
		moves = p.LegalMoves(GenAll, buf[:0])
		if len(moves) == 0 {
			return int32(MateValue + ply)
		}
	} else {
		moves = p.Generate(GenQuiescence, buf[:0])
	}

	picker := NewMovePicker(moves, ply, p.sideToMove, &quiescenceKillers, &quiescenceHistory)

	var bestMove Move
	for {
		m := picker.Next()
		if m.IsNone() {
			break
		}
		if !inCheck {
			threshold := alpha - standPat - SeeMargin
			if threshold < 1 {
				threshold = 1
			}
			if !p.StaticExchangeEvaluation(m, int(threshold)) {
				continue
			}
		}

		p.DoMove(m)
		if !inCheck && p.IsUnderCheck(p.sideToMove.Opposite()) {
			// Pseudo-legal move left its own mover in check; skip.
			p.UndoMove()
			continue
		}
		score := -s.quiescence(p, -beta, -alpha, ply+1)
		p.UndoMove()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
			bestMove = m
		}
	}

	if alphaOrig < alpha && alpha < beta {
		s.pv.Put(p.Hash(), bestMove)
	}
	return alpha
}
