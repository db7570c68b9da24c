// movegen.go generates moves per piece type from the attack tables, the
// way the teacher's position.go splits generation into gen*Moves helpers
// fed by a staged driver. Two differences from the teacher: legality is
// checked by playing the move and testing for self-check rather than by
// tracking a moveMask, and quiescence generation is its own mode rather
// than a "violent" flag, since our quiescence search also wants
// queen-only promotions (the teacher always expands all four).
package engine

import "fmt"

// GenMode selects which pseudo-legal moves Generate produces.
type GenMode int

const (
	// GenAll produces every pseudo-legal move.
	GenAll GenMode = iota
	// GenQuiescence produces captures and queen promotions only.
	GenQuiescence
)

var pawnPromotions = [...]Piece{Queen, Rook, Bishop, Knight}

// Generate appends pseudo-legal moves for the side to move to moves and
// returns the extended slice.
func (p *Position) Generate(mode GenMode, moves []Move) []Move {
	moves = p.genPawnMoves(mode, moves)
	moves = p.genPieceMoves(Knight, mode, moves)
	moves = p.genPieceMoves(Bishop, mode, moves)
	moves = p.genPieceMoves(Rook, mode, moves)
	moves = p.genPieceMoves(Queen, mode, moves)
	moves = p.genKingMoves(mode, moves)
	return moves
}

// LegalMoves returns every legal move: pseudo-legal moves that do not
// leave the mover's own king in check, verified by playing and undoing
// each candidate. This also correctly rejects an en-passant capture that
// would expose the king along the rank vacated by both pawns (the
// "en-passant pin"), since the test plays the actual resulting position.
func (p *Position) LegalMoves(mode GenMode, buf []Move) []Move {
	us := p.sideToMove
	pseudo := p.Generate(mode, buf[:0])
	legal := pseudo[:0]
	for _, m := range pseudo {
		p.DoMove(m)
		ok := !p.IsUnderCheck(us)
		p.UndoMove()
		if ok {
			legal = append(legal, m)
		}
	}
	return legal
}

func (p *Position) genPawnMoves(mode GenMode, moves []Move) []Move {
	us := p.sideToMove
	pawns := p.PiecesOf(us, Pawn)
	empty := ^p.Occupied()
	enemy := p.byColor[us.Opposite()]

	if mode == GenAll {
		var singlePush, doublePush Bitboard
		if us == White {
			singlePush = North(pawns) & empty
			doublePush = North(singlePush&RankBb(2)) & empty
		} else {
			singlePush = South(pawns) & empty
			doublePush = South(singlePush&RankBb(5)) & empty
		}

		for bb := singlePush; bb.Any(); {
			to := bb.PopFirst()
			from := to
			if us == White {
				from -= 8
			} else {
				from += 8
			}
			moves = p.appendPawnMoves(mode, from, to, NoPiece, moves)
		}
		for bb := doublePush; bb.Any(); {
			to := bb.PopFirst()
			from := to
			if us == White {
				from -= 16
			} else {
				from += 16
			}
			moves = append(moves, Move{Kind: KindDoublePush, From: from, To: to, Piece: Pawn})
		}
	} else {
		// GenQuiescence keeps non-capturing promotions (queen only).
		for bb := Forward(us, pawns) & empty & (BbRank1 | BbRank8); bb.Any(); {
			to := bb.PopFirst()
			from := Square(int(to) - 8*us.Multiplier())
			moves = p.appendPawnMoves(mode, from, to, NoPiece, moves)
		}
	}

	// Captures (both modes): for each pawn, intersect its attack set with
	// enemy pieces (and, for quiescence, filter promotions to queen-only
	// inside appendPawnMoves).
	for bb := pawns; bb.Any(); {
		from := bb.PopFirst()
		targets := PawnAttack(us, from) & enemy
		for t := targets; t.Any(); {
			to := t.PopFirst()
			moves = p.appendPawnMoves(mode, from, to, p.PieceOn(to).Piece(), moves)
		}
	}

	// En passant.
	if epSq, ok := p.EnpassantSquare(); ok {
		attackers := PawnAttack(us.Opposite(), epSq) & pawns
		for bb := attackers; bb.Any(); {
			from := bb.PopFirst()
			moves = append(moves, Move{Kind: KindEnPassant, From: from, To: epSq, Piece: Pawn, Captured: Pawn})
		}
	}

	return moves
}

// appendPawnMoves appends either a single default/capture move, or the
// promotion expansion, depending on the destination rank. GenQuiescence
// expands only the queen promotion; GenAll expands all four pieces.
func (p *Position) appendPawnMoves(mode GenMode, from, to Square, captured Piece, moves []Move) []Move {
	rank := to.Rank()
	if rank != 0 && rank != 7 {
		moves = append(moves, Move{Kind: KindDefault, From: from, To: to, Piece: Pawn, Captured: captured})
		return moves
	}
	if mode == GenQuiescence {
		moves = append(moves, Move{Kind: KindPromotion, From: from, To: to, Piece: Pawn, Captured: captured, Promoted: Queen})
		return moves
	}
	for _, promo := range pawnPromotions {
		moves = append(moves, Move{Kind: KindPromotion, From: from, To: to, Piece: Pawn, Captured: captured, Promoted: promo})
	}
	return moves
}

func (p *Position) genPieceMoves(pt Piece, mode GenMode, moves []Move) []Move {
	us := p.sideToMove
	occ := p.Occupied()
	own := p.byColor[us]
	enemy := p.byColor[us.Opposite()]

	for bb := p.PiecesOf(us, pt); bb.Any(); {
		from := bb.PopFirst()
		var att Bitboard
		switch pt {
		case Knight:
			att = KnightAttack(from)
		case Bishop:
			att = BishopAttack(from, occ)
		case Rook:
			att = RookAttack(from, occ)
		case Queen:
			att = QueenAttack(from, occ)
		}
		att &^= own

		if mode == GenQuiescence {
			att &= enemy
		}
		for t := att & enemy; t.Any(); {
			to := t.PopFirst()
			moves = append(moves, Move{Kind: KindDefault, From: from, To: to, Piece: pt, Captured: p.PieceOn(to).Piece()})
		}
		if mode == GenAll {
			for t := att &^ enemy; t.Any(); {
				to := t.PopFirst()
				moves = append(moves, Move{Kind: KindDefault, From: from, To: to, Piece: pt, Captured: NoPiece})
			}
		}
	}
	return moves
}

func (p *Position) genKingMoves(mode GenMode, moves []Move) []Move {
	us := p.sideToMove
	from := p.kingSquare[us]
	own := p.byColor[us]
	enemy := p.byColor[us.Opposite()]
	att := KingAttack(from) &^ own

	for t := att & enemy; t.Any(); {
		to := t.PopFirst()
		moves = append(moves, Move{Kind: KindDefault, From: from, To: to, Piece: King, Captured: p.PieceOn(to).Piece()})
	}
	if mode == GenAll {
		for t := att &^ enemy; t.Any(); {
			to := t.PopFirst()
			moves = append(moves, Move{Kind: KindDefault, From: from, To: to, Piece: King, Captured: NoPiece})
		}
		moves = p.genCastlingMoves(moves)
	}
	return moves
}

func (p *Position) genCastlingMoves(moves []Move) []Move {
	us := p.sideToMove
	them := us.Opposite()
	rank := 0
	if us == Black {
		rank = 7
	}
	from := p.kingSquare[us]
	occ := p.Occupied()

	anchors := from.Bitboard()
	if p.CanCastle(us, KingSide) {
		to := RankFile(rank, 6)
		rookFrom := p.rookHome[us][KingSide]
		rookTo := RankFile(rank, 5)
		blockers := (Between(from, to) | Between(rookFrom, rookTo)) &^ (anchors | rookFrom.Bitboard())
		if occ&blockers == 0 && p.squaresSafe(them, from, RankFile(rank, 5), to) {
			moves = append(moves, Move{Kind: KindCastling, From: from, To: to, CastlingSide: KingSide, RookFrom: rookFrom, RookTo: rookTo})
		}
	}
	if p.CanCastle(us, QueenSide) {
		to := RankFile(rank, 2)
		rookFrom := p.rookHome[us][QueenSide]
		rookTo := RankFile(rank, 3)
		blockers := (Between(from, to) | Between(rookFrom, rookTo)) &^ (anchors | rookFrom.Bitboard())
		if occ&blockers == 0 && p.squaresSafe(them, from, RankFile(rank, 3), to) {
			moves = append(moves, Move{Kind: KindCastling, From: from, To: to, CastlingSide: QueenSide, RookFrom: rookFrom, RookTo: rookTo})
		}
	}
	return moves
}

func (p *Position) squaresSafe(by Color, squares ...Square) bool {
	for _, sq := range squares {
		if p.IsSquareAttacked(sq, by) {
			return false
		}
	}
	return true
}

// ParseMove resolves s, a move in long-algebraic/UCI form ("e2e4",
// "e7e8q"), against p's legal moves. Grounded on the teacher's
// Position.ParseMove (position.go), which likewise matches a UCI string
// against the generated move list rather than parsing the squares and
// constructing a Move directly, so castling and en-passant are resolved
// by the generator instead of by guessing the move kind from the squares.
func (p *Position) ParseMove(s string) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("malformed move %q", s)
	}
	from, err := SquareFromString(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("malformed move %q: %w", s, err)
	}
	to, err := SquareFromString(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("malformed move %q: %w", s, err)
	}
	promoted := NoPiece
	if len(s) >= 5 {
		found := false
		for pt := PieceMinValue; pt <= PieceMaxValue; pt++ {
			if pieceLetters[pt] == s[4] {
				promoted, found = pt, true
				break
			}
		}
		if !found {
			return NoMove, fmt.Errorf("malformed move %q: unknown promotion piece %q", s, s[4])
		}
	}

	var buf [256]Move
	for _, m := range p.LegalMoves(GenAll, buf[:0]) {
		if m.From != from || m.To != to {
			continue
		}
		if m.Kind == KindPromotion && m.Promoted != promoted {
			continue
		}
		return m, nil
	}
	return NoMove, fmt.Errorf("illegal move %q in current position", s)
}
