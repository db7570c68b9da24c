// position.go is the central mutable-by-move-stack board representation:
// a mailbox array kept redundantly in sync with per-piece bitboards, plus
// the irreversible state (castling rights, en-passant square, halfmove
// clock) needed to undo a move exactly. DoMove/UndoMove update the Zobrist
// hash incrementally rather than recomputing it, following the same
// denormalized board+bitboard split the teacher engine's Position uses.
package engine

// undoState captures everything DoMove destroys that UndoMove must restore,
// plus the moved/captured piece identities needed to put the board back.
type undoState struct {
	move           Move
	castle         Castle
	hasEnpassant   bool
	epSquare       Square
	halfmoveClock  int
	hash           uint64
	capturedPiece  Piece
}

// Position is one point in the game tree.
type Position struct {
	board [64]ColoredPiece

	byColor [ColorArraySize]Bitboard
	byPiece [PieceArraySize]Bitboard // indexed by colorless Piece, union of both colors

	sideToMove Color

	castle       Castle
	hasEnpassant bool
	epSquare     Square

	halfmoveClock  int
	fullmoveNumber int

	kingSquare [ColorArraySize]Square
	rookHome   [ColorArraySize][CastlingSideArraySize]Square

	hash uint64

	history []undoState
}

// NewPosition returns an empty position with White to move. Callers
// normally obtain a Position via FEN parsing instead.
func NewPosition() *Position {
	p := &Position{sideToMove: White}
	return p
}

// SideToMove returns the color on move.
func (p *Position) SideToMove() Color { return p.sideToMove }

// Hash returns the current Zobrist hash.
func (p *Position) Hash() uint64 { return p.hash }

// Occupied returns the union of all occupied squares.
func (p *Position) Occupied() Bitboard { return p.byColor[White] | p.byColor[Black] }

// ByColor returns all pieces of color c.
func (p *Position) ByColor(c Color) Bitboard { return p.byColor[c] }

// ByPiece returns all pieces of colorless type pt, either color.
func (p *Position) ByPiece(pt Piece) Bitboard { return p.byPiece[pt] }

// PiecesOf returns all pieces of color c and colorless type pt.
func (p *Position) PiecesOf(c Color, pt Piece) Bitboard { return p.byColor[c] & p.byPiece[pt] }

// PieceOn returns the colored piece occupying sq, or NoColoredPiece.
func (p *Position) PieceOn(sq Square) ColoredPiece { return p.board[sq] }

// KingSquare returns the square of color c's king.
func (p *Position) KingSquare(c Color) Square { return p.kingSquare[c] }

// CastlingRights returns the current castling-rights bitmask.
func (p *Position) CastlingRights() Castle { return p.castle }

// EnpassantSquare returns the current en-passant target square and whether
// one is set.
func (p *Position) EnpassantSquare() (Square, bool) { return p.epSquare, p.hasEnpassant }

// HalfmoveClock returns the count of plies since the last pawn move or
// capture, for the fifty-move rule.
func (p *Position) HalfmoveClock() int { return p.halfmoveClock }

// put places a colored piece on an empty square and updates bitboards,
// mailbox and hash. Caller must ensure sq is empty.
func (p *Position) put(c Color, pt Piece, sq Square) {
	p.board[sq] = MakeColoredPiece(c, pt)
	p.byColor[c] = p.byColor[c].Set(sq)
	p.byPiece[pt] = p.byPiece[pt].Set(sq)
	p.hash ^= zobristPieceKey(c, pt, sq)
	if pt == King {
		p.kingSquare[c] = sq
	}
}

// remove clears an occupied square, returning the piece that was there.
func (p *Position) remove(sq Square) (Color, Piece) {
	cp := p.board[sq]
	c, pt := cp.Color(), cp.Piece()
	p.board[sq] = NoColoredPiece
	p.byColor[c] = p.byColor[c].Reset(sq)
	p.byPiece[pt] = p.byPiece[pt].Reset(sq)
	p.hash ^= zobristPieceKey(c, pt, sq)
	return c, pt
}

func (p *Position) setCastle(ca Castle) {
	p.hash ^= zobristCastle[p.castle]
	p.castle = ca
	p.hash ^= zobristCastle[p.castle]
}

func (p *Position) clearEnpassant() {
	if p.hasEnpassant {
		p.hash ^= zobristEnpassant[p.epSquare.File()]
		p.hasEnpassant = false
	}
}

func (p *Position) setEnpassant(sq Square) {
	p.clearEnpassant()
	p.hasEnpassant = true
	p.epSquare = sq
	p.hash ^= zobristEnpassant[sq.File()]
}

// castleRightsLost returns the castling rights that moving or capturing on
// sq revokes: the corresponding home-rook right, or a king's both rights.
func (p *Position) castleRightsLost(sq Square) Castle {
	var lost Castle
	for c := ColorMinValue; c <= ColorMaxValue; c++ {
		if sq == p.kingSquare[c] {
			if c == White {
				lost |= WhiteOO | WhiteOOO
			} else {
				lost |= BlackOO | BlackOOO
			}
		}
		for _, side := range [...]CastlingSide{KingSide, QueenSide} {
			if sq == p.rookHome[c][side] {
				lost |= castleBit(c, side)
			}
		}
	}
	return lost
}

func castleBit(c Color, side CastlingSide) Castle {
	switch {
	case c == White && side == KingSide:
		return WhiteOO
	case c == White && side == QueenSide:
		return WhiteOOO
	case c == Black && side == KingSide:
		return BlackOO
	default:
		return BlackOOO
	}
}

// CanCastle reports whether c still holds the right to castle on side,
// irrespective of whether the path is currently clear or safe.
func (p *Position) CanCastle(c Color, side CastlingSide) bool {
	return p.castle&castleBit(c, side) != 0
}

// IsUnderCheck reports whether c's king is attacked in the current position.
func (p *Position) IsUnderCheck(c Color) bool {
	return p.IsSquareAttacked(p.kingSquare[c], c.Opposite())
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	occ := p.Occupied()
	if KnightAttack(sq)&p.PiecesOf(by, Knight) != 0 {
		return true
	}
	if KingAttack(sq)&p.PiecesOf(by, King) != 0 {
		return true
	}
	// A pawn of color `by` attacks sq if sq is one of the squares a pawn on
	// sq of the opposite color would itself attack -- attacks are symmetric
	// under that reflection.
	if PawnAttack(by.Opposite(), sq)&p.PiecesOf(by, Pawn) != 0 {
		return true
	}
	bishops := p.PiecesOf(by, Bishop) | p.PiecesOf(by, Queen)
	if BishopAttack(sq, occ)&bishops != 0 {
		return true
	}
	rooks := p.PiecesOf(by, Rook) | p.PiecesOf(by, Queen)
	if RookAttack(sq, occ)&rooks != 0 {
		return true
	}
	return false
}

// AttackersTo returns every piece of either color attacking sq given the
// current occupancy; used by SEE.
func (p *Position) AttackersTo(sq Square, occ Bitboard) Bitboard {
	var attackers Bitboard
	attackers |= KnightAttack(sq) & p.byPiece[Knight]
	attackers |= KingAttack(sq) & p.byPiece[King]
	attackers |= PawnAttack(White, sq) & p.PiecesOf(Black, Pawn)
	attackers |= PawnAttack(Black, sq) & p.PiecesOf(White, Pawn)
	bishopsQueens := p.byPiece[Bishop] | p.byPiece[Queen]
	attackers |= BishopAttack(sq, occ) & bishopsQueens
	rooksQueens := p.byPiece[Rook] | p.byPiece[Queen]
	attackers |= RookAttack(sq, occ) & rooksQueens
	return attackers & occ
}

// DoMove applies m, following this contract:
//  1. save irreversible state (castle rights, en-passant, halfmove clock,
//     captured piece) for UndoMove;
//  2. remove any captured piece (including the en-passant victim, which
//     does not sit on the destination square);
//  3. move the acting piece off From;
//  4. for castling, also move the rook; for promotion, place the promoted
//     piece instead of the pawn;
//  5. place the acting (or promoted) piece on To;
//  6. revoke castling rights touched by the king/rook movement on From, To
//     or a captured rook's home square;
//  7. set or clear the en-passant target (set only on a double push);
//  8. update the halfmove clock (reset on pawn move or capture);
//  9. flip the side to move and push the undo record.
func (p *Position) DoMove(m Move) {
	st := undoState{
		move:          m,
		castle:        p.castle,
		hasEnpassant:  p.hasEnpassant,
		epSquare:      p.epSquare,
		halfmoveClock: p.halfmoveClock,
		hash:          p.hash,
		capturedPiece: m.Captured,
	}

	us := p.sideToMove
	resetClock := m.Piece == Pawn || m.IsCapture()

	// Castling rights touched by this move are computed from the
	// pre-move board (From/To/captured-rook squares), since put/remove
	// below mutate kingSquare as a side effect.
	var lost Castle
	switch m.Kind {
	case KindCastling:
		lost = p.castleRightsLost(m.From)
	case KindDefault, KindPromotion:
		lost = p.castleRightsLost(m.From) | p.castleRightsLost(m.To)
	}

	switch m.Kind {
	case KindNull:
		// no board change.
	case KindCastling:
		p.remove(m.From)
		p.put(us, King, m.To)
		p.remove(m.RookFrom)
		p.put(us, Rook, m.RookTo)
	case KindEnPassant:
		capSq := m.EnPassantCaptureSquare()
		p.remove(capSq)
		p.remove(m.From)
		p.put(us, Pawn, m.To)
	case KindPromotion:
		if m.Captured != NoPiece {
			p.remove(m.To)
		}
		p.remove(m.From)
		p.put(us, m.Promoted, m.To)
	case KindDoublePush:
		p.remove(m.From)
		p.put(us, Pawn, m.To)
	default: // KindDefault
		if m.Captured != NoPiece {
			p.remove(m.To)
		}
		p.remove(m.From)
		p.put(us, m.Piece, m.To)
	}

	if lost != 0 {
		p.setCastle(p.castle &^ lost)
	}

	if m.Kind == KindDoublePush {
		var epSq Square
		if us == White {
			epSq = m.From + 8
		} else {
			epSq = m.From - 8
		}
		// Only toggle the en-passant key when an enemy pawn could actually
		// capture there; otherwise two positions reachable by different
		// double pushes but with no capture available would hash
		// differently for no legal-move-relevant reason.
		if PawnAttack(us, epSq)&p.PiecesOf(us.Opposite(), Pawn) != 0 {
			p.setEnpassant(epSq)
		} else {
			p.clearEnpassant()
		}
	} else {
		p.clearEnpassant()
	}

	if resetClock {
		p.halfmoveClock = 0
	} else {
		p.halfmoveClock++
	}

	p.hash ^= zobristColor[White] ^ zobristColor[Black]
	p.sideToMove = us.Opposite()
	if us == Black {
		p.fullmoveNumber++
	}

	p.history = append(p.history, st)
}

// UndoMove reverses the most recent DoMove, using the move and state that
// DoMove recorded on the history stack.
func (p *Position) UndoMove() {
	n := len(p.history)
	st := p.history[n-1]
	p.history = p.history[:n-1]

	m := st.move
	p.sideToMove = p.sideToMove.Opposite()
	if p.sideToMove == Black {
		p.fullmoveNumber--
	}
	us := p.sideToMove

	switch m.Kind {
	case KindNull:
	case KindCastling:
		p.remove(m.To)
		p.put(us, King, m.From)
		p.remove(m.RookTo)
		p.put(us, Rook, m.RookFrom)
	case KindEnPassant:
		p.remove(m.To)
		p.put(us, Pawn, m.From)
		p.put(us.Opposite(), Pawn, m.EnPassantCaptureSquare())
	case KindPromotion:
		p.remove(m.To)
		p.put(us, Pawn, m.From)
		if m.Captured != NoPiece {
			p.put(us.Opposite(), m.Captured, m.To)
		}
	case KindDoublePush:
		p.remove(m.To)
		p.put(us, Pawn, m.From)
	default:
		p.remove(m.To)
		p.put(us, m.Piece, m.From)
		if m.Captured != NoPiece {
			p.put(us.Opposite(), m.Captured, m.To)
		}
	}

	p.castle = st.castle
	p.hasEnpassant = st.hasEnpassant
	p.epSquare = st.epSquare
	p.halfmoveClock = st.halfmoveClock
	p.hash = st.hash
}

// DetectRepetition reports whether the current position has occurred
// before in this game at least n times (not counting the current ply),
// scanning back only as far as the last capture, pawn move or castle,
// since repetition cannot cross one.
func (p *Position) DetectRepetition(n int) bool {
	count := 0
	h := p.hash
	for i := len(p.history) - 1; i >= 0; i-- {
		st := p.history[i]
		if st.hash == h {
			count++
			if count >= n {
				return true
			}
		}
		if st.move.Piece == Pawn || st.move.IsCapture() || st.move.Kind == KindCastling {
			break
		}
	}
	return false
}

// IsDraw reports whether the position is a draw by the fifty-move rule or
// threefold repetition.
func (p *Position) IsDraw() bool {
	if p.halfmoveClock >= 100 {
		return true
	}
	return p.DetectRepetition(2)
}
