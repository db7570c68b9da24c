// fen.go parses and renders Forsyth-Edwards Notation. Parsing follows the
// field-by-field approach of the teacher's PositionFromFEN, extended to
// also derive king squares and each rook's home square (needed for
// Chess960-style castling bookkeeping) and to compute the Zobrist hash
// from scratch instead of leaving it implicit.
package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// PositionFromFEN parses a FEN string into a fresh Position.
func PositionFromFEN(fen string) (*Position, error) {
	fld := strings.Fields(fen)
	if len(fld) < 4 {
		return nil, fmt.Errorf("fen: expected at least 4 fields, got %d", len(fld))
	}

	p := NewPosition()

	ranks := strings.Split(fld[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen: expected 8 ranks, got %d", len(ranks))
	}
	for r := range ranks {
		sq := RankFile(7-r, 0)
		for _, ch := range ranks[r] {
			if ch >= '1' && ch <= '8' {
				sq = sq.Relative(0, int(ch-'0'))
				continue
			}
			cp, ok := symbolToColoredPiece[ch]
			if !ok {
				return nil, fmt.Errorf("fen: unhandled piece symbol %q", string(ch))
			}
			p.put(cp.Color(), cp.Piece(), sq)
			sq = sq.Relative(0, 1)
		}
	}

	switch fld[1] {
	case "w":
		p.sideToMove = White
	case "b":
		p.sideToMove = Black
		p.hash ^= zobristColor[White] ^ zobristColor[Black]
	default:
		return nil, fmt.Errorf("fen: unknown side to move %q", fld[1])
	}

	var castle Castle
	if fld[2] != "-" {
		for _, ch := range fld[2] {
			switch ch {
			case 'K':
				castle |= WhiteOO
			case 'Q':
				castle |= WhiteOOO
			case 'k':
				castle |= BlackOO
			case 'q':
				castle |= BlackOOO
			default:
				return nil, fmt.Errorf("fen: unhandled castling symbol %q", string(ch))
			}
		}
	}
	p.castle = castle
	p.hash ^= zobristCastle[p.castle]

	if fld[3] != "-" {
		sq, err := SquareFromString(fld[3])
		if err != nil {
			return nil, fmt.Errorf("fen: %w", err)
		}
		p.hasEnpassant = true
		p.epSquare = sq
		p.hash ^= zobristEnpassant[sq.File()]
	}

	if len(fld) > 4 {
		n, err := strconv.Atoi(fld[4])
		if err != nil {
			return nil, fmt.Errorf("fen: bad halfmove clock %q", fld[4])
		}
		p.halfmoveClock = n
	}
	if len(fld) > 5 {
		n, err := strconv.Atoi(fld[5])
		if err != nil {
			return nil, fmt.Errorf("fen: bad fullmove number %q", fld[5])
		}
		p.fullmoveNumber = n
	} else {
		p.fullmoveNumber = 1
	}

	deriveRookHomes(p)
	return p, nil
}

// deriveRookHomes infers each color's corner rook squares from the current
// castling rights and king/rook placement: the outermost rook on the
// king's rank in each direction the rights still permit.
func deriveRookHomes(p *Position) {
	for c := ColorMinValue; c <= ColorMaxValue; c++ {
		rank := 0
		if c == Black {
			rank = 7
		}
		rooks := p.PiecesOf(c, Rook) & RankBb(rank)
		if p.CanCastle(c, KingSide) {
			for f := 7; f >= 0; f-- {
				sq := RankFile(rank, f)
				if rooks.IsSet(sq) {
					p.rookHome[c][KingSide] = sq
					break
				}
			}
		}
		if p.CanCastle(c, QueenSide) {
			for f := 0; f < 8; f++ {
				sq := RankFile(rank, f)
				if rooks.IsSet(sq) {
					p.rookHome[c][QueenSide] = sq
					break
				}
			}
		}
	}
}

// FEN renders the position back to Forsyth-Edwards Notation.
func (p *Position) FEN() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			sq := RankFile(r, f)
			cp := p.PieceOn(sq)
			if cp == NoColoredPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(coloredPieceToSymbol[cp])
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r != 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.castle.String())

	sb.WriteByte(' ')
	if p.hasEnpassant {
		sb.WriteString(p.epSquare.String())
	} else {
		sb.WriteByte('-')
	}

	fmt.Fprintf(&sb, " %d %d", p.halfmoveClock, p.fullmoveNumber)
	return sb.String()
}
