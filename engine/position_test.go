package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recomputeHash rebuilds a position's Zobrist hash from scratch off its
// board, castling rights, en-passant square and side to move, independent
// of the incremental updates DoMove/UndoMove perform.
func recomputeHash(p *Position) uint64 {
	var h uint64
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		cp := p.PieceOn(sq)
		if cp == NoColoredPiece {
			continue
		}
		h ^= zobristPieceKey(cp.Color(), cp.Piece(), sq)
	}
	h ^= zobristCastle[p.castle]
	if p.hasEnpassant {
		h ^= zobristEnpassant[p.epSquare.File()]
	}
	if p.sideToMove == Black {
		h ^= zobristColor[White] ^ zobristColor[Black]
	}
	return h
}

func TestHashIncrementalMatchesRecomputed(t *testing.T) {
	positions := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range positions {
		p, err := PositionFromFEN(fen)
		require.NoError(t, err)
		assert.Equal(t, recomputeHash(p), p.Hash(), "fen %q", fen)
	}
}

// TestDoUndoSymmetry plays every legal move three plies deep from a set of
// positions and checks that undoing restores the exact FEN and hash,
// exercising invariant 1 over a broader sample than a single position.
func TestDoUndoSymmetry(t *testing.T) {
	var walk func(t *testing.T, p *Position, depth int)
	walk = func(t *testing.T, p *Position, depth int) {
		if depth == 0 {
			return
		}
		var buf [256]Move
		moves := p.LegalMoves(GenAll, buf[:0])
		for _, m := range moves {
			fenBefore := p.FEN()
			hashBefore := p.Hash()

			p.DoMove(m)
			walk(t, p, depth-1)
			p.UndoMove()

			assert.Equal(t, fenBefore, p.FEN(), "move %v did not undo cleanly", m)
			assert.Equal(t, hashBefore, p.Hash(), "move %v left a stale hash", m)
		}
	}

	positions := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range positions {
		p, err := PositionFromFEN(fen)
		require.NoError(t, err)
		walk(t, p, 3)
	}
}

// TestBitboardMailboxConsistency checks invariant 3: every square's
// mailbox entry agrees with the per-color and per-piece bitboards, which
// in turn partition the board by color and by type.
func TestBitboardMailboxConsistency(t *testing.T) {
	p, err := PositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	var seenByColor [ColorArraySize]Bitboard
	var seenByPiece [PieceArraySize]Bitboard
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		cp := p.PieceOn(sq)
		occupied := p.Occupied().IsSet(sq)
		assert.Equal(t, cp != NoColoredPiece, occupied, "square %v mailbox/occupancy mismatch", sq)
		if cp == NoColoredPiece {
			continue
		}
		c, pt := cp.Color(), cp.Piece()
		assert.True(t, p.ByColor(c).IsSet(sq))
		assert.True(t, p.ByPiece(pt).IsSet(sq))
		seenByColor[c] = seenByColor[c].Set(sq)
		seenByPiece[pt] = seenByPiece[pt].Set(sq)
	}
	assert.Equal(t, seenByColor[White], p.ByColor(White))
	assert.Equal(t, seenByColor[Black], p.ByColor(Black))
	for pt := PieceMinValue; pt <= PieceMaxValue; pt++ {
		assert.Equal(t, seenByPiece[pt], p.ByPiece(pt), "piece type %v", pt)
	}
	// byPiece partitions the board by type: no square belongs to two types.
	var union Bitboard
	for pt := PieceMinValue; pt <= PieceMaxValue; pt++ {
		assert.Zero(t, union&p.ByPiece(pt), "piece type %v overlaps an earlier type", pt)
		union |= p.ByPiece(pt)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		p, err := PositionFromFEN(fen)
		require.NoError(t, err)
		assert.Equal(t, fen, p.FEN())
	}
}

func TestIsDrawFiftyMoveRule(t *testing.T) {
	p, err := PositionFromFEN("8/8/8/3k4/8/3K4/8/8 w - - 99 60")
	require.NoError(t, err)
	assert.False(t, p.IsDraw())

	m, err := p.ParseMove("d3c3")
	require.NoError(t, err)
	p.DoMove(m)
	assert.True(t, p.IsDraw(), "halfmove clock reached 100")
}
