// zobrist.go draws the random keys used to incrementally hash a Position:
// one key per (colored piece, square), one per castling-rights mask, one per
// en-passant file and one for the side to move. The generator is seeded so
// the keys -- and therefore every hash in this package -- are reproducible.
package engine

import "math/rand"

var (
	zobristPiece     [ColoredPieceArraySize][SquareArraySize]uint64
	zobristCastle    [AnyCastle + 1]uint64
	zobristEnpassant [8]uint64 // indexed by file; only toggled when a capture is actually possible
	zobristColor     [ColorArraySize]uint64
)

func init() {
	r := rand.New(rand.NewSource(1))
	rand64 := func() uint64 { return uint64(r.Int63())<<32 ^ uint64(r.Int63()) }

	for pt := PieceMinValue; pt <= PieceMaxValue; pt++ {
		for c := ColorMinValue; c <= ColorMaxValue; c++ {
			cp := MakeColoredPiece(c, pt)
			for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
				zobristPiece[cp][sq] = rand64()
			}
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rand64()
	}
	for i := range zobristEnpassant {
		zobristEnpassant[i] = rand64()
	}
	for c := ColorMinValue; c <= ColorMaxValue; c++ {
		zobristColor[c] = rand64()
	}
}

func zobristPieceKey(c Color, pt Piece, sq Square) uint64 {
	return zobristPiece[MakeColoredPiece(c, pt)][sq]
}
