package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSlidingAttacksMatchMagicLookup checks invariant 4: for a sample of
// squares and occupancies, the magic-bitboard lookup agrees with the
// reference ray-enumeration function the magic tables were built from.
func TestSlidingAttacksMatchMagicLookup(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		for i := 0; i < 200; i++ {
			occ := Bitboard(rng.Uint64())

			wantRook := slidingAttack(sq, rookDeltas, occ)
			assert.Equal(t, wantRook, RookAttack(sq, occ), "rook attack mismatch at %v", sq)

			wantBishop := slidingAttack(sq, bishopDeltas, occ)
			assert.Equal(t, wantBishop, BishopAttack(sq, occ), "bishop attack mismatch at %v", sq)
		}
	}
}

func TestQueenAttackIsUnionOfRookAndBishop(t *testing.T) {
	occ := Bitboard(0x00FF00000000FF00)
	sq := SquareD4
	assert.Equal(t, RookAttack(sq, occ)|BishopAttack(sq, occ), QueenAttack(sq, occ))
}

func TestBetweenAndLine(t *testing.T) {
	// a1..h8 diagonal: the squares strictly between a1 and d4 are b2, c3.
	between := Between(SquareA1, SquareD4)
	assert.True(t, between.IsSet(SquareB2))
	assert.True(t, between.IsSet(SquareC3))
	assert.False(t, between.IsSet(SquareD4))
	assert.False(t, between.IsSet(SquareA1))

	// Unaligned squares have no between/line set.
	assert.Equal(t, BbEmpty, Between(SquareA1, SquareB3))
	assert.Equal(t, BbEmpty, Line(SquareA1, SquareB3))

	line := Line(SquareA1, SquareD4)
	assert.True(t, line.IsSet(SquareA1))
	assert.True(t, line.IsSet(SquareH8))
}

func TestKnightAndKingAttacksAreSymmetric(t *testing.T) {
	// A knight on d4 attacks b3; a knight on b3 attacks d4.
	assert.True(t, KnightAttack(SquareD4).IsSet(SquareB3))
	assert.True(t, KnightAttack(SquareB3).IsSet(SquareD4))

	assert.True(t, KingAttack(SquareD4).IsSet(SquareE5))
	assert.True(t, KingAttack(SquareE5).IsSet(SquareD4))
}
