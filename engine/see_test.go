package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSeeWinningCapture: a rook takes an undefended pawn. The exchange
// nets a full pawn, so SEE reports at least a 1-centipawn gain and, more
// specifically, at least seeValue[Pawn].
func TestSeeWinningCapture(t *testing.T) {
	p, err := PositionFromFEN("4k3/8/8/3p4/8/8/8/3R3K w - - 0 1")
	require.NoError(t, err)

	m, err := p.ParseMove("d1d5")
	require.NoError(t, err)

	assert.True(t, p.StaticExchangeEvaluation(m, seeValue[Pawn]))
	assert.False(t, p.StaticExchangeEvaluation(m, seeValue[Pawn]+1))
}

// TestSeeLosingCapture: a queen captures a pawn defended by a rook. Giving
// up a queen for a pawn is a clear loss, so SEE must reject any positive
// threshold.
func TestSeeLosingCapture(t *testing.T) {
	// A rook on h5 defends the pawn along the open fifth rank, so trading
	// the queen for the pawn loses material once the rook recaptures.
	p, err := PositionFromFEN("4k3/8/8/3p3r/8/8/8/3Q3K w - - 0 1")
	require.NoError(t, err)

	m, err := p.ParseMove("d1d5")
	require.NoError(t, err)

	assert.False(t, p.StaticExchangeEvaluation(m, 1))
}

func TestSeeCastlingAndNullAlwaysPass(t *testing.T) {
	p, err := PositionFromFEN(StartFEN)
	require.NoError(t, err)

	assert.True(t, p.StaticExchangeEvaluation(NullMove, 1000000))
	castling := Move{Kind: KindCastling, From: SquareE1, To: SquareG1}
	assert.True(t, p.StaticExchangeEvaluation(castling, 1000000))
}
