package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestZeroWindowConsistency checks invariant 6: searching a non-PV node
// with a one-point window (alpha, alpha+1) returns a score that is never
// strictly between the bounds -- it must fail low (<= alpha) or high
// (>= alpha+1).
func TestZeroWindowConsistency(t *testing.T) {
	p, err := PositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	tt := NewTranspositionTable(16)
	s := NewSearcher(tt, nil, nil)

	for alpha := int32(-50); alpha <= 50; alpha += 25 {
		tt.Clear()
		s.nodes = 0
		s.stopped = false
		s.pv.Clear()
		s.killers.Clear()
		s.history.Clear()

		score := s.pvSearch(p, alpha, alpha+1, 4, 0, false, true)
		assert.True(t, score <= alpha || score >= alpha+1,
			"zero-window search returned %d strictly inside (%d, %d)", score, alpha, alpha+1)
	}
}

// TestSearchFindsMateInOne checks that a forced mate in one ply is found
// and reported with a mate score, exercising the search's terminal-node
// scoring rather than its pruning.
func TestSearchFindsMateInOne(t *testing.T) {
	// White to move: Ra1-a8 is a back-rank checkmate (black king boxed in
	// by its own pawns, the whole eighth rank swept by the rook).
	p, err := PositionFromFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	require.NoError(t, err)

	tt := NewTranspositionTable(16)
	s := NewSearcher(tt, nil, nil)
	best, score := s.Search(p, 3)

	assert.Equal(t, "a1a8", best.UCI())
	assert.True(t, isMateScore(score), "expected a mate score, got %d", score)
}

// TestSearchTacticalPositions exercises the two end-to-end positions from
// the suite's tactical test vectors. Skipped in -short mode since each
// takes a real fraction of a second even at a modest depth.
func TestSearchTacticalPositions(t *testing.T) {
	if testing.Short() {
		t.Skip("tactical search is slow; skipped in -short mode")
	}

	cases := []struct {
		fen  string
		want string
	}{
		{"1k1r4/pp1b1R2/3q2pp/4p3/2B5/4Q3/PPP2B2/2K5 b - - 0 1", "d6d1"},
		{"8/k7/3p4/p2P1p2/P2P1P2/8/8/K7 w - - 0 1", "a1b1"},
	}

	for _, c := range cases {
		p, err := PositionFromFEN(c.fen)
		require.NoError(t, err)

		tt := NewTranspositionTable(18)
		stop := NewStoppable(NewTimeBudget(3000 * time.Millisecond))
		s := NewSearcher(tt, stop, nil)
		best, _ := s.Search(p, 0)

		assert.Equal(t, c.want, best.UCI(), "position %q", c.fen)
	}
}

func TestSearchStopsOnStoppable(t *testing.T) {
	p, err := PositionFromFEN(StartFEN)
	require.NoError(t, err)

	tt := NewTranspositionTable(16)
	stop := NewStoppable(nil)
	stop.Stop() // trips before the first node is even searched
	s := NewSearcher(tt, stop, nil)

	best, _ := s.Search(p, 10)
	assert.True(t, best.IsNone(), "a search stopped before depth 1 completes should report no move")
}

func TestNonPawnMaterial(t *testing.T) {
	p, err := PositionFromFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.False(t, nonPawnMaterial(p, White), "king and pawns only")

	p2, err := PositionFromFEN("4k3/8/8/8/8/8/4N3/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, nonPawnMaterial(p2, White))
}

func TestContainsMove(t *testing.T) {
	p, err := PositionFromFEN(StartFEN)
	require.NoError(t, err)
	var buf [256]Move
	moves := p.Generate(GenAll, buf[:0])

	m, err := p.ParseMove("e2e4")
	require.NoError(t, err)
	assert.True(t, containsMove(moves, m))
	assert.False(t, containsMove(moves, NoMove))
}
