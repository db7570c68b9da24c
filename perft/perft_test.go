package main

import (
	"testing"

	"github.com/mwinters/vantage/engine"
)

func testPerft(t *testing.T, fen string, expected []counters) {
	t.Helper()
	for depth, want := range expected {
		if testing.Short() && want.nodes > 200000 {
			return
		}

		pos, err := engine.PositionFromFEN(fen)
		if err != nil {
			t.Fatalf("invalid FEN %q: %v", fen, err)
		}

		got := perft(pos, depth, nil)
		if got != want {
			t.Errorf("%s depth %d: got %+v, want %+v", fen, depth, got, want)
		}
	}
}

func TestPerftStartpos(t *testing.T) {
	testPerft(t, engine.StartFEN, knownCounts["startpos"][:6])
}

func TestPerftKiwipete(t *testing.T) {
	testPerft(t, knownPositions["kiwipete"], knownCounts["kiwipete"])
}

func TestPerftDuplain(t *testing.T) {
	testPerft(t, knownPositions["duplain"], knownCounts["duplain"])
}

// testPerftAt checks a single depth's node count (and, where recorded, its
// en-passant breakdown), for spec positions whose known counts are only
// published at one depth rather than for every depth up to it.
func testPerftAt(t *testing.T, fen string, depth int, want counters) {
	t.Helper()
	if testing.Short() && want.nodes > 200000 {
		return
	}
	pos, err := engine.PositionFromFEN(fen)
	if err != nil {
		t.Fatalf("invalid FEN %q: %v", fen, err)
	}
	got := perft(pos, depth, nil)
	if got != want {
		t.Errorf("%s depth %d: got %+v, want %+v", fen, depth, got, want)
	}
}

func TestPerftPromoted(t *testing.T) {
	testPerftAt(t, knownPositions["promoted"], 5, counters{nodes: 15833292, enPassants: 6512})
}

func TestPerftTricky(t *testing.T) {
	testPerftAt(t, knownPositions["tricky"], 5, counters{nodes: 15833292})
}

func TestPerftPromoted2(t *testing.T) {
	testPerftAt(t, knownPositions["promoted2"], 4, counters{nodes: 2103487})
}

// TestPerftCheckmateCounts exercises the tactical positions in the suite
// that report how many legal moves at a ply deliver checkmate, alongside
// the plain node count.
func TestPerftCheckmateCounts(t *testing.T) {
	cases := []struct {
		fen       string
		depth     int
		wantNodes uint64
		wantMates uint64
	}{
		{
			fen:       knownPositions["kiwipete"],
			depth:     4,
			wantNodes: 4085603,
			wantMates: 1,
		},
		{
			fen:       knownPositions["duplain"],
			depth:     5,
			wantNodes: 674624,
			wantMates: 17,
		},
	}

	for _, c := range cases {
		pos, err := engine.PositionFromFEN(c.fen)
		if err != nil {
			t.Fatalf("invalid FEN %q: %v", c.fen, err)
		}
		got := perft(pos, c.depth, nil)
		if got.nodes != c.wantNodes {
			t.Errorf("%s depth %d: got %d nodes, want %d", c.fen, c.depth, got.nodes, c.wantNodes)
		}

		mates := countMatesAtDepth(pos, c.depth)
		if mates != c.wantMates {
			t.Errorf("%s depth %d: got %d mates, want %d", c.fen, c.depth, mates, c.wantMates)
		}
	}
}

// countMatesAtDepth counts the checkmated positions among the nodes
// depth-1 plies below pos (the last interior ply of a depth-ply perft
// tree): it descends depth-2 plies along every legal line, then counts
// the moves that deliver checkmate. This is how the suite's "N mates at
// depth d" figures are recorded.
func countMatesAtDepth(pos *engine.Position, depth int) uint64 {
	if depth <= 2 {
		return checkmates(pos)
	}
	var buf [256]engine.Move
	moves := pos.LegalMoves(engine.GenAll, buf[:0])
	var n uint64
	for _, m := range moves {
		pos.DoMove(m)
		n += countMatesAtDepth(pos, depth-1)
		pos.UndoMove()
	}
	return n
}

func BenchmarkPerftStartpos(b *testing.B) {
	pos, _ := engine.PositionFromFEN(engine.StartFEN)
	for i := 0; i < b.N; i++ {
		perft(pos, 4, nil)
	}
}

func BenchmarkPerftKiwipete(b *testing.B) {
	pos, _ := engine.PositionFromFEN(knownPositions["kiwipete"])
	for i := 0; i < b.N; i++ {
		perft(pos, 3, nil)
	}
}
