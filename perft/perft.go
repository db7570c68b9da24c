// Command perft counts leaf nodes of the legal move tree at a given depth,
// broken down by move kind, and checks the count against known-good data
// for a handful of canonical positions. It exists to test, debug and
// benchmark move generation independently of the search, the way the
// teacher's perft tool does (perft/perft.go): same flag surface, same
// tabular report, same "good"/"bad" comparison against recorded counts.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/mwinters/vantage/engine"
)

var (
	fenFlag      = flag.String("fen", "startpos", "position to search (a known name or a literal FEN string)")
	minDepth     = flag.Int("min_depth", 1, "minimum depth to search (inclusive)")
	maxDepth     = flag.Int("max_depth", 5, "maximum depth to search (inclusive)")
	onlyDepth    = flag.Int("depth", 0, "if non-zero, searches only this depth")
	cacheSizeLog = flag.Int("cache_size_log2", 20, "perft memo table size, as a power of two")
)

// counters tallies leaf nodes and, at the final ply, a breakdown of the
// move that produced each leaf.
type counters struct {
	nodes      uint64
	captures   uint64
	enPassants uint64
	castles    uint64
	promotions uint64
}

func (c *counters) add(o counters) {
	c.nodes += o.nodes
	c.captures += o.captures
	c.enPassants += o.enPassants
	c.castles += o.castles
	c.promotions += o.promotions
}

type cacheEntry struct {
	hash     uint64
	depth    int
	counters counters
}

// perft recurses depth plies over the legal move tree rooted at pos,
// memoizing by (hash, depth) in cache (which may be nil to disable
// memoization, as benchmarks do to measure raw move-generation cost).
func perft(pos *engine.Position, depth int, cache []cacheEntry) counters {
	if depth == 0 {
		return counters{nodes: 1}
	}
	if cache != nil {
		if e := &cache[pos.Hash()%uint64(len(cache))]; e.depth == depth && e.hash == pos.Hash() {
			return e.counters
		}
	}

	var buf [256]engine.Move
	moves := pos.LegalMoves(engine.GenAll, buf[:0])

	var r counters
	for _, m := range moves {
		if depth == 1 {
			r.nodes++
			if m.IsCapture() {
				r.captures++
			}
			switch m.Kind {
			case engine.KindEnPassant:
				r.enPassants++
			case engine.KindCastling:
				r.castles++
			case engine.KindPromotion:
				r.promotions++
			}
			continue
		}
		pos.DoMove(m)
		r.add(perft(pos, depth-1, cache))
		pos.UndoMove()
	}

	if cache != nil {
		cache[pos.Hash()%uint64(len(cache))] = cacheEntry{hash: pos.Hash(), depth: depth, counters: r}
	}
	return r
}

// checkmates counts how many of pos's legal moves lead to a position with
// no legal reply while its mover is in check.
func checkmates(pos *engine.Position) uint64 {
	var buf [256]engine.Move
	moves := pos.LegalMoves(engine.GenAll, buf[:0])
	var n uint64
	for _, m := range moves {
		pos.DoMove(m)
		if pos.IsUnderCheck(pos.SideToMove()) {
			var reply [256]engine.Move
			if len(pos.LegalMoves(engine.GenAll, reply[:0])) == 0 {
				n++
			}
		}
		pos.UndoMove()
	}
	return n
}

var knownPositions = map[string]string{
	"startpos": engine.StartFEN,
	"kiwipete": "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"duplain":  "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"promoted": "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"tricky":   "r2q1rk1/pP1p2pp/Q4n2/bbp1p3/Np6/1B3NBn/pPPP1PPP/R3K2R b KQ - 0 1",
	"promoted2": "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
}

// knownCounts holds spec-verified node counts by position name, index 0 ==
// depth 0.
var knownCounts = map[string][]counters{
	"startpos": {
		{nodes: 1},
		{nodes: 20},
		{nodes: 400},
		{nodes: 8902, captures: 34},
		{nodes: 197281, captures: 1576},
		{nodes: 4865609, captures: 82719, enPassants: 258},
		{nodes: 119060324, captures: 2812008, enPassants: 5248},
	},
	"kiwipete": {
		{nodes: 1},
		{nodes: 48, captures: 8, castles: 2},
		{nodes: 2039, captures: 351, enPassants: 1, castles: 91},
		{nodes: 97862, captures: 17102, enPassants: 45, castles: 3162},
		{nodes: 4085603, captures: 757163, enPassants: 1929, castles: 128013, promotions: 15172},
	},
	"duplain": {
		{nodes: 1},
		{nodes: 14, captures: 1},
		{nodes: 191, captures: 14},
		{nodes: 2812, captures: 209, enPassants: 2},
		{nodes: 43238, captures: 3348, enPassants: 123},
		{nodes: 674624, captures: 52051, enPassants: 1165},
		{nodes: 11030083, captures: 940350, enPassants: 33325, promotions: 7552},
	},
	"promoted": {
		{nodes: 1},
		{},
		{},
		{},
		{},
		{nodes: 15833292, enPassants: 6512},
	},
	"tricky": {
		{nodes: 1},
		{},
		{},
		{},
		{},
		{nodes: 15833292},
	},
	"promoted2": {
		{nodes: 1},
		{},
		{},
		{},
		{nodes: 2103487},
	},
}

func main() {
	flag.Parse()

	fen := *fenFlag
	var expected []counters
	if named, ok := knownPositions[fen]; ok {
		fen = named
		expected = knownCounts[*fenFlag]
	}
	if *onlyDepth != 0 {
		*minDepth, *maxDepth = *onlyDepth, *onlyDepth
	}

	pos, err := engine.PositionFromFEN(fen)
	if err != nil {
		log.Fatalf("invalid --fen: %v", err)
	}

	fmt.Printf("Searching FEN %q\n", fen)
	fmt.Printf("depth        nodes   captures enpassant castles promotions eval    KNps   elapsed\n")
	fmt.Printf("-----+------------+----------+---------+-------+----------+----+--------+-------\n")

	cache := make([]cacheEntry, 1<<uint(*cacheSizeLog))
	for d := *minDepth; d <= *maxDepth; d++ {
		start := time.Now()
		c := perft(pos, d, cache)
		elapsed := time.Since(start)

		status := ""
		if d < len(expected) {
			if c == expected[d] {
				status = "good"
			} else {
				status = "bad"
			}
		}

		fmt.Printf("   %2d %12d %10d %9d %7d %10d %-4s %7.0f %v\n",
			d, c.nodes, c.captures, c.enPassants, c.castles, c.promotions,
			status, float64(c.nodes)/elapsed.Seconds()/1e3, elapsed)

		if status == "bad" {
			e := expected[d]
			fmt.Printf("   %2d %12d %10d %9d %7d %10d expected\n",
				d, e.nodes, e.captures, e.enPassants, e.castles, e.promotions)
			break
		}
	}
}
