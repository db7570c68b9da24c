// Command vantage is a minimal UCI-style console front-end around the
// engine package: it reads commands from stdin and drives a single
// Searcher against a single Position, the way the teacher's zurichess
// binary wires its UCI type around a Position (src/zurichess/uci.go),
// enriched with the richer command set (isready, ucinewgame, stop,
// movetime) the console drivers in the wider pack support.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mwinters/vantage/engine"
	"github.com/seekerror/logw"
)

var (
	ttSizeLog2   = flag.Int("tt_size_log2", engine.DefaultTTSizeLog2, "transposition table size, log2 of entry count")
	defaultDepth = flag.Int("depth", 6, "search depth used by 'go' when neither depth nor movetime is given")
)

const (
	engineName   = "vantage"
	engineAuthor = "vantage contributors"
)

// driver owns the mutable state of one console session: the current
// position, the shared transposition table, and the Stoppable exit
// condition a concurrent "stop" command trips. Grounded on the shape of
// the teacher's UCI struct (uci.go), generalized to support a
// concurrently issued stop the way herohde-morlock's console.Driver does
// (console.go), since this engine's ExitCondition contract assumes one.
type driver struct {
	ctx context.Context
	tt  *engine.TranspositionTable
	pos *engine.Position

	// searchMu serializes access to stop and pos against a concurrently
	// running "go": the search itself runs on its own goroutine so that a
	// "stop" line read from stdin while a search is in flight can reach
	// Stoppable.Stop() without waiting for the search to finish first.
	searchMu sync.Mutex
	stop     *engine.Stoppable
	running  sync.WaitGroup
}

func newDriver(ctx context.Context) *driver {
	d := &driver{
		ctx: ctx,
		tt:  engine.NewTranspositionTable(*ttSizeLog2),
	}
	d.reset()
	return d
}

func (d *driver) reset() {
	pos, err := engine.PositionFromFEN(engine.StartFEN)
	if err != nil {
		panic(err) // StartFEN is a compile-time constant; it must parse.
	}
	d.pos = pos
	d.tt.Clear()
}

// setPosition replaces d.pos with fen, then replays moves (in UCI long
// algebraic form) against it, matching the teacher's "position" handler.
func (d *driver) setPosition(fen string, moves []string) error {
	pos, err := engine.PositionFromFEN(fen)
	if err != nil {
		return fmt.Errorf("invalid FEN %q: %w", fen, err)
	}
	for _, s := range moves {
		m, err := pos.ParseMove(s)
		if err != nil {
			return fmt.Errorf("invalid move %q: %w", s, err)
		}
		pos.DoMove(m)
	}
	d.pos = pos
	return nil
}

// events adapts the engine's SearchEvents notifications to UCI "info"
// lines and the final "bestmove" line.
type events struct {
	depth int
	score int32
}

func (e *events) DepthInfo(depth int)       { e.depth = depth }
func (e *events) ScoreInfo(score int32)     { e.score = score }
func (e *events) NodesPerSecond(nps uint64) {}

func (e *events) PrincipalVariation(best engine.Move, pv []engine.Move) {
	line := make([]string, 0, len(pv))
	for _, m := range pv {
		line = append(line, m.UCI())
	}
	fmt.Printf("info depth %d score cp %d pv %s\n", e.depth, e.score, strings.Join(line, " "))
}

func (e *events) BestMove(best engine.Move) {
	if best.IsNone() {
		fmt.Println("bestmove 0000")
		return
	}
	fmt.Printf("bestmove %s\n", best.UCI())
}

// goParams are the "go" command's recognized arguments: at most one of
// Depth and MoveTime is meaningful, MoveTime taking precedence, matching
// how spec's ComputeBestMove treats depth and time_ms as alternatives.
type goParams struct {
	depth    int
	moveTime time.Duration
}

func parseGo(args []string) goParams {
	g := goParams{depth: *defaultDepth}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				if n, err := strconv.Atoi(args[i+1]); err == nil {
					g.depth = n
				}
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				if n, err := strconv.Atoi(args[i+1]); err == nil {
					g.moveTime = time.Duration(n) * time.Millisecond
				}
				i++
			}
		}
	}
	if g.moveTime > 0 {
		g.depth = 0
	}
	return g
}

// stopCurrent signals any in-flight search to abort and blocks until its
// goroutine has returned, so the caller may safely mutate d.pos afterward.
func (d *driver) stopCurrent() {
	d.searchMu.Lock()
	if d.stop != nil {
		d.stop.Stop()
	}
	d.searchMu.Unlock()
	d.running.Wait()
}

// compute launches ComputeBestMove on its own goroutine: a depth-limited or
// time-limited search, stoppable via d.stop from a concurrently read "stop"
// command, reporting progress and the final move through sink. It returns
// immediately so the caller's stdin-reading loop keeps draining commands
// while the search runs, matching this engine's single-search/concurrent-
// front-end concurrency model (spec's front-end-thread-sets-a-flag design).
func (d *driver) compute(g goParams, sink *events) {
	d.stopCurrent()

	var exit engine.ExitCondition = engine.NeverExit{}
	if g.moveTime > 0 {
		exit = engine.NewTimeBudget(g.moveTime)
	}

	d.searchMu.Lock()
	d.stop = engine.NewStoppable(exit)
	stop := d.stop
	pos := d.pos
	d.searchMu.Unlock()

	d.running.Add(1)
	go func() {
		defer d.running.Done()
		// Searcher.Search treats a non-positive depth as "search until
		// exit fires", which is what a plain "go movetime N" wants.
		s := engine.NewSearcher(d.tt, stop, sink)
		best, _ := s.Search(pos, g.depth)
		logw.Infof(d.ctx, "search finished: depth=%d nodes=%d move=%s", g.depth, s.Nodes(), best.UCI())
	}()
}

// execute dispatches one UCI-style command line. It returns io.EOF when
// the session should end (a "quit" command).
func (d *driver) execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "uci":
		fmt.Printf("id name %s\n", engineName)
		fmt.Printf("id author %s\n", engineAuthor)
		fmt.Println("uciok")
	case "isready":
		fmt.Println("readyok")
	case "ucinewgame":
		d.stopCurrent()
		d.reset()
	case "position":
		d.stopCurrent()
		return d.handlePosition(args)
	case "go":
		g := parseGo(args)
		d.compute(g, &events{})
	case "stop":
		d.searchMu.Lock()
		if d.stop != nil {
			d.stop.Stop()
		}
		d.searchMu.Unlock()
	case "quit":
		return io.EOF
	default:
		logw.Warningf(d.ctx, "unrecognized command: %q", line)
	}
	return nil
}

func (d *driver) handlePosition(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("'position' requires an argument")
	}

	fen := engine.StartFEN
	rest := args[1:]
	if args[0] != "startpos" {
		// FEN is six space-separated fields; collect them before looking
		// for an optional trailing "moves" keyword.
		if len(args) < 6 {
			return fmt.Errorf("malformed FEN in 'position': %q", strings.Join(args, " "))
		}
		fen = strings.Join(args[:6], " ")
		rest = args[6:]
	}

	var moves []string
	if len(rest) > 0 {
		if rest[0] != "moves" {
			return fmt.Errorf("expected 'moves', got %q", rest[0])
		}
		moves = rest[1:]
	}
	return d.setPosition(fen, moves)
}

func main() {
	flag.Parse()
	ctx := context.Background()

	d := newDriver(ctx)
	logw.Infof(ctx, "%s ready", engineName)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if err := d.execute(scanner.Text()); err != nil {
			if err == io.EOF {
				break
			}
			logw.Errorf(ctx, "%v", err)
		}
	}
	if err := scanner.Err(); err != nil {
		logw.Errorf(ctx, "input stream error: %v", err)
	}
	d.stopCurrent()
}
