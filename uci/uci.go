// Package uci implements the text command protocol over stdio: it translates
// commands into calls against the position, search, and transposition table,
// and owns the cooperative stop flag and the single search worker.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/oboro-eng/pandacore/board"
	"github.com/oboro-eng/pandacore/book"
	"github.com/oboro-eng/pandacore/engine"
)

const (
	engineName    = "PandaCore 1.0"
	engineAuthor  = "the pandacore developers"
	defaultHashMB = 64
	minHashMB     = 1
	maxHashMB     = 4096
)

// Engine is one protocol session. Exactly one search runs at a time on a
// worker goroutine; the stop flag is the only signal into it.
type Engine struct {
	In  io.Reader
	Out io.Writer

	pos      *board.Position
	tt       *engine.Table
	searcher *engine.Searcher
	stop     atomic.Bool
	worker   sync.WaitGroup
	gameHist []uint64
	openBook *book.Book

	outMu sync.Mutex
	log   *slog.Logger
}

// New creates an engine session reading stdin and writing stdout.
// Operational logging goes to stderr so the protocol stream stays clean.
func New() *Engine {
	tt := engine.NewTable(defaultHashMB)
	e := &Engine{
		In:  os.Stdin,
		Out: os.Stdout,
		tt:  tt,
		log: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}
	e.searcher = engine.NewSearcher(tt, &e.stop)
	e.setStartPosition()
	return e
}

// SetLogger replaces the operational logger.
func (e *Engine) SetLogger(l *slog.Logger) { e.log = l }

// LoadBook loads an opening book to consult before searching.
func (e *Engine) LoadBook(path string) error {
	b, err := book.Load(path)
	if err != nil {
		return err
	}
	e.openBook = b
	return nil
}

func (e *Engine) setStartPosition() {
	e.pos = board.MustParseFEN(board.StartPos)
	e.gameHist = e.gameHist[:0]
	e.gameHist = append(e.gameHist, e.pos.Hash())
}

func (e *Engine) println(a ...any) {
	e.outMu.Lock()
	fmt.Fprintln(e.Out, a...)
	e.outMu.Unlock()
}

// Run processes commands until quit or EOF. It blocks the calling goroutine;
// only the search runs elsewhere.
func (e *Engine) Run() error {
	scanner := bufio.NewScanner(e.In)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		switch strings.ToLower(tokens[0]) {
		case "uci":
			e.println("id name " + engineName)
			e.println("id author " + engineAuthor)
			e.println("option name Hash type spin default 64 min 1 max 4096")
			e.println("option name BookFile type string default <empty>")
			e.println("option name EvalFile type string default <empty>")
			e.println("uciok")
		case "isready":
			e.println("readyok")
		case "setoption":
			e.handleSetOption(line)
		case "ucinewgame":
			e.stopSearch()
			e.tt.Clear()
			e.setStartPosition()
		case "position":
			e.stopSearch()
			e.handlePosition(line)
		case "go":
			e.handleGo(line)
		case "stop":
			e.stopSearch()
		case "quit":
			e.stopSearch()
			return nil
		default:
			e.println("info string Unknown command:", line)
		}
	}
	e.stopSearch()
	return scanner.Err()
}

// stopSearch raises the stop flag and joins the worker.
func (e *Engine) stopSearch() {
	e.stop.Store(true)
	e.worker.Wait()
	e.stop.Store(false)
}

func (e *Engine) handleSetOption(line string) {
	sc := bufio.NewScanner(strings.NewReader(line))
	sc.Split(bufio.ScanWords)
	sc.Scan() // setoption

	var name, value string
	var inValue bool
	for sc.Scan() {
		tok := sc.Text()
		switch {
		case strings.EqualFold(tok, "name"):
			inValue = false
		case strings.EqualFold(tok, "value"):
			inValue = true
		case inValue:
			if value != "" {
				value += " "
			}
			value += tok
		default:
			if name != "" {
				name += " "
			}
			name += tok
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		n, err := strconv.Atoi(value)
		if err != nil {
			e.println("info string Malformed Hash value", value)
			return
		}
		if n < minHashMB {
			n = minHashMB
		}
		if n > maxHashMB {
			n = maxHashMB
		}
		e.stopSearch()
		e.tt.Resize(n)
		e.log.Info("transposition table resized", "mb", n)
	case "bookfile":
		if err := e.LoadBook(value); err != nil {
			e.log.Warn("opening book not loaded", "path", value, "err", err)
		}
	case "evalfile":
		if err := engine.UseNNUE(value, os.Getenv("PANDACORE_ORT_LIB")); err != nil {
			e.log.Warn("nnue backend not loaded, using handcrafted eval", "path", value, "err", err)
		}
	default:
		e.println("info string Unknown option", name)
	}
}

func (e *Engine) handlePosition(line string) {
	sc := bufio.NewScanner(strings.NewReader(line))
	sc.Split(bufio.ScanWords)
	sc.Scan() // position
	if !sc.Scan() {
		e.println("info string Malformed position command")
		return
	}

	var pos *board.Position
	switch strings.ToLower(sc.Text()) {
	case "startpos":
		pos = board.MustParseFEN(board.StartPos)
		sc.Scan() // advance to "moves" if present
	case "fen":
		fen := ""
		for sc.Scan() && !strings.EqualFold(sc.Text(), "moves") {
			fen += sc.Text() + " "
		}
		parsed, err := board.ParseFEN(fen)
		if err != nil {
			e.println("info string Invalid fen position:", err)
			return
		}
		pos = parsed
	default:
		e.println("info string Invalid position subcommand")
		return
	}

	e.pos = pos
	e.gameHist = e.gameHist[:0]
	e.gameHist = append(e.gameHist, pos.Hash())

	if !strings.EqualFold(sc.Text(), "moves") {
		return
	}
	for sc.Scan() {
		moveStr := strings.ToLower(sc.Text())
		m := e.pos.FindMove(moveStr)
		if m == board.NullMove {
			// Unrecognized move: stop replaying here, keep what was applied.
			e.println("info string Move", moveStr, "not found for position", e.pos.FEN())
			return
		}
		e.pos.MakeMove(m)
		e.gameHist = append(e.gameHist, e.pos.Hash())
	}
}

func parseGoLimits(line string) engine.Limits {
	var l engine.Limits
	sc := bufio.NewScanner(strings.NewReader(line))
	sc.Split(bufio.ScanWords)
	sc.Scan() // go

	readInt := func() (int, bool) {
		if !sc.Scan() {
			return 0, false
		}
		n, err := strconv.Atoi(sc.Text())
		return n, err == nil
	}
	for sc.Scan() {
		switch strings.ToLower(sc.Text()) {
		case "infinite":
			l.Infinite = true
		case "wtime":
			if n, ok := readInt(); ok {
				l.WTime = n
			}
		case "btime":
			if n, ok := readInt(); ok {
				l.BTime = n
			}
		case "winc":
			if n, ok := readInt(); ok {
				l.WInc = n
			}
		case "binc":
			if n, ok := readInt(); ok {
				l.BInc = n
			}
		case "movestogo":
			if n, ok := readInt(); ok {
				l.MovesToGo = n
			}
		case "movetime":
			if n, ok := readInt(); ok {
				l.MoveTime = n
			}
		case "depth":
			if n, ok := readInt(); ok {
				l.Depth = n
			}
		}
	}
	return l
}

func (e *Engine) handleGo(line string) {
	e.stopSearch()
	limits := parseGoLimits(line)

	if e.openBook != nil {
		if m, ok := e.openBook.ProbeLegal(e.pos); ok {
			e.println("bestmove " + m.String())
			return
		}
	}

	searchID := uuid.NewString()
	e.log.Debug("search started", "id", searchID, "fen", e.pos.FEN(), "limits", fmt.Sprintf("%+v", limits))

	pos := *e.pos
	hist := append([]uint64(nil), e.gameHist...)
	e.worker.Add(1)
	go func() {
		defer e.worker.Done()
		e.searcher.SetHistory(hist)
		best, _ := e.searcher.Search(&pos, limits, func(info engine.Info) {
			e.printInfo(info)
		})
		e.log.Debug("search finished", "id", searchID, "bestmove", best.String())
		e.println("bestmove " + best.String())
	}()
}

func (e *Engine) printInfo(info engine.Info) {
	score := "cp " + strconv.Itoa(int(info.Score))
	if engine.IsMateScore(info.Score) {
		score = "mate " + strconv.Itoa(engine.MatePlies(info.Score))
	}

	ms := info.Time.Milliseconds()
	if ms == 0 {
		ms = 1
	}
	nps := info.Nodes * 1000 / uint64(ms)

	var pv strings.Builder
	for _, m := range info.PV {
		pv.WriteByte(' ')
		pv.WriteString(m.String())
	}

	e.println("info depth", info.Depth,
		"score", score,
		"nodes", info.Nodes,
		"time", ms,
		"hashfull", info.Hashfull,
		"nps", nps,
		"pv"+pv.String())
}
